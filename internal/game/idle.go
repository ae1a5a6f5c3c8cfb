package game

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// idlePayoutCents computes accrued passive income: the hourly rate scales
// with total discipline level and the accrual window caps at eight hours,
// so an absent player returns to a bounded payout rather than a jackpot.
func idlePayoutCents(elapsedSeconds, ratePerLevelHourCents int64, totalLevel int) int64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	if elapsedSeconds > IdleAccrualCapSeconds {
		elapsedSeconds = IdleAccrualCapSeconds
	}
	return ratePerLevelHourCents * int64(totalLevel) * elapsedSeconds / 3600
}

// CollectIdle pays out income accrued since the last collection. There is
// no scheduler; elapsed time is measured lazily at call time.
func (s *Service) CollectIdle(ctx context.Context, playerID, idempotencyKey string) (IdleResult, error) {
	var out IdleResult
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		if err := claimIdempotency(ctx, tx, playerID, idempotencyKey, "collect_idle"); err != nil {
			return err
		}
		p, err := loadPlayerTx(ctx, tx, playerID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		elapsed := int64(now.Sub(p.IdleAt).Seconds())
		payout := idlePayoutCents(elapsed, s.tuning.idleRate(), p.TotalLevel())
		p.IdleAt = now
		if payout > 0 {
			p.CashCents += payout
			if err := appendTransactionIntent(ctx, tx, playerID, "idle_income", payout); err != nil {
				return err
			}
		}
		if err := p.saveTx(ctx, tx, s.tuning.CashFloorCents); err != nil {
			return err
		}
		out = IdleResult{
			CollectedCents: payout,
			ElapsedSeconds: elapsed,
			CashCents:      p.CashCents,
			CollectedAt:    now,
		}
		return nil
	})
	if err != nil {
		return IdleResult{}, err
	}
	if out.CollectedCents > 0 {
		s.log.Info("idle income collected", "player_id", playerID, "cents", out.CollectedCents)
	}
	return out, nil
}
