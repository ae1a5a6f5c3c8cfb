package game

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Prestige retires the current run: discipline progress, completions and
// the company gauges reset to their starting values, and the player keeps
// a permanent +10% EXP and gold bonus per prestige level. Cash, advisors,
// items and achievements survive the reset.
func (s *Service) Prestige(ctx context.Context, playerID, idempotencyKey string) (PrestigeResult, error) {
	var out PrestigeResult
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		if err := claimIdempotency(ctx, tx, playerID, idempotencyKey, "prestige"); err != nil {
			return err
		}
		p, err := loadPlayerTx(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if p.TotalLevel() < PrestigeTotalLevelGate {
			return ErrPrestigeLocked
		}

		p.PrestigeLevel++
		for _, d := range Disciplines {
			p.Progress[d] = &ProgressEntry{Level: 1, TotalEXP: 0}
			p.dirtyProgress[d] = true
		}
		if p.Career == CareerEmployee {
			p.JobLevel = 1
			p.JobTitle = JobTitle(p.Industry, 1)
		}

		if _, err := tx.Exec(ctx, `
			DELETE FROM game.completions WHERE player_id = $1
		`, playerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE game.player_abilities
			SET active_this_quarter = false
			WHERE player_id = $1
		`, playerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE game.company_resources
			SET capital_cents = $2, morale = $3, brand_equity = $4,
			    fiscal_quarter = 1, decisions_this_quarter = 0, bankrupt = false,
			    updated_at = now()
			WHERE player_id = $1
		`, playerID, StartCapitalCents, StartMorale, StartBrandEquity); err != nil {
			return err
		}
		if err := p.saveTx(ctx, tx, s.tuning.CashFloorCents); err != nil {
			return err
		}
		if err := checkAchievementsTx(ctx, tx, p, nil); err != nil {
			return err
		}
		if err := pushNewsTx(ctx, tx, playerID, "prestige", "A new venture begins with hard-won experience"); err != nil {
			return err
		}
		out = PrestigeResult{
			PrestigeLevel:  p.PrestigeLevel,
			EXPMultiplier:  prestigeEXPMultiplier(p.PrestigeLevel),
			GoldMultiplier: prestigeGoldMultiplier(p.PrestigeLevel),
		}
		return nil
	})
	if err != nil {
		return PrestigeResult{}, err
	}
	s.log.Info("prestige earned", "player_id", playerID, "prestige_level", out.PrestigeLevel)
	return out, nil
}
