package game

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// advisorBonusesTx sums the passive boosts every recruited advisor grants
// for a discipline. An advisor contributes when its specialty matches the
// discipline or it is unspecialized, scaled by its recruited level.
func advisorBonusesTx(ctx context.Context, tx pgx.Tx, playerID string, d Discipline) (AdvisorBonuses, error) {
	var out AdvisorBonuses
	rows, err := tx.Query(ctx, `
		SELECT advisor_code, level FROM game.player_advisors
		WHERE player_id = $1
	`, playerID)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var level int
		if err := rows.Scan(&code, &level); err != nil {
			return out, err
		}
		spec, ok := advisorByCode(code)
		if !ok {
			continue
		}
		if spec.Specialty != "" && spec.Specialty != d {
			continue
		}
		out.EXPBoostPct += spec.EXPBoost * float64(level)
		out.GoldBoostPct += spec.GoldBoost * float64(level)
		out.RepBoost += spec.RepBoost * level
	}
	return out, rows.Err()
}

// recruitCostCents scales the sticker price by recruited level; each level
// costs half the base again. An active hiring_discount ability multiplies
// the whole cost.
func recruitCostCents(spec advisorSpec, nextLevel int, hiringDiscount float64) int64 {
	cost := float64(spec.CostCents) * (1 + 0.5*float64(nextLevel-1))
	if hiringDiscount > 0 {
		cost *= hiringDiscount
	}
	return int64(cost)
}

// RecruitAdvisor hires an advisor at level 1, or raises an already
// recruited advisor one level. Blocked while the company is demoralized.
func (s *Service) RecruitAdvisor(ctx context.Context, in RecruitAdvisorInput) (RecruitAdvisorResult, error) {
	spec, ok := advisorByCode(in.AdvisorCode)
	if !ok {
		return RecruitAdvisorResult{}, ErrAdvisorNotFound
	}
	var out RecruitAdvisorResult
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		if err := claimIdempotency(ctx, tx, in.PlayerID, in.IdempotencyKey, "recruit_advisor"); err != nil {
			return err
		}
		p, err := loadPlayerTx(ctx, tx, in.PlayerID)
		if err != nil {
			return err
		}
		resources, err := loadCompanyTx(ctx, tx, in.PlayerID)
		if err != nil {
			return err
		}
		if resources.Bankrupt {
			return ErrGameOver
		}
		if resources.Morale <= 0 {
			return ErrDemoralized
		}

		level := 0
		err = tx.QueryRow(ctx, `
			SELECT level FROM game.player_advisors
			WHERE player_id = $1 AND advisor_code = $2
			FOR UPDATE
		`, in.PlayerID, spec.Code).Scan(&level)
		if err != nil && err != pgx.ErrNoRows {
			return err
		}
		if level >= spec.MaxLevel {
			return fmt.Errorf("advisor %s is already at max level %d", spec.Code, spec.MaxLevel)
		}

		effects, err := activeEffectsTx(ctx, tx, in.PlayerID)
		if err != nil {
			return err
		}
		cost := recruitCostCents(spec, level+1, effects.HiringDiscount)
		if p.CashCents < cost {
			return ErrInsufficientFunds
		}
		p.CashCents -= cost

		if _, err := tx.Exec(ctx, `
			INSERT INTO game.player_advisors (player_id, advisor_code, level, recruited_at)
			VALUES ($1, $2, 1, now())
			ON CONFLICT (player_id, advisor_code)
			DO UPDATE SET level = game.player_advisors.level + 1
		`, in.PlayerID, spec.Code); err != nil {
			return err
		}
		if err := appendTransactionIntent(ctx, tx, in.PlayerID, "recruit_advisor:"+spec.Code, -cost); err != nil {
			return err
		}
		if err := p.saveTx(ctx, tx, s.tuning.CashFloorCents); err != nil {
			return err
		}
		out = RecruitAdvisorResult{
			AdvisorCode: spec.Code,
			Level:       level + 1,
			CostCents:   cost,
			CashCents:   p.CashCents,
		}
		return pushNewsTx(ctx, tx, in.PlayerID, "advisor", spec.Name+" joins the advisory board")
	})
	if err != nil {
		return RecruitAdvisorResult{}, err
	}
	s.log.Info("advisor recruited", "player_id", in.PlayerID, "advisor", spec.Code, "level", out.Level)
	return out, nil
}

// Advisors lists the catalog annotated with the player's recruitment state.
func (s *Service) Advisors(ctx context.Context, playerID string) ([]AdvisorView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT advisor_code, level FROM game.player_advisors
		WHERE player_id = $1
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	recruited := make(map[string]int)
	for rows.Next() {
		var code string
		var level int
		if err := rows.Scan(&code, &level); err != nil {
			return nil, err
		}
		recruited[code] = level
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]AdvisorView, 0, len(advisorCatalog))
	for _, spec := range advisorCatalog {
		view := AdvisorView{
			Code:      spec.Code,
			Name:      spec.Name,
			Specialty: spec.Specialty,
			CostCents: spec.CostCents,
			MaxLevel:  spec.MaxLevel,
		}
		if level, ok := recruited[spec.Code]; ok {
			view.Recruited = true
			view.Level = level
		}
		out = append(out, view)
	}
	return out, nil
}
