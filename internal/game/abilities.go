package game

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// activeEffects aggregates every ability effect active this quarter.
// Multiplier effects compose multiplicatively; a zero field means no
// ability of that kind is active.
type activeEffects struct {
	RevenueMultiplier float64
	CostReduction     float64
	EXPMultiplier     float64
	HiringDiscount    float64
	EventShield       bool
}

func activeEffectsTx(ctx context.Context, tx pgx.Tx, playerID string) (activeEffects, error) {
	var out activeEffects
	rows, err := tx.Query(ctx, `
		SELECT ability_code FROM game.player_abilities
		WHERE player_id = $1 AND active_this_quarter
	`, playerID)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return out, err
		}
		spec, ok := abilityByCode(code)
		if !ok {
			continue
		}
		switch spec.Effect {
		case EffectRevenueMultiplier:
			if out.RevenueMultiplier == 0 {
				out.RevenueMultiplier = 1
			}
			out.RevenueMultiplier *= spec.Value
		case EffectCostReduction:
			if out.CostReduction == 0 {
				out.CostReduction = 1
			}
			out.CostReduction *= spec.Value
		case EffectEXPMultiplier:
			if out.EXPMultiplier == 0 {
				out.EXPMultiplier = 1
			}
			out.EXPMultiplier *= spec.Value
		case EffectHiringDiscount:
			if out.HiringDiscount == 0 {
				out.HiringDiscount = 1
			}
			out.HiringDiscount *= spec.Value
		case EffectEventPrevention:
			out.EventShield = true
		}
	}
	return out, rows.Err()
}

func hasActiveEffectTx(ctx context.Context, tx pgx.Tx, playerID string, effect EffectType) (bool, error) {
	effects, err := activeEffectsTx(ctx, tx, playerID)
	if err != nil {
		return false, err
	}
	switch effect {
	case EffectRevenueMultiplier:
		return effects.RevenueMultiplier > 0, nil
	case EffectCostReduction:
		return effects.CostReduction > 0, nil
	case EffectEXPMultiplier:
		return effects.EXPMultiplier > 0, nil
	case EffectHiringDiscount:
		return effects.HiringDiscount > 0, nil
	case EffectEventPrevention:
		return effects.EventShield, nil
	}
	return false, nil
}

// resetQuarterlyAbilitiesTx deactivates every ability at the quarter
// boundary so nothing carries over.
func resetQuarterlyAbilitiesTx(ctx context.Context, tx pgx.Tx, playerID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE game.player_abilities
		SET active_this_quarter = false
		WHERE player_id = $1 AND active_this_quarter
	`, playerID)
	return err
}

// UnlockAbility grants an ability once its discipline reaches the
// prerequisite level. Unlocking twice is a no-op, not an error.
func (s *Service) UnlockAbility(ctx context.Context, playerID, abilityCode string) (AbilityView, error) {
	spec, ok := abilityByCode(abilityCode)
	if !ok {
		return AbilityView{}, ErrAbilityNotFound
	}
	var view AbilityView
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		p, err := loadPlayerTx(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if p.DisciplineLevel(spec.Discipline) < spec.PrereqLevel {
			return ErrAbilityLocked
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO game.player_abilities (player_id, ability_code, unlocked_at, active_this_quarter, times_used)
			VALUES ($1, $2, now(), false, 0)
			ON CONFLICT (player_id, ability_code) DO NOTHING
		`, playerID, spec.Code); err != nil {
			return err
		}
		view, err = abilityViewTx(ctx, tx, playerID, spec)
		return err
	})
	if err != nil {
		return AbilityView{}, err
	}
	s.log.Info("ability unlocked", "player_id", playerID, "ability", spec.Code)
	return view, nil
}

// ActivateAbility flips the per-quarter flag and counts the use. A
// morale_boost ability pays out immediately instead of lingering as a
// passive modifier.
func (s *Service) ActivateAbility(ctx context.Context, playerID, abilityCode string) (AbilityView, error) {
	spec, ok := abilityByCode(abilityCode)
	if !ok {
		return AbilityView{}, ErrAbilityNotFound
	}
	var view AbilityView
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
			UPDATE game.player_abilities
			SET active_this_quarter = true, times_used = times_used + 1
			WHERE player_id = $1 AND ability_code = $2 AND NOT active_this_quarter
		`, playerID, spec.Code)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			// Either never unlocked or already active this quarter.
			var unlocked bool
			err := tx.QueryRow(ctx, `
				SELECT true FROM game.player_abilities
				WHERE player_id = $1 AND ability_code = $2
			`, playerID, spec.Code).Scan(&unlocked)
			if err == pgx.ErrNoRows {
				return ErrAbilityLocked
			}
			if err != nil {
				return err
			}
			view, err = abilityViewTx(ctx, tx, playerID, spec)
			return err
		}
		if spec.Effect == EffectMoraleBoost {
			resources, err := loadCompanyTx(ctx, tx, playerID)
			if err != nil {
				return err
			}
			resources.apply(0, int(spec.Value), 0)
			if err := resources.saveTx(ctx, tx); err != nil {
				return err
			}
			if err := pushNewsTx(ctx, tx, playerID, "ability", spec.Name+" lifts team morale"); err != nil {
				return err
			}
		}
		view, err = abilityViewTx(ctx, tx, playerID, spec)
		return err
	})
	if err != nil {
		return AbilityView{}, err
	}
	s.log.Info("ability activated", "player_id", playerID, "ability", spec.Code)
	return view, nil
}

func abilityViewTx(ctx context.Context, tx pgx.Tx, playerID string, spec abilitySpec) (AbilityView, error) {
	view := AbilityView{
		Code:        spec.Code,
		Name:        spec.Name,
		Discipline:  spec.Discipline,
		SubSkill:    spec.SubSkill,
		PrereqLevel: spec.PrereqLevel,
		Effect:      spec.Effect,
		Value:       spec.Value,
	}
	var active bool
	var used int
	err := tx.QueryRow(ctx, `
		SELECT active_this_quarter, times_used FROM game.player_abilities
		WHERE player_id = $1 AND ability_code = $2
	`, playerID, spec.Code).Scan(&active, &used)
	if err == pgx.ErrNoRows {
		return view, nil
	}
	if err != nil {
		return AbilityView{}, err
	}
	view.Unlocked = true
	view.Active = active
	view.TimesUsed = used
	return view, nil
}

// Abilities lists the full catalog annotated with the player's unlock and
// activation state.
func (s *Service) Abilities(ctx context.Context, playerID string) ([]AbilityView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ability_code, active_this_quarter, times_used
		FROM game.player_abilities
		WHERE player_id = $1
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	type state struct {
		active bool
		used   int
	}
	owned := make(map[string]state)
	for rows.Next() {
		var code string
		var st state
		if err := rows.Scan(&code, &st.active, &st.used); err != nil {
			return nil, err
		}
		owned[code] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]AbilityView, 0, len(abilityCatalog))
	for _, spec := range abilityCatalog {
		view := AbilityView{
			Code:        spec.Code,
			Name:        spec.Name,
			Discipline:  spec.Discipline,
			SubSkill:    spec.SubSkill,
			PrereqLevel: spec.PrereqLevel,
			Effect:      spec.Effect,
			Value:       spec.Value,
		}
		if st, ok := owned[spec.Code]; ok {
			view.Unlocked = true
			view.Active = st.active
			view.TimesUsed = st.used
		}
		out = append(out, view)
	}
	return out, nil
}
