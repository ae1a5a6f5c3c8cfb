package game

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"bizquest/internal/content"
)

// starRating scores a chosen option against the scenario's best option:
// the max-EXP choice earns 3 stars, anything at or above 70% of the max
// earns 2, the rest earn 1. Integer math keeps the 70% boundary inclusive.
func starRating(chosenEXP, maxEXP int64) int {
	if maxEXP <= 0 || chosenEXP >= maxEXP {
		return 3
	}
	if 10*chosenEXP >= 7*maxEXP {
		return 2
	}
	return 1
}

// starEXPMultiplier scales challenge base EXP by earned stars. One star
// still pays 40% so a wrong answer is never a zero-EXP outcome.
func starEXPMultiplier(stars int) float64 {
	switch {
	case stars >= 3:
		return 1.0
	case stars == 2:
		return 0.7
	default:
		return 0.4
	}
}

// rollLuckUpgrade promotes a sub-3 star rating by one step with
// probability equippedLuck x 2%. Only equipment luck feeds the roll, the
// raw luck stat does not.
func rollLuckUpgrade(stars, equippedLuck int, roll func() float64) (int, bool) {
	if stars >= 3 || equippedLuck <= 0 {
		return stars, false
	}
	chance := float64(equippedLuck*LuckUpgradePctPerPoint) / 100
	if roll() < chance {
		return stars + 1, true
	}
	return stars, false
}

// prestigeEXPMultiplier and prestigeGoldMultiplier grant +10% per earned
// prestige level, permanently.
func prestigeEXPMultiplier(prestigeLevel int) float64 {
	return 1 + PrestigeBonusPerLevel*float64(prestigeLevel)
}

func prestigeGoldMultiplier(prestigeLevel int) float64 {
	return 1 + PrestigeBonusPerLevel*float64(prestigeLevel)
}

// modifiedEXP runs base EXP through the full multiplier chain: industry
// weighting, advisor percent boost, active exp_multiplier abilities, then
// the prestige bonus. Truncation happens once, at the end.
func modifiedEXP(base int64, industry string, d Discipline, bonuses AdvisorBonuses, abilityEXPMult float64, prestigeLevel int) int64 {
	exp := float64(base) * IndustryWeight(industry, d)
	exp *= 1 + bonuses.EXPBoostPct/100
	if abilityEXPMult > 0 {
		exp *= abilityEXPMult
	}
	exp *= prestigeEXPMultiplier(prestigeLevel)
	if exp < 0 {
		return 0
	}
	return int64(exp)
}

// modifiedCash applies the advisor gold boost, then revenue_multiplier to
// income or cost_reduction to spend, then the prestige gold bonus.
func modifiedCash(base int64, bonuses AdvisorBonuses, revenueMult, costMult float64, prestigeLevel int) int64 {
	if base == 0 {
		return 0
	}
	cash := float64(base) * (1 + bonuses.GoldBoostPct/100)
	if cash > 0 {
		if revenueMult > 0 {
			cash *= revenueMult
		}
		cash *= prestigeGoldMultiplier(prestigeLevel)
	} else if costMult > 0 {
		cash *= costMult
	}
	return int64(cash)
}

// promoteIfDue advances an employee whose discipline level-up outran their
// job level. Entrepreneurs have no title ladder.
func promoteIfDue(p *Player, newLevel int) *Promotion {
	if p.Career != CareerEmployee || newLevel <= p.JobLevel {
		return nil
	}
	promo := &Promotion{OldLevel: p.JobLevel, NewLevel: newLevel}
	p.JobLevel = newLevel
	p.JobTitle = JobTitle(p.Industry, newLevel)
	promo.NewTitle = p.JobTitle
	return promo
}

// recordCompletionTx records the one-shot completion fact. The unique key
// on (player_id, kind, content_id) makes the second attempt fail cleanly.
func recordCompletionTx(ctx context.Context, tx pgx.Tx, playerID, kind string, contentID int64, choice string, stars int) error {
	cmd, err := tx.Exec(ctx, `
		INSERT INTO game.completions (player_id, kind, content_id, choice_made, stars_earned)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, kind, content_id) DO NOTHING
	`, playerID, kind, contentID, choice, stars)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlreadyCompleted
	}
	return nil
}

func validChoiceLetter(sc *content.Scenario, letter string) (content.Choice, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	switch letter {
	case "A", "B", "C":
	default:
		return content.Choice{}, ErrInvalidChoice
	}
	choice, ok := sc.Choice(letter)
	if !ok {
		return content.Choice{}, ErrInvalidChoice
	}
	return choice, nil
}

// ProcessChoice scores one scenario decision end to end: star rating,
// EXP/cash/reputation modifiers, completion record, ledger intent, company
// gauges, decision counting and the game-over check, all in one
// transaction.
func (s *Service) ProcessChoice(ctx context.Context, in ChoiceInput) (ChoiceResult, error) {
	var out ChoiceResult
	sc, err := s.content.Scenario(ctx, in.ScenarioID)
	if err != nil {
		if err == content.ErrNotFound {
			return out, ErrScenarioNotFound
		}
		return out, err
	}
	choice, err := validChoiceLetter(sc, in.Choice)
	if err != nil {
		return out, err
	}
	discipline, err := ParseDiscipline(sc.Discipline)
	if err != nil {
		return out, err
	}

	err = s.runSerializable(ctx, func(tx pgx.Tx) error {
		if err := claimIdempotency(ctx, tx, in.PlayerID, in.IdempotencyKey, "process_choice"); err != nil {
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

		if !p.MeetsRequiredLevel(discipline, sc.RequiredLevel) {
			return ErrLevelLocked
		}
		if err := p.spendEnergy(EnergyCostPerPlay); err != nil {
			return err
		}

		stars := starRating(choice.EXPReward, sc.MaxEXPReward())
		equippedLuck, err := equippedLuckTx(ctx, tx, in.PlayerID)
		if err != nil {
			return err
		}
		stars, luckUpgrade := rollLuckUpgrade(stars, equippedLuck, s.nextFloat)

		if err := recordCompletionTx(ctx, tx, in.PlayerID, "scenario", sc.ID, strings.ToUpper(in.Choice), stars); err != nil {
			return err
		}

		bonuses, err := advisorBonusesTx(ctx, tx, in.PlayerID, discipline)
		if err != nil {
			return err
		}
		effects, err := activeEffectsTx(ctx, tx, in.PlayerID)
		if err != nil {
			return err
		}

		expGained := modifiedEXP(choice.EXPReward, p.Industry, discipline, bonuses, effects.EXPMultiplier, p.PrestigeLevel)
		cashChange := modifiedCash(choice.CashCents, bonuses, effects.RevenueMultiplier, effects.CostReduction, p.PrestigeLevel)
		repChange := choice.RepDelta + bonuses.RepBoost

		leveledUp, oldLevel, newLevel := p.addEXP(discipline, expGained)
		p.CashCents += cashChange
		p.Reputation = clampInt(p.Reputation+repChange, 0, 100)

		var promo *Promotion
		if leveledUp {
			promo = promoteIfDue(p, newLevel)
		}

		if cashChange != 0 {
			if err := appendTransactionIntent(ctx, tx, in.PlayerID, "scenario_choice", cashChange); err != nil {
				return err
			}
		}

		resources.apply(cashChange, choice.MoraleDelta, choice.BrandDelta)
		if cashChange != 0 || choice.MoraleDelta != 0 || choice.BrandDelta != 0 {
			if err := pushNewsTx(ctx, tx, in.PlayerID, "decision", sc.Title+": "+choice.Label); err != nil {
				return err
			}
		}

		quarter, err := s.recordDecisionTx(ctx, tx, p, resources)
		if err != nil {
			return err
		}

		if err := p.saveTx(ctx, tx, s.tuning.CashFloorCents); err != nil {
			return err
		}
		if err := resources.saveTx(ctx, tx); err != nil {
			return err
		}
		if err := checkAchievementsTx(ctx, tx, p, resources); err != nil {
			return err
		}

		out = ChoiceResult{
			ScenarioID:  sc.ID,
			Discipline:  discipline,
			Choice:      strings.ToUpper(strings.TrimSpace(in.Choice)),
			BaseEXP:     choice.EXPReward,
			EXPGained:   expGained,
			CashChange:  cashChange,
			RepChange:   repChange,
			MoraleDelta: choice.MoraleDelta,
			BrandDelta:  choice.BrandDelta,
			Feedback:    choice.Feedback,
			Stars:       stars,
			LuckUpgrade: luckUpgrade,
			LeveledUp:   leveledUp,
			OldLevel:    oldLevel,
			NewLevel:    newLevel,
			Promotion:   promo,
			Advisors:    bonuses,
			Quarter:     quarter,
			Company:     resources.snapshot(),
			GameOver:    resources.Bankrupt,
		}
		return nil
	})
	if err != nil {
		return ChoiceResult{}, err
	}
	s.log.Info("choice processed",
		"player_id", in.PlayerID, "scenario_id", sc.ID, "choice", out.Choice,
		"stars", out.Stars, "exp", out.EXPGained, "cash_cents", out.CashChange)
	return out, nil
}

// Scenarios lists playable scenarios for the player's industry, excluding
// ones already completed and ones above the discipline's level gate.
func (s *Service) Scenarios(ctx context.Context, playerID string) ([]ScenarioView, error) {
	var industry string
	err := s.db.QueryRow(ctx, `
		SELECT industry FROM game.players WHERE id = $1
	`, playerID).Scan(&industry)
	if err == pgx.ErrNoRows {
		return nil, ErrNoPlayer
	}
	if err != nil {
		return nil, err
	}
	levels, err := s.disciplineLevels(ctx, playerID)
	if err != nil {
		return nil, err
	}
	list, err := s.content.ListScenarios(ctx, playerID, industry)
	if err != nil {
		return nil, err
	}
	out := make([]ScenarioView, 0, len(list))
	for _, sc := range list {
		if sc.RequiredLevel > levels[Discipline(sc.Discipline)] {
			continue
		}
		view := ScenarioView{
			ID:            sc.ID,
			Title:         sc.Title,
			Discipline:    Discipline(sc.Discipline),
			RequiredLevel: sc.RequiredLevel,
			Prompt:        sc.Prompt,
		}
		for _, ch := range sc.Choices {
			view.Choices = append(view.Choices, ScenarioChoiceView{
				Letter:    ch.Letter,
				Label:     ch.Label,
				EXP:       ch.EXPReward,
				CashCents: ch.CashCents,
			})
		}
		out = append(out, view)
	}
	return out, nil
}
