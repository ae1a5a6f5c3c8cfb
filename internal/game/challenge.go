package game

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"bizquest/internal/content"
	"bizquest/internal/tutor"
)

// correctAnswer computes the expected answer for a challenge from its
// stored parameters. Each challenge type is one fixed formula.
func correctAnswer(challengeType string, cfg map[string]float64) (float64, error) {
	get := func(key string) float64 { return cfg[key] }
	switch challengeType {
	case "budget_calculator":
		// What remains of the budget after all listed expenses.
		return get("budget") - get("expenses"), nil
	case "profit_calculator":
		return get("revenue") - get("costs"), nil
	case "pricing_margin":
		// Price that yields the target margin over unit cost.
		margin := get("margin_pct") / 100
		if margin >= 1 {
			return 0, fmt.Errorf("pricing_margin: margin_pct %v out of range", get("margin_pct"))
		}
		return get("unit_cost") / (1 - margin), nil
	case "staffing_plan":
		// Heads needed to cover the workload, whole people only.
		perHead := get("capacity_per_head")
		if perHead <= 0 {
			return 0, fmt.Errorf("staffing_plan: capacity_per_head %v invalid", perHead)
		}
		return math.Ceil(get("workload") / perHead), nil
	case "break_even":
		contribution := get("price") - get("variable_cost")
		if contribution <= 0 {
			return 0, fmt.Errorf("break_even: non-positive unit contribution")
		}
		return math.Ceil(get("fixed_costs") / contribution), nil
	case "roi_percentage":
		invested := get("invested")
		if invested == 0 {
			return 0, fmt.Errorf("roi_percentage: zero investment")
		}
		return (get("returned") - invested) / invested * 100, nil
	case "inventory_turnover":
		avgInventory := get("avg_inventory")
		if avgInventory == 0 {
			return 0, fmt.Errorf("inventory_turnover: zero average inventory")
		}
		return get("cogs") / avgInventory, nil
	case "customer_ltv":
		return get("avg_purchase") * get("purchases_per_year") * get("years_retained"), nil
	case "payback_period":
		// Two candidate investments; the answer is the faster payback.
		a := paybackYears(get("cost_a"), get("annual_return_a"))
		b := paybackYears(get("cost_b"), get("annual_return_b"))
		return math.Min(a, b), nil
	case "compound_growth":
		return get("principal") * math.Pow(1+get("rate_pct")/100, get("years")), nil
	default:
		return 0, fmt.Errorf("unknown challenge type %q", challengeType)
	}
}

func paybackYears(cost, annualReturn float64) float64 {
	if annualReturn <= 0 {
		return math.Inf(1)
	}
	return cost / annualReturn
}

// answerAccuracy grades an answer in [0,1]. A zero tolerance demands an
// exact integer match. A zero correct answer is graded inside/outside the
// tolerance band. Otherwise accuracy falls off linearly over a 15% error
// band (floored at 1 absolute unit for small answers).
func answerAccuracy(answer, correct, tolerance float64) float64 {
	if tolerance == 0 {
		if int64(answer) == int64(correct) {
			return 1.0
		}
		return 0
	}
	errAbs := math.Abs(answer - correct)
	if correct == 0 {
		if errAbs < tolerance {
			return 1.0
		}
		return 0
	}
	band := math.Max(math.Abs(correct)*0.15, 1)
	return math.Max(0, 1-errAbs/band)
}

// starsForAccuracy never returns zero: a miss still earns the consolation
// star and its 40% EXP share.
func starsForAccuracy(accuracy float64) int {
	switch {
	case accuracy >= 0.95:
		return 3
	case accuracy >= 0.70:
		return 2
	default:
		return 1
	}
}

// EvaluateChallenge grades a numeric answer and pays out through the same
// modifier chain as scenario choices, with the star multiplier applied to
// base EXP before industry weighting.
func (s *Service) EvaluateChallenge(ctx context.Context, in ChallengeInput) (ChallengeResult, error) {
	var out ChallengeResult
	if math.IsNaN(in.Answer) || math.IsInf(in.Answer, 0) {
		return out, ErrInvalidAmount
	}
	ch, err := s.content.Challenge(ctx, in.ChallengeID)
	if err != nil {
		if err == content.ErrNotFound {
			return out, ErrChallengeNotFound
		}
		return out, err
	}
	correct, err := correctAnswer(ch.ChallengeType, ch.Config)
	if err != nil {
		return out, err
	}
	discipline, err := ParseDiscipline(ch.Discipline)
	if err != nil {
		return out, err
	}

	accuracy := answerAccuracy(in.Answer, correct, ch.Tolerance)
	stars := starsForAccuracy(accuracy)

	err = s.runSerializable(ctx, func(tx pgx.Tx) error {
		if err := claimIdempotency(ctx, tx, in.PlayerID, in.IdempotencyKey, "evaluate_challenge"); err != nil {
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
		if !p.MeetsRequiredLevel(discipline, ch.RequiredLevel) {
			return ErrLevelLocked
		}
		if err := p.spendEnergy(EnergyCostPerPlay); err != nil {
			return err
		}

		equippedLuck, err := equippedLuckTx(ctx, tx, in.PlayerID)
		if err != nil {
			return err
		}
		finalStars, _ := rollLuckUpgrade(stars, equippedLuck, s.nextFloat)

		if err := recordCompletionTx(ctx, tx, in.PlayerID, "challenge", ch.ID, "", finalStars); err != nil {
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

		starBase := int64(float64(ch.BaseEXP) * starEXPMultiplier(finalStars))
		expGained := modifiedEXP(starBase, p.Industry, discipline, bonuses, effects.EXPMultiplier, p.PrestigeLevel)

		// Cash pays out proportionally to EXP at a flat rate per point.
		cashChange := modifiedCash(starBase*ChallengeCashPerEXPCents, bonuses, effects.RevenueMultiplier, effects.CostReduction, p.PrestigeLevel)

		leveledUp, oldLevel, newLevel := p.addEXP(discipline, expGained)
		p.CashCents += cashChange

		var promo *Promotion
		if leveledUp {
			promo = promoteIfDue(p, newLevel)
		}

		if cashChange != 0 {
			if err := appendTransactionIntent(ctx, tx, in.PlayerID, "challenge", cashChange); err != nil {
				return err
			}
		}
		resources.apply(cashChange, 0, 0)

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

		out = ChallengeResult{
			ChallengeID:   ch.ID,
			Discipline:    discipline,
			CorrectAnswer: correct,
			Accuracy:      accuracy,
			Stars:         finalStars,
			BaseEXP:       ch.BaseEXP,
			EXPGained:     expGained,
			CashChange:    cashChange,
			Feedback:      challengeFeedback(accuracy, in.Answer, correct),
			LeveledUp:     leveledUp,
			OldLevel:      oldLevel,
			NewLevel:      newLevel,
			Promotion:     promo,
			Advisors:      bonuses,
			Quarter:       quarter,
			Company:       resources.snapshot(),
			GameOver:      resources.Bankrupt,
		}
		return nil
	})
	if err != nil {
		return ChallengeResult{}, err
	}
	if s.tutor != nil {
		out.Feedback = s.tutor.Feedback(ctx, tutor.FeedbackRequest{
			Prompt:        ch.Prompt,
			ChallengeType: ch.ChallengeType,
			Answer:        in.Answer,
			CorrectAnswer: correct,
			Accuracy:      accuracy,
		})
	}
	s.log.Info("challenge evaluated",
		"player_id", in.PlayerID, "challenge_id", ch.ID, "type", ch.ChallengeType,
		"accuracy", out.Accuracy, "stars", out.Stars, "exp", out.EXPGained)
	return out, nil
}

// challengeFeedback is the deterministic fallback line; the tutor client
// replaces it with richer text when the upstream service answers.
func challengeFeedback(accuracy, answer, correct float64) string {
	switch {
	case accuracy >= 0.95:
		return fmt.Sprintf("Perfect. %.2f is right on the money.", answer)
	case accuracy >= 0.70:
		return fmt.Sprintf("Close. You answered %.2f; the exact figure is %.2f.", answer, correct)
	case accuracy >= 0.40:
		return fmt.Sprintf("Partially there. The exact figure is %.2f; walk back through the formula.", correct)
	default:
		return fmt.Sprintf("Not this time. The exact figure is %.2f. Revisit the setup and try the next one.", correct)
	}
}

// Challenges lists unfinished challenges for the player's industry at or
// below the discipline's level gate.
func (s *Service) Challenges(ctx context.Context, playerID string) ([]ChallengeView, error) {
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
	list, err := s.content.ListChallenges(ctx, playerID, industry)
	if err != nil {
		return nil, err
	}
	out := make([]ChallengeView, 0, len(list))
	for _, ch := range list {
		if ch.RequiredLevel > levels[Discipline(ch.Discipline)] {
			continue
		}
		out = append(out, ChallengeView{
			ID:            ch.ID,
			Title:         ch.Title,
			Discipline:    Discipline(ch.Discipline),
			ChallengeType: ch.ChallengeType,
			Prompt:        ch.Prompt,
			RequiredLevel: ch.RequiredLevel,
		})
	}
	return out, nil
}
