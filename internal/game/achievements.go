package game

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type achievementSpec struct {
	Code string
	Name string
	// earned reports whether the player's current state satisfies the
	// achievement. resources may be nil for operations that never touch
	// the company row.
	earned func(p *Player, c *companyState) bool
}

var achievementCatalog = []achievementSpec{
	{Code: "first_decision", Name: "First Call", earned: func(p *Player, _ *companyState) bool {
		for _, d := range Disciplines {
			if p.DisciplineEXP(d) > 0 {
				return true
			}
		}
		return false
	}},
	{Code: "specialist", Name: "Specialist", earned: func(p *Player, _ *companyState) bool {
		for _, d := range Disciplines {
			if p.DisciplineLevel(d) >= 5 {
				return true
			}
		}
		return false
	}},
	{Code: "master", Name: "Discipline Master", earned: func(p *Player, _ *companyState) bool {
		for _, d := range Disciplines {
			if p.DisciplineLevel(d) >= MaxLevel {
				return true
			}
		}
		return false
	}},
	{Code: "quarter_survivor", Name: "Quarter Survivor", earned: func(_ *Player, c *companyState) bool {
		return c != nil && c.Quarter > 4 && !c.Bankrupt
	}},
	{Code: "first_prestige", Name: "Serial Founder", earned: func(p *Player, _ *companyState) bool {
		return p.PrestigeLevel >= 1
	}},
	{Code: "millionaire", Name: "Seven Figures", earned: func(p *Player, _ *companyState) bool {
		return p.CashCents >= 1_000_000*CentsPerDollar
	}},
}

// checkAchievementsTx grants any newly earned achievements. Already-held
// codes are skipped without touching storage.
func checkAchievementsTx(ctx context.Context, tx pgx.Tx, p *Player, c *companyState) error {
	held := make(map[string]bool, len(p.Achievements))
	for _, code := range p.Achievements {
		held[code] = true
	}
	for _, spec := range achievementCatalog {
		if held[spec.Code] || !spec.earned(p, c) {
			continue
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO game.player_achievements (player_id, code, earned_at)
			VALUES ($1, $2, now())
			ON CONFLICT (player_id, code) DO NOTHING
		`, p.ID, spec.Code); err != nil {
			return err
		}
		p.Achievements = append(p.Achievements, spec.Code)
		if err := pushNewsTx(ctx, tx, p.ID, "achievement", "Achievement earned: "+spec.Name); err != nil {
			return err
		}
	}
	return nil
}
