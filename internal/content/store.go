// Package content provides read-only access to the scenario and challenge
// catalog. Catalog rows never change after seeding, so lookups are cached.
package content

import (
	"context"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned for ids missing from the catalog.
var ErrNotFound = fmt.Errorf("content not found")

// Choice is one labeled option on a scenario. Deltas apply to the player
// and company when the option is chosen.
type Choice struct {
	Letter      string
	Label       string
	EXPReward   int64
	CashCents   int64
	RepDelta    int
	MoraleDelta int
	BrandDelta  int
	Feedback    string
}

// Scenario is an immutable multiple-choice decision point.
type Scenario struct {
	ID            int64
	World         string
	Industry      string
	Discipline    string
	RequiredLevel int
	Title         string
	Prompt        string
	Choices       []Choice
}

// Choice returns the option for a letter, or false if the scenario does
// not carry that option.
func (s *Scenario) Choice(letter string) (Choice, bool) {
	for _, c := range s.Choices {
		if c.Letter == letter {
			return c, true
		}
	}
	return Choice{}, false
}

// MaxEXPReward is the best base EXP among the scenario's options; the star
// rating is relative to it.
func (s *Scenario) MaxEXPReward() int64 {
	var best int64
	for _, c := range s.Choices {
		if c.EXPReward > best {
			best = c.EXPReward
		}
	}
	return best
}

// Challenge is an immutable numeric business-math problem. Config carries
// the formula parameters keyed by name.
type Challenge struct {
	ID            int64
	Title         string
	Industry      string
	Discipline    string
	RequiredLevel int
	ChallengeType string
	Prompt        string
	BaseEXP       int64
	Tolerance     float64
	Config        map[string]float64
}

type Store struct {
	db         *pgxpool.Pool
	scenarios  *lru.Cache
	challenges *lru.Cache
}

func NewStore(db *pgxpool.Pool) (*Store, error) {
	scenarios, err := lru.New(512)
	if err != nil {
		return nil, err
	}
	challenges, err := lru.New(512)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, scenarios: scenarios, challenges: challenges}, nil
}

// Scenario loads one scenario with its choices, serving repeat lookups
// from cache.
func (s *Store) Scenario(ctx context.Context, id int64) (*Scenario, error) {
	if cached, ok := s.scenarios.Get(id); ok {
		return cached.(*Scenario), nil
	}
	sc := &Scenario{ID: id}
	err := s.db.QueryRow(ctx, `
		SELECT world, industry, discipline, required_level, title, prompt
		FROM game.scenarios
		WHERE id = $1
	`, id).Scan(&sc.World, &sc.Industry, &sc.Discipline, &sc.RequiredLevel, &sc.Title, &sc.Prompt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT letter, label, exp_reward, cash_delta_cents, rep_delta, morale_delta, brand_delta, feedback
		FROM game.scenario_choices
		WHERE scenario_id = $1
		ORDER BY letter
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c Choice
		if err := rows.Scan(&c.Letter, &c.Label, &c.EXPReward, &c.CashCents, &c.RepDelta, &c.MoraleDelta, &c.BrandDelta, &c.Feedback); err != nil {
			return nil, err
		}
		sc.Choices = append(sc.Choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sc.Choices) < 2 {
		return nil, fmt.Errorf("scenario %d has %d choices, want at least 2", id, len(sc.Choices))
	}
	s.scenarios.Add(id, sc)
	return sc, nil
}

// Challenge loads one challenge, serving repeat lookups from cache.
func (s *Store) Challenge(ctx context.Context, id int64) (*Challenge, error) {
	if cached, ok := s.challenges.Get(id); ok {
		return cached.(*Challenge), nil
	}
	ch := &Challenge{ID: id}
	var rawConfig []byte
	err := s.db.QueryRow(ctx, `
		SELECT title, industry, discipline, required_level, challenge_type, prompt, base_exp, tolerance, challenge_config
		FROM game.challenges
		WHERE id = $1
	`, id).Scan(&ch.Title, &ch.Industry, &ch.Discipline, &ch.RequiredLevel, &ch.ChallengeType, &ch.Prompt, &ch.BaseEXP, &ch.Tolerance, &rawConfig)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawConfig, &ch.Config); err != nil {
		return nil, fmt.Errorf("parse challenge config %d: %w", id, err)
	}
	s.challenges.Add(id, ch)
	return ch, nil
}

// ListScenarios returns catalog rows for an industry, excluding ids the
// player already completed. Level gating happens in the game layer, which
// knows the player's discipline levels.
func (s *Store) ListScenarios(ctx context.Context, playerID, industry string) ([]*Scenario, error) {
	rows, err := s.db.Query(ctx, `
		SELECT sc.id
		FROM game.scenarios sc
		WHERE sc.industry = $2
		  AND NOT EXISTS (
			SELECT 1 FROM game.completions c
			WHERE c.player_id = $1 AND c.kind = 'scenario' AND c.content_id = sc.id
		  )
		ORDER BY sc.required_level, sc.id
	`, playerID, industry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*Scenario, 0, len(ids))
	for _, id := range ids {
		sc, err := s.Scenario(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// ListChallenges returns challenge rows the player has not completed yet.
func (s *Store) ListChallenges(ctx context.Context, playerID, industry string) ([]*Challenge, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ch.id
		FROM game.challenges ch
		WHERE ch.industry = $2
		  AND NOT EXISTS (
			SELECT 1 FROM game.completions c
			WHERE c.player_id = $1 AND c.kind = 'challenge' AND c.content_id = ch.id
		  )
		ORDER BY ch.required_level, ch.id
	`, playerID, industry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*Challenge, 0, len(ids))
	for _, id := range ids {
		ch, err := s.Challenge(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}
