package game

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// companyState mirrors one game.company_resources row. Gauges are clamped
// on every write, never on read, so the stored row is always in range.
type companyState struct {
	PlayerID     string
	CapitalCents int64
	Morale       int
	BrandEquity  int
	Quarter      int
	Decisions    int
	Bankrupt     bool
}

func (c *companyState) snapshot() CompanySnapshot {
	return CompanySnapshot{
		CapitalCents:  c.CapitalCents,
		Morale:        c.Morale,
		BrandEquity:   c.BrandEquity,
		FiscalQuarter: c.Quarter,
		Decisions:     c.Decisions,
		Bankrupt:      c.Bankrupt,
		Demoralized:   c.Morale <= 0,
	}
}

// apply adjusts the three gauges. Capital floors at zero, morale and brand
// clamp to 0..100. Returns whether brand equity hit the terminal floor.
func (c *companyState) apply(capitalDelta int64, moraleDelta, brandDelta int) {
	c.CapitalCents += capitalDelta
	if c.CapitalCents < 0 {
		c.CapitalCents = 0
	}
	c.Morale = clampInt(c.Morale+moraleDelta, 0, 100)
	c.BrandEquity = clampInt(c.BrandEquity+brandDelta, 0, 100)
	if c.BrandEquity <= 0 {
		c.Bankrupt = true
	}
}

func loadCompanyTx(ctx context.Context, tx pgx.Tx, playerID string) (*companyState, error) {
	c := &companyState{PlayerID: playerID}
	err := tx.QueryRow(ctx, `
		SELECT capital_cents, morale, brand_equity, fiscal_quarter, decisions_this_quarter, bankrupt
		FROM game.company_resources
		WHERE player_id = $1
		FOR UPDATE
	`, playerID).Scan(&c.CapitalCents, &c.Morale, &c.BrandEquity, &c.Quarter, &c.Decisions, &c.Bankrupt)
	if err == pgx.ErrNoRows {
		return nil, ErrNoPlayer
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *companyState) saveTx(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		UPDATE game.company_resources
		SET capital_cents = $1, morale = $2, brand_equity = $3, fiscal_quarter = $4,
		    decisions_this_quarter = $5, bankrupt = $6, updated_at = now()
		WHERE player_id = $7
	`, c.CapitalCents, c.Morale, c.BrandEquity, c.Quarter, c.Decisions, c.Bankrupt, c.PlayerID)
	return err
}

// pushNewsTx appends a headline and prunes the ticker down to its cap.
func pushNewsTx(ctx context.Context, tx pgx.Tx, playerID, kind, headline string) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO game.news_ticker (player_id, kind, headline)
		VALUES ($1, $2, $3)
	`, playerID, kind, headline); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `
		DELETE FROM game.news_ticker
		WHERE player_id = $1
		  AND id NOT IN (
			SELECT id FROM game.news_ticker
			WHERE player_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		  )
	`, playerID, NewsTickerCap)
	return err
}

// pickQuarterlyEvent rolls each catalog event in storage order against one
// uniform draw per event. eventShield suppresses the lawsuit family.
// Returns nil when nothing fires, which is the common case.
func pickQuarterlyEvent(rolls func() float64, probScale float64, eventShield bool) *quarterlyEventSpec {
	for i := range quarterlyEventCatalog {
		ev := &quarterlyEventCatalog[i]
		if eventShield && ev.Kind == "lawsuit" {
			continue
		}
		if rolls() < ev.Probability*probScale {
			return ev
		}
	}
	return nil
}

// recordDecisionTx counts one strategic decision and, on the third, closes
// the quarter: archives a quarter_history row, resets per-quarter ability
// activations, rolls the random event and advances the counter. This is
// the only place a quarter turns over.
func (s *Service) recordDecisionTx(ctx context.Context, tx pgx.Tx, p *Player, c *companyState) (*QuarterAdvance, error) {
	c.Decisions++
	if c.Decisions < DecisionsPerQuarter {
		return nil, nil
	}

	shield, err := hasActiveEffectTx(ctx, tx, p.ID, EffectEventPrevention)
	if err != nil {
		return nil, err
	}
	if err := resetQuarterlyAbilitiesTx(ctx, tx, p.ID); err != nil {
		return nil, err
	}

	ev := pickQuarterlyEvent(s.nextFloat, s.tuning.eventProbScale(), shield)
	eventCode := ""
	if ev != nil {
		eventCode = ev.Code
	}

	// The archive keeps the gauges the quarter closed with; the event hits
	// the books of the quarter that opens.
	if _, err := tx.Exec(ctx, `
		INSERT INTO game.quarter_history (player_id, fiscal_quarter, capital_cents, morale, brand_equity, event_code)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, c.Quarter, c.CapitalCents, c.Morale, c.BrandEquity, eventCode); err != nil {
		return nil, err
	}

	adv := &QuarterAdvance{NewQuarter: c.Quarter + 1}
	c.Quarter++
	c.Decisions = 0

	if ev != nil {
		c.apply(ev.CapitalCents, ev.Morale, ev.Brand)
		adv.EventCode = ev.Code
		adv.Headline = ev.Headline
		if ev.CapitalCents != 0 {
			if err := appendTransactionIntent(ctx, tx, p.ID, "quarterly_event:"+ev.Code, ev.CapitalCents); err != nil {
				return nil, err
			}
		}
		if err := pushNewsTx(ctx, tx, p.ID, "event", ev.Headline); err != nil {
			return nil, err
		}
	} else {
		adv.Headline = fmt.Sprintf("Q%d closed without incident.", adv.NewQuarter-1)
		if err := pushNewsTx(ctx, tx, p.ID, "quarter", adv.Headline); err != nil {
			return nil, err
		}
	}
	return adv, nil
}

// News returns the ticker, newest first.
func (s *Service) News(ctx context.Context, playerID string) ([]NewsItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT kind, headline, created_at
		FROM game.news_ticker
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, playerID, NewsTickerCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []NewsItem
	for rows.Next() {
		var n NewsItem
		if err := rows.Scan(&n.Kind, &n.Headline, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// QuarterHistory lists closed quarters, oldest first.
func (s *Service) QuarterHistory(ctx context.Context, playerID string) ([]QuarterRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT fiscal_quarter, capital_cents, morale, brand_equity, event_code, archived_at
		FROM game.quarter_history
		WHERE player_id = $1
		ORDER BY fiscal_quarter
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []QuarterRecord
	for rows.Next() {
		var r QuarterRecord
		if err := rows.Scan(&r.Quarter, &r.CapitalCents, &r.Morale, &r.BrandEquity, &r.EventCode, &r.ArchivedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
