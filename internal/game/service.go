package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizquest/internal/content"
	"bizquest/internal/tutor"
)

// Service owns every game operation. It is stateless between calls: player
// state lives in storage and is hydrated per operation, so one Service can
// safely serve every request without cross-player leakage.
type Service struct {
	db      *pgxpool.Pool
	content *content.Store
	tutor   *tutor.Client
	log     *slog.Logger
	tuning  Tuning
	mu      sync.Mutex
	rand    *mathrand.Rand
}

// UseTutor attaches the optional AI feedback client. Without it, challenge
// feedback stays on the deterministic local lines.
func (s *Service) UseTutor(c *tutor.Client) {
	s.tutor = c
}

// Tuning carries the balance knobs loaded from config; zero values fall
// back to the package defaults.
type Tuning struct {
	CashFloorCents    int64
	EventProbScale    float64
	IdleRateCentsHour int64
}

func (t Tuning) eventProbScale() float64 {
	if t.EventProbScale <= 0 {
		return 1.0
	}
	return t.EventProbScale
}

func (t Tuning) idleRate() int64 {
	if t.IdleRateCentsHour <= 0 {
		return IdleRatePerLevelCents
	}
	return t.IdleRateCentsHour
}

func NewService(db *pgxpool.Pool, contentStore *content.Store, logger *slog.Logger, tuning Tuning) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:      db,
		content: contentStore,
		log:     logger,
		tuning:  tuning,
		rand:    mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) nextFloat() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}

// runSerializable executes fn inside a Serializable transaction, retrying
// on SQLSTATE 40001 with backoff. Every multi-table mutation goes through
// here so completion records, progress, cash and the company gauges commit
// or roll back together.
func (s *Service) runSerializable(ctx context.Context, fn func(tx pgx.Tx) error) error {
	const maxAttempts = 8
	retryDelay := 75 * time.Millisecond
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return err
		}
		err = func() error {
			defer tx.Rollback(ctx)
			if err := fn(tx); err != nil {
				return err
			}
			return tx.Commit(ctx)
		}()
		if err == nil {
			return nil
		}
		if !isSerializationError(err) {
			return err
		}
		if attempt == maxAttempts-1 {
			return ErrTxConflict
		}
		if err := sleepWithContext(ctx, retryDelay); err != nil {
			return err
		}
		if retryDelay < 1200*time.Millisecond {
			retryDelay *= 2
		}
	}
	return ErrTxConflict
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func claimIdempotency(ctx context.Context, tx pgx.Tx, playerID, key, action string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("idempotency key is required")
	}
	cmd, err := tx.Exec(ctx, `
		INSERT INTO game.idempotency_keys (player_id, key, action, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (player_id, key) DO NOTHING
	`, playerID, key, action)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDuplicateIdempotency
	}
	return nil
}

// appendTransactionIntent writes the double-entry bookkeeping rows for one
// cash change: positive deltas post as revenue against cash, negative as
// expense against cash. Exactly one intent per nonzero delta; callers must
// not call this for a zero delta.
func appendTransactionIntent(ctx context.Context, tx pgx.Tx, playerID, action string, deltaCents int64) error {
	if deltaCents == 0 {
		return fmt.Errorf("transaction intent requires a nonzero delta")
	}
	txID := uuid.NewString()
	cashAccount := "cash"
	counterAccount := "revenue"
	if deltaCents < 0 {
		counterAccount = "expense"
	}
	meta, _ := json.Marshal(map[string]any{"action": action})
	_, err := tx.Exec(ctx, `
		INSERT INTO game.ledger_entries (tx_group_id, player_id, account, delta_cents, metadata)
		VALUES
		($1, $2, $3, $4, $6::jsonb),
		($1, $2, $5, $7, $6::jsonb)
	`, txID, playerID, cashAccount, deltaCents, counterAccount, string(meta), -deltaCents)
	return err
}

// ReplaySync acknowledges queued offline commands from the CLI. The CLI
// replays each command against its real endpoint itself; this endpoint
// exists so a flush can be recorded even when individual replays fail.
func (s *Service) ReplaySync(ctx context.Context, playerID string, commands []map[string]any) ([]map[string]any, error) {
	results := make([]map[string]any, 0, len(commands))
	for _, cmd := range commands {
		method, _ := cmd["method"].(string)
		path, _ := cmd["path"].(string)
		idem, _ := cmd["idempotency_key"].(string)
		results = append(results, map[string]any{
			"method":          method,
			"path":            path,
			"idempotency_key": idem,
			"status":          "queued_for_cli_replay",
			"player_id":       playerID,
		})
	}
	return results, nil
}

// PlayerIDByToken resolves the API token issued at character creation.
func (s *Service) PlayerIDByToken(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthorized
	}
	var playerID string
	err := s.db.QueryRow(ctx, `
		SELECT id FROM game.players WHERE api_token = $1
	`, token).Scan(&playerID)
	if err == pgx.ErrNoRows {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	return playerID, nil
}

// Leaderboard ranks every player by prestige, then total discipline level,
// then cash. Comparison is asynchronous by design; nothing here locks.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `
		SELECT p.display_name, p.industry, p.prestige_level, p.cash_cents,
		       COALESCE(SUM(dp.level), 6) AS total_level
		FROM game.players p
		LEFT JOIN game.discipline_progress dp ON dp.player_id = p.id
		GROUP BY p.id
		ORDER BY p.prestige_level DESC, total_level DESC, p.cash_cents DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	var rank int64 = 1
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.DisplayName, &r.Industry, &r.PrestigeLevel, &r.CashCents, &r.TotalLevel); err != nil {
			return nil, err
		}
		r.Rank = rank
		rank++
		out = append(out, r)
	}
	return out, rows.Err()
}
