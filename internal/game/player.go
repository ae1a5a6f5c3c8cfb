package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Player is the in-memory aggregate for one player's mutable state. It is
// hydrated by loadPlayerTx and flushed by saveTx; nothing autosaves. Two
// requests never share an instance.
type Player struct {
	ID            string
	DisplayName   string
	World         string
	Industry      string
	Career        CareerPath
	CashCents     int64
	Reputation    int
	JobLevel      int
	JobTitle      string
	Stats         StatBlock
	Energy        int
	EnergyAt      time.Time
	IdleAt        time.Time
	PrestigeLevel int
	Progress      map[Discipline]*ProgressEntry
	Achievements  []string

	dirtyProgress map[Discipline]bool
}

type ProgressEntry struct {
	Level    int
	TotalEXP int64
}

// DisciplineLevel defaults to 1 for untouched disciplines.
func (p *Player) DisciplineLevel(d Discipline) int {
	if e, ok := p.Progress[d]; ok {
		return e.Level
	}
	return 1
}

func (p *Player) DisciplineEXP(d Discipline) int64 {
	if e, ok := p.Progress[d]; ok {
		return e.TotalEXP
	}
	return 0
}

// TotalLevel sums discipline levels; untouched disciplines count as 1.
func (p *Player) TotalLevel() int {
	total := 0
	for _, d := range Disciplines {
		total += p.DisciplineLevel(d)
	}
	return total
}

// addEXP applies already-modified EXP to a discipline and re-derives the
// level from the cumulative table. total_exp never decreases.
func (p *Player) addEXP(d Discipline, exp int64) (leveledUp bool, oldLevel, newLevel int) {
	if exp < 0 {
		exp = 0
	}
	entry, ok := p.Progress[d]
	if !ok {
		entry = &ProgressEntry{Level: 1}
		p.Progress[d] = entry
	}
	oldTotal := entry.TotalEXP
	entry.TotalEXP += exp
	leveledUp, oldLevel, newLevel = LevelUpCheck(oldTotal, entry.TotalEXP)
	entry.Level = newLevel
	p.dirtyProgress[d] = true
	if leveledUp {
		p.Stats.StatPoints += StatPointsPerLevel * (newLevel - oldLevel)
	}
	return leveledUp, oldLevel, newLevel
}

// MeetsRequiredLevel reports whether the player's discipline level clears
// a piece of content's gate. Untouched disciplines sit at level 1.
func (p *Player) MeetsRequiredLevel(d Discipline, required int) bool {
	return p.DisciplineLevel(d) >= required
}

// spendEnergy charges one play's energy cost. Recharge happens lazily on
// load, so the balance here is already current.
func (p *Player) spendEnergy(cost int) error {
	if p.Energy < cost {
		return ErrInsufficientResource
	}
	p.Energy -= cost
	return nil
}

// rechargeEnergy lazily accrues energy for elapsed wall time. There is no
// scheduler; this runs whenever the aggregate is hydrated.
func (p *Player) rechargeEnergy(now time.Time) {
	if p.Energy >= MaxEnergy {
		p.EnergyAt = now
		return
	}
	elapsed := int64(now.Sub(p.EnergyAt).Seconds())
	if elapsed < EnergyRechargeEverySeconds {
		return
	}
	gained := int(elapsed / EnergyRechargeEverySeconds)
	p.Energy = clampInt(p.Energy+gained, 0, MaxEnergy)
	p.EnergyAt = now
}

// disciplineLevels reads per-discipline levels off the pool for read-only
// listings; untracked disciplines report level 1.
func (s *Service) disciplineLevels(ctx context.Context, playerID string) (map[Discipline]int, error) {
	levels := make(map[Discipline]int, len(Disciplines))
	for _, d := range Disciplines {
		levels[d] = 1
	}
	rows, err := s.db.Query(ctx, `
		SELECT discipline, level FROM game.discipline_progress WHERE player_id = $1
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d string
		var level int
		if err := rows.Scan(&d, &level); err != nil {
			return nil, err
		}
		levels[Discipline(d)] = level
	}
	return levels, rows.Err()
}

// loadPlayerTx hydrates the aggregate inside tx with the player row locked
// for update, so every read-modify-write in the same transaction is
// serialized per player.
func loadPlayerTx(ctx context.Context, tx pgx.Tx, playerID string) (*Player, error) {
	p := &Player{
		ID:            playerID,
		Progress:      make(map[Discipline]*ProgressEntry, len(Disciplines)),
		dirtyProgress: make(map[Discipline]bool),
	}
	var career string
	err := tx.QueryRow(ctx, `
		SELECT display_name, world, industry, career_path, cash_cents, reputation,
		       job_level, job_title, charisma, intelligence, luck, negotiation,
		       stat_points, energy, energy_updated_at, idle_collected_at, prestige_level
		FROM game.players
		WHERE id = $1
		FOR UPDATE
	`, playerID).Scan(
		&p.DisplayName, &p.World, &p.Industry, &career, &p.CashCents, &p.Reputation,
		&p.JobLevel, &p.JobTitle, &p.Stats.Charisma, &p.Stats.Intelligence, &p.Stats.Luck,
		&p.Stats.Negotiation, &p.Stats.StatPoints, &p.Energy, &p.EnergyAt, &p.IdleAt, &p.PrestigeLevel,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNoPlayer
	}
	if err != nil {
		return nil, err
	}
	p.Career = CareerPath(career)

	rows, err := tx.Query(ctx, `
		SELECT discipline, level, total_exp
		FROM game.discipline_progress
		WHERE player_id = $1
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d string
		entry := &ProgressEntry{}
		if err := rows.Scan(&d, &entry.Level, &entry.TotalEXP); err != nil {
			return nil, err
		}
		p.Progress[Discipline(d)] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aRows, err := tx.Query(ctx, `
		SELECT code FROM game.player_achievements WHERE player_id = $1 ORDER BY earned_at
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer aRows.Close()
	for aRows.Next() {
		var code string
		if err := aRows.Scan(&code); err != nil {
			return nil, err
		}
		p.Achievements = append(p.Achievements, code)
	}
	if err := aRows.Err(); err != nil {
		return nil, err
	}

	p.rechargeEnergy(time.Now().UTC())
	return p, nil
}

// saveTx flushes the aggregate. Cash is floored here so no caller needs
// defensive bounds-checking.
func (p *Player) saveTx(ctx context.Context, tx pgx.Tx, cashFloorCents int64) error {
	if p.CashCents < cashFloorCents {
		p.CashCents = cashFloorCents
	}
	p.Reputation = clampInt(p.Reputation, 0, 100)
	_, err := tx.Exec(ctx, `
		UPDATE game.players
		SET cash_cents = $1, reputation = $2, job_level = $3, job_title = $4,
		    charisma = $5, intelligence = $6, luck = $7, negotiation = $8,
		    stat_points = $9, energy = $10, energy_updated_at = $11,
		    idle_collected_at = $12, prestige_level = $13, updated_at = now()
		WHERE id = $14
	`, p.CashCents, p.Reputation, p.JobLevel, p.JobTitle,
		p.Stats.Charisma, p.Stats.Intelligence, p.Stats.Luck, p.Stats.Negotiation,
		p.Stats.StatPoints, p.Energy, p.EnergyAt, p.IdleAt, p.PrestigeLevel, p.ID)
	if err != nil {
		return err
	}
	for d := range p.dirtyProgress {
		entry := p.Progress[d]
		if _, err := tx.Exec(ctx, `
			INSERT INTO game.discipline_progress (player_id, discipline, level, total_exp)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (player_id, discipline)
			DO UPDATE SET level = $3, total_exp = $4, updated_at = now()
		`, p.ID, string(d), entry.Level, entry.TotalEXP); err != nil {
			return err
		}
	}
	return nil
}

// CreatePlayer provisions the aggregate, the discipline tracks and the
// company resource row in one transaction and issues an API token.
func (s *Service) CreatePlayer(ctx context.Context, in CreatePlayerInput) (CreatePlayerResult, error) {
	var out CreatePlayerResult
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.DisplayName == "" || len(in.DisplayName) > 32 {
		return out, fmt.Errorf("display name must be 1-32 characters")
	}
	career, err := ParseCareerPath(in.CareerPath)
	if err != nil {
		return out, err
	}
	industry, ok := CanonicalIndustry(in.Industry)
	if !ok {
		return out, fmt.Errorf("unknown industry: %s", in.Industry)
	}
	world := strings.TrimSpace(in.World)
	if world == "" {
		world = "main"
	}

	playerID := uuid.NewString()
	token := uuid.NewString()
	startCash := EntrepreneurStartCashCents
	jobLevel := 0
	jobTitle := ""
	if career == CareerEmployee {
		startCash = EmployeeStartCashCents
		jobLevel = 1
		jobTitle = JobTitle(industry, 1)
	}

	err = s.runSerializable(ctx, func(tx pgx.Tx) error {
		if err := claimIdempotency(ctx, tx, playerID, in.IdempotencyKey, "create_player"); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO game.players
			    (id, api_token, display_name, world, industry, career_path, cash_cents,
			     reputation, job_level, job_title, charisma, intelligence, luck, negotiation,
			     stat_points, energy, energy_updated_at, idle_collected_at, prestige_level)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			        $11, $11, $11, $11, 0, $12, now(), now(), 0)
		`, playerID, token, in.DisplayName, world, industry, string(career), startCash,
			StartReputation, jobLevel, jobTitle, StartStatValue, MaxEnergy); err != nil {
			return err
		}
		for _, d := range Disciplines {
			if _, err := tx.Exec(ctx, `
				INSERT INTO game.discipline_progress (player_id, discipline, level, total_exp)
				VALUES ($1, $2, 1, 0)
			`, playerID, string(d)); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO game.company_resources
			    (player_id, capital_cents, morale, brand_equity, fiscal_quarter, decisions_this_quarter)
			VALUES ($1, $2, $3, $4, 1, 0)
		`, playerID, StartCapitalCents, StartMorale, StartBrandEquity)
		return err
	})
	if err != nil {
		return out, err
	}
	out.PlayerID = playerID
	out.APIToken = token
	out.JobTitle = jobTitle
	s.log.Info("player created", "player_id", playerID, "industry", industry, "career", career)
	return out, nil
}

// AllocateStat spends one unallocated stat point on a character stat.
func (s *Service) AllocateStat(ctx context.Context, playerID, stat string) (StatBlock, error) {
	var out StatBlock
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		p, err := loadPlayerTx(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if p.Stats.StatPoints <= 0 {
			return ErrInsufficientResource
		}
		switch strings.ToLower(strings.TrimSpace(stat)) {
		case "charisma":
			p.Stats.Charisma++
		case "intelligence":
			p.Stats.Intelligence++
		case "luck":
			p.Stats.Luck++
		case "negotiation":
			p.Stats.Negotiation++
		default:
			return fmt.Errorf("unknown stat: %s", stat)
		}
		p.Stats.StatPoints--
		if err := p.saveTx(ctx, tx, s.tuning.CashFloorCents); err != nil {
			return err
		}
		out = p.Stats
		return nil
	})
	return out, err
}

// Dashboard is a read-only snapshot; it still persists lazily recharged
// energy so repeated reads stay monotonic.
func (s *Service) Dashboard(ctx context.Context, playerID string) (Dashboard, error) {
	var out Dashboard
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		p, err := loadPlayerTx(ctx, tx, playerID)
		if err != nil {
			return err
		}
		res, err := loadCompanyTx(ctx, tx, playerID)
		if err != nil {
			return err
		}
		out = Dashboard{
			PlayerID:      p.ID,
			DisplayName:   p.DisplayName,
			World:         p.World,
			Industry:      p.Industry,
			CareerPath:    p.Career,
			JobLevel:      p.JobLevel,
			JobTitle:      p.JobTitle,
			CashCents:     p.CashCents,
			Reputation:    p.Reputation,
			Energy:        p.Energy,
			PrestigeLevel: p.PrestigeLevel,
			Stats:         p.Stats,
			Company:       res.snapshot(),
			Achievements:  p.Achievements,
		}
		for _, d := range Disciplines {
			exp := p.DisciplineEXP(d)
			gap, next := EXPToNext(exp)
			out.Disciplines = append(out.Disciplines, DisciplineProgress{
				Discipline: d,
				Level:      p.DisciplineLevel(d),
				TotalEXP:   exp,
				EXPToNext:  gap,
				NextLevel:  next,
			})
		}
		return p.saveTx(ctx, tx, s.tuning.CashFloorCents)
	})
	return out, err
}
