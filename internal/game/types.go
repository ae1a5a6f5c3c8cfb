package game

import "time"

type CreatePlayerInput struct {
	DisplayName    string
	World          string
	Industry       string
	CareerPath     string
	IdempotencyKey string
}

type CreatePlayerResult struct {
	PlayerID string `json:"player_id"`
	APIToken string `json:"api_token"`
	JobTitle string `json:"job_title,omitempty"`
}

type DisciplineProgress struct {
	Discipline Discipline `json:"discipline"`
	Level      int        `json:"level"`
	TotalEXP   int64      `json:"total_exp"`
	EXPToNext  int64      `json:"exp_to_next"`
	NextLevel  int        `json:"next_level"`
}

type StatBlock struct {
	Charisma     int `json:"charisma"`
	Intelligence int `json:"intelligence"`
	Luck         int `json:"luck"`
	Negotiation  int `json:"negotiation"`
	StatPoints   int `json:"stat_points"`
}

type CompanySnapshot struct {
	CapitalCents  int64 `json:"capital_cents"`
	Morale        int   `json:"morale"`
	BrandEquity   int   `json:"brand_equity"`
	FiscalQuarter int   `json:"fiscal_quarter"`
	Decisions     int   `json:"decisions_this_quarter"`
	Bankrupt      bool  `json:"bankrupt"`
	Demoralized   bool  `json:"demoralized"`
}

type Dashboard struct {
	PlayerID      string               `json:"player_id"`
	DisplayName   string               `json:"display_name"`
	World         string               `json:"world"`
	Industry      string               `json:"industry"`
	CareerPath    CareerPath           `json:"career_path"`
	JobLevel      int                  `json:"job_level,omitempty"`
	JobTitle      string               `json:"job_title,omitempty"`
	CashCents     int64                `json:"cash_cents"`
	Reputation    int                  `json:"reputation"`
	Energy        int                  `json:"energy"`
	PrestigeLevel int                  `json:"prestige_level"`
	Stats         StatBlock            `json:"stats"`
	Disciplines   []DisciplineProgress `json:"disciplines"`
	Company       CompanySnapshot      `json:"company"`
	Achievements  []string             `json:"achievements"`
}

type ChoiceInput struct {
	PlayerID       string
	ScenarioID     int64
	Choice         string
	IdempotencyKey string
}

type AdvisorBonuses struct {
	EXPBoostPct  float64 `json:"exp_boost_pct"`
	GoldBoostPct float64 `json:"gold_boost_pct"`
	RepBoost     int     `json:"reputation_boost"`
}

type Promotion struct {
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	NewTitle string `json:"new_title"`
}

type QuarterAdvance struct {
	NewQuarter int    `json:"new_quarter"`
	EventCode  string `json:"event_code,omitempty"`
	Headline   string `json:"headline,omitempty"`
}

type ChoiceResult struct {
	ScenarioID  int64           `json:"scenario_id"`
	Discipline  Discipline      `json:"discipline"`
	Choice      string          `json:"choice"`
	BaseEXP     int64           `json:"base_exp"`
	EXPGained   int64           `json:"exp_gained"`
	CashChange  int64           `json:"cash_change_cents"`
	RepChange   int             `json:"reputation_change"`
	MoraleDelta int             `json:"morale_delta"`
	BrandDelta  int             `json:"brand_delta"`
	Feedback    string          `json:"feedback"`
	Stars       int             `json:"stars_earned"`
	LuckUpgrade bool            `json:"luck_upgrade"`
	LeveledUp   bool            `json:"leveled_up"`
	OldLevel    int             `json:"old_level"`
	NewLevel    int             `json:"new_level"`
	Promotion   *Promotion      `json:"promotion,omitempty"`
	Advisors    AdvisorBonuses  `json:"advisor_bonuses"`
	Quarter     *QuarterAdvance `json:"quarter_advance,omitempty"`
	Company     CompanySnapshot `json:"company"`
	GameOver    bool            `json:"game_over"`
}

type ChallengeInput struct {
	PlayerID       string
	ChallengeID    int64
	Answer         float64
	IdempotencyKey string
}

type ChallengeResult struct {
	ChallengeID   int64           `json:"challenge_id"`
	Discipline    Discipline      `json:"discipline"`
	CorrectAnswer float64         `json:"correct_answer"`
	Accuracy      float64         `json:"accuracy"`
	Stars         int             `json:"stars_earned"`
	BaseEXP       int64           `json:"base_exp"`
	EXPGained     int64           `json:"exp_gained"`
	CashChange    int64           `json:"cash_change_cents"`
	Feedback      string          `json:"feedback"`
	LeveledUp     bool            `json:"leveled_up"`
	OldLevel      int             `json:"old_level"`
	NewLevel      int             `json:"new_level"`
	Promotion     *Promotion      `json:"promotion,omitempty"`
	Advisors      AdvisorBonuses  `json:"advisor_bonuses"`
	Quarter       *QuarterAdvance `json:"quarter_advance,omitempty"`
	Company       CompanySnapshot `json:"company"`
	GameOver      bool            `json:"game_over"`
}

type ScenarioChoiceView struct {
	Letter    string `json:"letter"`
	Label     string `json:"label"`
	EXP       int64  `json:"exp_reward"`
	CashCents int64  `json:"cash_delta_cents"`
}

type ScenarioView struct {
	ID            int64                `json:"id"`
	Title         string               `json:"title"`
	Discipline    Discipline           `json:"discipline"`
	RequiredLevel int                  `json:"required_level"`
	Prompt        string               `json:"prompt"`
	Choices       []ScenarioChoiceView `json:"choices"`
}

type ChallengeView struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Discipline    Discipline `json:"discipline"`
	ChallengeType string     `json:"challenge_type"`
	Prompt        string     `json:"prompt"`
	RequiredLevel int        `json:"required_level"`
}

type RecruitAdvisorInput struct {
	PlayerID       string
	AdvisorCode    string
	IdempotencyKey string
}

type RecruitAdvisorResult struct {
	AdvisorCode string `json:"advisor_code"`
	Level       int    `json:"level"`
	CostCents   int64  `json:"cost_cents"`
	CashCents   int64  `json:"cash_cents"`
}

type AdvisorView struct {
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Specialty Discipline `json:"specialty,omitempty"`
	CostCents int64      `json:"cost_cents"`
	Level     int        `json:"level"`
	MaxLevel  int        `json:"max_level"`
	Recruited bool       `json:"recruited"`
}

type AbilityView struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Discipline  Discipline `json:"discipline"`
	SubSkill    string     `json:"sub_skill"`
	PrereqLevel int        `json:"prereq_level"`
	Effect      EffectType `json:"effect"`
	Value       float64    `json:"value"`
	Unlocked    bool       `json:"unlocked"`
	Active      bool       `json:"active_this_quarter"`
	TimesUsed   int        `json:"times_used"`
}

type ShopItemView struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Slot       string    `json:"slot"`
	PriceCents int64     `json:"price_cents"`
	Owned      int       `json:"owned"`
	Equipped   bool      `json:"equipped"`
	StatBlock  StatBlock `json:"bonuses"`
}

type ShopInput struct {
	PlayerID       string
	ItemCode       string
	IdempotencyKey string
}

type ShopResult struct {
	ItemCode  string `json:"item_code"`
	CashCents int64  `json:"cash_cents"`
	Owned     int    `json:"owned"`
}

type IdleResult struct {
	CollectedCents int64     `json:"collected_cents"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	CashCents      int64     `json:"cash_cents"`
	CollectedAt    time.Time `json:"collected_at"`
}

type PrestigeResult struct {
	PrestigeLevel  int     `json:"prestige_level"`
	EXPMultiplier  float64 `json:"exp_multiplier"`
	GoldMultiplier float64 `json:"gold_multiplier"`
}

type NewsItem struct {
	Kind      string    `json:"kind"`
	Headline  string    `json:"headline"`
	CreatedAt time.Time `json:"created_at"`
}

type QuarterRecord struct {
	Quarter      int       `json:"quarter"`
	CapitalCents int64     `json:"capital_cents"`
	Morale       int       `json:"morale"`
	BrandEquity  int       `json:"brand_equity"`
	EventCode    string    `json:"event_code,omitempty"`
	ArchivedAt   time.Time `json:"archived_at"`
}

type LeaderboardRow struct {
	Rank          int64  `json:"rank"`
	DisplayName   string `json:"display_name"`
	Industry      string `json:"industry"`
	PrestigeLevel int    `json:"prestige_level"`
	TotalLevel    int    `json:"total_level"`
	CashCents     int64  `json:"cash_cents"`
}
