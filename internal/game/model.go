package game

import (
	"errors"
	"strings"
)

const (
	CentsPerDollar = int64(100)

	EntrepreneurStartCashCents = int64(5_000) * CentsPerDollar
	EmployeeStartCashCents     = int64(2_000) * CentsPerDollar
	StartReputation            = 30

	StartCapitalCents = int64(10_000) * CentsPerDollar
	StartMorale       = 100
	StartBrandEquity  = 100

	// Every stat starts at 5; level-ups grant 2 points per level gained.
	StartStatValue      = 5
	StatPointsPerLevel  = 2
	DecisionsPerQuarter = 3
	NewsTickerCap       = 20

	MaxEnergy                  = 100
	EnergyRechargeEverySeconds = 180
	EnergyCostPerPlay          = 10

	PrestigeTotalLevelGate = 30
	PrestigeBonusPerLevel  = 0.10
	AbilityPrereqLevel     = 3

	// Star-upgrade chance per point of equipped luck, in percent.
	LuckUpgradePctPerPoint = 2

	// Challenges pay a flat cash rate per star-adjusted EXP point.
	ChallengeCashPerEXPCents = int64(5)

	IdleAccrualCapSeconds = 8 * 60 * 60
	IdleRatePerLevelCents = 25 * CentsPerDollar // per hour per total discipline level
)

var (
	ErrNoPlayer             = errors.New("player not found")
	ErrInvalidChoice        = errors.New("choice must be A, B or C and exist on the scenario")
	ErrScenarioNotFound     = errors.New("scenario not found")
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrAlreadyCompleted     = errors.New("scenario already completed by this player")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrAdvisorNotFound      = errors.New("advisor not found")
	ErrAbilityNotFound      = errors.New("ability not found")
	ErrAbilityLocked        = errors.New("ability prerequisite not met")
	ErrLevelLocked          = errors.New("discipline level too low for this content")
	ErrItemNotFound         = errors.New("item not found")
	ErrPrestigeLocked       = errors.New("prestige requires a higher total level")
	ErrDemoralized          = errors.New("company morale is depleted")
	ErrGameOver             = errors.New("company is bankrupt")
	ErrDuplicateIdempotency = errors.New("duplicate idempotency key")
	ErrTxConflict           = errors.New("transaction conflict, retry")
	ErrUnauthorized         = errors.New("unauthorized")
)

// CareerPath selects starting resources and whether job titles progress.
type CareerPath string

const (
	CareerEntrepreneur CareerPath = "entrepreneur"
	CareerEmployee     CareerPath = "employee"
)

func ParseCareerPath(s string) (CareerPath, error) {
	switch CareerPath(strings.ToLower(strings.TrimSpace(s))) {
	case CareerEntrepreneur:
		return CareerEntrepreneur, nil
	case CareerEmployee:
		return CareerEmployee, nil
	default:
		return "", errors.New("career path must be entrepreneur or employee")
	}
}

// Discipline is one of the six fixed business skill tracks.
type Discipline string

const (
	Marketing      Discipline = "marketing"
	Finance        Discipline = "finance"
	Operations     Discipline = "operations"
	HumanResources Discipline = "human_resources"
	Legal          Discipline = "legal"
	Strategy       Discipline = "strategy"
)

// Disciplines lists every track in display order. Callers must not mutate it.
var Disciplines = []Discipline{Marketing, Finance, Operations, HumanResources, Legal, Strategy}

func ParseDiscipline(s string) (Discipline, error) {
	d := Discipline(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Disciplines {
		if d == known {
			return d, nil
		}
	}
	return "", errors.New("unknown discipline: " + s)
}

// Industries covered by the weighting matrix. Unknown industries fall back
// to weight 1.0, so this list gates content, not math.
var Industries = []string{
	"Restaurant",
	"Technology",
	"Retail",
	"Manufacturing",
	"Healthcare",
	"Real Estate",
	"Entertainment",
	"Consulting",
	"Ecommerce",
}

// CanonicalIndustry maps a case-insensitive industry name onto the cased
// form the weight matrix is keyed by.
func CanonicalIndustry(industry string) (string, bool) {
	industry = strings.TrimSpace(industry)
	for _, in := range Industries {
		if strings.EqualFold(in, industry) {
			return in, true
		}
	}
	return "", false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
