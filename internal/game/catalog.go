package game

import "strings"

// EffectType enumerates what an unlocked ability does when active.
type EffectType string

const (
	EffectRevenueMultiplier EffectType = "revenue_multiplier"
	EffectCostReduction     EffectType = "cost_reduction"
	EffectMoraleBoost       EffectType = "morale_boost"
	EffectHiringDiscount    EffectType = "hiring_discount"
	EffectEventPrevention   EffectType = "event_prevention"
	EffectEXPMultiplier     EffectType = "exp_multiplier"
)

type abilitySpec struct {
	Code        string
	Name        string
	Discipline  Discipline
	SubSkill    string
	PrereqLevel int
	Effect      EffectType
	Value       float64
}

// abilityCatalog holds the six skill-tree abilities, one per discipline.
// A sub-skill's level is its owning discipline's level.
var abilityCatalog = []abilitySpec{
	{Code: "viral_campaign", Name: "Viral Campaign", Discipline: Marketing, SubSkill: "branding", PrereqLevel: AbilityPrereqLevel, Effect: EffectRevenueMultiplier, Value: 1.25},
	{Code: "cost_audit", Name: "Cost Audit", Discipline: Finance, SubSkill: "budgeting", PrereqLevel: AbilityPrereqLevel, Effect: EffectCostReduction, Value: 0.85},
	{Code: "lean_workflow", Name: "Lean Workflow", Discipline: Operations, SubSkill: "logistics", PrereqLevel: AbilityPrereqLevel, Effect: EffectMoraleBoost, Value: 10},
	{Code: "talent_network", Name: "Talent Network", Discipline: HumanResources, SubSkill: "recruiting", PrereqLevel: AbilityPrereqLevel, Effect: EffectHiringDiscount, Value: 0.80},
	{Code: "liability_shield", Name: "Liability Shield", Discipline: Legal, SubSkill: "contracts", PrereqLevel: AbilityPrereqLevel, Effect: EffectEventPrevention, Value: 1},
	{Code: "master_plan", Name: "Master Plan", Discipline: Strategy, SubSkill: "planning", PrereqLevel: AbilityPrereqLevel, Effect: EffectEXPMultiplier, Value: 1.20},
}

func abilityByCode(code string) (abilitySpec, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, spec := range abilityCatalog {
		if spec.Code == code {
			return spec, true
		}
	}
	return abilitySpec{}, false
}

type advisorSpec struct {
	Code       string
	Name       string
	Specialty  Discipline // empty means unspecialized: applies to every discipline
	CostCents  int64
	MaxLevel   int
	EXPBoost   float64 // percent per recruited level
	GoldBoost  float64 // percent per recruited level
	RepBoost   int     // flat per recruited level
}

var advisorCatalog = []advisorSpec{
	{Code: "ad_exec", Name: "Dana Brooks", Specialty: Marketing, CostCents: 1_500 * CentsPerDollar, MaxLevel: 5, EXPBoost: 4, GoldBoost: 2, RepBoost: 0},
	{Code: "cfo_coach", Name: "Victor Sloane", Specialty: Finance, CostCents: 2_000 * CentsPerDollar, MaxLevel: 5, EXPBoost: 3, GoldBoost: 5, RepBoost: 0},
	{Code: "plant_chief", Name: "Rosa Medina", Specialty: Operations, CostCents: 1_800 * CentsPerDollar, MaxLevel: 5, EXPBoost: 4, GoldBoost: 3, RepBoost: 0},
	{Code: "people_lead", Name: "Sam Okafor", Specialty: HumanResources, CostCents: 1_400 * CentsPerDollar, MaxLevel: 5, EXPBoost: 3, GoldBoost: 1, RepBoost: 1},
	{Code: "counsel", Name: "Grace Lindqvist", Specialty: Legal, CostCents: 2_400 * CentsPerDollar, MaxLevel: 5, EXPBoost: 3, GoldBoost: 2, RepBoost: 1},
	{Code: "strategist", Name: "Ibrahim Khan", Specialty: Strategy, CostCents: 2_600 * CentsPerDollar, MaxLevel: 5, EXPBoost: 5, GoldBoost: 2, RepBoost: 0},
	{Code: "mentor", Name: "June Adler", Specialty: "", CostCents: 3_500 * CentsPerDollar, MaxLevel: 3, EXPBoost: 2, GoldBoost: 2, RepBoost: 1},
}

func advisorByCode(code string) (advisorSpec, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, spec := range advisorCatalog {
		if spec.Code == code {
			return spec, true
		}
	}
	return advisorSpec{}, false
}

type itemSpec struct {
	Code         string
	Name         string
	Slot         string
	PriceCents   int64
	Charisma     int
	Intelligence int
	Luck         int
	Negotiation  int
}

// itemCatalog backs the shop. Sell-back pays half price. Equipped luck is
// the only luck that feeds the star-upgrade roll.
var itemCatalog = []itemSpec{
	{Code: "tailored_suit", Name: "Tailored Suit", Slot: "outfit", PriceCents: 800 * CentsPerDollar, Charisma: 2},
	{Code: "analyst_glasses", Name: "Analyst Glasses", Slot: "accessory", PriceCents: 600 * CentsPerDollar, Intelligence: 2},
	{Code: "lucky_cufflinks", Name: "Lucky Cufflinks", Slot: "accessory", PriceCents: 1_200 * CentsPerDollar, Luck: 2},
	{Code: "rabbit_charm", Name: "Rabbit's Foot Charm", Slot: "trinket", PriceCents: 2_500 * CentsPerDollar, Luck: 4},
	{Code: "deal_pen", Name: "Closer's Fountain Pen", Slot: "trinket", PriceCents: 900 * CentsPerDollar, Negotiation: 2},
	{Code: "exec_briefcase", Name: "Executive Briefcase", Slot: "bag", PriceCents: 1_800 * CentsPerDollar, Charisma: 1, Negotiation: 2},
	{Code: "smart_watch", Name: "Quant Smartwatch", Slot: "accessory", PriceCents: 1_500 * CentsPerDollar, Intelligence: 2, Luck: 1},
}

func itemByCode(code string) (itemSpec, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, spec := range itemCatalog {
		if spec.Code == code {
			return spec, true
		}
	}
	return itemSpec{}, false
}

type quarterlyEventSpec struct {
	Code         string
	Kind         string // "lawsuit" events are skipped by liability_shield
	Headline     string
	Probability  float64
	CapitalCents int64
	Morale       int
	Brand        int
}

// quarterlyEventCatalog is rolled in storage order at each quarter advance:
// the first event whose independent trial succeeds wins.
var quarterlyEventCatalog = []quarterlyEventSpec{
	{Code: "market_boom", Kind: "market", Headline: "Sector demand surges; revenue pours in", Probability: 0.10, CapitalCents: 2_500 * CentsPerDollar, Morale: 5, Brand: 3},
	{Code: "lawsuit", Kind: "lawsuit", Headline: "A supplier files suit over a disputed contract", Probability: 0.08, CapitalCents: -3_000 * CentsPerDollar, Morale: -5, Brand: -10},
	{Code: "viral_trend", Kind: "marketing", Headline: "Your brand rides a viral social trend", Probability: 0.10, CapitalCents: 800 * CentsPerDollar, Morale: 3, Brand: 12},
	{Code: "staff_exodus", Kind: "people", Headline: "Key staff resign in a single week", Probability: 0.08, CapitalCents: -1_200 * CentsPerDollar, Morale: -15, Brand: -3},
	{Code: "tax_audit", Kind: "regulatory", Headline: "Regulators open a surprise tax audit", Probability: 0.07, CapitalCents: -2_000 * CentsPerDollar, Morale: -5, Brand: 0},
	{Code: "industry_award", Kind: "market", Headline: "The company wins an industry award", Probability: 0.09, CapitalCents: 1_000 * CentsPerDollar, Morale: 10, Brand: 8},
	{Code: "supply_shock", Kind: "market", Headline: "Input costs spike on a supply shock", Probability: 0.08, CapitalCents: -1_800 * CentsPerDollar, Morale: -5, Brand: -2},
	{Code: "press_feature", Kind: "marketing", Headline: "A flattering press feature runs nationwide", Probability: 0.08, CapitalCents: 0, Morale: 5, Brand: 6},
}

// defaultTitleLadder is the 10-rank job title ladder used when an industry
// has no bespoke ladder.
var defaultTitleLadder = [10]string{
	"Intern",
	"Associate",
	"Senior Associate",
	"Team Lead",
	"Manager",
	"Senior Manager",
	"Director",
	"Vice President",
	"Senior Vice President",
	"Chief Executive Officer",
}

var industryTitleLadders = map[string][10]string{
	"Restaurant": {
		"Dishwasher",
		"Line Cook",
		"Station Chef",
		"Sous Chef",
		"Head Chef",
		"Kitchen Manager",
		"General Manager",
		"Regional Manager",
		"VP of Operations",
		"Restaurant Group CEO",
	},
	"Technology": {
		"QA Intern",
		"Junior Engineer",
		"Engineer",
		"Senior Engineer",
		"Staff Engineer",
		"Engineering Manager",
		"Director of Engineering",
		"VP of Engineering",
		"CTO",
		"CEO",
	},
	"Retail": {
		"Stock Clerk",
		"Sales Associate",
		"Shift Supervisor",
		"Assistant Manager",
		"Store Manager",
		"District Manager",
		"Regional Director",
		"VP of Stores",
		"Chief Merchandising Officer",
		"Retail Group CEO",
	},
}

// JobTitle returns the title for a job level (1-10) in the given industry.
func JobTitle(industry string, jobLevel int) string {
	jobLevel = clampInt(jobLevel, 1, 10)
	if ladder, ok := industryTitleLadders[industry]; ok {
		return ladder[jobLevel-1]
	}
	return defaultTitleLadder[jobLevel-1]
}
