package game

import (
	"context"
	"encoding/json"
)

type seedChoice struct {
	Letter      string
	Label       string
	EXP         int64
	CashCents   int64
	Rep         int
	Morale      int
	Brand       int
	Feedback    string
}

type seedScenario struct {
	World         string
	Industry      string
	Discipline    Discipline
	RequiredLevel int
	Title         string
	Prompt        string
	Choices       []seedChoice
}

type seedChallenge struct {
	Industry      string
	Discipline    Discipline
	RequiredLevel int
	Type          string
	Title         string
	Prompt        string
	BaseEXP       int64
	Tolerance     float64
	Config        map[string]float64
}

var seedScenarios = []seedScenario{
	{
		World: "main", Industry: "Restaurant", Discipline: Marketing, RequiredLevel: 1,
		Title:  "The Empty Tuesday",
		Prompt: "Tuesday dinner service is dead. How do you fill seats?",
		Choices: []seedChoice{
			{Letter: "A", Label: "Launch a locals-only Tuesday tasting menu", EXP: 100, CashCents: 400 * 100, Rep: 3, Morale: 2, Brand: 3, Feedback: "A destination night builds habit and word of mouth."},
			{Letter: "B", Label: "Run a 50% off flash discount", EXP: 70, CashCents: 150 * 100, Rep: 1, Morale: 0, Brand: -1, Feedback: "Discounts fill seats once but train customers to wait for deals."},
			{Letter: "C", Label: "Do nothing and save the marketing budget", EXP: 40, CashCents: 0, Rep: 0, Morale: -2, Brand: -2, Feedback: "Standing still costs you the regulars you could have made."},
		},
	},
	{
		World: "main", Industry: "Restaurant", Discipline: Operations, RequiredLevel: 1,
		Title:  "Supplier Squeeze",
		Prompt: "Your produce supplier raises prices 20% mid-contract. Your move?",
		Choices: []seedChoice{
			{Letter: "A", Label: "Renegotiate with volume commitments", EXP: 110, CashCents: 300 * 100, Rep: 2, Morale: 1, Brand: 0, Feedback: "Volume for price is the classic trade; you kept quality and margin."},
			{Letter: "B", Label: "Switch to the cheapest alternative overnight", EXP: 60, CashCents: 500 * 100, Rep: -2, Morale: -3, Brand: -4, Feedback: "Short-term savings, but the kitchen noticed the quality drop and so did reviews."},
		},
	},
	{
		World: "main", Industry: "Technology", Discipline: Strategy, RequiredLevel: 1,
		Title:  "The Pivot Question",
		Prompt: "A big customer wants a custom feature that would consume a quarter of engineering. Take the deal?",
		Choices: []seedChoice{
			{Letter: "A", Label: "Decline and stay on the product roadmap", EXP: 120, CashCents: 0, Rep: 2, Morale: 3, Brand: 2, Feedback: "One whale cannot own your roadmap. Focus compounds."},
			{Letter: "B", Label: "Take the deal for the revenue", EXP: 80, CashCents: 2_000 * 100, Rep: 0, Morale: -4, Brand: -1, Feedback: "Cash now, drift later. Custom work has a way of never ending."},
			{Letter: "C", Label: "Counter with a co-funded shared feature", EXP: 120, CashCents: 1_000 * 100, Rep: 3, Morale: 1, Brand: 2, Feedback: "You turned a custom ask into roadmap funding. Strong counter."},
		},
	},
	{
		World: "main", Industry: "Technology", Discipline: HumanResources, RequiredLevel: 2,
		Title:  "The Burnout Signal",
		Prompt: "Your best engineer has gone quiet and started missing standups. What do you do?",
		Choices: []seedChoice{
			{Letter: "A", Label: "Schedule a one-on-one and listen", EXP: 100, CashCents: 0, Rep: 1, Morale: 6, Brand: 0, Feedback: "You caught it early. Retention is cheaper than recruiting."},
			{Letter: "B", Label: "Add a deadline to refocus them", EXP: 40, CashCents: 0, Rep: -1, Morale: -8, Brand: 0, Feedback: "Pressure on a burned-out engineer is how resignations get written."},
		},
	},
	{
		World: "main", Industry: "Retail", Discipline: Finance, RequiredLevel: 1,
		Title:  "Holiday Stock Gamble",
		Prompt: "The holiday forecast is strong. How much inventory do you finance?",
		Choices: []seedChoice{
			{Letter: "A", Label: "Buy to the forecast with a credit line", EXP: 110, CashCents: 1_200 * 100, Rep: 1, Morale: 1, Brand: 1, Feedback: "Financed to demand with a planned paydown. Textbook working capital."},
			{Letter: "B", Label: "Overbuy for the upside", EXP: 60, CashCents: -800 * 100, Rep: 0, Morale: -1, Brand: 0, Feedback: "January markdowns ate the December upside."},
			{Letter: "C", Label: "Underbuy to stay safe", EXP: 75, CashCents: 300 * 100, Rep: 0, Morale: 0, Brand: -2, Feedback: "Empty shelves by mid-December. Safety has a revenue cost too."},
		},
	},
	{
		World: "main", Industry: "Healthcare", Discipline: Legal, RequiredLevel: 2,
		Title:  "The Consent Form Gap",
		Prompt: "An audit finds your patient consent forms predate the new regulation. Response?",
		Choices: []seedChoice{
			{Letter: "A", Label: "Halt intake and re-paper before reopening", EXP: 120, CashCents: -400 * 100, Rep: 3, Morale: -1, Brand: 2, Feedback: "Expensive day, cheap compared to a compliance action."},
			{Letter: "B", Label: "Keep operating while legal catches up", EXP: 50, CashCents: 0, Rep: -3, Morale: 0, Brand: -5, Feedback: "Every intake that week was an open liability."},
		},
	},
	{
		World: "main", Industry: "Consulting", Discipline: Strategy, RequiredLevel: 3,
		Title:  "Scope Creep Summit",
		Prompt: "A flagship client keeps adding asks outside the statement of work. How do you handle the next one?",
		Choices: []seedChoice{
			{Letter: "A", Label: "Hold the line and price a change order", EXP: 130, CashCents: 1_500 * 100, Rep: 2, Morale: 3, Brand: 1, Feedback: "Scope discipline is margin discipline. The client respected it."},
			{Letter: "B", Label: "Absorb it to protect the relationship", EXP: 70, CashCents: -500 * 100, Rep: 1, Morale: -4, Brand: 0, Feedback: "Goodwill bought with unpaid nights eventually invoices itself in attrition."},
		},
	},
}

var seedChallenges = []seedChallenge{
	{Industry: "Restaurant", Discipline: Finance, RequiredLevel: 1, Type: "budget_calculator", Title: "Month-End Budget",
		Prompt: "Your monthly budget is 25000 and booked expenses total 18400. How much remains?", BaseEXP: 80, Tolerance: 1,
		Config: map[string]float64{"budget": 25_000, "expenses": 18_400}},
	{Industry: "Restaurant", Discipline: Finance, RequiredLevel: 1, Type: "profit_calculator", Title: "Service Week Profit",
		Prompt: "Revenue for the week was 9200 against 6750 in costs. What was the profit?", BaseEXP: 80, Tolerance: 1,
		Config: map[string]float64{"revenue": 9_200, "costs": 6_750}},
	{Industry: "Retail", Discipline: Marketing, RequiredLevel: 2, Type: "pricing_margin", Title: "Margin-Backed Price",
		Prompt: "A unit costs 42 and you want a 40% margin on price. What do you charge?", BaseEXP: 100, Tolerance: 0.5,
		Config: map[string]float64{"unit_cost": 42, "margin_pct": 40}},
	{Industry: "Restaurant", Discipline: HumanResources, RequiredLevel: 2, Type: "staffing_plan", Title: "Saturday Cover",
		Prompt: "Saturday needs 132 covers handled and each server manages 20. How many servers do you schedule?", BaseEXP: 90, Tolerance: 0,
		Config: map[string]float64{"workload": 132, "capacity_per_head": 20}},
	{Industry: "Manufacturing", Discipline: Finance, RequiredLevel: 3, Type: "break_even", Title: "Line Break-Even",
		Prompt: "Fixed costs are 84000, price per unit 35, variable cost 21. How many units to break even?", BaseEXP: 110, Tolerance: 0,
		Config: map[string]float64{"fixed_costs": 84_000, "price": 35, "variable_cost": 21}},
	{Industry: "Technology", Discipline: Finance, RequiredLevel: 3, Type: "roi_percentage", Title: "Campaign ROI",
		Prompt: "You invested 12000 and got back 16800. What is the ROI percentage?", BaseEXP: 100, Tolerance: 0.5,
		Config: map[string]float64{"invested": 12_000, "returned": 16_800}},
	{Industry: "Retail", Discipline: Operations, RequiredLevel: 3, Type: "inventory_turnover", Title: "Turn Rate",
		Prompt: "Annual cost of goods sold is 540000 and average inventory 90000. What is the turnover?", BaseEXP: 100, Tolerance: 0.2,
		Config: map[string]float64{"cogs": 540_000, "avg_inventory": 90_000}},
	{Industry: "Ecommerce", Discipline: Marketing, RequiredLevel: 4, Type: "customer_ltv", Title: "Lifetime Value",
		Prompt: "Average purchase 65, 4 purchases per year, retained 3 years. What is the customer LTV?", BaseEXP: 110, Tolerance: 1,
		Config: map[string]float64{"avg_purchase": 65, "purchases_per_year": 4, "years_retained": 3}},
	{Industry: "Real Estate", Discipline: Strategy, RequiredLevel: 4, Type: "payback_period", Title: "Two Properties",
		Prompt: "Property A costs 300000 returning 60000 a year; property B costs 180000 returning 30000. What is the faster payback in years?", BaseEXP: 120, Tolerance: 0.25,
		Config: map[string]float64{"cost_a": 300_000, "annual_return_a": 60_000, "cost_b": 180_000, "annual_return_b": 30_000}},
	{Industry: "Technology", Discipline: Finance, RequiredLevel: 5, Type: "compound_growth", Title: "Five-Year Compounding",
		Prompt: "10000 grows at 8% a year for 5 years. What is the final amount?", BaseEXP: 130, Tolerance: 50,
		Config: map[string]float64{"principal": 10_000, "rate_pct": 8, "years": 5}},
}

// SeedDefaults loads the starter scenario and challenge catalog on first
// boot. A non-empty catalog short-circuits, so startup reseeding is safe.
func (s *Service) SeedDefaults(ctx context.Context) error {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(1) FROM game.scenarios`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, sc := range seedScenarios {
		var scenarioID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO game.scenarios (world, industry, discipline, required_level, title, prompt)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, sc.World, sc.Industry, string(sc.Discipline), sc.RequiredLevel, sc.Title, sc.Prompt).Scan(&scenarioID)
		if err != nil {
			return err
		}
		for _, ch := range sc.Choices {
			if _, err := tx.Exec(ctx, `
				INSERT INTO game.scenario_choices
				    (scenario_id, letter, label, exp_reward, cash_delta_cents, rep_delta, morale_delta, brand_delta, feedback)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, scenarioID, ch.Letter, ch.Label, ch.EXP, ch.CashCents, ch.Rep, ch.Morale, ch.Brand, ch.Feedback); err != nil {
				return err
			}
		}
	}

	for _, ch := range seedChallenges {
		cfg, err := json.Marshal(ch.Config)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO game.challenges
			    (industry, discipline, required_level, challenge_type, title, prompt, base_exp, tolerance, challenge_config)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		`, ch.Industry, string(ch.Discipline), ch.RequiredLevel, ch.Type, ch.Title, ch.Prompt, ch.BaseEXP, ch.Tolerance, string(cfg)); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.log.Info("seeded default content", "scenarios", len(seedScenarios), "challenges", len(seedChallenges))
	return nil
}
