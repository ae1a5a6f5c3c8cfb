package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCorrectAnswerFormulas(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		cfg  map[string]float64
		want float64
	}{
		{name: "budget", typ: "budget_calculator", cfg: map[string]float64{"budget": 25_000, "expenses": 18_400}, want: 6_600},
		{name: "profit", typ: "profit_calculator", cfg: map[string]float64{"revenue": 9_200, "costs": 6_750}, want: 2_450},
		{name: "margin price", typ: "pricing_margin", cfg: map[string]float64{"unit_cost": 42, "margin_pct": 40}, want: 70},
		{name: "staffing ceil", typ: "staffing_plan", cfg: map[string]float64{"workload": 132, "capacity_per_head": 20}, want: 7},
		{name: "break even ceil", typ: "break_even", cfg: map[string]float64{"fixed_costs": 84_000, "price": 35, "variable_cost": 21}, want: 6_000},
		{name: "roi", typ: "roi_percentage", cfg: map[string]float64{"invested": 12_000, "returned": 16_800}, want: 40},
		{name: "turnover", typ: "inventory_turnover", cfg: map[string]float64{"cogs": 540_000, "avg_inventory": 90_000}, want: 6},
		{name: "ltv", typ: "customer_ltv", cfg: map[string]float64{"avg_purchase": 65, "purchases_per_year": 4, "years_retained": 3}, want: 780},
		{name: "payback min", typ: "payback_period", cfg: map[string]float64{"cost_a": 300_000, "annual_return_a": 60_000, "cost_b": 180_000, "annual_return_b": 30_000}, want: 5},
		{name: "compound", typ: "compound_growth", cfg: map[string]float64{"principal": 10_000, "rate_pct": 8, "years": 5}, want: 14_693.28},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := correctAnswer(tc.typ, tc.cfg)
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 0.01)
		})
	}
}

func TestCorrectAnswerRejectsBadInputs(t *testing.T) {
	_, err := correctAnswer("time_travel", nil)
	require.Error(t, err)
	_, err = correctAnswer("roi_percentage", map[string]float64{"invested": 0, "returned": 100})
	require.Error(t, err)
	_, err = correctAnswer("break_even", map[string]float64{"fixed_costs": 100, "price": 10, "variable_cost": 10})
	require.Error(t, err)
	_, err = correctAnswer("pricing_margin", map[string]float64{"unit_cost": 10, "margin_pct": 100})
	require.Error(t, err)
}

func TestAnswerAccuracy(t *testing.T) {
	// Exact match with tolerance: full credit.
	require.Equal(t, 1.0, answerAccuracy(10_000, 10_000, 1))
	// 1500 off a 10000 answer exhausts the 15% band exactly.
	require.Equal(t, 0.0, answerAccuracy(8_500, 10_000, 1))
	// Halfway through the band.
	require.InDelta(t, 0.5, answerAccuracy(9_250, 10_000, 1), 1e-9)

	// Zero tolerance demands an exact integer match.
	require.Equal(t, 1.0, answerAccuracy(7, 7, 0))
	require.Equal(t, 0.0, answerAccuracy(8, 7, 0))

	// Zero correct answer grades against the tolerance band alone.
	require.Equal(t, 1.0, answerAccuracy(0.4, 0, 0.5))
	require.Equal(t, 0.0, answerAccuracy(0.6, 0, 0.5))

	// Small answers floor the band at 1 absolute unit.
	require.InDelta(t, 0.5, answerAccuracy(2.5, 2, 0.1), 1e-9)
}

func TestStarsForAccuracy(t *testing.T) {
	require.Equal(t, 3, starsForAccuracy(1.0))
	require.Equal(t, 3, starsForAccuracy(0.95))
	require.Equal(t, 2, starsForAccuracy(0.94))
	require.Equal(t, 2, starsForAccuracy(0.70))
	require.Equal(t, 1, starsForAccuracy(0.41))
	// No zero-star outcome: even a complete miss keeps the consolation star.
	require.Equal(t, 1, starsForAccuracy(0))
}

func TestStarEXPMultiplier(t *testing.T) {
	require.Equal(t, 1.0, starEXPMultiplier(3))
	require.Equal(t, 0.7, starEXPMultiplier(2))
	require.Equal(t, 0.4, starEXPMultiplier(1))
}

func TestPaybackInfiniteOnZeroReturn(t *testing.T) {
	require.True(t, math.IsInf(paybackYears(1_000, 0), 1))
	got, err := correctAnswer("payback_period", map[string]float64{
		"cost_a": 100, "annual_return_a": 0,
		"cost_b": 200, "annual_return_b": 50,
	})
	require.NoError(t, err)
	require.InDelta(t, 4.0, got, 1e-9)
}

func TestSeedChallengesCoverEveryFormula(t *testing.T) {
	seen := map[string]bool{}
	for _, ch := range seedChallenges {
		got, err := correctAnswer(ch.Type, ch.Config)
		require.NoError(t, err, "seed challenge %q", ch.Title)
		require.False(t, math.IsNaN(got))
		seen[ch.Type] = true
	}
	require.Len(t, seen, 10)
}
