package game

import "testing"

func TestLevelForEXPThresholds(t *testing.T) {
	tests := []struct {
		exp  int64
		want int
	}{
		{exp: 0, want: 1},
		{exp: 499, want: 1},
		{exp: 500, want: 2},
		{exp: 1_499, want: 2},
		{exp: 1_500, want: 3},
		{exp: 3_500, want: 4},
		{exp: 7_000, want: 5},
		{exp: 12_500, want: 6},
		{exp: 22_000, want: 7},
		{exp: 40_000, want: 8},
		{exp: 75_000, want: 9},
		{exp: 149_999, want: 9},
		{exp: 150_000, want: 10},
		{exp: 9_000_000, want: 10},
	}
	for _, tc := range tests {
		if got := LevelForEXP(tc.exp); got != tc.want {
			t.Fatalf("LevelForEXP(%d)=%d want %d", tc.exp, got, tc.want)
		}
	}
}

func TestLevelForEXPMonotonic(t *testing.T) {
	prev := 0
	for exp := int64(0); exp <= 160_000; exp += 250 {
		level := LevelForEXP(exp)
		if level < prev {
			t.Fatalf("level decreased at exp=%d: %d -> %d", exp, prev, level)
		}
		prev = level
	}
}

func TestEXPToNext(t *testing.T) {
	gap, next := EXPToNext(0)
	if gap != 500 || next != 2 {
		t.Fatalf("got (%d,%d) want (500,2)", gap, next)
	}
	gap, next = EXPToNext(1_200)
	if gap != 300 || next != 3 {
		t.Fatalf("got (%d,%d) want (300,3)", gap, next)
	}
	gap, next = EXPToNext(150_000)
	if gap != 0 || next != MaxLevel {
		t.Fatalf("at cap got (%d,%d) want (0,%d)", gap, next, MaxLevel)
	}
}

func TestWeightedEXP(t *testing.T) {
	tests := []struct {
		industry   string
		discipline Discipline
		want       int64
	}{
		{industry: "Restaurant", discipline: Marketing, want: 120},
		{industry: "Restaurant", discipline: Legal, want: 80},
		{industry: "UnknownIndustry", discipline: Marketing, want: 100},
	}
	for _, tc := range tests {
		if got := WeightedEXP(100, tc.industry, tc.discipline); got != tc.want {
			t.Fatalf("WeightedEXP(100,%q,%q)=%d want %d", tc.industry, tc.discipline, got, tc.want)
		}
	}
}

func TestWeightMatrixRange(t *testing.T) {
	for industry, row := range industryWeights {
		if len(row) != len(Disciplines) {
			t.Fatalf("industry %q has %d weights, want %d", industry, len(row), len(Disciplines))
		}
		for d, w := range row {
			if w < 0.7 || w > 1.4 {
				t.Fatalf("weight %q/%q = %v out of [0.7,1.4]", industry, d, w)
			}
		}
	}
}

func TestLevelUpCheck(t *testing.T) {
	up, oldLevel, newLevel := LevelUpCheck(400, 600)
	if !up || oldLevel != 1 || newLevel != 2 {
		t.Fatalf("got (%v,%d,%d) want (true,1,2)", up, oldLevel, newLevel)
	}
	up, _, _ = LevelUpCheck(600, 900)
	if up {
		t.Fatalf("expected no level-up within a band")
	}
	up, oldLevel, newLevel = LevelUpCheck(0, 3_500)
	if !up || oldLevel != 1 || newLevel != 4 {
		t.Fatalf("multi-level jump got (%v,%d,%d) want (true,1,4)", up, oldLevel, newLevel)
	}
}
