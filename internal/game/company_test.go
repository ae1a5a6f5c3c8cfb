package game

import "testing"

func TestCompanyApplyClamps(t *testing.T) {
	c := &companyState{CapitalCents: 10_000, Morale: 50, BrandEquity: 50}

	c.apply(-50_000, -200, 30)
	if c.CapitalCents != 0 {
		t.Fatalf("capital %d want 0 floor", c.CapitalCents)
	}
	if c.Morale != 0 {
		t.Fatalf("morale %d want 0 floor", c.Morale)
	}
	if c.BrandEquity != 80 {
		t.Fatalf("brand %d want 80", c.BrandEquity)
	}

	c.apply(1_000_000, 500, 500)
	if c.Morale != 100 || c.BrandEquity != 100 {
		t.Fatalf("gauges (%d,%d) want both capped at 100", c.Morale, c.BrandEquity)
	}
	if c.CapitalCents != 1_000_000 {
		t.Fatalf("capital has no upper clamp, got %d", c.CapitalCents)
	}
}

func TestBrandZeroIsTerminal(t *testing.T) {
	c := &companyState{CapitalCents: 10_000, Morale: 50, BrandEquity: 5}
	c.apply(0, 0, -5)
	if !c.Bankrupt {
		t.Fatalf("brand 0 must flag bankrupt")
	}
	snap := c.snapshot()
	if !snap.Bankrupt {
		t.Fatalf("snapshot must carry the bankrupt flag")
	}
	// Recovering brand does not clear the terminal state.
	c.apply(0, 0, 50)
	if !c.Bankrupt {
		t.Fatalf("bankrupt is terminal")
	}
}

func TestDemoralizedFlag(t *testing.T) {
	c := &companyState{Morale: 1, BrandEquity: 50}
	c.apply(0, -1, 0)
	snap := c.snapshot()
	if !snap.Demoralized {
		t.Fatalf("morale 0 must flag demoralized")
	}
	if snap.Bankrupt {
		t.Fatalf("demoralized is a warning, not game over")
	}
	c.apply(0, 10, 0)
	if c.snapshot().Demoralized {
		t.Fatalf("demoralized clears when morale recovers")
	}
}

func TestPickQuarterlyEvent(t *testing.T) {
	// A roll below every probability selects the first event in storage order.
	ev := pickQuarterlyEvent(func() float64 { return 0.0 }, 1.0, false)
	if ev == nil || ev.Code != "market_boom" {
		t.Fatalf("got %+v want market_boom", ev)
	}

	// A roll above every probability selects nothing.
	if ev := pickQuarterlyEvent(func() float64 { return 0.99 }, 1.0, false); ev != nil {
		t.Fatalf("expected no event, got %+v", ev)
	}

	// The shield skips lawsuit-kind events; the next passing roll wins.
	calls := 0
	rolls := func() float64 {
		calls++
		if calls == 1 {
			return 0.5 // market_boom misses
		}
		return 0.0
	}
	ev = pickQuarterlyEvent(rolls, 1.0, true)
	if ev == nil || ev.Kind == "lawsuit" {
		t.Fatalf("shielded pick returned %+v", ev)
	}
	if ev.Code != "viral_trend" {
		t.Fatalf("got %q want viral_trend (lawsuit skipped)", ev.Code)
	}
}

func TestQuarterlyEventCatalogSanity(t *testing.T) {
	if len(quarterlyEventCatalog) == 0 {
		t.Fatalf("empty event catalog")
	}
	hasLawsuit := false
	for _, ev := range quarterlyEventCatalog {
		if ev.Probability <= 0 || ev.Probability >= 1 {
			t.Fatalf("event %q probability %v out of (0,1)", ev.Code, ev.Probability)
		}
		if ev.Kind == "lawsuit" {
			hasLawsuit = true
		}
	}
	if !hasLawsuit {
		t.Fatalf("catalog needs a lawsuit event for the liability shield to matter")
	}
}

func TestRecruitCostScaling(t *testing.T) {
	spec, ok := advisorByCode("cfo_coach")
	if !ok {
		t.Fatalf("missing advisor")
	}
	base := recruitCostCents(spec, 1, 0)
	if base != spec.CostCents {
		t.Fatalf("level 1 cost %d want %d", base, spec.CostCents)
	}
	l2 := recruitCostCents(spec, 2, 0)
	if l2 != spec.CostCents+spec.CostCents/2 {
		t.Fatalf("level 2 cost %d want %d", l2, spec.CostCents+spec.CostCents/2)
	}
	discounted := recruitCostCents(spec, 1, 0.80)
	if discounted != int64(float64(spec.CostCents)*0.80) {
		t.Fatalf("discounted cost %d", discounted)
	}
}

func TestAbilityCatalogCoversEveryDiscipline(t *testing.T) {
	seen := map[Discipline]bool{}
	for _, spec := range abilityCatalog {
		if seen[spec.Discipline] {
			t.Fatalf("discipline %q has two abilities", spec.Discipline)
		}
		seen[spec.Discipline] = true
		if spec.PrereqLevel != AbilityPrereqLevel {
			t.Fatalf("ability %q prereq %d want %d", spec.Code, spec.PrereqLevel, AbilityPrereqLevel)
		}
	}
	if len(seen) != len(Disciplines) {
		t.Fatalf("abilities cover %d disciplines, want %d", len(seen), len(Disciplines))
	}
}
