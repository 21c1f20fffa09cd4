package game

import "testing"

func TestUnlockPredicates(t *testing.T) {
	rules := DefaultBalance().Unlocks
	tests := []struct {
		name   string
		week   int
		combat int
		want   Unlocks
	}{
		{name: "start", week: 1, combat: 15, want: Unlocks{}},
		{name: "week two opens suburb", week: 2, combat: 15, want: Unlocks{Suburb: true}},
		{name: "combat opens city", week: 2, combat: 30, want: Unlocks{Suburb: true, City: true}},
		{name: "week twelve opens city", week: 12, combat: 0, want: Unlocks{Suburb: true, City: true}},
		{name: "combat opens mall", week: 1, combat: 60, want: Unlocks{City: true, Mall: true}},
		{name: "week twenty five opens all", week: 25, combat: 0, want: Unlocks{Suburb: true, City: true, Mall: true}},
	}
	for _, tc := range tests {
		got := Unlocks{}.Advance(tc.week, tc.combat, rules)
		if got != tc.want {
			t.Fatalf("%s: got %+v want %+v", tc.name, got, tc.want)
		}
	}
}

func TestUnlocksRatchet(t *testing.T) {
	rules := DefaultBalance().Unlocks
	u := Unlocks{}.Advance(3, 35, rules)
	if !u.City {
		t.Fatalf("expected city open at combat 35")
	}
	u = u.Advance(4, 0, rules)
	if !u.City {
		t.Fatalf("expected city to stay open after combat dropped")
	}
}

func TestCityStaysOpenAcrossWeekAdvance(t *testing.T) {
	run := newQuietRun(t, DefaultFinalWeek)
	run.Ledger.Set(MeterCombat, 30)

	for week := 1; week <= 3; week++ {
		startActions(t, &run, "B")
		mustApply(t, run.EndWeek())
		mustApply(t, run.AdvanceWeek())
		if !run.Unlocks.City {
			t.Fatalf("expected city open after week %d", week)
		}
		run.Ledger.Set(MeterCombat, 0)
	}
}

func TestParseTier(t *testing.T) {
	if tier, ok := ParseTier(" Mall "); !ok || tier != TierMall {
		t.Fatalf("expected mall, got %q ok=%v", tier, ok)
	}
	if _, ok := ParseTier("moon"); ok {
		t.Fatalf("expected unknown tier")
	}
}
