package game

import (
	"testing"

	"github.com/appengine-ltd/under-the-shadow/internal/content"
)

func TestNewRunStartsInStory(t *testing.T) {
	run := newRunForTest(t)

	if run.Week != 1 || run.Phase != PhaseStory {
		t.Fatalf("expected week 1 story, got week=%d phase=%s", run.Week, run.Phase)
	}
	want := DefaultBalance().Start
	if run.Meters() != want {
		t.Fatalf("expected default meters %+v, got %+v", want, run.Meters())
	}
	if run.RunID == "" {
		t.Fatalf("expected a run id")
	}
	if run.Unlocks != (Unlocks{}) {
		t.Fatalf("expected nothing unlocked in week 1, got %+v", run.Unlocks)
	}
}

func TestEndToEndFirstWeek(t *testing.T) {
	run := newQuietRun(t, DefaultFinalWeek)

	mustApply(t, run.SelectOption("rational"))
	if run.Phase != PhaseActions {
		t.Fatalf("expected actions phase, got %s", run.Phase)
	}
	if got := run.Ledger.Get(MeterSanity); got != 103 {
		t.Fatalf("expected sanity 103 after rational option, got %d", got)
	}

	run.Ledger.Set(MeterHydration, 50)
	mustApply(t, run.DailyAction(DailyDrink))
	if got := run.Ledger.Get(MeterHydration); got != 65 {
		t.Fatalf("expected hydration 65, got %d", got)
	}
	if got := run.Ledger.Get(MeterSanity); got != 103 {
		t.Fatalf("expected daily gain not to drag sanity down, got %d", got)
	}
	if run.Stats.TotalDailyEvents != 1 {
		t.Fatalf("expected one daily event, got %d", run.Stats.TotalDailyEvents)
	}

	mustApply(t, run.EndWeek())
	if run.PendingNPC != nil {
		t.Fatalf("expected no visitor with a failing gate")
	}
	beforeSatiety := run.Ledger.Get(MeterSatiety)
	beforeHydration := run.Ledger.Get(MeterHydration)

	mustApply(t, run.AdvanceWeek())
	if run.Week != 2 || run.Phase != PhaseStory {
		t.Fatalf("expected week 2 story, got week=%d phase=%s", run.Week, run.Phase)
	}
	if got := run.Ledger.Get(MeterStamina); got != 100 {
		t.Fatalf("expected stamina reset to 100, got %d", got)
	}
	if got := run.Ledger.Get(MeterSatiety); got != beforeSatiety-10 {
		t.Fatalf("expected satiety %d, got %d", beforeSatiety-10, got)
	}
	if got := run.Ledger.Get(MeterHydration); got != beforeHydration-10 {
		t.Fatalf("expected hydration %d, got %d", beforeHydration-10, got)
	}
	if !run.Unlocks.Suburb {
		t.Fatalf("expected suburb unlocked in week 2")
	}
}

func TestSelectOptionEffects(t *testing.T) {
	run := newRunForTest(t)
	mustApply(t, run.SelectOption("A"))
	if got := run.Ledger.Get(MeterStamina); got != 95 {
		t.Fatalf("expected stamina 95, got %d", got)
	}
	if got := run.Ledger.Get(MeterCombat); got != 18 {
		t.Fatalf("expected combat 18, got %d", got)
	}
	if run.Stats.PositiveChoiceCount != 1 || run.Stats.AlignCounts[AlignPositive] != 1 {
		t.Fatalf("expected positive choice recorded, got %+v", run.Stats)
	}
	if run.SelectedOption != "A" {
		t.Fatalf("expected selected option A, got %q", run.SelectedOption)
	}

	tired := newRunForTest(t)
	tired.Ledger.Set(MeterStamina, 3)
	mustApply(t, tired.SelectOption("positive"))
	if got := tired.Ledger.Get(MeterStamina); got != 3 {
		t.Fatalf("expected stamina untouched when short, got %d", got)
	}
	if got := tired.Ledger.Get(MeterCombat); got != 18 {
		t.Fatalf("expected combat still granted, got %d", got)
	}

	slack := newRunForTest(t)
	slack.Ledger.AdjustCapped(MeterSanity, 18, 120)
	mustApply(t, slack.SelectOption("C"))
	if got := slack.Ledger.Get(MeterSanity); got != 120 {
		t.Fatalf("expected slack sanity capped at 120, got %d", got)
	}
}

func TestSelectUnknownOption(t *testing.T) {
	run := newRunForTest(t)
	res := run.SelectOption("Z")
	if res.Applied || res.Reason != ReasonUnknown {
		t.Fatalf("expected unknown option, got %+v", res)
	}
	if run.Phase != PhaseStory {
		t.Fatalf("expected phase unchanged")
	}
}

func TestIllegalPhaseCallsAreNoOps(t *testing.T) {
	run := newRunForTest(t)
	before := run.Snapshot()

	for _, res := range []CommandResult{
		run.DailyAction(DailyExercise),
		run.Explore(TierSuburb),
		run.EndWeek(),
		run.ResolveNpc(true),
		run.AdvanceWeek(),
		run.WorkDebt(),
	} {
		if res.Applied || res.Reason != ReasonIllegalPhase {
			t.Fatalf("expected illegal phase no-op, got %+v", res)
		}
	}
	after := run.Snapshot()
	if before.Meters != after.Meters || before.Counters.TotalDailyEvents != after.Counters.TotalDailyEvents {
		t.Fatalf("expected state unchanged by illegal calls")
	}

	startActions(t, &run, "B")
	if res := run.SelectOption("A"); res.Reason != ReasonIllegalPhase {
		t.Fatalf("expected second selection to be illegal, got %+v", res)
	}
	if res := run.AdvanceWeek(); res.Reason != ReasonIllegalPhase {
		t.Fatalf("expected advance before end of week to be illegal, got %+v", res)
	}
	mustApply(t, run.EndWeek())
	if res := run.DailyAction(DailyRead); res.Reason != ReasonIllegalPhase {
		t.Fatalf("expected daily action in settlement to be illegal, got %+v", res)
	}
	if res := run.EndWeek(); res.Reason != ReasonIllegalPhase {
		t.Fatalf("expected repeated end of week to be illegal, got %+v", res)
	}
}

func TestDailyActionRecipes(t *testing.T) {
	run := newRunForTest(t)
	startActions(t, &run, "B")
	run.Ledger.Set(MeterSanity, 50)
	run.Ledger.Set(MeterSatiety, 50)

	mustApply(t, run.DailyAction(DailyExercise))
	mustApply(t, run.DailyAction(DailyCook))
	mustApply(t, run.DailyAction(DailyPlayWithCat))
	mustApply(t, run.DailyAction(DailyRead))

	m := run.Meters()
	if m.Stamina != 85 {
		t.Fatalf("expected stamina 85, got %d", m.Stamina)
	}
	if m.Combat != 17 || m.Health != 100 {
		t.Fatalf("expected combat 17 health 100, got combat=%d health=%d", m.Combat, m.Health)
	}
	if m.Satiety != 62 {
		t.Fatalf("expected satiety 62, got %d", m.Satiety)
	}
	if m.Sanity != 63 {
		t.Fatalf("expected sanity 63, got %d", m.Sanity)
	}
	if m.Social != 31 {
		t.Fatalf("expected social 31, got %d", m.Social)
	}
	if run.Stats.TotalDailyEvents != 4 || run.Stats.CatPlayCount != 1 {
		t.Fatalf("expected 4 daily events and 1 cat play, got %+v", run.Stats)
	}
}

func TestStaminaGatedActionAbortsWithoutEffects(t *testing.T) {
	run := newRunForTest(t)
	startActions(t, &run, "B")
	run.Ledger.Set(MeterStamina, 5)

	res := run.DailyAction(DailyExercise)
	if res.Applied || res.Reason != ReasonInsufficient {
		t.Fatalf("expected insufficient, got %+v", res)
	}
	if run.Ledger.Get(MeterCombat) != 15 || run.Ledger.Get(MeterStamina) != 5 {
		t.Fatalf("expected no partial effects, got %+v", run.Meters())
	}
	if run.Stats.TotalDailyEvents != 0 {
		t.Fatalf("expected no daily event counted")
	}
}

func TestRestRatchetEndsRunOnTenthClick(t *testing.T) {
	run := newRunForTest(t)
	startActions(t, &run, "B")

	first := run.DailyAction(DailyRest)
	mustApply(t, first)
	if first.Record == nil {
		t.Fatalf("expected first rest to draw a flavor record")
	}
	if got := run.Ledger.Get(MeterStamina); got != 115 {
		t.Fatalf("expected stamina 115 after first rest, got %d", got)
	}
	if run.Stats.NeverRest {
		t.Fatalf("expected never rest to clear on first rest")
	}

	for click := 2; click <= 9; click++ {
		res := run.DailyAction(DailyRest)
		mustApply(t, res)
		if res.Message != neverGiveUpMessage || res.Record != nil {
			t.Fatalf("click %d: expected fixed message without a record, got %+v", click, res)
		}
		if run.Phase != PhaseActions {
			t.Fatalf("click %d: expected run to continue", click)
		}
	}
	if got := run.Ledger.Get(MeterStamina); got != 75 {
		t.Fatalf("expected stamina 75 after nine clicks, got %d", got)
	}

	run.Ledger.Set(MeterHealth, 0)
	res := run.DailyAction(DailyRest)
	if run.Phase != PhaseEnded || run.EndingID != EasterSleepID {
		t.Fatalf("expected easter ending on tenth click, got phase=%s ending=%s", run.Phase, run.EndingID)
	}
	if res.Ending == nil || res.Ending.ID != EasterSleepID {
		t.Fatalf("expected result to carry the easter ending, got %+v", res.Ending)
	}
	if run.Stats.TotalDailyEvents != 10 {
		t.Fatalf("expected every rest click counted, got %d", run.Stats.TotalDailyEvents)
	}
	if res := run.DailyAction(DailyRest); res.Reason != ReasonIllegalPhase {
		t.Fatalf("expected ended run to ignore commands, got %+v", res)
	}
}

func TestRepeatRestFloorsStamina(t *testing.T) {
	run := newRunForTest(t)
	startActions(t, &run, "B")
	mustApply(t, run.DailyAction(DailyRest))
	run.Ledger.Set(MeterStamina, 3)

	mustApply(t, run.DailyAction(DailyRest))
	if got := run.Ledger.Get(MeterStamina); got != 0 {
		t.Fatalf("expected stamina floored at 0, got %d", got)
	}
}

func TestRestClicksResetEachWeek(t *testing.T) {
	run := newQuietRun(t, DefaultFinalWeek)
	startActions(t, &run, "B")
	for i := 0; i < 5; i++ {
		mustApply(t, run.DailyAction(DailyRest))
	}
	mustApply(t, run.EndWeek())
	mustApply(t, run.AdvanceWeek())
	if run.RestClicksThisWeek != 0 {
		t.Fatalf("expected rest clicks reset, got %d", run.RestClicksThisWeek)
	}
	startActions(t, &run, "B")
	mustApply(t, run.DailyAction(DailyRest))
	if got := run.Ledger.Get(MeterStamina); got != 115 {
		t.Fatalf("expected first rest of week two to recover, got %d", got)
	}
}

func TestEmptyPoolFallsBack(t *testing.T) {
	run, err := NewRunState(RunConfig{Seed: 5, Content: stubContent{}})
	if err != nil {
		t.Fatalf("new run state: %v", err)
	}
	startActions(t, &run, "B")

	res := run.DailyAction(DailyRead)
	mustApply(t, res)
	if res.Reason != ReasonEmptyPool || res.Record != nil {
		t.Fatalf("expected empty pool fallback, got %+v", res)
	}
	if res.Message != dailyFallback(DailyRead) {
		t.Fatalf("unexpected fallback message %q", res.Message)
	}
}

func TestExploreLockedAndCosts(t *testing.T) {
	run := newRunForTest(t)
	startActions(t, &run, "B")

	if res := run.Explore(TierSuburb); res.Reason != ReasonLocked {
		t.Fatalf("expected locked suburb in week 1, got %+v", res)
	}

	run.Unlocks.Suburb = true
	mustApply(t, run.Explore(TierSuburb))
	m := run.Meters()
	if m.Stamina != 92 || m.Satiety != 98 || m.Hydration != 98 {
		t.Fatalf("unexpected meters after suburb explore: %+v", m)
	}
	if run.Stats.TotalExploreEvents != 1 || !run.Stats.Visited.Suburb {
		t.Fatalf("expected explore counted and suburb visited, got %+v", run.Stats)
	}

	run.Ledger.Set(MeterStamina, 7)
	if res := run.Explore(TierSuburb); res.Reason != ReasonInsufficient {
		t.Fatalf("expected insufficient stamina, got %+v", res)
	}
	if run.Stats.TotalExploreEvents != 1 {
		t.Fatalf("expected aborted explore not counted")
	}
}

func TestExploreBonusUsesItsOwnRoll(t *testing.T) {
	lucky, err := NewRunState(RunConfig{
		Seed:     3,
		Resolver: NewResolverWithSources(3, map[Stream]Source{StreamBonus: &fixedSource{floats: []float64{0.1}}}),
	})
	if err != nil {
		t.Fatalf("new run state: %v", err)
	}
	startActions(t, &lucky, "B")
	lucky.Unlocks.Suburb = true
	mustApply(t, lucky.Explore(TierSuburb))
	if lucky.Inventory.Count(ItemSealedCan) != 1 {
		t.Fatalf("expected a sealed can from the bonus roll")
	}

	unlucky, err := NewRunState(RunConfig{
		Seed:     3,
		Resolver: NewResolverWithSources(3, map[Stream]Source{StreamBonus: &fixedSource{floats: []float64{0.5}}}),
	})
	if err != nil {
		t.Fatalf("new run state: %v", err)
	}
	startActions(t, &unlucky, "B")
	unlucky.Unlocks.Suburb = true
	mustApply(t, unlucky.Explore(TierSuburb))
	if unlucky.Inventory.Count(ItemSealedCan) != 0 {
		t.Fatalf("expected no bonus item on a 0.5 roll")
	}
}

func TestNpcEncounterHelpAndRefuse(t *testing.T) {
	run := newRunForTest(t)
	startActions(t, &run, "B")
	run.Ledger.Set(MeterSocial, 100)

	res := run.EndWeek()
	mustApply(t, res)
	if run.PendingNPC == nil || res.Record == nil {
		t.Fatalf("expected a visitor at social 100")
	}
	if adv := run.AdvanceWeek(); adv.Reason != ReasonIllegalPhase {
		t.Fatalf("expected advance blocked by pending visitor, got %+v", adv)
	}

	run.Ledger.Set(MeterSocial, 90)
	run.Ledger.Set(MeterSanity, 90)
	mustApply(t, run.ResolveNpc(true))
	m := run.Meters()
	if m.Social != 95 || m.Sanity != 93 || m.Satiety != 95 || m.Hydration != 95 {
		t.Fatalf("unexpected meters after helping: %+v", m)
	}
	if run.Stats.TotalNpcEvents != 1 || run.PendingNPC != nil {
		t.Fatalf("expected visitor resolved and counted")
	}
	if res := run.ResolveNpc(false); res.Reason != ReasonIllegalPhase {
		t.Fatalf("expected no second resolution, got %+v", res)
	}
	mustApply(t, run.AdvanceWeek())

	startActions(t, &run, "B")
	run.Ledger.Set(MeterSocial, 100)
	mustApply(t, run.EndWeek())
	before := run.Ledger.Get(MeterSanity)
	mustApply(t, run.ResolveNpc(false))
	if got := run.Ledger.Get(MeterSanity); got != before-5 {
		t.Fatalf("expected refusal to cost 5 sanity, got %d from %d", got, before)
	}
	if run.Stats.TotalNpcEvents != 2 {
		t.Fatalf("expected refusal to count as a visitor event, got %d", run.Stats.TotalNpcEvents)
	}
}

func TestNoVisitorAtZeroSocial(t *testing.T) {
	run := newRunForTest(t)
	startActions(t, &run, "B")
	run.Ledger.Set(MeterSocial, 0)
	mustApply(t, run.EndWeek())
	if run.PendingNPC != nil {
		t.Fatalf("expected no visitor at social 0")
	}
}

func TestHelpingTeacherUnlocksFutureHope(t *testing.T) {
	provider := stubContent{pools: map[string][]content.Record{
		content.CategoryNPC: {{ID: futureHopeNPC, Category: content.CategoryNPC, Title: "The teacher", Help: "Lessons continue."}},
	}}
	run, err := NewRunState(RunConfig{Seed: 8, Content: provider})
	if err != nil {
		t.Fatalf("new run state: %v", err)
	}
	startActions(t, &run, "B")
	run.Ledger.Set(MeterSocial, 100)
	mustApply(t, run.EndWeek())
	res := run.ResolveNpc(true)
	mustApply(t, res)
	if res.Message != "Lessons continue." {
		t.Fatalf("expected help outcome text, got %q", res.Message)
	}
	if !run.HasAchievement(AchievementFutureHope) {
		t.Fatalf("expected future-hope achievement")
	}
}

func TestDrawnRecordUnlocksAchievementOnce(t *testing.T) {
	sink := &recordingSink{}
	provider := stubContent{pools: map[string][]content.Record{
		content.DailyCategory(string(DailyDrink)): {{ID: "drink-7", Title: "Chemistry"}},
	}}
	run, err := NewRunState(RunConfig{Seed: 8, Content: provider, Sink: sink})
	if err != nil {
		t.Fatalf("new run state: %v", err)
	}
	startActions(t, &run, "B")
	mustApply(t, run.DailyAction(DailyDrink))
	mustApply(t, run.DailyAction(DailyDrink))

	if len(sink.ids) != 1 || sink.ids[0] != "science-survivor" {
		t.Fatalf("expected one science-survivor unlock, got %v", sink.ids)
	}
}

type recordingSink struct {
	ids []string
}

func (r *recordingSink) Unlock(id string) {
	r.ids = append(r.ids, id)
}

func TestFinalWeekClassifies(t *testing.T) {
	run := newQuietRun(t, 2)
	for week := 1; week <= 2; week++ {
		startActions(t, &run, "B")
		mustApply(t, run.EndWeek())
		res := run.AdvanceWeek()
		mustApply(t, res)
		if week == 2 && res.Ending == nil {
			t.Fatalf("expected an ending in the final week")
		}
	}
	if run.Phase != PhaseEnded {
		t.Fatalf("expected ended phase, got %s", run.Phase)
	}
	if run.Week != 2 {
		t.Fatalf("expected week to stay at 2, got %d", run.Week)
	}
	if run.EndingID != "extreme-hermit" {
		t.Fatalf("expected hermit ending for a run that never explored, got %s", run.EndingID)
	}
	if !run.HasAchievement(AchievementFirstEnding) {
		t.Fatalf("expected first-ending achievement")
	}
}

func TestPositiveAlignmentExtremeEnding(t *testing.T) {
	run := newQuietRun(t, 37)
	run.Ledger.Set(MeterSanity, 50)

	for week := 1; week <= 37; week++ {
		mustApply(t, run.SelectOption("positive"))
		mustApply(t, run.EndWeek())
		mustApply(t, run.AdvanceWeek())
	}
	if run.Stats.PositiveChoiceCount != 37 {
		t.Fatalf("expected 37 positive choices, got %d", run.Stats.PositiveChoiceCount)
	}
	if run.EndingID != "extreme-active-survivor" {
		t.Fatalf("expected active survivor ending, got %s", run.EndingID)
	}
}

func TestWeekSummaryTracksDeltas(t *testing.T) {
	run := newRunForTest(t)
	startActions(t, &run, "A")
	mustApply(t, run.DailyAction(DailyExercise))

	sum := run.WeekSummary()
	if sum.Deltas[MeterCombat] != 5 {
		t.Fatalf("expected combat +5 this week, got %d", sum.Deltas[MeterCombat])
	}
	if sum.Deltas[MeterStamina] != -15 {
		t.Fatalf("expected stamina -15 this week, got %d", sum.Deltas[MeterStamina])
	}
	if sum.Counts.Daily != 1 {
		t.Fatalf("expected one daily action, got %d", sum.Counts.Daily)
	}
}

func TestRestartResetsRun(t *testing.T) {
	run := newRunForTest(t)
	startActions(t, &run, "A")
	mustApply(t, run.DailyAction(DailyExercise))
	oldID := run.RunID

	mustApply(t, run.Restart())
	if run.Week != 1 || run.Phase != PhaseStory || run.Stats.TotalDailyEvents != 0 {
		t.Fatalf("expected fresh run, got week=%d phase=%s", run.Week, run.Phase)
	}
	if run.RunID == oldID {
		t.Fatalf("expected new run id")
	}
}
