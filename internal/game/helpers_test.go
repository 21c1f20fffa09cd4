package game

import (
	"testing"

	"github.com/appengine-ltd/under-the-shadow/internal/content"
)

type stubContent struct {
	pools   map[string][]content.Record
	stories map[int]content.Story
}

func (c stubContent) Pool(category string) []content.Record {
	return c.pools[category]
}

func (c stubContent) Story(week int) (content.Story, bool) {
	story, ok := c.stories[week]
	return story, ok
}

// fixedSource replays scripted values; once exhausted it returns 0 and 0.99.
type fixedSource struct {
	ints   []int
	floats []float64
}

func (f *fixedSource) IntN(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v % n
}

func (f *fixedSource) Float64() float64 {
	if len(f.floats) == 0 {
		return 0.99
	}
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func newRunForTest(t *testing.T) RunState {
	t.Helper()

	run, err := NewRunState(RunConfig{Seed: 909})
	if err != nil {
		t.Fatalf("new run state: %v", err)
	}
	return run
}

// newQuietRun never rolls a visitor at week end.
func newQuietRun(t *testing.T, finalWeek int) RunState {
	t.Helper()

	run, err := NewRunState(RunConfig{
		Seed:      77,
		FinalWeek: finalWeek,
		Resolver:  NewResolverWithSources(77, map[Stream]Source{StreamNPCGate: &fixedSource{}}),
	})
	if err != nil {
		t.Fatalf("new run state: %v", err)
	}
	return run
}

func mustApply(t *testing.T, res CommandResult) {
	t.Helper()
	if !res.Applied {
		t.Fatalf("expected command to apply, got reason=%q message=%q", res.Reason, res.Message)
	}
}

func startActions(t *testing.T, run *RunState, choice string) {
	t.Helper()
	mustApply(t, run.SelectOption(choice))
	if run.Phase != PhaseActions {
		t.Fatalf("expected actions phase, got %s", run.Phase)
	}
}
