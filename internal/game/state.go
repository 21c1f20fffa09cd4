package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/appengine-ltd/under-the-shadow/internal/content"
)

type Phase string

const (
	PhaseStory   Phase = "story"
	PhaseActions Phase = "actions"
	PhaseEnded   Phase = "ended"
)

func (p Phase) valid() bool {
	return p == PhaseStory || p == PhaseActions || p == PhaseEnded
}

// ContentProvider supplies flavor pools and weekly stories.
type ContentProvider interface {
	Pool(category string) []content.Record
	Story(week int) (content.Story, bool)
}

type Reason string

const (
	ReasonNone         Reason = ""
	ReasonInsufficient Reason = "insufficient"
	ReasonIllegalPhase Reason = "illegal-phase"
	ReasonLocked       Reason = "locked"
	ReasonUnknown      Reason = "unknown"
	ReasonEmptyPool    Reason = "empty-pool"
	ReasonUnsellable   Reason = "unsellable"
)

// CommandResult reports what a command did. Applied is false when nothing changed.
type CommandResult struct {
	Applied bool            `json:"applied"`
	Reason  Reason          `json:"reason,omitempty"`
	Message string          `json:"message"`
	Record  *content.Record `json:"record,omitempty"`
	Ending  *Ending         `json:"ending,omitempty"`
}

func illegalPhase() CommandResult {
	return CommandResult{Reason: ReasonIllegalPhase, Message: "That is not possible right now."}
}

const maxLogLines = 50

type RunState struct {
	RunID  string    `json:"run_id"`
	Config RunConfig `json:"-"`
	Week   int       `json:"week"`
	Phase  Phase     `json:"phase"`

	Ledger       Ledger    `json:"ledger"`
	Stats        Stats     `json:"stats"`
	Unlocks      Unlocks   `json:"unlocks"`
	Inventory    Inventory `json:"inventory"`
	Stock        Inventory `json:"stock"`
	Achievements []string  `json:"achievements,omitempty"`

	SelectedOption     string          `json:"selected_option,omitempty"`
	RestClicksThisWeek int             `json:"rest_clicks_this_week"`
	Settling           bool            `json:"settling"`
	PendingNPC         *content.Record `json:"pending_npc,omitempty"`
	WeekStart          Meters          `json:"week_start"`
	ThisWeek           WeekCounts      `json:"this_week"`
	EndingID           string          `json:"ending_id,omitempty"`
	Log                []string        `json:"log,omitempty"`

	content ContentProvider
	catalog []Ending
	rng     *Resolver
	sink    AchievementSink
}

func NewRunState(config RunConfig) (RunState, error) {
	resolvedConfig := config.withDefaults()

	if err := resolvedConfig.Validate(); err != nil {
		return RunState{}, err
	}

	if resolvedConfig.Seed == 0 {
		resolvedConfig.Seed = time.Now().UnixNano()
	}

	if resolvedConfig.Content == nil {
		lib, err := content.Default()
		if err != nil {
			return RunState{}, err
		}
		resolvedConfig.Content = lib
	}
	if resolvedConfig.Endings == nil {
		resolvedConfig.Endings = BuiltInEndings()
	}

	state := RunState{
		RunID:     uuid.NewString(),
		Config:    resolvedConfig,
		Week:      1,
		Phase:     PhaseStory,
		Ledger:    NewLedger(resolvedConfig.Balance.Start, resolvedConfig.Balance.Limits),
		Stats:     NewStats(),
		Inventory: Inventory{},
		Stock:     DefaultStock(),
	}
	state.Unlocks = Unlocks{}.Advance(state.Week, state.Ledger.Meters.Combat, resolvedConfig.Balance.Unlocks)
	state.WeekStart = state.Ledger.Meters
	state.bind(resolvedConfig.Resolver)
	state.appendLog("Week 1 begins.")

	return state, nil
}

// bind attaches the runtime collaborators that are not part of a snapshot.
func (s *RunState) bind(resolver *Resolver) {
	s.content = s.Config.Content
	s.catalog = s.Config.Endings
	s.sink = s.Config.Sink
	if resolver == nil {
		resolver = NewResolver(s.Config.Seed, s.Week)
	}
	s.rng = resolver
	if s.Inventory == nil {
		s.Inventory = Inventory{}
	}
	if s.Stock == nil {
		s.Stock = DefaultStock()
	}
	if s.Stats.AlignCounts == nil {
		s.Stats.AlignCounts = map[Alignment]int{}
	}
}

func (s *RunState) Meters() Meters {
	return s.Ledger.Meters
}

func (s *RunState) Standing() Standing {
	return Standing{Meters: s.Ledger.Meters, Stats: s.Stats.clone()}
}

func (s *RunState) Ending() (Ending, bool) {
	if s.EndingID == "" {
		return Ending{}, false
	}
	return EndingByID(s.catalog, s.EndingID)
}

func (s *RunState) Catalog() []Ending {
	out := make([]Ending, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// CurrentStory returns the authored story for the week, or a generic one.
func (s *RunState) CurrentStory() content.Story {
	if s.content != nil {
		if story, ok := s.content.Story(s.Week); ok {
			return story
		}
	}
	return genericStory(s.Week)
}

func genericStory(week int) content.Story {
	return content.Story{
		Week:  week,
		Title: fmt.Sprintf("Week %d: Another week under the shadow", week),
		Body:  "The days blur together. The shadow over the city has not lifted, and the week ahead needs a plan.",
		Options: []content.Option{
			{ID: "A", Label: "Push forward", Description: "Train, fortify and face whatever comes.", Alignment: string(AlignPositive)},
			{ID: "B", Label: "Think it through", Description: "Count supplies and plan the week.", Alignment: string(AlignRational)},
			{ID: "C", Label: "Take it easy", Description: "Let the week happen.", Alignment: string(AlignSlack)},
		},
	}
}

func (s *RunState) freeToAct() bool {
	return s.Phase == PhaseActions && !s.Settling
}

func (s *RunState) applied(message string) CommandResult {
	s.appendLog(message)
	return CommandResult{Applied: true, Message: message}
}

func (s *RunState) appendLog(line string) {
	if line == "" {
		return
	}
	s.Log = append(s.Log, line)
	if len(s.Log) > maxLogLines {
		s.Log = append([]string(nil), s.Log[len(s.Log)-maxLogLines:]...)
	}
}

func (s *RunState) drawRecord(stream Stream, category string) (content.Record, bool) {
	if s.content == nil {
		return content.Record{}, false
	}
	return Draw(s.rng, stream, s.content.Pool(category))
}

type WeekSummary struct {
	Week   int           `json:"week"`
	Deltas map[Meter]int `json:"deltas"`
	Counts WeekCounts    `json:"counts"`
}

func (s *RunState) WeekSummary() WeekSummary {
	deltas := make(map[Meter]int, len(AllMeters()))
	for _, m := range AllMeters() {
		deltas[m] = s.Ledger.Meters.Get(m) - s.WeekStart.Get(m)
	}
	return WeekSummary{Week: s.Week, Deltas: deltas, Counts: s.ThisWeek}
}
