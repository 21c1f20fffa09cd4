package game

import (
	"errors"
	"fmt"

	"github.com/appengine-ltd/under-the-shadow/internal/content"
)

const SnapshotFormatVersion = 1

// Snapshot is everything needed to resume a run. Meters sit under "stats"
// and alignment counts at the top level so the minimal resume shape
// {week, phase, stats, alignCounts} reads the same.
type Snapshot struct {
	FormatVersion int               `json:"format_version"`
	RunID         string            `json:"run_id"`
	Seed          int64             `json:"seed"`
	FinalWeek     int               `json:"final_week"`
	Week          int               `json:"week"`
	Phase         Phase             `json:"phase"`
	Meters        Meters            `json:"stats"`
	AlignCounts   map[Alignment]int `json:"align_counts"`
	Counters      Stats             `json:"counters"`
	Unlocks       Unlocks           `json:"unlocks"`
	Inventory     Inventory         `json:"inventory"`
	Stock         Inventory         `json:"stock"`
	Achievements  []string          `json:"achievements"`

	SelectedOption     string          `json:"selected_option,omitempty"`
	RestClicksThisWeek int             `json:"rest_clicks_this_week"`
	Settling           bool            `json:"settling"`
	PendingNPC         *content.Record `json:"pending_npc,omitempty"`
	WeekStart          Meters          `json:"week_start"`
	ThisWeek           WeekCounts      `json:"this_week"`
	EndingID           string          `json:"ending_id,omitempty"`
	Log                []string        `json:"log,omitempty"`
}

var ErrInvalidSnapshot = errors.New("invalid snapshot")

func (s *RunState) Snapshot() Snapshot {
	counters := s.Stats.clone()
	align := make(map[Alignment]int, len(counters.AlignCounts))
	for k, v := range counters.AlignCounts {
		align[k] = v
	}
	inv := make(Inventory, len(s.Inventory))
	for k, v := range s.Inventory {
		inv[k] = v
	}
	stock := make(Inventory, len(s.Stock))
	for k, v := range s.Stock {
		stock[k] = v
	}
	snap := Snapshot{
		FormatVersion:      SnapshotFormatVersion,
		RunID:              s.RunID,
		Seed:               s.Config.Seed,
		FinalWeek:          s.Config.FinalWeek,
		Week:               s.Week,
		Phase:              s.Phase,
		Meters:             s.Ledger.Meters,
		AlignCounts:        align,
		Counters:           counters,
		Unlocks:            s.Unlocks,
		Inventory:          inv,
		Stock:              stock,
		Achievements:       append([]string{}, s.Achievements...),
		SelectedOption:     s.SelectedOption,
		RestClicksThisWeek: s.RestClicksThisWeek,
		Settling:           s.Settling,
		WeekStart:          s.WeekStart,
		ThisWeek:           s.ThisWeek,
		EndingID:           s.EndingID,
		Log:                append([]string(nil), s.Log...),
	}
	if s.PendingNPC != nil {
		rec := *s.PendingNPC
		snap.PendingNPC = &rec
	}
	return snap
}

// Restore rebuilds a run from a snapshot. Random streams are reseeded from
// the stored seed and week.
func Restore(snap Snapshot, config RunConfig) (RunState, error) {
	if snap.FormatVersion != SnapshotFormatVersion {
		return RunState{}, fmt.Errorf("%w: format version %d", ErrInvalidSnapshot, snap.FormatVersion)
	}
	if !snap.Phase.valid() {
		return RunState{}, fmt.Errorf("%w: phase %q", ErrInvalidSnapshot, snap.Phase)
	}

	config.Seed = snap.Seed
	if snap.FinalWeek > 0 {
		config.FinalWeek = snap.FinalWeek
	}
	config.Resolver = nil
	state, err := NewRunState(config)
	if err != nil {
		return RunState{}, err
	}
	if snap.Week < 1 || snap.Week > state.Config.FinalWeek {
		return RunState{}, fmt.Errorf("%w: week %d outside 1..%d", ErrInvalidSnapshot, snap.Week, state.Config.FinalWeek)
	}
	if snap.Phase == PhaseEnded {
		if _, ok := EndingByID(state.Config.Endings, snap.EndingID); !ok {
			return RunState{}, fmt.Errorf("%w: unknown ending %q", ErrInvalidSnapshot, snap.EndingID)
		}
	}
	if snap.Settling && snap.Phase != PhaseActions {
		return RunState{}, fmt.Errorf("%w: settlement outside the actions phase", ErrInvalidSnapshot)
	}
	if snap.PendingNPC != nil && !snap.Settling {
		return RunState{}, fmt.Errorf("%w: visitor pending outside settlement", ErrInvalidSnapshot)
	}

	counters := snap.Counters
	counters.AlignCounts = map[Alignment]int{}
	for k, v := range snap.AlignCounts {
		counters.AlignCounts[k] = v
	}

	if snap.RunID != "" {
		state.RunID = snap.RunID
	}
	state.Week = snap.Week
	state.Phase = snap.Phase
	state.Ledger.Meters = state.Ledger.Limits.clampAll(snap.Meters)
	state.Stats = counters
	state.Unlocks = snap.Unlocks
	state.Inventory = Inventory{}
	for k, v := range snap.Inventory {
		state.Inventory.add(k, v)
	}
	if snap.Stock != nil {
		state.Stock = Inventory{}
		for k, v := range snap.Stock {
			state.Stock[k] = max(v, 0)
		}
	}
	state.Achievements = append([]string(nil), snap.Achievements...)
	state.SelectedOption = snap.SelectedOption
	state.RestClicksThisWeek = snap.RestClicksThisWeek
	state.Settling = snap.Settling
	state.PendingNPC = snap.PendingNPC
	state.WeekStart = snap.WeekStart
	state.ThisWeek = snap.ThisWeek
	state.EndingID = snap.EndingID
	state.Log = append([]string(nil), snap.Log...)
	state.rng = NewResolver(snap.Seed, snap.Week)
	return state, nil
}
