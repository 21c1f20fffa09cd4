package game

import (
	"fmt"
	"strings"
)

type Alignment string

const (
	AlignPositive Alignment = "positive"
	AlignRational Alignment = "rational"
	AlignSlack    Alignment = "slack"
)

func ParseAlignment(raw string) (Alignment, error) {
	switch Alignment(strings.TrimSpace(strings.ToLower(raw))) {
	case AlignPositive:
		return AlignPositive, nil
	case AlignRational:
		return AlignRational, nil
	case AlignSlack:
		return AlignSlack, nil
	default:
		return "", fmt.Errorf("unknown alignment: %s", raw)
	}
}

type CheckpointRules struct {
	HighSanity  int `json:"high_sanity" yaml:"high_sanity"`
	HealthyAt   int `json:"healthy_at" yaml:"healthy_at"`
	HungryBelow int `json:"hungry_below" yaml:"hungry_below"`
}

// Stats are the run-long counters. They only ever grow, except NeverRest
// which drops to false once.
type Stats struct {
	PositiveChoiceCount int               `json:"positive_choice_count"`
	RationalChoiceCount int               `json:"rational_choice_count"`
	SlackChoiceCount    int               `json:"slack_choice_count"`
	AlignCounts         map[Alignment]int `json:"align_counts"`

	TotalDailyEvents   int `json:"total_daily_events"`
	TotalExploreEvents int `json:"total_explore_events"`
	TotalNpcEvents     int `json:"total_npc_events"`
	TotalItemsBought   int `json:"total_items_bought"`
	TotalItemsSold     int `json:"total_items_sold"`

	WeeksHighSanity     int `json:"weeks_high_sanity"`
	WeeksHealthy        int `json:"weeks_healthy"`
	WeeksHungerOrThirst int `json:"weeks_hunger_or_thirst"`
	StaminaZeroWeeks    int `json:"stamina_zero_weeks"`

	NeverGiveUpClicks int  `json:"never_give_up_clicks"`
	DebtWorkCount     int  `json:"debt_work_count"`
	CatPlayCount      int  `json:"cat_play_count"`
	NeverRest         bool `json:"never_rest"`

	Visited Visits `json:"visited"`
}

func NewStats() Stats {
	return Stats{
		AlignCounts: map[Alignment]int{},
		NeverRest:   true,
	}
}

func (s *Stats) RecordChoice(a Alignment) {
	if s.AlignCounts == nil {
		s.AlignCounts = map[Alignment]int{}
	}
	s.AlignCounts[a]++
	switch a {
	case AlignPositive:
		s.PositiveChoiceCount++
	case AlignRational:
		s.RationalChoiceCount++
	case AlignSlack:
		s.SlackChoiceCount++
	}
}

// Checkpoint runs once per week, at week end. The four gates are independent.
func (s *Stats) Checkpoint(m Meters, rules CheckpointRules) {
	if m.Sanity >= rules.HighSanity {
		s.WeeksHighSanity++
	}
	if m.Satiety >= rules.HealthyAt && m.Hydration >= rules.HealthyAt {
		s.WeeksHealthy++
	}
	if m.Satiety < rules.HungryBelow || m.Hydration < rules.HungryBelow {
		s.WeeksHungerOrThirst++
	}
	if m.Stamina <= 0 {
		s.StaminaZeroWeeks++
	}
}

func (s Stats) clone() Stats {
	out := s
	out.AlignCounts = make(map[Alignment]int, len(s.AlignCounts))
	for k, v := range s.AlignCounts {
		out.AlignCounts[k] = v
	}
	return out
}

// WeekCounts tallies the current week only, for the settlement summary.
type WeekCounts struct {
	Daily   int `json:"daily"`
	Explore int `json:"explore"`
	Npc     int `json:"npc"`
	Bought  int `json:"bought"`
	Sold    int `json:"sold"`
}
