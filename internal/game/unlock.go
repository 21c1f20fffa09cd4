package game

import "strings"

type Tier string

const (
	TierSuburb Tier = "suburb"
	TierCity   Tier = "city"
	TierMall   Tier = "mall"
)

func AllTiers() []Tier {
	return []Tier{TierSuburb, TierCity, TierMall}
}

func ParseTier(raw string) (Tier, bool) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	for _, t := range AllTiers() {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}

type UnlockRules struct {
	SuburbWeek int `json:"suburb_week" yaml:"suburb_week"`
	CityCombat int `json:"city_combat" yaml:"city_combat"`
	CityWeek   int `json:"city_week" yaml:"city_week"`
	MallCombat int `json:"mall_combat" yaml:"mall_combat"`
	MallWeek   int `json:"mall_week" yaml:"mall_week"`
}

// Unlocks is a ratchet: Advance only ever adds tiers.
type Unlocks struct {
	Suburb bool `json:"suburb"`
	City   bool `json:"city"`
	Mall   bool `json:"mall"`
}

func (u Unlocks) Advance(week, combat int, rules UnlockRules) Unlocks {
	return Unlocks{
		Suburb: u.Suburb || week >= rules.SuburbWeek,
		City:   u.City || combat >= rules.CityCombat || week >= rules.CityWeek,
		Mall:   u.Mall || combat >= rules.MallCombat || week >= rules.MallWeek,
	}
}

func (u Unlocks) Open(t Tier) bool {
	switch t {
	case TierSuburb:
		return u.Suburb
	case TierCity:
		return u.City
	case TierMall:
		return u.Mall
	default:
		return false
	}
}

type Visits struct {
	Suburb bool `json:"suburb"`
	City   bool `json:"city"`
	Mall   bool `json:"mall"`
}

func (v *Visits) mark(t Tier) {
	switch t {
	case TierSuburb:
		v.Suburb = true
	case TierCity:
		v.City = true
	case TierMall:
		v.Mall = true
	}
}

func (v Visits) Any() bool {
	return v.Suburb || v.City || v.Mall
}
