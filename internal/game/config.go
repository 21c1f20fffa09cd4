package game

import (
	"errors"
	"fmt"
)

const DefaultFinalWeek = 45

type DailyKind string

const (
	DailyExercise    DailyKind = "exercise"
	DailyCook        DailyKind = "cook"
	DailyDrink       DailyKind = "drink"
	DailyPlayWithCat DailyKind = "play_with_cat"
	DailyRead        DailyKind = "read"
	DailyRest        DailyKind = "rest"
)

func AllDailyKinds() []DailyKind {
	return []DailyKind{DailyExercise, DailyCook, DailyDrink, DailyPlayWithCat, DailyRead, DailyRest}
}

// Recipe is a guarded stamina cost plus unconditional meter deltas.
type Recipe struct {
	Cost    int           `json:"cost" yaml:"cost"`
	Effects map[Meter]int `json:"effects" yaml:"effects"`
}

type RestRules struct {
	Recover      int `json:"recover" yaml:"recover"`
	Sanity       int `json:"sanity" yaml:"sanity"`
	Penalty      int `json:"penalty" yaml:"penalty"`
	EasterClicks int `json:"easter_clicks" yaml:"easter_clicks"`
}

type StoryRules struct {
	PositiveCost   int `json:"positive_cost" yaml:"positive_cost"`
	PositiveCombat int `json:"positive_combat" yaml:"positive_combat"`
	RationalSanity int `json:"rational_sanity" yaml:"rational_sanity"`
	SlackSanity    int `json:"slack_sanity" yaml:"slack_sanity"`
}

type DebtRules struct {
	Pay    int `json:"pay" yaml:"pay"`
	Health int `json:"health" yaml:"health"`
}

// Balance carries every tunable number the engine uses.
type Balance struct {
	Limits       Limits     `json:"limits" yaml:"limits"`
	Start        Meters     `json:"start" yaml:"start"`
	StaminaReset int        `json:"stamina_reset" yaml:"stamina_reset"`
	WeeklyDecay  int        `json:"weekly_decay" yaml:"weekly_decay"`
	Story        StoryRules `json:"story" yaml:"story"`

	Daily map[DailyKind]Recipe `json:"daily" yaml:"daily"`
	Rest  RestRules            `json:"rest" yaml:"rest"`

	Explore            map[Tier]Recipe `json:"explore" yaml:"explore"`
	ExploreBonusChance float64         `json:"explore_bonus_chance" yaml:"explore_bonus_chance"`
	ExploreBonusItem   string          `json:"explore_bonus_item" yaml:"explore_bonus_item"`
	ScavengeCost       map[Tier]int    `json:"scavenge_cost" yaml:"scavenge_cost"`

	NpcHelp   map[Meter]int `json:"npc_help" yaml:"npc_help"`
	NpcRefuse map[Meter]int `json:"npc_refuse" yaml:"npc_refuse"`

	Debt       DebtRules       `json:"debt" yaml:"debt"`
	Unlocks    UnlockRules     `json:"unlocks" yaml:"unlocks"`
	Checkpoint CheckpointRules `json:"checkpoint" yaml:"checkpoint"`
	Endings    EndingRules     `json:"endings" yaml:"endings"`
	CatServant int             `json:"cat_servant" yaml:"cat_servant"`
}

func DefaultBalance() Balance {
	return Balance{
		Limits: Limits{MaxStamina: 120, StatCeiling: 100, SocialCeiling: 100, SanityCeiling: 120},
		Start: Meters{
			Stamina: 100, Satiety: 100, Hydration: 100, Health: 100,
			Combat: 15, Social: 30, Sanity: 100, Money: 500,
		},
		StaminaReset: 100,
		WeeklyDecay:  10,
		Story:        StoryRules{PositiveCost: 5, PositiveCombat: 3, RationalSanity: 3, SlackSanity: 5},
		Daily: map[DailyKind]Recipe{
			DailyExercise:    {Cost: 10, Effects: map[Meter]int{MeterCombat: 2, MeterHealth: 1}},
			DailyCook:        {Cost: 5, Effects: map[Meter]int{MeterSatiety: 12, MeterSanity: 2}},
			DailyDrink:       {Effects: map[Meter]int{MeterHydration: 15, MeterSanity: 2}},
			DailyPlayWithCat: {Effects: map[Meter]int{MeterSanity: 6}},
			DailyRead:        {Effects: map[Meter]int{MeterSanity: 5, MeterSocial: 1}},
		},
		Rest: RestRules{Recover: 15, Sanity: 5, Penalty: 5, EasterClicks: 10},
		Explore: map[Tier]Recipe{
			TierSuburb: {Cost: 8, Effects: map[Meter]int{MeterSatiety: -2, MeterHydration: -2}},
			TierCity:   {Cost: 15, Effects: map[Meter]int{MeterSatiety: -5, MeterHydration: -5}},
			TierMall:   {Cost: 20, Effects: map[Meter]int{MeterSatiety: -8, MeterHydration: -8}},
		},
		ExploreBonusChance: 0.3,
		ExploreBonusItem:   ItemSealedCan,
		ScavengeCost:       map[Tier]int{TierSuburb: 8, TierCity: 15, TierMall: 22},
		NpcHelp: map[Meter]int{
			MeterSocial: 5, MeterSanity: 3, MeterSatiety: -5, MeterHydration: -5,
		},
		NpcRefuse:  map[Meter]int{MeterSanity: -5},
		Debt:       DebtRules{Pay: 150, Health: 10},
		Unlocks:    UnlockRules{SuburbWeek: 2, CityCombat: 30, CityWeek: 12, MallCombat: 60, MallWeek: 25},
		Checkpoint: CheckpointRules{HighSanity: 80, HealthyAt: 60, HungryBelow: 30},
		Endings: EndingRules{
			DebtWorkDeath:    3,
			EasterClicks:     10,
			WarGodCombat:     160,
			SocialKing:       160,
			LongWeeks:        36,
			ExplorerEvents:   80,
			DailyEvents:      50,
			HelperEvents:     30,
			HoarderBought:    50,
			MerchantSold:     80,
			PainBearerWeeks:  20,
			ZeroStaminaWeeks: 44,
		},
		CatServant: 30,
	}
}

func (b Balance) Validate() error {
	if b.Limits.MaxStamina <= 0 || b.Limits.StatCeiling <= 0 || b.Limits.SocialCeiling <= 0 || b.Limits.SanityCeiling <= 0 {
		return errors.New("limits must be positive")
	}
	if b.Limits.SanityCeiling < b.Limits.StatCeiling {
		return fmt.Errorf("sanity ceiling %d below stat ceiling %d", b.Limits.SanityCeiling, b.Limits.StatCeiling)
	}
	if b.StaminaReset < 0 || b.StaminaReset > b.Limits.MaxStamina {
		return fmt.Errorf("stamina reset %d outside 0..%d", b.StaminaReset, b.Limits.MaxStamina)
	}
	for _, kind := range AllDailyKinds() {
		if kind == DailyRest {
			continue
		}
		if _, ok := b.Daily[kind]; !ok {
			return fmt.Errorf("missing daily recipe: %s", kind)
		}
	}
	for _, tier := range AllTiers() {
		if _, ok := b.Explore[tier]; !ok {
			return fmt.Errorf("missing explore recipe: %s", tier)
		}
	}
	if b.ExploreBonusChance < 0 || b.ExploreBonusChance > 1 {
		return fmt.Errorf("explore bonus chance must be within 0..1, got %v", b.ExploreBonusChance)
	}
	if b.Rest.EasterClicks < 2 {
		return fmt.Errorf("rest easter clicks must be at least 2, got %d", b.Rest.EasterClicks)
	}
	return nil
}

type RunConfig struct {
	Seed      int64
	FinalWeek int
	Balance   Balance
	Content   ContentProvider
	Endings   []Ending
	Resolver  *Resolver
	Sink      AchievementSink
}

func (c RunConfig) Validate() error {
	if c.FinalWeek < 1 {
		return fmt.Errorf("final week must be at least 1, got %d", c.FinalWeek)
	}
	if err := c.Balance.Validate(); err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	if c.Endings != nil && len(c.Endings) == 0 {
		return errors.New("ending catalog is empty")
	}
	return nil
}

// withDefaults fills the zero-valued fields a caller may leave out.
func (c RunConfig) withDefaults() RunConfig {
	if c.FinalWeek == 0 {
		c.FinalWeek = DefaultFinalWeek
	}
	if c.Balance.Limits == (Limits{}) {
		c.Balance = DefaultBalance()
	}
	return c
}
