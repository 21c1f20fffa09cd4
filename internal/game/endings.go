package game

type EndingType string

const (
	EndingDeath   EndingType = "death"
	EndingEaster  EndingType = "easter"
	EndingExtreme EndingType = "extreme"
	EndingSpecial EndingType = "special"
	EndingNormal  EndingType = "normal"
)

const EasterSleepID = "easter-sleep"

type Ending struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          EndingType `json:"type"`
	ConditionText string     `json:"condition_text"`
	Body          string     `json:"body"`
}

// EndingRules are the numeric thresholds of the cascade.
type EndingRules struct {
	DebtWorkDeath    int `json:"debt_work_death" yaml:"debt_work_death"`
	EasterClicks     int `json:"easter_clicks" yaml:"easter_clicks"`
	WarGodCombat     int `json:"war_god_combat" yaml:"war_god_combat"`
	SocialKing       int `json:"social_king" yaml:"social_king"`
	LongWeeks        int `json:"long_weeks" yaml:"long_weeks"`
	ExplorerEvents   int `json:"explorer_events" yaml:"explorer_events"`
	DailyEvents      int `json:"daily_events" yaml:"daily_events"`
	HelperEvents     int `json:"helper_events" yaml:"helper_events"`
	HoarderBought    int `json:"hoarder_bought" yaml:"hoarder_bought"`
	MerchantSold     int `json:"merchant_sold" yaml:"merchant_sold"`
	PainBearerWeeks  int `json:"pain_bearer_weeks" yaml:"pain_bearer_weeks"`
	ZeroStaminaWeeks int `json:"zero_stamina_weeks" yaml:"zero_stamina_weeks"`
}

// Standing is the classifier's whole input.
type Standing struct {
	Meters Meters
	Stats  Stats
}

type endingRule struct {
	id    string
	match func(Standing) bool
}

func endingCascade(r EndingRules) []endingRule {
	return []endingRule{
		{"death-blood", func(s Standing) bool { return s.Meters.Health <= 0 }},
		{"death-madness", func(s Standing) bool { return s.Meters.Sanity <= 0 }},
		{"death-debt", func(s Standing) bool { return s.Stats.DebtWorkCount >= r.DebtWorkDeath }},

		{EasterSleepID, func(s Standing) bool { return s.Stats.NeverGiveUpClicks >= r.EasterClicks }},

		{"extreme-war-god", func(s Standing) bool { return s.Meters.Combat >= r.WarGodCombat }},
		{"extreme-social-king", func(s Standing) bool { return s.Meters.Social >= r.SocialKing }},
		{"extreme-steel-will", func(s Standing) bool { return s.Stats.WeeksHighSanity > r.LongWeeks }},
		{"extreme-active-survivor", func(s Standing) bool { return s.Stats.PositiveChoiceCount > r.LongWeeks }},
		{"extreme-rational-survivor", func(s Standing) bool { return s.Stats.RationalChoiceCount > r.LongWeeks }},
		{"extreme-lie-flat-master", func(s Standing) bool { return s.Stats.SlackChoiceCount > r.LongWeeks }},
		{"extreme-explorer", func(s Standing) bool { return s.Stats.TotalExploreEvents > r.ExplorerEvents }},
		{"extreme-daily-master", func(s Standing) bool { return s.Stats.TotalDailyEvents > r.DailyEvents }},
		{"extreme-helper", func(s Standing) bool { return s.Stats.TotalNpcEvents > r.HelperEvents }},
		{"extreme-hoarder", func(s Standing) bool { return s.Stats.TotalItemsBought > r.HoarderBought }},
		{"extreme-merchant", func(s Standing) bool { return s.Stats.TotalItemsSold > r.MerchantSold }},
		{"extreme-healthy-life", func(s Standing) bool { return s.Stats.WeeksHealthy > r.LongWeeks }},
		{"extreme-pain-bearer", func(s Standing) bool { return s.Stats.WeeksHungerOrThirst > r.PainBearerWeeks }},
		{"extreme-hermit", func(s Standing) bool { return !s.Stats.Visited.Any() }},
		{"extreme-never-rest", func(s Standing) bool { return s.Stats.NeverRest }},
		{"extreme-zero-stamina", func(s Standing) bool { return s.Stats.StaminaZeroWeeks >= r.ZeroStaminaWeeks }},

		{"special-rebuilder", func(s Standing) bool {
			return s.Meters.Social >= 100 && s.Stats.TotalNpcEvents >= 20 && s.Stats.TotalItemsBought >= 30 &&
				s.Meters.Satiety >= 60 && s.Meters.Hydration >= 60
		}},
		{"special-lonely-king", func(s Standing) bool {
			return s.Meters.Social <= 20 && s.Stats.TotalNpcEvents == 0 && s.Meters.Combat >= 120 &&
				!s.Stats.Visited.City && !s.Stats.Visited.Mall
		}},
		{"special-truth-seeker", func(s Standing) bool {
			return s.Stats.TotalExploreEvents >= 70 && s.Stats.TotalDailyEvents >= 50 &&
				s.Meters.Sanity >= 40 && s.Meters.Sanity <= 70
		}},
		{"special-cat-servant", func(s Standing) bool {
			return s.Stats.CatPlayCount >= 30 && s.Meters.Sanity >= 60
		}},
	}
}

// Classify walks the cascade and returns the first matching ending present in
// the catalog. A rule whose ending is missing from the catalog falls through.
func Classify(st Standing, catalog []Ending, rules EndingRules) Ending {
	for _, rule := range endingCascade(rules) {
		if !rule.match(st) {
			continue
		}
		if e, ok := catalogEnding(catalog, rule.id); ok {
			return e
		}
	}
	return normalEnding(catalog)
}

func catalogEnding(catalog []Ending, id string) (Ending, bool) {
	if e, ok := EndingByID(catalog, id); ok {
		return e, true
	}
	if id == EasterSleepID {
		for _, e := range catalog {
			if e.Type == EndingEaster {
				return e, true
			}
		}
	}
	return Ending{}, false
}

func normalEnding(catalog []Ending) Ending {
	for _, e := range catalog {
		if e.Type == EndingNormal {
			return e
		}
	}
	if len(catalog) == 0 {
		return Ending{}
	}
	return catalog[len(catalog)-1]
}

func EndingByID(catalog []Ending, id string) (Ending, bool) {
	for _, e := range catalog {
		if e.ID == id {
			return e, true
		}
	}
	return Ending{}, false
}

func BuiltInEndings() []Ending {
	return []Ending{
		{
			ID: "death-blood", Name: "Bled Out", Type: EndingDeath,
			ConditionText: "Health reaches 0.",
			Body:          "The wounds you ignored did not ignore you. The city keeps your name on a wall of chalk.",
		},
		{
			ID: "death-madness", Name: "The Quiet Inside", Type: EndingDeath,
			ConditionText: "Sanity reaches 0.",
			Body:          "One morning the voices in your head outnumbered the voices outside. You followed them.",
		},
		{
			ID: "death-debt", Name: "Worked to the Bone", Type: EndingDeath,
			ConditionText: "Take on debt labour 3 or more times.",
			Body:          "The foremen never told you how much you still owed. The answer was everything.",
		},
		{
			ID: EasterSleepID, Name: "Never Give Up (Asleep)", Type: EndingEaster,
			ConditionText: "Insist on resting ten times in one week.",
			Body:          "You told yourself to never give up, and you never got up. The shadow passed while you slept.",
		},
		{
			ID: "extreme-war-god", Name: "God of War", Type: EndingExtreme,
			ConditionText: "Combat reaches 160.",
			Body:          "Gangs cross the street when they see you. You became the thing the city fears.",
		},
		{
			ID: "extreme-social-king", Name: "King of Connections", Type: EndingExtreme,
			ConditionText: "Social reaches 160.",
			Body:          "Every survivor in the district knows your name and owes you a favour.",
		},
		{
			ID: "extreme-steel-will", Name: "Will of Steel", Type: EndingExtreme,
			ConditionText: "Keep sanity at 80+ for more than 36 weeks.",
			Body:          "Nothing the year threw at you cracked the calm at your centre.",
		},
		{
			ID: "extreme-active-survivor", Name: "Active Survivor", Type: EndingExtreme,
			ConditionText: "Choose the positive path more than 36 times.",
			Body:          "You met every week head on. The city is a little more alive because of it.",
		},
		{
			ID: "extreme-rational-survivor", Name: "Rational Survivor", Type: EndingExtreme,
			ConditionText: "Choose the rational path more than 36 times.",
			Body:          "Lists, plans, rations and margins. You out-thought the end of the world.",
		},
		{
			ID: "extreme-lie-flat-master", Name: "Master of Lying Flat", Type: EndingExtreme,
			ConditionText: "Choose the slack path more than 36 times.",
			Body:          "The apocalypse tried very hard to make you care. It did not succeed.",
		},
		{
			ID: "extreme-explorer", Name: "Cartographer of Ruins", Type: EndingExtreme,
			ConditionText: "Explore more than 80 times.",
			Body:          "Your maps are the only accurate ones left. People trade food for copies.",
		},
		{
			ID: "extreme-daily-master", Name: "Master of Routine", Type: EndingExtreme,
			ConditionText: "Complete more than 50 daily actions.",
			Body:          "Cook, drink, read, repeat. Routine was the wall you built against the dark.",
		},
		{
			ID: "extreme-helper", Name: "The Helper", Type: EndingExtreme,
			ConditionText: "Meet strangers more than 30 times.",
			Body:          "You opened your door more often than anyone. Some days it was the only open door.",
		},
		{
			ID: "extreme-hoarder", Name: "The Hoarder", Type: EndingExtreme,
			ConditionText: "Buy more than 50 items.",
			Body:          "Your flat is a warehouse. You will survive the next apocalypse too.",
		},
		{
			ID: "extreme-merchant", Name: "The Merchant", Type: EndingExtreme,
			ConditionText: "Sell more than 80 items.",
			Body:          "Everything has a price, and you learned all of them.",
		},
		{
			ID: "extreme-healthy-life", Name: "Healthy Living", Type: EndingExtreme,
			ConditionText: "Stay well fed and watered for more than 36 weeks.",
			Body:          "You ate well and drank clean water through the end of the world. Your doctor would be proud.",
		},
		{
			ID: "extreme-pain-bearer", Name: "Bearer of Pain", Type: EndingExtreme,
			ConditionText: "Go hungry or thirsty for more than 20 weeks.",
			Body:          "Hunger became a companion you stopped noticing. You are harder now, and thinner.",
		},
		{
			ID: "extreme-hermit", Name: "The Hermit", Type: EndingExtreme,
			ConditionText: "Never leave home to explore.",
			Body:          "The world outside your door remained a rumour. You were fine with that.",
		},
		{
			ID: "extreme-never-rest", Name: "Sleepless", Type: EndingExtreme,
			ConditionText: "Never rest for a whole year.",
			Body:          "You never stopped moving. Nobody is sure if you ever will.",
		},
		{
			ID: "extreme-zero-stamina", Name: "Running on Empty", Type: EndingExtreme,
			ConditionText: "End 44 or more weeks with no stamina left.",
			Body:          "Exhaustion was your only season. Somehow, you are still standing.",
		},
		{
			ID: "special-rebuilder", Name: "The Rebuilder", Type: EndingSpecial,
			ConditionText: "Social 100+, 20+ strangers helped, 30+ items bought, well fed and watered.",
			Body:          "The block elects you to run the shared kitchen. It is the start of something like a town.",
		},
		{
			ID: "special-lonely-king", Name: "The Lonely King", Type: EndingSpecial,
			ConditionText: "Social 20 or less, no strangers met, combat 120+, never in the city or mall.",
			Body:          "You rule an empty suburb with a strong arm and no subjects.",
		},
		{
			ID: "special-truth-seeker", Name: "Seeker of Truth", Type: EndingSpecial,
			ConditionText: "Explore 70+ times, 50+ daily actions, sanity between 40 and 70.",
			Body:          "You found out what caused it all. You wish you had not.",
		},
		{
			ID: "special-cat-servant", Name: "Servant of the Cat", Type: EndingSpecial,
			ConditionText: "Play with the cat 30+ times and keep sanity 60+.",
			Body:          "The cat survived the apocalypse. You were its staff.",
		},
		{
			ID: "normal-survivor", Name: "Survivor", Type: EndingNormal,
			ConditionText: "Reach the end of the year.",
			Body:          "A year under the shadow, and you are still here. That is enough.",
		},
	}
}
