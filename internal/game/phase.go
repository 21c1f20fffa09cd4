package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/appengine-ltd/under-the-shadow/internal/content"
)

const neverGiveUpMessage = "Never give up!"

var ErrUnknownOption = errors.New("unknown story option")

func (s *RunState) findOption(choice string) (content.Option, error) {
	choice = strings.TrimSpace(choice)
	story := s.CurrentStory()
	for _, opt := range story.Options {
		if strings.EqualFold(opt.ID, choice) {
			return opt, nil
		}
	}
	if a, err := ParseAlignment(choice); err == nil {
		for _, opt := range story.Options {
			if Alignment(opt.Alignment) == a {
				return opt, nil
			}
		}
	}
	return content.Option{}, fmt.Errorf("%w: %q", ErrUnknownOption, choice)
}

// SelectOption takes an option id (A, B, C) or an alignment name.
func (s *RunState) SelectOption(choice string) CommandResult {
	if s.Phase != PhaseStory {
		return illegalPhase()
	}
	opt, err := s.findOption(choice)
	if err != nil {
		return CommandResult{Reason: ReasonUnknown, Message: err.Error()}
	}
	align, err := ParseAlignment(opt.Alignment)
	if err != nil {
		return CommandResult{Reason: ReasonUnknown, Message: err.Error()}
	}

	rules := s.Config.Balance.Story
	switch align {
	case AlignPositive:
		if s.Ledger.Get(MeterStamina) >= rules.PositiveCost {
			s.Ledger.Consume(MeterStamina, rules.PositiveCost)
		}
		s.Ledger.Adjust(MeterCombat, rules.PositiveCombat)
	case AlignRational:
		s.Ledger.AdjustCapped(MeterSanity, rules.RationalSanity, s.Ledger.Limits.SanityCeiling)
	case AlignSlack:
		s.Ledger.AdjustCapped(MeterSanity, rules.SlackSanity, s.Ledger.Limits.SanityCeiling)
	}
	s.Stats.RecordChoice(align)
	s.SelectedOption = opt.ID
	s.Phase = PhaseActions
	return s.applied(fmt.Sprintf("You chose: %s.", opt.Label))
}

func (s *RunState) DailyAction(kind DailyKind) CommandResult {
	if !s.freeToAct() {
		return illegalPhase()
	}
	if kind == DailyRest {
		return s.rest()
	}
	recipe, ok := s.Config.Balance.Daily[kind]
	if !ok {
		return CommandResult{Reason: ReasonUnknown, Message: fmt.Sprintf("Unknown action: %s.", kind)}
	}
	if !s.Ledger.Consume(MeterStamina, recipe.Cost) {
		return CommandResult{Reason: ReasonInsufficient, Message: "You are too exhausted for that."}
	}
	s.Ledger.apply(recipe.Effects)
	s.Stats.TotalDailyEvents++
	s.ThisWeek.Daily++
	if kind == DailyPlayWithCat {
		s.Stats.CatPlayCount++
		if s.Stats.CatPlayCount >= s.Config.Balance.CatServant {
			s.unlockAchievement(AchievementCatServant)
		}
	}
	return s.flavor(StreamDaily, content.DailyCategory(string(kind)), dailyFallback(kind))
}

func dailyFallback(kind DailyKind) string {
	switch kind {
	case DailyExercise:
		return "You work out until your muscles burn."
	case DailyCook:
		return "You cook a simple meal."
	case DailyDrink:
		return "You drink some clean water."
	case DailyPlayWithCat:
		return "The cat tolerates your attention."
	case DailyRead:
		return "You read a few quiet pages."
	default:
		return "You rested a while and feel a little better."
	}
}

// rest recovers on the first click of a week. Later clicks drain stamina,
// and the configured click count ends the run.
func (s *RunState) rest() CommandResult {
	rules := s.Config.Balance.Rest
	s.Stats.TotalDailyEvents++
	s.ThisWeek.Daily++

	if s.RestClicksThisWeek == 0 {
		s.Ledger.Recover(rules.Recover)
		s.Ledger.Adjust(MeterSanity, rules.Sanity)
		s.Stats.NeverRest = false
		s.RestClicksThisWeek = 1
		return s.flavor(StreamDaily, content.DailyCategory(string(DailyRest)), dailyFallback(DailyRest))
	}

	s.Ledger.Adjust(MeterStamina, -rules.Penalty)
	s.RestClicksThisWeek++
	s.Stats.NeverGiveUpClicks++
	if s.RestClicksThisWeek >= rules.EasterClicks {
		ending, ok := catalogEnding(s.catalog, EasterSleepID)
		if !ok {
			ending = normalEnding(s.catalog)
		}
		s.appendLog(neverGiveUpMessage)
		return s.finish(ending)
	}
	return s.applied(neverGiveUpMessage)
}

// flavor draws a record for a completed action and falls back to text when
// the pool is empty.
func (s *RunState) flavor(stream Stream, category, fallback string) CommandResult {
	rec, ok := s.drawRecord(stream, category)
	if !ok {
		res := s.applied(fallback)
		res.Reason = ReasonEmptyPool
		return res
	}
	res := s.applied(rec.Title + ": " + rec.Description)
	res.Record = &rec
	if id, ok := recordAchievements[rec.ID]; ok {
		s.unlockAchievement(id)
	}
	return res
}

func (s *RunState) Explore(tier Tier) CommandResult {
	if !s.freeToAct() {
		return illegalPhase()
	}
	recipe, ok := s.Config.Balance.Explore[tier]
	if !ok {
		return CommandResult{Reason: ReasonUnknown, Message: fmt.Sprintf("Unknown area: %s.", tier)}
	}
	if !s.Unlocks.Open(tier) {
		return CommandResult{Reason: ReasonLocked, Message: fmt.Sprintf("The %s is not reachable yet.", tier)}
	}
	if !s.Ledger.Consume(MeterStamina, recipe.Cost) {
		return CommandResult{Reason: ReasonInsufficient, Message: "You are too exhausted to head out."}
	}
	s.Ledger.apply(recipe.Effects)
	s.Stats.TotalExploreEvents++
	s.ThisWeek.Explore++
	s.Stats.Visited.mark(tier)

	res := s.flavor(StreamExplore, content.ExploreCategory(string(tier)), fmt.Sprintf("You walk the %s and come back safely.", tier))

	bonus := s.Config.Balance.ExploreBonusItem
	if bonus != "" && s.rng.Chance(StreamBonus, s.Config.Balance.ExploreBonusChance) {
		s.Inventory.add(bonus, 1)
		name := bonus
		if item, ok := ItemByID(bonus); ok {
			name = item.Name
		}
		line := fmt.Sprintf("You also found: %s.", name)
		s.appendLog(line)
		res.Message += " " + line
	}
	return res
}

// EndWeek runs the weekly checkpoint and rolls for a visitor. The run then
// sits in settlement until AdvanceWeek.
func (s *RunState) EndWeek() CommandResult {
	if !s.freeToAct() {
		return illegalPhase()
	}
	s.Stats.Checkpoint(s.Ledger.Meters, s.Config.Balance.Checkpoint)
	s.Settling = true

	chance := min(1, float64(s.Ledger.Get(MeterSocial))/100)
	if s.rng.Chance(StreamNPCGate, chance) {
		if rec, ok := s.drawRecord(StreamNPC, content.CategoryNPC); ok {
			s.PendingNPC = &rec
			res := s.applied(fmt.Sprintf("%s: %s", rec.Title, rec.Description))
			res.Record = &rec
			return res
		}
	}
	return s.applied(fmt.Sprintf("Week %d is over.", s.Week))
}

func (s *RunState) ResolveNpc(help bool) CommandResult {
	if s.Phase != PhaseActions || !s.Settling || s.PendingNPC == nil {
		return illegalPhase()
	}
	rec := *s.PendingNPC
	balance := s.Config.Balance
	text := rec.Refuse
	if help {
		s.Ledger.apply(balance.NpcHelp)
		text = rec.Help
		if rec.ID == futureHopeNPC {
			s.unlockAchievement(AchievementFutureHope)
		}
	} else {
		s.Ledger.apply(balance.NpcRefuse)
	}
	s.Stats.TotalNpcEvents++
	s.ThisWeek.Npc++
	s.PendingNPC = nil

	if text == "" {
		if help {
			text = "You help them as best you can."
		} else {
			text = "You turn them away."
		}
	}
	res := s.applied(text)
	res.Record = &rec
	return res
}

// AdvanceWeek leaves settlement. On the final week the run is classified;
// otherwise every derived field is computed from the current state and
// committed together.
func (s *RunState) AdvanceWeek() CommandResult {
	if s.Phase != PhaseActions || !s.Settling || s.PendingNPC != nil {
		return illegalPhase()
	}
	if s.Week >= s.Config.FinalWeek {
		return s.finish(Classify(s.Standing(), s.catalog, s.Config.Balance.Endings))
	}

	balance := s.Config.Balance
	next := s.Ledger
	next.Adjust(MeterSatiety, -balance.WeeklyDecay)
	next.Adjust(MeterHydration, -balance.WeeklyDecay)
	next.Set(MeterStamina, balance.StaminaReset)
	nextWeek := s.Week + 1
	unlocks := s.Unlocks.Advance(nextWeek, s.Ledger.Get(MeterCombat), balance.Unlocks)

	s.Ledger = next
	s.Unlocks = unlocks
	s.Week = nextWeek
	s.Phase = PhaseStory
	s.Settling = false
	s.RestClicksThisWeek = 0
	s.SelectedOption = ""
	s.WeekStart = next.Meters
	s.ThisWeek = WeekCounts{}
	return s.applied(fmt.Sprintf("Week %d begins.", nextWeek))
}

func (s *RunState) finish(ending Ending) CommandResult {
	s.Phase = PhaseEnded
	s.Settling = false
	s.PendingNPC = nil
	s.EndingID = ending.ID
	s.unlockAchievement(AchievementFirstEnding)
	if ending.Type == EndingDeath {
		s.unlockAchievement(AchievementDeathWish)
	}
	res := s.applied(fmt.Sprintf("Ending reached: %s.", ending.Name))
	res.Ending = &ending
	return res
}

// Restart replaces the run with a fresh one on the same configuration.
func (s *RunState) Restart() CommandResult {
	config := s.Config
	config.Seed = int64(seedWord(config.Seed, "restart") >> 1)
	config.Resolver = nil
	fresh, err := NewRunState(config)
	if err != nil {
		return CommandResult{Reason: ReasonUnknown, Message: err.Error()}
	}
	*s = fresh
	return CommandResult{Applied: true, Message: "A new year under the shadow begins."}
}
