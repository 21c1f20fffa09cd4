package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RunCommandResult is the text-surface view of a command, shared by the REPL,
// the TUI and the websocket transport.
type RunCommandResult struct {
	Handled bool          `json:"handled"`
	Message string        `json:"message"`
	Result  CommandResult `json:"result"`
}

const commandHelp = "Commands: choose <A|B|C|positive|rational|slack>, exercise, cook, drink, cat, read, rest, " +
	"explore <suburb|city|mall>, scavenge <tier>, buy <item> [qty], sell <item> [qty], use <item>, work, " +
	"end, help-npc, refuse, next, status, stats, inventory, market, summary, story, help."

func (s *RunState) ExecuteRunCommand(raw string) RunCommandResult {
	command := strings.TrimSpace(strings.ToLower(raw))
	if command == "" {
		return RunCommandResult{Handled: false}
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return RunCommandResult{Handled: false}
	}

	switch fields[0] {
	case "commands", "help":
		return info(commandHelp)
	case "choose", "option", "pick":
		if len(fields) < 2 {
			return info("Choose which option? " + s.describeOptions())
		}
		return wrap(s.SelectOption(fields[1]))
	case "exercise", "train":
		return wrap(s.DailyAction(DailyExercise))
	case "cook":
		return wrap(s.DailyAction(DailyCook))
	case "drink":
		return wrap(s.DailyAction(DailyDrink))
	case "cat", "play":
		return wrap(s.DailyAction(DailyPlayWithCat))
	case "read":
		return wrap(s.DailyAction(DailyRead))
	case "rest", "sleep":
		return wrap(s.DailyAction(DailyRest))
	case "explore", "go":
		return s.tierCommand(fields[1:], s.Explore)
	case "scavenge", "search":
		return s.tierCommand(fields[1:], s.Scavenge)
	case "buy":
		item, qty := itemArgs(fields[1:])
		if item == "" {
			return info("Buy what? " + s.describeMarket())
		}
		return wrap(s.Buy(item, qty))
	case "sell":
		item, qty := itemArgs(fields[1:])
		if item == "" {
			return info("Sell what? " + s.describeInventory())
		}
		return wrap(s.Sell(item, qty))
	case "use", "eat":
		item, _ := itemArgs(fields[1:])
		if item == "" {
			return info("Use what? " + s.describeInventory())
		}
		return wrap(s.UseItem(item))
	case "work":
		return wrap(s.WorkDebt())
	case "end", "endweek":
		return wrap(s.EndWeek())
	case "help-npc", "assist":
		return wrap(s.ResolveNpc(true))
	case "refuse":
		return wrap(s.ResolveNpc(false))
	case "next", "advance":
		return wrap(s.AdvanceWeek())
	case "restart":
		return wrap(s.Restart())
	case "status":
		return info(s.describeStatus())
	case "stats":
		return info(s.describeStats())
	case "inventory", "inv":
		return info(s.describeInventory())
	case "market":
		return info(s.describeMarket())
	case "summary":
		return info(s.describeSummary())
	case "story":
		story := s.CurrentStory()
		return info(story.Title + "\n" + strings.TrimSpace(story.Body) + "\n" + s.describeOptions())
	default:
		return RunCommandResult{Handled: false, Message: fmt.Sprintf("Unknown command: %s", fields[0])}
	}
}

func wrap(res CommandResult) RunCommandResult {
	return RunCommandResult{Handled: true, Message: res.Message, Result: res}
}

func info(message string) RunCommandResult {
	return RunCommandResult{Handled: true, Message: message}
}

func (s *RunState) tierCommand(args []string, run func(Tier) CommandResult) RunCommandResult {
	if len(args) == 0 {
		return info("Where? Choose suburb, city or mall.")
	}
	tier, ok := ParseTier(args[0])
	if !ok {
		return info(fmt.Sprintf("Unknown area: %s. Choose suburb, city or mall.", args[0]))
	}
	return wrap(run(tier))
}

// itemArgs splits "military ration 2" into the item id and a quantity.
func itemArgs(args []string) (string, int) {
	if len(args) == 0 {
		return "", 0
	}
	qty := 1
	if n, err := strconv.Atoi(args[len(args)-1]); err == nil && len(args) > 1 {
		qty = n
		args = args[:len(args)-1]
	}
	return normaliseItemID(strings.Join(args, " ")), qty
}

func (s *RunState) describeOptions() string {
	story := s.CurrentStory()
	parts := make([]string, 0, len(story.Options))
	for _, opt := range story.Options {
		parts = append(parts, fmt.Sprintf("[%s] %s (%s)", opt.ID, opt.Label, opt.Alignment))
	}
	return strings.Join(parts, "  ")
}

func (s *RunState) describeStatus() string {
	m := s.Ledger.Meters
	line := fmt.Sprintf("Week %d/%d  phase=%s", s.Week, s.Config.FinalWeek, s.Phase)
	if s.Settling {
		line += " (settlement)"
	}
	line += fmt.Sprintf("\nstamina %d/%d  satiety %d  hydration %d  health %d\ncombat %d  social %d  sanity %d  money %d",
		m.Stamina, s.Ledger.Limits.MaxStamina, m.Satiety, m.Hydration, m.Health, m.Combat, m.Social, m.Sanity, m.Money)
	open := make([]string, 0, 3)
	for _, t := range AllTiers() {
		if s.Unlocks.Open(t) {
			open = append(open, string(t))
		}
	}
	if len(open) == 0 {
		open = append(open, "none")
	}
	line += "\nopen areas: " + strings.Join(open, ", ")
	if s.PendingNPC != nil {
		line += fmt.Sprintf("\nvisitor waiting: %s (help-npc or refuse)", s.PendingNPC.Title)
	}
	if e, ok := s.Ending(); ok {
		line += fmt.Sprintf("\nending: %s", e.Name)
	}
	return line
}

func (s *RunState) describeStats() string {
	st := s.Stats
	return fmt.Sprintf(
		"choices positive/rational/slack: %d/%d/%d\nevents daily/explore/npc: %d/%d/%d\nitems bought/sold: %d/%d\n"+
			"weeks high-sanity/healthy/hungry/zero-stamina: %d/%d/%d/%d\nnever-give-up clicks: %d  debt work: %d  cat play: %d",
		st.PositiveChoiceCount, st.RationalChoiceCount, st.SlackChoiceCount,
		st.TotalDailyEvents, st.TotalExploreEvents, st.TotalNpcEvents,
		st.TotalItemsBought, st.TotalItemsSold,
		st.WeeksHighSanity, st.WeeksHealthy, st.WeeksHungerOrThirst, st.StaminaZeroWeeks,
		st.NeverGiveUpClicks, st.DebtWorkCount, st.CatPlayCount,
	)
}

func (s *RunState) describeInventory() string {
	ids := s.Inventory.IDs()
	if len(ids) == 0 {
		return "Inventory: empty."
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		name := id
		if item, ok := ItemByID(id); ok {
			name = item.Name
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, s.Inventory.Count(id)))
	}
	return "Inventory: " + strings.Join(parts, ", ") + "."
}

func (s *RunState) describeMarket() string {
	lines := make([]string, 0, 3)
	for _, stall := range BuiltInStalls() {
		if !s.Unlocks.Open(stall.Tier) {
			continue
		}
		goods := make([]string, 0, len(stall.Goods))
		for _, id := range stall.Goods {
			if item, ok := ItemByID(id); ok {
				goods = append(goods, fmt.Sprintf("%s (%d, %d left)", item.ID, item.Price, s.Stock.Count(id)))
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", stall.Name, strings.Join(goods, ", ")))
	}
	if len(lines) == 0 {
		return "No stalls are reachable yet."
	}
	return strings.Join(lines, "\n")
}

func (s *RunState) describeSummary() string {
	sum := s.WeekSummary()
	meters := make([]string, 0, len(sum.Deltas))
	for m, d := range sum.Deltas {
		if d != 0 {
			meters = append(meters, fmt.Sprintf("%s %+d", m, d))
		}
	}
	sort.Strings(meters)
	if len(meters) == 0 {
		meters = append(meters, "no change")
	}
	return fmt.Sprintf("Week %d: %s\ndaily %d, explore %d, visitors %d, bought %d, sold %d",
		sum.Week, strings.Join(meters, ", "),
		sum.Counts.Daily, sum.Counts.Explore, sum.Counts.Npc, sum.Counts.Bought, sum.Counts.Sold)
}
