package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/appengine-ltd/under-the-shadow/internal/game"
)

const barWidth = 20

func (m runModel) View() string {
	var b strings.Builder

	title := brightAmber.Render("UNDER THE SHADOW") + dim.Render("  v"+m.cfg.Version)
	b.WriteString(title + "\n")
	b.WriteString(dim.Render(phaseLine(m.run)) + "\n")
	b.WriteString(border.Render(strings.Repeat("-", 48)) + "\n")

	left := panel.Render(meterPanel(m.run))
	right := panel.Render(m.storyText())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right) + "\n")

	b.WriteString(amber.Render("Message History") + "\n")
	for _, line := range m.messages {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString(border.Render(strings.Repeat("-", 48)) + "\n")
	if m.typing {
		b.WriteString(brightAmber.Render("> ") + m.input + dim.Render("_") + "\n")
	} else {
		b.WriteString(dim.Render(keyHelp(m.run)) + "\n")
	}
	if m.status != "" {
		b.WriteString(amber.Render(m.status) + "\n")
	}
	return b.String()
}

func phaseLine(run *game.RunState) string {
	line := fmt.Sprintf("Week %d of %d  ·  %s", run.Week, run.Config.FinalWeek, run.Phase)
	if run.Settling {
		line += " (settlement)"
	}
	return line
}

func meterPanel(run *game.RunState) string {
	m := run.Meters()
	limits := run.Ledger.Limits
	rows := []struct {
		label string
		value int
		max   int
	}{
		{"stamina", m.Stamina, limits.MaxStamina},
		{"satiety", m.Satiety, limits.StatCeiling},
		{"hydration", m.Hydration, limits.StatCeiling},
		{"health", m.Health, limits.StatCeiling},
		{"sanity", m.Sanity, limits.SanityCeiling},
		{"social", m.Social, limits.SocialCeiling},
	}
	lines := make([]string, 0, len(rows)+2)
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-9s %s %3d", r.label, meterBar(r.value, r.max, barWidth), r.value))
	}
	lines = append(lines, fmt.Sprintf("%-9s %d", "combat", m.Combat))
	lines = append(lines, fmt.Sprintf("%-9s $%s", "money", humanize.Comma(int64(m.Money))))
	return strings.Join(lines, "\n")
}

// meterBar renders value/max as a fixed-width bar; low values turn red.
func meterBar(value, max, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	filled := value * width / max
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if value*100 < max*30 {
		return danger.Render(bar)
	}
	return amber.Render(bar)
}

func (m runModel) storyText() string {
	run := m.run
	if e, ok := run.Ending(); ok {
		return brightAmber.Render(e.Name) + "\n" + wrap(e.Body, 44) + "\n\n" + dim.Render(e.ConditionText)
	}
	if run.Settling {
		if run.PendingNPC != nil {
			return brightAmber.Render("A knock at the door") + "\n" + run.PendingNPC.Title + "\n" + wrap(run.PendingNPC.Description, 44)
		}
		return brightAmber.Render("The week settles") + "\n" + summaryText(run.WeekSummary())
	}
	story := run.CurrentStory()
	out := brightAmber.Render(story.Title)
	if run.Phase == game.PhaseStory {
		out += "\n" + wrap(story.Body, 44) + "\n"
		for _, opt := range story.Options {
			out += fmt.Sprintf("\n[%s] %s", strings.ToLower(opt.ID), opt.Label)
		}
		return out
	}
	return out + "\n" + dim.Render(fmt.Sprintf("rest clicks this week: %d", run.RestClicksThisWeek))
}

func summaryText(sum game.WeekSummary) string {
	parts := make([]string, 0, len(sum.Deltas))
	for _, meter := range game.AllMeters() {
		if d := sum.Deltas[meter]; d != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", meter, d))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing changed")
	}
	return wrap(strings.Join(parts, ", "), 44) + fmt.Sprintf("\ndaily %d · explore %d · bought %d", sum.Counts.Daily, sum.Counts.Explore, sum.Counts.Bought)
}

func keyHelp(run *game.RunState) string {
	switch {
	case run.Phase == game.PhaseEnded:
		return "R restart · : command · q quit"
	case run.Phase == game.PhaseStory:
		return "a/b/c choose · : command · ctrl+s save · q quit"
	case run.Settling:
		return "h help visitor · r refuse · n next week · ctrl+s save · q quit"
	default:
		return "1 exercise 2 cook 3 drink 4 cat 5 read 6 rest · s/c/m explore · w work · e end week · : command · q quit"
	}
}

func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > width {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
