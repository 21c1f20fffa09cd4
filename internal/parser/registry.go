package parser

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandDef),
	}
}

func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	if c.HandlerKey == "" {
		c.HandlerKey = c.Canonical
	}
	r.commands[c.Canonical] = c

	r.phrases = append(r.phrases, commandPhrase{
		canonical: c.Canonical,
		alias:     c.Canonical,
		tokens:    tokenise(c.Canonical),
	})
	for _, a := range c.Aliases {
		n := normaliseInput(a)
		if n == "" {
			continue
		}
		r.phrases = append(r.phrases, commandPhrase{
			canonical: c.Canonical,
			alias:     n,
			tokens:    tokenise(n),
		})
	}
}

func (r *Registry) command(canonical string) (CommandDef, bool) {
	canonical = normaliseInput(canonical)
	cmd, ok := r.commands[canonical]
	return cmd, ok
}

type commandCandidate struct {
	Canonical string
	Alias     string
	Consumed  int
	Score     float64
	Source    string
}

func (r *Registry) matchCommand(tokens []string) (commandCandidate, []commandCandidate) {
	if len(tokens) == 0 {
		return commandCandidate{}, nil
	}
	in := strings.Join(tokens, " ")
	cands := make([]commandCandidate, 0, len(r.phrases))
	for _, phrase := range r.phrases {
		if len(phrase.tokens) == 0 {
			continue
		}
		consumed := min(len(tokens), len(phrase.tokens))
		prefix := strings.Join(tokens[:consumed], " ")

		if consumed == len(phrase.tokens) && prefix == phrase.alias {
			score := 1.0
			source := "exact"
			if phrase.alias != phrase.canonical {
				score = 0.97
				source = "alias"
			}
			// Longer exact phrases beat their own first word ("help npc" over "help").
			score += 0.1 * float64(consumed-1)
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Alias:     phrase.alias,
				Consumed:  consumed,
				Score:     score,
				Source:    source,
			})
			continue
		}

		if len(phrase.tokens) == 1 && strings.HasPrefix(phrase.alias, tokens[0]) && len(tokens[0]) >= 2 {
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Alias:     phrase.alias,
				Consumed:  1,
				Score:     0.9,
				Source:    "prefix",
			})
			continue
		}

		// Fuzzy: only when there was no exact/prefix hit for this phrase.
		cut := consumed
		compare := prefix
		if len(phrase.tokens) > 1 && len(tokens) >= len(phrase.tokens) {
			cut = len(phrase.tokens)
			compare = strings.Join(tokens[:cut], " ")
		}
		if cut == 0 || compare == "" {
			continue
		}
		if len(compare) < 3 {
			continue
		}
		dist := levenshtein.ComputeDistance(compare, phrase.alias)
		limit := levenshteinLimit(len(phrase.alias))
		if dist > limit {
			continue
		}
		score := 0.72 - (0.08 * float64(dist))
		if strings.Contains(in, phrase.alias) {
			score += 0.04
		}
		if phrase.alias != phrase.canonical {
			score += 0.03
		}
		cands = append(cands, commandCandidate{
			Canonical: phrase.canonical,
			Alias:     phrase.alias,
			Consumed:  cut,
			Score:     score,
			Source:    "lev",
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score == cands[j].Score {
			if cands[i].Consumed == cands[j].Consumed {
				return cands[i].Canonical < cands[j].Canonical
			}
			return cands[i].Consumed > cands[j].Consumed
		}
		return cands[i].Score > cands[j].Score
	})

	if len(cands) == 0 {
		return commandCandidate{}, nil
	}
	best := cands[0]
	alts := make([]commandCandidate, 0, 4)
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if seen[c.Canonical] {
			continue
		}
		seen[c.Canonical] = true
		alts = append(alts, c)
		if len(alts) >= 4 {
			break
		}
	}
	return best, alts
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Canonical: "help", Aliases: []string{"h", "commands"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "help"},
		{Canonical: "choose", Aliases: []string{"pick", "option", "select", "decide"}, MinArgs: 1, MaxArgs: 1, HandlerKey: "choose"},

		{Canonical: "exercise", Aliases: []string{"train", "workout", "work out", "push ups"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "exercise"},
		{Canonical: "cook", Aliases: []string{"cook meal", "make food", "make dinner"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "cook"},
		{Canonical: "drink", Aliases: []string{"sip", "drink water", "hydrate"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "drink"},
		{Canonical: "cat", Aliases: []string{"play", "play with cat", "play with the cat", "pet cat", "pet the cat"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "cat"},
		{Canonical: "read", Aliases: []string{"read book", "read a book"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "read"},
		{Canonical: "rest", Aliases: []string{"sleep", "nap", "lie down"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "rest"},

		{Canonical: "explore", Aliases: []string{"go", "go to", "travel", "visit", "head"}, MinArgs: 1, MaxArgs: 1, HandlerKey: "explore"},
		{Canonical: "scavenge", Aliases: []string{"search", "loot", "forage", "rummage"}, MinArgs: 1, MaxArgs: 1, HandlerKey: "scavenge"},
		{Canonical: "buy", Aliases: []string{"purchase", "get"}, MinArgs: 1, MaxArgs: 1, HandlerKey: "buy"},
		{Canonical: "sell", Aliases: []string{"trade", "pawn"}, MinArgs: 1, MaxArgs: 1, HandlerKey: "sell"},
		{Canonical: "use", Aliases: []string{"eat", "consume", "apply", "take"}, MinArgs: 1, MaxArgs: 1, HandlerKey: "use"},
		{Canonical: "work", Aliases: []string{"work debt", "labour", "labor", "shift"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "work"},

		{Canonical: "end", Aliases: []string{"end week", "finish week", "done"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "end"},
		{Canonical: "assist", Aliases: []string{"help npc", "help them", "aid", "accept", "let them in"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "assist"},
		{Canonical: "refuse", Aliases: []string{"decline", "turn away", "send away"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "refuse"},
		{Canonical: "next", Aliases: []string{"advance", "next week", "continue"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "next"},
		{Canonical: "restart", Aliases: []string{"new run", "start over"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "restart"},

		{Canonical: "status", Aliases: []string{"me", "meters"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "status"},
		{Canonical: "stats", Aliases: []string{"counters", "record"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "stats"},
		{Canonical: "inventory", Aliases: []string{"inv", "bag", "items", "my bag", "check bag"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "inventory"},
		{Canonical: "market", Aliases: []string{"shop", "stalls", "prices"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "market"},
		{Canonical: "summary", Aliases: []string{"report", "week summary"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "summary"},
		{Canonical: "story", Aliases: []string{"tale", "chapter"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "story"},

		// Session commands handled by the shell, not the run.
		{Canonical: "save", MinArgs: 0, MaxArgs: 1, HandlerKey: "save"},
		{Canonical: "load", MinArgs: 0, MaxArgs: 1, HandlerKey: "load"},
		{Canonical: "quit", Aliases: []string{"exit", "q"}, MinArgs: 0, MaxArgs: 0, HandlerKey: "quit"},
	}
	for _, cmd := range commands {
		r.RegisterCommand(cmd)
	}
	return r
}
