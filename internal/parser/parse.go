package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

func (p *Parser) Parse(ctx ParseContext, raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Kind:       Unknown,
		Confidence: 0,
	}
	if intent.Normalised == "" {
		intent.Clarify = &ClarifyQuestion{Prompt: "Enter a command or intent.", Options: nil}
		return intent
	}

	tokens := tokenise(intent.Normalised)
	cmdMatch, alternates := p.registry.matchCommand(tokens)
	if cmdMatch.Canonical == "" || cmdMatch.Score < 0.5 {
		inferred := inferFreeTextIntent(ctx, intent.Raw, intent.Normalised)
		if inferred != nil {
			return *inferred
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt: "I couldn't map that to a command. Try help, choose, exercise, cook, drink, cat, read, rest, explore, buy, sell, use, end, next.",
		}
		return intent
	}

	if len(alternates) > 0 && (cmdMatch.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.65 {
		options := []Intent{
			{
				Raw:        raw,
				Normalised: cmdMatch.Canonical,
				Kind:       commandKind(cmdMatch.Canonical),
				Verb:       cmdMatch.Canonical,
				Confidence: clampScore(cmdMatch.Score),
			},
			{
				Raw:        raw,
				Normalised: alternates[0].Canonical,
				Kind:       commandKind(alternates[0].Canonical),
				Verb:       alternates[0].Canonical,
				Confidence: clampScore(alternates[0].Score),
			},
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt:  "Did you mean:",
			Options: options,
		}
		return intent
	}

	intent.Verb = cmdMatch.Canonical
	intent.Kind = commandKind(intent.Verb)
	intent.Confidence = clampScore(cmdMatch.Score)

	argsTokens := tokens
	if cmdMatch.Consumed > 0 && len(tokens) >= cmdMatch.Consumed {
		argsTokens = tokens[cmdMatch.Consumed:]
	}
	if takesQuantity(intent.Verb) {
		argsTokens, intent.Quantity = splitQuantity(argsTokens)
	}

	def, _ := p.registry.command(intent.Verb)
	resolvedArgs, clarify, argScore := p.resolveArgs(ctx, def, argsTokens)
	if clarify != nil {
		intent.Clarify = clarify
		intent.Confidence = 0.45
		return intent
	}
	intent.Args = resolvedArgs
	intent.Confidence = clampScore((intent.Confidence * 0.75) + (argScore * 0.25))

	if intent.Kind == Command && len(intent.Args) < def.MinArgs {
		options := buildArgOptions(ctx, def.Canonical, 5)
		if len(options) > 0 {
			intent.Clarify = &ClarifyQuestion{
				Prompt:  fmt.Sprintf("What should I %s?", def.Canonical),
				Options: options,
			}
			intent.Confidence = 0.46
			return intent
		}
		intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("%s needs at least %d argument(s).", def.Canonical, def.MinArgs)}
		intent.Confidence = 0.42
		return intent
	}

	if def.MaxArgs > 0 && len(intent.Args) > def.MaxArgs {
		intent.Args = append([]string(nil), intent.Args[:def.MaxArgs]...)
		intent.Confidence = clampScore(intent.Confidence - 0.05)
	}

	if intent.Confidence < 0.52 && intent.Clarify == nil {
		intent.Clarify = &ClarifyQuestion{Prompt: "I have low confidence in that parse. Please rephrase or pick a clearer command."}
	}
	return intent
}

func commandKind(verb string) IntentKind {
	switch verb {
	case "help":
		return Help
	case "status", "stats", "inventory", "market", "summary", "story":
		return Query
	default:
		return Command
	}
}

func takesQuantity(verb string) bool {
	return verb == "buy" || verb == "sell"
}

func splitQuantity(tokens []string) ([]string, *Quantity) {
	if len(tokens) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tokens))
	var q *Quantity
	for _, token := range tokens {
		if q == nil {
			if candidate := parseQuantityToken(token); candidate != nil {
				q = candidate
				continue
			}
		}
		out = append(out, token)
	}
	return out, q
}

// resolveArgs maps the tokens after the verb onto one argument: an option,
// an area or an item name, depending on the verb.
func (p *Parser) resolveArgs(ctx ParseContext, def CommandDef, args []string) ([]string, *ClarifyQuestion, float64) {
	args = dropFillers(def.Canonical, args)
	if len(args) == 0 {
		return nil, nil, 0.9
	}

	if len(args) == 1 && isPronoun(args[0]) {
		if strings.TrimSpace(ctx.LastEntity) == "" {
			return nil, &ClarifyQuestion{Prompt: "What does that pronoun refer to?"}, 0.4
		}
		return []string{normaliseInput(ctx.LastEntity)}, nil, 0.82
	}

	switch def.Canonical {
	case "choose":
		if mapped := mapOption(strings.Join(args, " ")); mapped != "" {
			return []string{mapped}, nil, 0.98
		}
		for _, token := range args {
			if mapped := mapOption(token); mapped != "" {
				return []string{mapped}, nil, 0.9
			}
		}
		return p.resolveAgainst(def, args[len(args)-1], ctx.Options, nil, "Which option?")
	case "explore", "scavenge":
		if mapped := mapArea(args[len(args)-1]); mapped != "" {
			return []string{mapped}, nil, 0.98
		}
		areas := ctx.Areas
		if len(areas) == 0 {
			areas = []string{"suburb", "city", "mall"}
		}
		return p.resolveAgainst(def, args[len(args)-1], areas, nil, "Which area?")
	case "buy":
		return p.resolveAgainst(def, strings.Join(args, " "), ctx.Market, nil, "Did you mean:")
	case "sell", "use":
		return p.resolveAgainst(def, strings.Join(args, " "), ctx.Inventory, ctx.Inventory, "Did you mean:")
	}

	resolved := append([]string(nil), args...)
	return resolved, nil, clampScore(0.9 - 0.02*float64(len(args)))
}

func (p *Parser) resolveAgainst(def CommandDef, token string, candidates []string, boost []string, prompt string) ([]string, *ClarifyQuestion, float64) {
	n := normaliseInput(token)
	normalised := mergeUnique(candidates, nil)
	if len(normalised) == 0 {
		return []string{n}, nil, 0.7
	}
	entity, confidence, tie := bestMatches(n, normalised, mergeUnique(boost, nil))
	if tie && len(entity) >= 2 {
		options := make([]Intent, 0, 2)
		for idx := 0; idx < 2; idx++ {
			options = append(options, Intent{
				Kind:       commandKind(def.Canonical),
				Verb:       def.Canonical,
				Args:       []string{entity[idx]},
				Confidence: confidence - float64(idx)*0.01,
			})
		}
		return nil, &ClarifyQuestion{Prompt: prompt, Options: options}, 0.52
	}
	if len(entity) == 1 {
		return entity, nil, confidence
	}
	return []string{n}, nil, 0.6
}

func dropFillers(verb string, tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "a" && verb == "choose" {
			out = append(out, token)
			continue
		}
		switch token {
		case "the", "a", "an", "some", "to", "my", "option":
			if len(tokens) > 1 {
				continue
			}
		}
		out = append(out, token)
	}
	return out
}

func bestMatches(token string, all []string, boost []string) ([]string, float64, bool) {
	if len(all) == 0 {
		return nil, 0, false
	}
	type scored struct {
		val   string
		score float64
	}
	boostSet := make(map[string]bool, len(boost))
	for _, n := range boost {
		boostSet[n] = true
	}

	results := make([]scored, 0, len(all))
	for _, cand := range all {
		score := 0.0
		switch {
		case token == cand:
			score = 1.0
		case strings.HasPrefix(cand, token) && len(token) >= 2:
			score = 0.9
		case containsWord(cand, token) && len(token) >= 3:
			score = 0.84
		default:
			dist := levenshtein.ComputeDistance(token, cand)
			if dist > levenshteinLimit(len(cand)) {
				continue
			}
			score = 0.72 - (0.08 * float64(dist))
		}
		if boostSet[cand] {
			score += 0.08
		}
		results = append(results, scored{val: cand, score: clampScore(score)})
	}
	if len(results) == 0 {
		return nil, 0, false
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})

	best := results[0]
	tie := len(results) > 1 && (best.score-results[1].score) < 0.05 && results[1].score > 0.6
	if tie {
		return []string{best.val, results[1].val}, best.score, true
	}
	return []string{best.val}, best.score, false
}

func buildArgOptions(ctx ParseContext, verb string, maxOptions int) []Intent {
	var pool []string
	switch verb {
	case "buy":
		pool = ctx.Market
	case "sell", "use":
		pool = ctx.Inventory
	case "explore", "scavenge":
		pool = ctx.Areas
	case "choose":
		pool = ctx.Options
	}
	seen := map[string]bool{}
	options := make([]Intent, 0, maxOptions)
	for _, entity := range pool {
		n := normaliseInput(entity)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		options = append(options, Intent{
			Kind:       commandKind(verb),
			Verb:       verb,
			Args:       []string{n},
			Confidence: 0.88,
		})
		if len(options) >= maxOptions {
			break
		}
	}
	return options
}

func inferFreeTextIntent(ctx ParseContext, raw string, normalised string) *Intent {
	n := normalised
	makeIntent := func(kind IntentKind, verb string, args []string, confidence float64) *Intent {
		return &Intent{
			Raw:        raw,
			Normalised: normalised,
			Kind:       kind,
			Verb:       verb,
			Args:       args,
			Confidence: clampScore(confidence),
		}
	}

	if containsAnyPhrase(n,
		"check my bag", "what do i have", "what i have", "what have i got", "my inventory", "open bag",
	) {
		return makeIntent(Query, "inventory", nil, 0.92)
	}
	if containsAnyPhrase(n, "how am i", "how am i doing", "my stats", "how do i feel") {
		return makeIntent(Query, "status", nil, 0.88)
	}
	if containsAnyPhrase(n, "what can i buy", "whats for sale", "what s for sale", "who is selling") {
		return makeIntent(Query, "market", nil, 0.86)
	}

	if area := inferAreaFromText(n); area != "" {
		if containsWord(n, "search") || containsWord(n, "loot") || containsWord(n, "scavenge") {
			return makeIntent(Command, "scavenge", []string{area}, 0.84)
		}
		return makeIntent(Command, "explore", []string{area}, 0.84)
	}

	if containsAnyPhrase(n, "im hungry", "i m hungry", "i am hungry", "need food", "make something to eat") {
		return makeIntent(Command, "cook", nil, 0.8)
	}
	if containsAnyPhrase(n, "im thirsty", "i m thirsty", "i am thirsty", "need water") {
		return makeIntent(Command, "drink", nil, 0.8)
	}
	if containsWord(n, "cat") {
		return makeIntent(Command, "cat", nil, 0.78)
	}
	if containsAnyPhrase(n, "im tired", "i m tired", "i am tired") || containsWord(n, "sleep") || containsWord(n, "rest") {
		return makeIntent(Command, "rest", nil, 0.8)
	}
	if containsAnyPhrase(n, "help the stranger", "help the visitor", "open the door") {
		return makeIntent(Command, "assist", nil, 0.8)
	}
	if containsAnyPhrase(n, "keep the door shut", "ignore the stranger", "ignore them") {
		return makeIntent(Command, "refuse", nil, 0.8)
	}

	// "i want to buy water" style fallback.
	if strings.Contains(" "+n+" ", " buy ") && len(ctx.Market) > 0 {
		tokens := tokenise(n)
		for i, token := range tokens {
			if token != "buy" || i+1 >= len(tokens) {
				continue
			}
			rest, q := splitQuantity(dropFillers("buy", tokens[i+1:]))
			if len(rest) == 0 {
				break
			}
			m, confidence, tie := bestMatches(strings.Join(rest, " "), mergeUnique(ctx.Market, nil), nil)
			if tie || len(m) != 1 {
				break
			}
			intent := makeIntent(Command, "buy", m, confidence-0.05)
			intent.Quantity = q
			return intent
		}
	}

	return nil
}

func inferAreaFromText(normalised string) string {
	tokens := tokenise(normalised)
	for i, token := range tokens {
		mapped := mapArea(token)
		if mapped == "" {
			continue
		}
		if i == 0 && len(tokens) == 1 {
			return mapped
		}
		for _, prev := range tokens[:i] {
			switch prev {
			case "go", "walk", "head", "travel", "visit", "explore", "search", "loot", "scavenge":
				return mapped
			}
		}
	}
	return ""
}

func containsAnyPhrase(value string, phrases ...string) bool {
	for _, phrase := range phrases {
		if containsPhrase(value, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(value, phrase string) bool {
	p := normaliseInput(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+p+" ")
}

func containsWord(value, word string) bool {
	w := normaliseInput(word)
	if w == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+w+" ")
}

func mergeUnique(a, b []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(a)+len(b))
	add := func(list []string) {
		for _, v := range list {
			n := normaliseInput(v)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	add(a)
	add(b)
	return out
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func IntentToCommandString(intent Intent) string {
	verb := normaliseInput(intent.Verb)
	if verb == "" {
		return ""
	}
	args := make([]string, 0, len(intent.Args)+1)
	for _, arg := range intent.Args {
		n := normaliseInput(arg)
		if n != "" {
			args = append(args, n)
		}
	}
	if intent.Quantity != nil && intent.Quantity.Raw != "" {
		args = append(args, normaliseInput(intent.Quantity.Raw))
	}
	if len(args) == 0 {
		return verb
	}
	return verb + " " + strings.Join(args, " ")
}
