package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/' || r == '\'' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

// parseQuantityToken accepts "3", "x3" and "3x".
func parseQuantityToken(token string) *Quantity {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return nil
	}
	digits := token
	switch {
	case strings.HasPrefix(digits, "x"):
		digits = strings.TrimPrefix(digits, "x")
	case strings.HasSuffix(digits, "x"):
		digits = strings.TrimSuffix(digits, "x")
	}
	if n, err := strconv.Atoi(digits); err == nil && n > 0 {
		return &Quantity{Raw: strconv.Itoa(n), N: n}
	}
	return nil
}

func isPronoun(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "it", "that", "them", "this", "those", "one":
		return true
	default:
		return false
	}
}

// mapArea folds place words onto the three explore tiers.
func mapArea(token string) string {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "suburb", "suburbs", "outskirts", "houses", "neighbourhood", "neighborhood":
		return "suburb"
	case "city", "downtown", "centre", "center", "town":
		return "city"
	case "mall", "shops", "shopping", "plaza":
		return "mall"
	default:
		return ""
	}
}

func mapOption(token string) string {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "a", "1", "first":
		return "a"
	case "b", "2", "second":
		return "b"
	case "c", "3", "third":
		return "c"
	case "positive", "brave", "active":
		return "positive"
	case "rational", "careful", "calm":
		return "rational"
	case "slack", "lazy", "lie flat":
		return "slack"
	default:
		return ""
	}
}
