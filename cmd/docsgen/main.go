package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/appengine-ltd/under-the-shadow/internal/content"
	"github.com/appengine-ltd/under-the-shadow/internal/game"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	root := filepath.Join("docs", "reference", "catalogs")
	if err := os.MkdirAll(root, 0o755); err != nil {
		fatal(err)
	}

	lib, err := content.Default()
	if err != nil {
		fatal(err)
	}
	balance, err := generateBalanceDoc(game.DefaultBalance())
	if err != nil {
		fatal(err)
	}

	files := []docFile{
		generateEndingsDoc(game.BuiltInEndings()),
		generateAchievementsDoc(game.BuiltInAchievements()),
		generateMarketDoc(),
		generateStoriesDoc(lib),
		generatePoolsDoc(lib),
		balance,
	}
	for _, f := range files {
		path := filepath.Join(root, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateCatalogIndex(files)
	indexPath := filepath.Join(root, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateCatalogIndex(files []docFile) string {
	var b strings.Builder
	b.WriteString("# Data Catalogs\n\n")
	b.WriteString("Generated from the current Go source using `go run ./cmd/docsgen`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

// generateEndingsDoc lists endings in cascade order.
func generateEndingsDoc(items []game.Ending) docFile {
	var b strings.Builder
	b.WriteString("# Endings\n\n")
	b.WriteString("Source: `internal/game/endings.go` (`BuiltInEndings`).\n\n")
	b.WriteString("Rows are in evaluation order; the first matching ending wins.\n\n")
	b.WriteString(fmt.Sprintf("Total endings: **%d**.\n\n", len(items)))
	b.WriteString("| # | ID | Name | Type | Condition |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for i, e := range items {
		b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, escape(e.ID), escape(e.Name), escape(string(e.Type)), escape(e.ConditionText)))
	}
	return docFile{Name: "endings.md", Title: "Endings", Content: b.String()}
}

func generateAchievementsDoc(items []game.Achievement) docFile {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	var b strings.Builder
	b.WriteString("# Achievements\n\n")
	b.WriteString("Source: `internal/game/achievements.go` (`BuiltInAchievements`).\n\n")
	b.WriteString("| ID | Name | Description |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, a := range items {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escape(a.ID), escape(a.Name), escape(a.Description)))
	}
	return docFile{Name: "achievements.md", Title: "Achievements", Content: b.String()}
}

func generateMarketDoc() docFile {
	var b strings.Builder
	b.WriteString("# Market\n\n")
	b.WriteString("Source: `internal/game/trade.go`.\n\n")

	b.WriteString("## Items\n\n")
	b.WriteString("Selling returns half the listed price. Items priced 0 are found goods and cannot be sold.\n\n")
	b.WriteString("| ID | Name | Price | Effects |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, it := range game.BuiltInItems() {
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n", escape(it.ID), escape(it.Name), it.Price, escape(formatEffects(it))))
	}

	b.WriteString("\n## Stalls\n\n")
	b.WriteString("| ID | Name | Area | Goods (opening stock) |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, s := range game.BuiltInStalls() {
		goods := make([]string, 0, len(s.Goods))
		for _, id := range s.Goods {
			goods = append(goods, fmt.Sprintf("%s (%d)", id, s.Stock[id]))
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", escape(s.ID), escape(s.Name), escape(string(s.Tier)), escape(strings.Join(goods, ", "))))
	}

	b.WriteString("\n## Scavenge sites\n\n")
	b.WriteString("Each search rolls one or two picks from the table.\n\n")
	b.WriteString("| Area | Name | Loot (quantity) |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, s := range game.BuiltInScavengeSites() {
		loot := make([]string, 0, len(s.Loot))
		for _, l := range s.Loot {
			loot = append(loot, fmt.Sprintf("%s (%d-%d)", l.Item, l.QtyMin, l.QtyMax))
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escape(string(s.Tier)), escape(s.Name), escape(strings.Join(loot, ", "))))
	}
	return docFile{Name: "market.md", Title: "Market", Content: b.String()}
}

func generateStoriesDoc(lib *content.Library) docFile {
	weeks := lib.StoryWeeks()

	var b strings.Builder
	b.WriteString("# Weekly Stories\n\n")
	b.WriteString("Source: `internal/content/default.yaml`.\n\n")
	b.WriteString(fmt.Sprintf("Weeks with a written story: **%d**.\n\n", len(weeks)))
	b.WriteString("| Week | Title | Options |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, w := range weeks {
		story, _ := lib.Story(w)
		opts := make([]string, 0, len(story.Options))
		for _, o := range story.Options {
			opts = append(opts, fmt.Sprintf("%s: %s (%s)", strings.ToUpper(o.ID), o.Label, o.Alignment))
		}
		b.WriteString(fmt.Sprintf("| %d | %s | %s |\n", w, escape(story.Title), escape(strings.Join(opts, "\n"))))
	}
	return docFile{Name: "stories.md", Title: "Weekly Stories", Content: b.String()}
}

func generatePoolsDoc(lib *content.Library) docFile {
	var b strings.Builder
	b.WriteString("# Event Pools\n\n")
	b.WriteString("Source: `internal/content/default.yaml`.\n\n")
	b.WriteString("| Category | Records | Titles |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, category := range lib.Categories() {
		pool := lib.Pool(category)
		titles := make([]string, 0, len(pool))
		for _, r := range pool {
			titles = append(titles, r.Title)
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %s |\n", escape(category), len(pool), escape(strings.Join(titles, ", "))))
	}
	return docFile{Name: "pools.md", Title: "Event Pools", Content: b.String()}
}

func generateBalanceDoc(balance game.Balance) (docFile, error) {
	raw, err := yaml.Marshal(balance)
	if err != nil {
		return docFile{}, err
	}
	var b strings.Builder
	b.WriteString("# Default Balance\n\n")
	b.WriteString("Source: `internal/game/config.go` (`DefaultBalance`).\n\n")
	b.WriteString("Any subset of these keys can be overridden from the file named by `balance_path` in settings.yaml.\n\n")
	b.WriteString("```yaml\n")
	b.Write(raw)
	b.WriteString("```\n")
	return docFile{Name: "balance.md", Title: "Default Balance", Content: b.String()}, nil
}

func formatEffects(it game.Item) string {
	parts := make([]string, 0, len(it.Effects)+1)
	for _, m := range game.AllMeters() {
		if v, ok := it.Effects[m]; ok {
			parts = append(parts, fmt.Sprintf("%s %+d", m, v))
		}
	}
	if it.Recover > 0 {
		parts = append(parts, fmt.Sprintf("stamina recover %d", it.Recover))
	}
	return strings.Join(parts, ", ")
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
