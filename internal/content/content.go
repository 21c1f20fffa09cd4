package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultPack []byte

const (
	CategoryNPC    = "npc"
	dailyPrefix    = "daily:"
	explorePrefix  = "explore:"
	maxStoryWeek   = 1000
	optionsPerWeek = 3
)

var validAlignments = map[string]bool{
	"positive": true,
	"rational": true,
	"slack":    true,
}

// Record is an opaque flavor unit. Only ID and Category carry meaning for the engine.
type Record struct {
	ID          string `yaml:"id" json:"id"`
	Category    string `yaml:"-" json:"category"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Help        string `yaml:"help,omitempty" json:"help,omitempty"`
	Refuse      string `yaml:"refuse,omitempty" json:"refuse,omitempty"`
}

type Option struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Alignment   string `yaml:"alignment" json:"alignment"`
}

type Story struct {
	Week    int      `yaml:"week" json:"week"`
	Title   string   `yaml:"title" json:"title"`
	Body    string   `yaml:"body" json:"body"`
	Options []Option `yaml:"options" json:"options"`
}

// Provider serves category-keyed pools and weekly stories.
type Provider interface {
	Pool(category string) []Record
	Story(week int) (Story, bool)
}

func DailyCategory(kind string) string {
	return dailyPrefix + kind
}

func ExploreCategory(tier string) string {
	return explorePrefix + tier
}

type pack struct {
	Pools   map[string][]Record `yaml:"pools"`
	Stories []Story             `yaml:"stories"`
}

type Library struct {
	pools   map[string][]Record
	stories map[int]Story
}

var ErrInvalidPack = errors.New("invalid content pack")

func Default() (*Library, error) {
	lib, err := Parse(defaultPack)
	if err != nil {
		return nil, fmt.Errorf("embedded content: %w", err)
	}
	return lib, nil
}

func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content pack: %w", err)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

func Parse(data []byte) (*Library, error) {
	var p pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}

	lib := &Library{
		pools:   make(map[string][]Record, len(p.Pools)),
		stories: make(map[int]Story, len(p.Stories)),
	}
	seen := map[string]string{}
	for category, records := range p.Pools {
		category = strings.TrimSpace(category)
		if !validCategory(category) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidPack, category)
		}
		for _, rec := range records {
			rec.ID = strings.TrimSpace(rec.ID)
			if rec.ID == "" || strings.TrimSpace(rec.Title) == "" {
				return nil, fmt.Errorf("%w: record in %s needs id and title", ErrInvalidPack, category)
			}
			if other, dup := seen[rec.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate record %q in %s and %s", ErrInvalidPack, rec.ID, other, category)
			}
			seen[rec.ID] = category
			rec.Category = category
			lib.pools[category] = append(lib.pools[category], rec)
		}
	}

	for _, story := range p.Stories {
		if err := validateStory(story); err != nil {
			return nil, err
		}
		if _, dup := lib.stories[story.Week]; dup {
			return nil, fmt.Errorf("%w: duplicate story for week %d", ErrInvalidPack, story.Week)
		}
		lib.stories[story.Week] = story
	}
	return lib, nil
}

func validCategory(category string) bool {
	switch {
	case category == CategoryNPC:
		return true
	case strings.HasPrefix(category, dailyPrefix):
		return len(category) > len(dailyPrefix)
	case strings.HasPrefix(category, explorePrefix):
		return len(category) > len(explorePrefix)
	default:
		return false
	}
}

func validateStory(story Story) error {
	if story.Week < 1 || story.Week > maxStoryWeek {
		return fmt.Errorf("%w: story week %d out of range", ErrInvalidPack, story.Week)
	}
	if len(story.Options) == 0 || len(story.Options) > optionsPerWeek {
		return fmt.Errorf("%w: week %d needs 1-%d options, got %d", ErrInvalidPack, story.Week, optionsPerWeek, len(story.Options))
	}
	ids := map[string]bool{}
	for _, opt := range story.Options {
		id := strings.ToUpper(strings.TrimSpace(opt.ID))
		if id == "" || ids[id] {
			return fmt.Errorf("%w: week %d has a missing or repeated option id %q", ErrInvalidPack, story.Week, opt.ID)
		}
		ids[id] = true
		if !validAlignments[opt.Alignment] {
			return fmt.Errorf("%w: week %d option %s has alignment %q", ErrInvalidPack, story.Week, opt.ID, opt.Alignment)
		}
	}
	return nil
}

// Pool returns a copy so callers can filter without touching the library.
func (l *Library) Pool(category string) []Record {
	records := l.pools[category]
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

func (l *Library) Story(week int) (Story, bool) {
	story, ok := l.stories[week]
	return story, ok
}

func (l *Library) Categories() []string {
	out := make([]string, 0, len(l.pools))
	for category := range l.pools {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

func (l *Library) StoryWeeks() []int {
	out := make([]int, 0, len(l.stories))
	for week := range l.stories {
		out = append(out, week)
	}
	sort.Ints(out)
	return out
}
