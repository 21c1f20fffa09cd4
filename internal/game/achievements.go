package game

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AchievementSink receives unlocks. Unlock must tolerate repeated ids.
type AchievementSink interface {
	Unlock(id string)
}

const (
	AchievementCatServant  = "cat-servant"
	AchievementFutureHope  = "future-hope"
	AchievementFirstEnding = "first-ending"
	AchievementDeathWish   = "death-wish"
)

// Flavor records that unlock an achievement when drawn.
var recordAchievements = map[string]string{
	"exercise-5":        "funny-shout",
	"exercise-5-follow": "funny-shout",
	"exercise-8":        "self-love",
	"exercise-8-follow": "self-love",
	"drink-7":           "science-survivor",
	"drink-7-follow":    "science-survivor",
	"cook-9":            "sweet-memory",
	"cook-9-follow":     "sweet-memory",
	"rest-7":            "doom-birthday",
	"rest-7-follow":     "doom-birthday",
}

const futureHopeNPC = "npc-18-teacher"

func BuiltInAchievements() []Achievement {
	return []Achievement{
		{ID: "funny-shout", Name: "Funny Shout", Description: "Shout into the dark during a workout."},
		{ID: "self-love", Name: "Self Love", Description: "Praise yourself in the mirror."},
		{ID: "science-survivor", Name: "Science Survivor", Description: "Purify water by the book."},
		{ID: "sweet-memory", Name: "Sweet Memory", Description: "Bake a cake for no one."},
		{ID: "doom-birthday", Name: "Doom Birthday", Description: "Sleep through your own birthday."},
		{ID: AchievementFutureHope, Name: "Future Hope", Description: "Help the teacher keep the lessons going."},
		{ID: AchievementCatServant, Name: "Cat Servant", Description: "Play with the cat 30 times."},
		{ID: AchievementFirstEnding, Name: "The End?", Description: "Reach any ending."},
		{ID: AchievementDeathWish, Name: "Death Wish", Description: "Reach a death ending."},
	}
}

func AchievementByID(id string) (Achievement, bool) {
	for _, a := range BuiltInAchievements() {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

func (s *RunState) unlockAchievement(id string) {
	for _, have := range s.Achievements {
		if have == id {
			return
		}
	}
	s.Achievements = append(s.Achievements, id)
	name := id
	if a, ok := AchievementByID(id); ok {
		name = a.Name
	}
	s.appendLog("Achievement unlocked: " + name)
	if s.sink != nil {
		s.sink.Unlock(id)
	}
}

func (s *RunState) HasAchievement(id string) bool {
	for _, have := range s.Achievements {
		if have == id {
			return true
		}
	}
	return false
}
