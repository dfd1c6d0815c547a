package progression

import "time"

// Progress is the full reward state for one learner. It is a value: engine
// operations return updated copies and never mutate the input.
type Progress struct {
	TotalXP    int64
	StreakDays int

	// LastActive is the last calendar day with qualifying activity,
	// normalized to midnight UTC. Zero means no activity recorded yet.
	LastActive time.Time

	Stars int64
	Gems  int64
	Coins int64

	// OwnedItems holds the ids of unlocked shop items.
	OwnedItems map[string]bool
}

// NewProgress returns an empty progress snapshot.
func NewProgress() Progress {
	return Progress{OwnedItems: make(map[string]bool)}
}

// Level returns the learner's current level derived from total XP.
func (p Progress) Level() int {
	level, _ := LevelForXP(p.TotalXP)
	return level
}

// LevelTitle returns the display title for the learner's current level.
func (p Progress) LevelTitle() string {
	_, title := LevelForXP(p.TotalXP)
	return title
}

// Owns reports whether the learner has unlocked the given shop item.
func (p Progress) Owns(itemID string) bool {
	return p.OwnedItems[itemID]
}

// cloneOwnedItems copies the owned-items set so updates don't alias the
// caller's snapshot.
func (p Progress) cloneOwnedItems() map[string]bool {
	owned := make(map[string]bool, len(p.OwnedItems)+1)
	for id := range p.OwnedItems {
		owned[id] = true
	}
	return owned
}

// DayOf normalizes a timestamp to midnight UTC, the engine's notion of a
// calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
