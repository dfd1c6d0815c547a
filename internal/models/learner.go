package models

import "time"

// Learner represents a child profile in the system
type Learner struct {
	ID          int64
	FamilyID    int64
	Name        string
	Username    string
	AvatarColor string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LearnerProgressRow is the persisted reward state for a learner. Derived
// fields (level, title, mastery tiers) are never stored; they are recomputed
// through the progression engine on read.
type LearnerProgressRow struct {
	LearnerID  int64
	TotalXP    int64
	StreakDays int
	LastActive *time.Time // nil when the learner has never been active
	Stars      int64
	Gems       int64
	Coins      int64
	UpdatedAt  time.Time
}

// SkillMasteryRow is one learner's lifetime counters for one skill
type SkillMasteryRow struct {
	LearnerID int64
	SkillID   string
	Attempts  int
	Correct   int
	UpdatedAt time.Time
}

// XPEvent is one append-only audit record of an XP grant
type XPEvent struct {
	ID        int64
	LearnerID int64
	Amount    int64
	Reason    string // e.g. "answer", "activity", "daily_bonus"
	SkillID   string // optional, empty for non-skill grants
	CreatedAt time.Time
}

// LearnerWithStats combines a learner with engine-derived display values
type LearnerWithStats struct {
	Learner        Learner
	TotalXP        int64
	Level          int
	LevelTitle     string
	PercentInLevel float64
	StreakDays     int
	Stars          int64
	Gems           int64
	Coins          int64
	SkillsMastered int
}
