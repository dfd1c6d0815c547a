package models

import "time"

// ChallengeTemplate is one entry in the daily challenge catalog. Three
// templates (one per kind) are picked for each learner each day.
type ChallengeTemplate struct {
	ID          string // stable string id, e.g. "practice-10"
	Kind        string // 'practice', 'game' or 'reading'
	Description string
	Target      int
	CreatedAt   time.Time
}

// DailyChallengeRow is one persisted challenge slot for a learner's day
type DailyChallengeRow struct {
	LearnerID  int64
	Day        time.Time // midnight UTC
	Slot       int       // 0..2
	TemplateID string
	Kind       string
	Target     int
	Progress   int
	Completed  bool
	UpdatedAt  time.Time
}
