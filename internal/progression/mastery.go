package progression

// Tier is a skill-specific proficiency label.
type Tier string

const (
	TierIntro      Tier = "intro"
	TierDeveloping Tier = "developing"
	TierProficient Tier = "proficient"
	TierMastered   Tier = "mastered"
	TierExpert     Tier = "expert"
)

// masteryGate pairs the accuracy and attempt-count requirements for a tier.
// A tier is reached only when BOTH gates pass; the attempts gate stops a
// learner from hitting Expert off three lucky answers.
type masteryGate struct {
	tier        Tier
	minAccuracy float64
	minAttempts int
}

// masteryGates are evaluated from highest tier down.
var masteryGates = []masteryGate{
	{TierExpert, 0.95, 40},
	{TierMastered, 0.90, 25},
	{TierProficient, 0.80, 15},
	{TierDeveloping, 0.60, 5},
}

// SkillMastery is the lifetime answer record for one skill.
type SkillMastery struct {
	SkillID  string
	Attempts int
	Correct  int
}

// Accuracy returns correct/attempts, or 0 with no attempts.
func (m SkillMastery) Accuracy() float64 {
	if m.Attempts == 0 {
		return 0
	}
	return float64(m.Correct) / float64(m.Attempts)
}

// Tier returns the mastery tier for the current counters.
func (m SkillMastery) Tier() Tier {
	return ClassifyMastery(m.Correct, m.Attempts)
}

// ClassifyMastery derives a mastery tier from lifetime counters. Intro is
// the fallback when no gate passes.
func ClassifyMastery(correct, attempts int) Tier {
	if attempts <= 0 {
		return TierIntro
	}
	accuracy := float64(correct) / float64(attempts)
	for _, gate := range masteryGates {
		if accuracy >= gate.minAccuracy && attempts >= gate.minAttempts {
			return gate.tier
		}
	}
	return TierIntro
}

// RecordAnswer increments the attempt counter, and the correct counter when
// the answer was right. Counters never decrease.
func RecordAnswer(m SkillMastery, correct bool) SkillMastery {
	m.Attempts++
	if correct {
		m.Correct++
	}
	return m
}
