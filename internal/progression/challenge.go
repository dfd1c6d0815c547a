package progression

import "time"

// ChallengeKind is the activity category a daily challenge counts.
type ChallengeKind string

const (
	KindPractice ChallengeKind = "practice"
	KindGame     ChallengeKind = "game"
	KindReading  ChallengeKind = "reading"
)

// ChallengeCount is the fixed number of challenges in a day's set.
const ChallengeCount = 3

// Challenge is one task in a day's set.
type Challenge struct {
	ID        string
	Kind      ChallengeKind
	Target    int
	Progress  int
	Completed bool
}

// ChallengeSet is one calendar day's three challenges plus the bonus claim
// flag. It is a value: engine operations return updated copies.
type ChallengeSet struct {
	Day          time.Time
	Challenges   [ChallengeCount]Challenge
	BonusClaimed bool
}

// ChallengeResult reports the outcome of an AdvanceChallenge call.
type ChallengeResult struct {
	// Applied is false for unknown ids, non-positive increments, or
	// challenges that were already complete.
	Applied bool

	Progress int
	Target   int

	// JustCompleted is true when this advance pushed the challenge over
	// its target.
	JustCompleted bool

	// AllCompleted is true when every challenge in the set is now done.
	AllCompleted bool
}

// AdvanceChallenge adds progress to the identified challenge, clamping at
// the target; overshoot is not tracked. Progress never decreases, and an
// unknown id is a declined action, not an error.
func (e *Engine) AdvanceChallenge(set ChallengeSet, challengeID string, by int) (ChallengeSet, ChallengeResult) {
	if by <= 0 {
		return set, ChallengeResult{AllCompleted: BonusEligible(set)}
	}

	for i := range set.Challenges {
		c := &set.Challenges[i]
		if c.ID != challengeID {
			continue
		}
		if c.Completed {
			return set, ChallengeResult{
				Progress:     c.Progress,
				Target:       c.Target,
				AllCompleted: BonusEligible(set),
			}
		}

		c.Progress += by
		if c.Progress > c.Target {
			c.Progress = c.Target
		}
		c.Completed = c.Progress >= c.Target

		return set, ChallengeResult{
			Applied:       true,
			Progress:      c.Progress,
			Target:        c.Target,
			JustCompleted: c.Completed,
			AllCompleted:  BonusEligible(set),
		}
	}

	return set, ChallengeResult{AllCompleted: BonusEligible(set)}
}

// BonusEligible reports whether every challenge in the set is complete.
func BonusEligible(set ChallengeSet) bool {
	for _, c := range set.Challenges {
		if !c.Completed {
			return false
		}
	}
	return true
}

// BonusResult reports the outcome of a ClaimBonus call.
type BonusResult struct {
	Claimed bool

	// RewardXP is the XP payout, set only on a successful claim.
	RewardXP int64
}

// ClaimBonus marks the day's bonus as claimed and returns the configured XP
// reward. The claim succeeds at most once per set and only when all three
// challenges are complete; anything else is a no-op.
func (e *Engine) ClaimBonus(set ChallengeSet) (ChallengeSet, BonusResult) {
	if set.BonusClaimed || !BonusEligible(set) {
		return set, BonusResult{}
	}
	set.BonusClaimed = true
	return set, BonusResult{Claimed: true, RewardXP: e.cfg.DailyBonusXP}
}
