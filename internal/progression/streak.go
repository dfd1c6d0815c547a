package progression

import "time"

// StreakResult reports the outcome of a TouchActivity call.
type StreakResult struct {
	// Applied is false when the touch was a same-day repeat or an
	// out-of-order date; the snapshot is unchanged either way.
	Applied bool

	StreakDays int

	// MilestonesReached lists the streak milestones crossed by this touch,
	// for the caller to surface as notifications. The engine itself grants
	// nothing for them.
	MilestonesReached []int
}

// TouchActivity records qualifying activity on the given day and updates the
// consecutive-day streak. First ever activity starts the streak at 1, the
// next calendar day extends it, a gap of two or more days resets it to 1,
// and a repeat touch on an already-counted day is a no-op. Days earlier than
// the last active day are rejected outright: the streak never shrinks and
// LastActive never moves backwards.
func (e *Engine) TouchActivity(p Progress, today time.Time) (Progress, StreakResult) {
	day := DayOf(today)

	if p.LastActive.IsZero() {
		p.StreakDays = 1
		p.LastActive = day
		return p, StreakResult{
			Applied:           true,
			StreakDays:        1,
			MilestonesReached: e.milestonesCrossed(0, 1),
		}
	}

	last := DayOf(p.LastActive)
	if day.Before(last) {
		return p, StreakResult{StreakDays: p.StreakDays}
	}

	daysSince := int(day.Sub(last).Hours() / 24)
	switch daysSince {
	case 0:
		// Already counted today.
		return p, StreakResult{StreakDays: p.StreakDays}
	case 1:
		old := p.StreakDays
		p.StreakDays++
		p.LastActive = day
		return p, StreakResult{
			Applied:           true,
			StreakDays:        p.StreakDays,
			MilestonesReached: e.milestonesCrossed(old, p.StreakDays),
		}
	default:
		p.StreakDays = 1
		p.LastActive = day
		return p, StreakResult{
			Applied:           true,
			StreakDays:        1,
			MilestonesReached: e.milestonesCrossed(0, 1),
		}
	}
}

// milestonesCrossed returns the configured milestones in (old, new].
func (e *Engine) milestonesCrossed(old, new int) []int {
	var crossed []int
	for _, m := range e.cfg.StreakMilestones {
		if m > old && m <= new {
			crossed = append(crossed, m)
		}
	}
	return crossed
}
