package progression

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTouchActivity(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("first activity starts the streak", func(t *testing.T) {
		p, res := engine.TouchActivity(NewProgress(), day("2026-03-01"))
		if !res.Applied {
			t.Fatal("first touch should apply")
		}
		if p.StreakDays != 1 {
			t.Errorf("StreakDays = %d, want 1", p.StreakDays)
		}
		if !p.LastActive.Equal(day("2026-03-01")) {
			t.Errorf("LastActive = %v, want 2026-03-01", p.LastActive)
		}
	})

	t.Run("same day is idempotent", func(t *testing.T) {
		p, _ := engine.TouchActivity(NewProgress(), day("2026-03-01"))
		p2, res := engine.TouchActivity(p, day("2026-03-01"))
		if res.Applied {
			t.Error("same-day touch should not apply")
		}
		if p2.StreakDays != 1 {
			t.Errorf("StreakDays = %d, want 1", p2.StreakDays)
		}
	})

	t.Run("next day extends the streak", func(t *testing.T) {
		p, _ := engine.TouchActivity(NewProgress(), day("2026-03-01"))
		p, res := engine.TouchActivity(p, day("2026-03-02"))
		if !res.Applied || p.StreakDays != 2 {
			t.Errorf("StreakDays = %d (applied=%v), want 2", p.StreakDays, res.Applied)
		}
	})

	t.Run("gap resets the streak", func(t *testing.T) {
		p, _ := engine.TouchActivity(NewProgress(), day("2026-03-01"))
		p, _ = engine.TouchActivity(p, day("2026-03-02"))
		p, res := engine.TouchActivity(p, day("2026-03-05"))
		if !res.Applied || p.StreakDays != 1 {
			t.Errorf("StreakDays = %d (applied=%v), want reset to 1", p.StreakDays, res.Applied)
		}
		if !p.LastActive.Equal(day("2026-03-05")) {
			t.Errorf("LastActive = %v, want 2026-03-05", p.LastActive)
		}
	})

	t.Run("earlier date is rejected", func(t *testing.T) {
		p, _ := engine.TouchActivity(NewProgress(), day("2026-03-10"))
		p2, res := engine.TouchActivity(p, day("2026-03-08"))
		if res.Applied {
			t.Error("out-of-order touch should be rejected")
		}
		if p2.StreakDays != p.StreakDays || !p2.LastActive.Equal(p.LastActive) {
			t.Errorf("rejected touch mutated snapshot: %+v", p2)
		}
	})

	t.Run("time of day does not matter", func(t *testing.T) {
		p, _ := engine.TouchActivity(NewProgress(), day("2026-03-01").Add(8*time.Hour))
		p, res := engine.TouchActivity(p, day("2026-03-02").Add(23*time.Hour))
		if !res.Applied || p.StreakDays != 2 {
			t.Errorf("StreakDays = %d (applied=%v), want 2", p.StreakDays, res.Applied)
		}
	})
}

func TestTouchActivityMilestones(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	p := NewProgress()
	var got [][]int
	for i := 0; i < 7; i++ {
		var res StreakResult
		p, res = engine.TouchActivity(p, day("2026-03-01").AddDate(0, 0, i))
		got = append(got, res.MilestonesReached)
	}

	// Day counts run 1..7; milestones fire on days 3 and 7.
	for i, milestones := range got {
		dayNum := i + 1
		switch dayNum {
		case 3:
			if len(milestones) != 1 || milestones[0] != 3 {
				t.Errorf("day %d milestones = %v, want [3]", dayNum, milestones)
			}
		case 7:
			if len(milestones) != 1 || milestones[0] != 7 {
				t.Errorf("day %d milestones = %v, want [7]", dayNum, milestones)
			}
		default:
			if len(milestones) != 0 {
				t.Errorf("day %d milestones = %v, want none", dayNum, milestones)
			}
		}
	}
}
