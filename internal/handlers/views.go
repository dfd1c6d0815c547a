package handlers

import (
	"sort"

	"brainblast/internal/progression"
)

// JSON view types for engine results. The progression package stays free of
// serialization tags, so the wire shapes live here.

type progressView struct {
	TotalXP    int64    `json:"totalXp"`
	StreakDays int      `json:"streakDays"`
	Stars      int64    `json:"stars"`
	Gems       int64    `json:"gems"`
	Coins      int64    `json:"coins"`
	OwnedItems []string `json:"ownedItemIds"`
}

func toProgressView(p progression.Progress) progressView {
	owned := make([]string, 0, len(p.OwnedItems))
	for id := range p.OwnedItems {
		owned = append(owned, id)
	}
	sort.Strings(owned)
	return progressView{
		TotalXP:    p.TotalXP,
		StreakDays: p.StreakDays,
		Stars:      p.Stars,
		Gems:       p.Gems,
		Coins:      p.Coins,
		OwnedItems: owned,
	}
}

type xpResultView struct {
	Applied        bool    `json:"applied"`
	OldLevel       int     `json:"oldLevel"`
	NewLevel       int     `json:"newLevel"`
	Title          string  `json:"title"`
	StarsAwarded   int64   `json:"starsAwarded"`
	PercentInLevel float64 `json:"percentInLevel"`
	LeveledUp      bool    `json:"leveledUp"`
}

func toXPResultView(r progression.XPResult) xpResultView {
	return xpResultView{
		Applied:        r.Applied,
		OldLevel:       r.OldLevel,
		NewLevel:       r.NewLevel,
		Title:          r.Title,
		StarsAwarded:   r.StarsAwarded,
		PercentInLevel: r.PercentInLevel,
		LeveledUp:      r.NewLevel > r.OldLevel,
	}
}

type streakResultView struct {
	Applied           bool  `json:"applied"`
	StreakDays        int   `json:"streakDays"`
	MilestonesReached []int `json:"milestonesReached"`
}

func toStreakResultView(r progression.StreakResult) streakResultView {
	milestones := r.MilestonesReached
	if milestones == nil {
		milestones = []int{}
	}
	return streakResultView{
		Applied:           r.Applied,
		StreakDays:        r.StreakDays,
		MilestonesReached: milestones,
	}
}

type challengeResultView struct {
	Applied       bool `json:"applied"`
	Progress      int  `json:"progress"`
	Target        int  `json:"target"`
	JustCompleted bool `json:"justCompleted"`
	AllCompleted  bool `json:"allCompleted"`
}

func toChallengeResultView(r progression.ChallengeResult) challengeResultView {
	return challengeResultView{
		Applied:       r.Applied,
		Progress:      r.Progress,
		Target:        r.Target,
		JustCompleted: r.JustCompleted,
		AllCompleted:  r.AllCompleted,
	}
}

type challengeView struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Target    int    `json:"target"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

type challengeSetView struct {
	Day          string          `json:"day"`
	Challenges   []challengeView `json:"challenges"`
	BonusClaimed bool            `json:"bonusClaimed"`
}

func toChallengeSetView(set progression.ChallengeSet) challengeSetView {
	view := challengeSetView{
		Day:          set.Day.Format("2006-01-02"),
		Challenges:   make([]challengeView, 0, len(set.Challenges)),
		BonusClaimed: set.BonusClaimed,
	}
	for _, c := range set.Challenges {
		view.Challenges = append(view.Challenges, challengeView{
			ID:        c.ID,
			Kind:      string(c.Kind),
			Target:    c.Target,
			Progress:  c.Progress,
			Completed: c.Completed,
		})
	}
	return view
}
