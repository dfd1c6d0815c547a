package progression

import "testing"

func testSet() ChallengeSet {
	return ChallengeSet{
		Day: day("2026-03-01"),
		Challenges: [ChallengeCount]Challenge{
			{ID: "pr-1", Kind: KindPractice, Target: 5},
			{ID: "gm-1", Kind: KindGame, Target: 2},
			{ID: "rd-1", Kind: KindReading, Target: 1},
		},
	}
}

func completedSet() ChallengeSet {
	set := testSet()
	for i := range set.Challenges {
		set.Challenges[i].Progress = set.Challenges[i].Target
		set.Challenges[i].Completed = true
	}
	return set
}

func TestAdvanceChallenge(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name          string
		startProgress int
		challengeID   string
		by            int
		wantApplied   bool
		wantProgress  int
		wantCompleted bool
	}{
		{
			name:         "normal increment",
			challengeID:  "pr-1",
			by:           2,
			wantApplied:  true,
			wantProgress: 2,
		},
		{
			name:          "overshoot clamps at target",
			startProgress: 4,
			challengeID:   "pr-1",
			by:            10,
			wantApplied:   true,
			wantProgress:  5,
			wantCompleted: true,
		},
		{
			name:          "exact completion",
			startProgress: 3,
			challengeID:   "pr-1",
			by:            2,
			wantApplied:   true,
			wantProgress:  5,
			wantCompleted: true,
		},
		{
			name:        "unknown id declined",
			challengeID: "nope",
			by:          1,
			wantApplied: false,
		},
		{
			name:        "zero increment declined",
			challengeID: "pr-1",
			by:          0,
			wantApplied: false,
		},
		{
			name:        "negative increment declined",
			challengeID: "pr-1",
			by:          -3,
			wantApplied: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := testSet()
			set.Challenges[0].Progress = tt.startProgress
			set.Challenges[0].Completed = tt.startProgress >= set.Challenges[0].Target

			updated, res := engine.AdvanceChallenge(set, tt.challengeID, tt.by)
			if res.Applied != tt.wantApplied {
				t.Errorf("Applied = %v, want %v", res.Applied, tt.wantApplied)
			}
			if !tt.wantApplied {
				if updated != set {
					t.Errorf("declined advance mutated the set")
				}
				return
			}
			if updated.Challenges[0].Progress != tt.wantProgress {
				t.Errorf("Progress = %d, want %d", updated.Challenges[0].Progress, tt.wantProgress)
			}
			if updated.Challenges[0].Completed != tt.wantCompleted {
				t.Errorf("Completed = %v, want %v", updated.Challenges[0].Completed, tt.wantCompleted)
			}
			if res.JustCompleted != tt.wantCompleted {
				t.Errorf("JustCompleted = %v, want %v", res.JustCompleted, tt.wantCompleted)
			}
		})
	}
}

func TestAdvanceCompletedChallengeIsNoOp(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	set := testSet()
	set.Challenges[2].Progress = 1
	set.Challenges[2].Completed = true

	updated, res := engine.AdvanceChallenge(set, "rd-1", 5)
	if res.Applied {
		t.Error("advance on completed challenge should not apply")
	}
	if updated.Challenges[2].Progress != 1 {
		t.Errorf("Progress = %d, want 1", updated.Challenges[2].Progress)
	}
}

func TestBonusEligible(t *testing.T) {
	if BonusEligible(testSet()) {
		t.Error("fresh set should not be bonus eligible")
	}

	set := completedSet()
	if !BonusEligible(set) {
		t.Error("fully completed set should be bonus eligible")
	}

	set.Challenges[1].Completed = false
	if BonusEligible(set) {
		t.Error("set with one incomplete challenge should not be eligible")
	}
}

func TestClaimBonus(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("fails before all challenges complete", func(t *testing.T) {
		set := testSet()
		updated, res := engine.ClaimBonus(set)
		if res.Claimed {
			t.Error("claim should fail on an incomplete set")
		}
		if updated.BonusClaimed {
			t.Error("failed claim set the claimed flag")
		}
	})

	t.Run("succeeds exactly once", func(t *testing.T) {
		set := completedSet()

		set, res := engine.ClaimBonus(set)
		if !res.Claimed {
			t.Fatal("claim should succeed on a completed set")
		}
		if res.RewardXP != DefaultConfig().DailyBonusXP {
			t.Errorf("RewardXP = %d, want %d", res.RewardXP, DefaultConfig().DailyBonusXP)
		}

		set, res = engine.ClaimBonus(set)
		if res.Claimed {
			t.Error("second claim should be a no-op")
		}
		if res.RewardXP != 0 {
			t.Errorf("second claim RewardXP = %d, want 0", res.RewardXP)
		}
		if !set.BonusClaimed {
			t.Error("claimed flag lost after no-op claim")
		}
	})
}
