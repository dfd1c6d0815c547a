package progression

import "testing"

func TestClassifyMastery(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		attempts int
		want     Tier
	}{
		{
			name:     "no attempts is intro",
			correct:  0,
			attempts: 0,
			want:     TierIntro,
		},
		{
			name:     "perfect accuracy but too few attempts",
			correct:  4,
			attempts: 4,
			want:     TierIntro,
		},
		{
			name:     "developing at the boundary",
			correct:  3,
			attempts: 5,
			want:     TierDeveloping,
		},
		{
			name:     "proficient at the boundary",
			correct:  12,
			attempts: 15,
			want:     TierProficient,
		},
		{
			name:     "90 percent over 40 attempts is mastered",
			correct:  36,
			attempts: 40,
			want:     TierMastered,
		},
		{
			name:     "expert accuracy blocked by attempts gate",
			correct:  38,
			attempts: 39,
			want:     TierMastered,
		},
		{
			name:     "expert at the boundary",
			correct:  38,
			attempts: 40,
			want:     TierExpert,
		},
		{
			name:     "high volume low accuracy stays intro",
			correct:  10,
			attempts: 100,
			want:     TierIntro,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyMastery(tt.correct, tt.attempts)
			if got != tt.want {
				t.Errorf("ClassifyMastery(%d, %d) = %v, want %v", tt.correct, tt.attempts, got, tt.want)
			}
		})
	}
}

func TestRecordAnswer(t *testing.T) {
	m := SkillMastery{SkillID: "fractions-1"}

	m = RecordAnswer(m, true)
	m = RecordAnswer(m, false)
	m = RecordAnswer(m, true)

	if m.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", m.Attempts)
	}
	if m.Correct != 2 {
		t.Errorf("Correct = %d, want 2", m.Correct)
	}
	if m.Tier() != TierIntro {
		t.Errorf("Tier = %v, want intro before the attempts gate", m.Tier())
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		mastery SkillMastery
		want    float64
	}{
		{name: "zero attempts", mastery: SkillMastery{}, want: 0},
		{name: "half right", mastery: SkillMastery{Correct: 5, Attempts: 10}, want: 0.5},
		{name: "all right", mastery: SkillMastery{Correct: 8, Attempts: 8}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mastery.Accuracy(); got != tt.want {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}
