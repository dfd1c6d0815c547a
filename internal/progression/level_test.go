package progression

import "testing"

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name      string
		totalXP   int64
		wantLevel int
		wantTitle string
	}{
		{
			name:      "zero XP is level 1",
			totalXP:   0,
			wantLevel: 1,
			wantTitle: "Curious Cub",
		},
		{
			name:      "just under first threshold",
			totalXP:   99,
			wantLevel: 1,
			wantTitle: "Curious Cub",
		},
		{
			name:      "top of the cub band",
			totalXP:   999,
			wantLevel: 5,
			wantTitle: "Curious Cub",
		},
		{
			name:      "exactly 1000 enters Bright Spark",
			totalXP:   1000,
			wantLevel: 6,
			wantTitle: "Bright Spark",
		},
		{
			name:      "end of Bright Spark band",
			totalXP:   3999,
			wantLevel: 10,
			wantTitle: "Bright Spark",
		},
		{
			name:      "start of Knowledge Seeker",
			totalXP:   4000,
			wantLevel: 11,
			wantTitle: "Knowledge Seeker",
		},
		{
			name:      "uneven mid-band threshold",
			totalXP:   6500,
			wantLevel: 13,
			wantTitle: "Knowledge Seeker",
		},
		{
			name:      "last level before the cap",
			totalXP:   199999,
			wantLevel: 40,
			wantTitle: "Genius Explorer",
		},
		{
			name:      "exactly 200000 is the legend band",
			totalXP:   200000,
			wantLevel: 41,
			wantTitle: "BrainBlast Legend",
		},
		{
			name:      "beyond the table stays legend",
			totalXP:   5000000,
			wantLevel: 41,
			wantTitle: "BrainBlast Legend",
		},
		{
			name:      "negative XP treated as zero",
			totalXP:   -50,
			wantLevel: 1,
			wantTitle: "Curious Cub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, title := LevelForXP(tt.totalXP)
			if level != tt.wantLevel {
				t.Errorf("LevelForXP(%d) level = %d, want %d", tt.totalXP, level, tt.wantLevel)
			}
			if title != tt.wantTitle {
				t.Errorf("LevelForXP(%d) title = %q, want %q", tt.totalXP, title, tt.wantTitle)
			}
		})
	}
}

func TestApplyXPStarAccrual(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		wantStars int64
	}{
		{name: "100 XP pays 10 stars", amount: 100, wantStars: 10},
		{name: "small gain rounds down to zero", amount: 7, wantStars: 0},
		{name: "19 XP still floors", amount: 19, wantStars: 1},
	}

	engine := NewEngine(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, res := engine.ApplyXP(NewProgress(), tt.amount)
			if !res.Applied {
				t.Fatalf("ApplyXP(%d) not applied", tt.amount)
			}
			if res.StarsAwarded != tt.wantStars {
				t.Errorf("StarsAwarded = %d, want %d", res.StarsAwarded, tt.wantStars)
			}
			if p.Stars != tt.wantStars {
				t.Errorf("Stars = %d, want %d", p.Stars, tt.wantStars)
			}
		})
	}
}

func TestApplyXPRejectsNonPositive(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	start := NewProgress()
	start.TotalXP = 500
	start.Stars = 3

	for _, amount := range []int64{0, -1, -1000} {
		p, res := engine.ApplyXP(start, amount)
		if res.Applied {
			t.Errorf("ApplyXP(%d) applied, want rejection", amount)
		}
		if p.TotalXP != start.TotalXP || p.Stars != start.Stars {
			t.Errorf("ApplyXP(%d) mutated snapshot: %+v", amount, p)
		}
	}
}

func TestApplyXPMonotonic(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	p := NewProgress()

	lastXP := int64(0)
	lastLevel := 1
	for _, amount := range []int64{50, 700, 3, 2500, 10000, 1, 90000, 150000} {
		var res XPResult
		p, res = engine.ApplyXP(p, amount)
		if p.TotalXP < lastXP {
			t.Fatalf("TotalXP decreased: %d -> %d", lastXP, p.TotalXP)
		}
		if res.NewLevel < lastLevel {
			t.Fatalf("level decreased: %d -> %d", lastLevel, res.NewLevel)
		}
		lastXP = p.TotalXP
		lastLevel = res.NewLevel
	}
}

func TestApplyXPLevelUp(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	p := NewProgress()
	p.TotalXP = 950

	p, res := engine.ApplyXP(p, 100)
	if !res.LeveledUp() {
		t.Fatal("expected level up crossing 1000 XP")
	}
	if res.OldLevel != 5 || res.NewLevel != 6 {
		t.Errorf("levels = %d -> %d, want 5 -> 6", res.OldLevel, res.NewLevel)
	}
	if res.Title != "Bright Spark" {
		t.Errorf("title = %q, want Bright Spark", res.Title)
	}
	if p.TotalXP != 1050 {
		t.Errorf("TotalXP = %d, want 1050", p.TotalXP)
	}
}

func TestProgressWithinLevel(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name    string
		totalXP int64
		want    float64
	}{
		{name: "start of first band", totalXP: 0, want: 0},
		{name: "halfway through first band", totalXP: 50, want: 50},
		{name: "top band uses fallback width", totalXP: 205000, want: 50},
		{name: "deep into the top band clamps", totalXP: 1000000, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ProgressWithinLevel(tt.totalXP)
			if got != tt.want {
				t.Errorf("ProgressWithinLevel(%d) = %v, want %v", tt.totalXP, got, tt.want)
			}
		})
	}
}
