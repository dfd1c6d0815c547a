package progression

import "math"

// levelBand is one row of the leveling table.
type levelBand struct {
	threshold int64
	title     string
}

// levelTable maps cumulative XP thresholds to display titles. The spacing is
// deliberately uneven: early levels come fast, the mid game stretches out,
// and the last bands jump in big steps. Reward screens depend on these exact
// values, so don't reorder or "clean up" the numbers.
var levelTable = []levelBand{
	{0, "Curious Cub"},
	{100, "Curious Cub"},
	{250, "Curious Cub"},
	{500, "Curious Cub"},
	{750, "Curious Cub"},
	{1000, "Bright Spark"},
	{1500, "Bright Spark"},
	{2000, "Bright Spark"},
	{2500, "Bright Spark"},
	{3000, "Bright Spark"},
	{4000, "Knowledge Seeker"},
	{5000, "Knowledge Seeker"},
	{6500, "Knowledge Seeker"},
	{8000, "Knowledge Seeker"},
	{10000, "Knowledge Seeker"},
	{12500, "Knowledge Seeker"},
	{15000, "Knowledge Seeker"},
	{18000, "Knowledge Seeker"},
	{21000, "Knowledge Seeker"},
	{25000, "Knowledge Seeker"},
	{30000, "Brain Builder"},
	{35000, "Brain Builder"},
	{40000, "Brain Builder"},
	{45000, "Brain Builder"},
	{50000, "Brain Builder"},
	{55000, "Science Star"},
	{60000, "Science Star"},
	{65000, "Science Star"},
	{70000, "Science Star"},
	{75000, "Math Master"},
	{80000, "Math Master"},
	{85000, "Math Master"},
	{90000, "Math Master"},
	{95000, "Wisdom Wizard"},
	{100000, "Wisdom Wizard"},
	{110000, "Wisdom Wizard"},
	{120000, "Wisdom Wizard"},
	{130000, "Genius Explorer"},
	{150000, "Genius Explorer"},
	{175000, "Genius Explorer"},
	{200000, "BrainBlast Legend"},
}

// LevelForXP returns the 1-based level and display title for a lifetime XP
// total. Level is the index of the highest table threshold at or below the
// total.
func LevelForXP(totalXP int64) (int, string) {
	if totalXP < 0 {
		totalXP = 0
	}
	level := 1
	for i := len(levelTable) - 1; i >= 0; i-- {
		if totalXP >= levelTable[i].threshold {
			level = i + 1
			break
		}
	}
	return level, levelTable[level-1].title
}

// ProgressWithinLevel returns how far through the current level band the
// total is, as a percentage clamped to [0,100]. Past the final threshold the
// band width falls back to cfg.TopBandWidth so the value stays defined.
func (e *Engine) ProgressWithinLevel(totalXP int64) float64 {
	if totalXP < 0 {
		totalXP = 0
	}
	level, _ := LevelForXP(totalXP)
	current := levelTable[level-1].threshold

	var next int64
	if level < len(levelTable) {
		next = levelTable[level].threshold
	} else {
		next = current + e.cfg.TopBandWidth
	}

	pct := float64(totalXP-current) / float64(next-current) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// XPResult reports the outcome of an ApplyXP call.
type XPResult struct {
	// Applied is false when the amount was rejected and the snapshot is
	// unchanged.
	Applied bool

	OldLevel int
	NewLevel int
	Title    string

	// StarsAwarded is the automatic star payout for this XP gain.
	StarsAwarded int64

	// PercentInLevel is the within-level progress after the gain.
	PercentInLevel float64
}

// LeveledUp reports whether the gain crossed at least one level threshold.
func (r XPResult) LeveledUp() bool {
	return r.Applied && r.NewLevel > r.OldLevel
}

// ApplyXP adds a positive XP amount to the snapshot, recomputes the level,
// and pays out stars at the configured rate in the same update. Zero or
// negative amounts are rejected: the snapshot is returned unchanged with
// Applied=false. XP only ever grows, so levels never go backwards.
func (e *Engine) ApplyXP(p Progress, amount int64) (Progress, XPResult) {
	oldLevel, oldTitle := LevelForXP(p.TotalXP)
	if amount <= 0 {
		return p, XPResult{
			Applied:        false,
			OldLevel:       oldLevel,
			NewLevel:       oldLevel,
			Title:          oldTitle,
			PercentInLevel: e.ProgressWithinLevel(p.TotalXP),
		}
	}

	p.TotalXP += amount
	stars := int64(math.Floor(float64(amount) * e.cfg.StarsPerXP))
	p.Stars += stars

	newLevel, title := LevelForXP(p.TotalXP)
	if newLevel > e.cfg.MaxLevel {
		newLevel = e.cfg.MaxLevel
	}

	return p, XPResult{
		Applied:        true,
		OldLevel:       oldLevel,
		NewLevel:       newLevel,
		Title:          title,
		StarsAwarded:   stars,
		PercentInLevel: e.ProgressWithinLevel(p.TotalXP),
	}
}
