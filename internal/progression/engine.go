package progression

// Engine applies progression rules to learner state snapshots. All methods
// are pure: they take a snapshot, return an updated copy plus an explicit
// result, and never touch storage or the clock. Callers that persist state
// must write the whole updated snapshot in a single transaction.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Config holds the tunable reward constants. The zero value is not usable;
// start from DefaultConfig and override fields as needed.
type Config struct {
	// StarsPerXP is the fraction of gained XP paid out as stars (floor).
	StarsPerXP float64

	// DailyBonusXP is the XP reward for completing all daily challenges.
	DailyBonusXP int64

	// MaxLevel caps the level derived from the XP table.
	MaxLevel int

	// StreakMilestones are the streak lengths that trigger a milestone
	// notification, ascending.
	StreakMilestones []int

	// TopBandWidth is the assumed width of the final level band, used to
	// compute within-level progress once the table is exhausted.
	TopBandWidth int64
}

// DefaultConfig returns the production reward constants.
func DefaultConfig() Config {
	return Config{
		StarsPerXP:       0.1,
		DailyBonusXP:     50,
		MaxLevel:         100,
		StreakMilestones: []int{3, 7, 14, 30, 60, 100, 365},
		TopBandWidth:     10000,
	}
}
