package service

import (
	"errors"
	"fmt"
	"time"

	"brainblast/internal/database"
	"brainblast/internal/models"
	"brainblast/internal/progression"
	"brainblast/internal/repository"
)

// XP and currency payouts for learner activity. Named here rather than
// inlined at call sites so tuning stays in one place.
const (
	XPCorrectAnswer    int64 = 10
	XPActivityPractice int64 = 10
	XPActivityGame     int64 = 20
	XPActivityReading  int64 = 15

	CoinsPerChallenge int64 = 25
	GemsPerMilestone  int64 = 5
)

var ErrUnknownItem = errors.New("unknown shop item")

// ProgressionService applies learner events through the progression engine
// and persists the results. Every public method runs its reads and writes
// in a single transaction so a snapshot is never half-updated.
type ProgressionService struct {
	db            *database.DB
	engine        *progression.Engine
	progressRepo  *repository.ProgressRepository
	challengeRepo *repository.ChallengeRepository
	shopRepo      *repository.ShopRepository
}

// NewProgressionService creates a new progression service
func NewProgressionService(
	db *database.DB,
	engine *progression.Engine,
	progressRepo *repository.ProgressRepository,
	challengeRepo *repository.ChallengeRepository,
	shopRepo *repository.ShopRepository,
) *ProgressionService {
	return &ProgressionService{
		db:            db,
		engine:        engine,
		progressRepo:  progressRepo,
		challengeRepo: challengeRepo,
		shopRepo:      shopRepo,
	}
}

// AnswerOutcome is everything the UI needs to react to one submitted answer
type AnswerOutcome struct {
	XP        progression.XPResult
	Mastery   progression.Tier
	Streak    progression.StreakResult
	Challenge progression.ChallengeResult
	Progress  progression.Progress
}

// SubmitAnswer records one answered question: mastery counters always move,
// XP is granted only for a correct answer, the streak is touched, and the
// day's practice challenge advances.
func (s *ProgressionService) SubmitAnswer(learnerID int64, skillID string, correct bool, now time.Time) (*AnswerOutcome, error) {
	outcome := &AnswerOutcome{}

	err := s.db.WithTx(func(tx *database.Tx) error {
		p, err := s.loadProgress(tx, learnerID)
		if err != nil {
			return err
		}

		masteryRow, err := s.progressRepo.GetSkillMastery(tx, learnerID, skillID)
		if err != nil {
			return err
		}
		mastery := progression.SkillMastery{
			SkillID:  skillID,
			Attempts: masteryRow.Attempts,
			Correct:  masteryRow.Correct,
		}
		mastery = progression.RecordAnswer(mastery, correct)
		masteryRow.Attempts = mastery.Attempts
		masteryRow.Correct = mastery.Correct
		if err := s.progressRepo.SaveSkillMastery(tx, masteryRow); err != nil {
			return err
		}
		outcome.Mastery = mastery.Tier()

		if correct {
			p, outcome.XP = s.engine.ApplyXP(p, XPCorrectAnswer)
			if err := s.progressRepo.RecordXPEvent(tx, learnerID, XPCorrectAnswer, "answer", skillID); err != nil {
				return err
			}
		}

		p, outcome.Streak = s.engine.TouchActivity(p, now)
		p = s.payMilestones(p, outcome.Streak)

		set, err := s.loadOrGenerateDay(tx, learnerID, now)
		if err != nil {
			return err
		}
		p, set, outcome.Challenge, err = s.advanceKind(tx, learnerID, p, set, progression.KindPractice, 1)
		if err != nil {
			return err
		}

		outcome.Progress = p
		return s.saveProgress(tx, learnerID, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit answer: %w", err)
	}

	return outcome, nil
}

// ActivityOutcome reports the effects of one completed activity
type ActivityOutcome struct {
	XP        progression.XPResult
	Streak    progression.StreakResult
	Challenge progression.ChallengeResult
	Progress  progression.Progress
}

// CompleteActivity records a finished game, reading passage, or practice
// round: grants the kind's XP, touches the streak, and advances the
// matching daily challenge.
func (s *ProgressionService) CompleteActivity(learnerID int64, kind progression.ChallengeKind, now time.Time) (*ActivityOutcome, error) {
	var award int64
	switch kind {
	case progression.KindPractice:
		award = XPActivityPractice
	case progression.KindGame:
		award = XPActivityGame
	case progression.KindReading:
		award = XPActivityReading
	default:
		return nil, fmt.Errorf("unknown activity kind %q", kind)
	}

	outcome := &ActivityOutcome{}

	err := s.db.WithTx(func(tx *database.Tx) error {
		p, err := s.loadProgress(tx, learnerID)
		if err != nil {
			return err
		}

		p, outcome.XP = s.engine.ApplyXP(p, award)
		if err := s.progressRepo.RecordXPEvent(tx, learnerID, award, "activity_"+string(kind), ""); err != nil {
			return err
		}

		p, outcome.Streak = s.engine.TouchActivity(p, now)
		p = s.payMilestones(p, outcome.Streak)

		set, err := s.loadOrGenerateDay(tx, learnerID, now)
		if err != nil {
			return err
		}
		p, set, outcome.Challenge, err = s.advanceKind(tx, learnerID, p, set, kind, 1)
		if err != nil {
			return err
		}

		outcome.Progress = p
		return s.saveProgress(tx, learnerID, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete activity: %w", err)
	}

	return outcome, nil
}

// PurchaseItem spends coins on a shop item. A declined purchase is a normal
// result, not an error; the result's Outcome says why.
func (s *ProgressionService) PurchaseItem(learnerID int64, itemID string) (*progression.PurchaseResult, error) {
	var result progression.PurchaseResult

	err := s.db.WithTx(func(tx *database.Tx) error {
		item, err := s.shopRepo.GetItemByID(tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrUnknownItem
		}

		p, err := s.loadProgress(tx, learnerID)
		if err != nil {
			return err
		}

		p, result = s.engine.Purchase(p, itemID, item.PriceCoin)
		if !result.Success {
			return nil
		}

		if err := s.progressRepo.AddOwnedItem(tx, learnerID, itemID); err != nil {
			return err
		}
		return s.saveProgress(tx, learnerID, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to purchase item: %w", err)
	}

	return &result, nil
}

// BonusOutcome reports the result of a daily bonus claim
type BonusOutcome struct {
	Claimed  bool
	RewardXP int64
	XP       progression.XPResult
}

// ClaimDailyBonus pays out the day's bonus XP when all three challenges are
// complete. The claim succeeds at most once per day; a repeat claim or an
// incomplete set is a declined action.
func (s *ProgressionService) ClaimDailyBonus(learnerID int64, now time.Time) (*BonusOutcome, error) {
	outcome := &BonusOutcome{}

	err := s.db.WithTx(func(tx *database.Tx) error {
		set, err := s.loadOrGenerateDay(tx, learnerID, now)
		if err != nil {
			return err
		}

		set, bonus := s.engine.ClaimBonus(set)
		if !bonus.Claimed {
			return nil
		}

		p, err := s.loadProgress(tx, learnerID)
		if err != nil {
			return err
		}
		p, outcome.XP = s.engine.ApplyXP(p, bonus.RewardXP)
		outcome.Claimed = true
		outcome.RewardXP = bonus.RewardXP

		if err := s.progressRepo.RecordXPEvent(tx, learnerID, bonus.RewardXP, "daily_bonus", ""); err != nil {
			return err
		}
		if err := s.challengeRepo.MarkBonusClaimed(tx, learnerID, progression.DayOf(now)); err != nil {
			return err
		}
		return s.saveProgress(tx, learnerID, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim daily bonus: %w", err)
	}

	return outcome, nil
}

// Dashboard is the read model for a learner's home screen
type Dashboard struct {
	Progress       progression.Progress
	Level          int
	LevelTitle     string
	PercentInLevel float64
	Skills         []SkillSummary
	Challenges     progression.ChallengeSet
	BonusEligible  bool
	BonusClaimed   bool
}

// SkillSummary is one skill's derived mastery state for display
type SkillSummary struct {
	SkillID  string
	Attempts int
	Correct  int
	Accuracy float64
	Tier     progression.Tier
}

// GetDashboard assembles a learner's full progression view, generating the
// day's challenge set on first access.
func (s *ProgressionService) GetDashboard(learnerID int64, now time.Time) (*Dashboard, error) {
	dash := &Dashboard{}

	err := s.db.WithTx(func(tx *database.Tx) error {
		p, err := s.loadProgress(tx, learnerID)
		if err != nil {
			return err
		}
		dash.Progress = p
		dash.Level = p.Level()
		dash.LevelTitle = p.LevelTitle()
		dash.PercentInLevel = s.engine.ProgressWithinLevel(p.TotalXP)

		set, err := s.loadOrGenerateDay(tx, learnerID, now)
		if err != nil {
			return err
		}
		dash.Challenges = set
		dash.BonusEligible = progression.BonusEligible(set) && !set.BonusClaimed
		dash.BonusClaimed = set.BonusClaimed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	skills, err := s.progressRepo.GetAllSkillMastery(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	for _, row := range skills {
		m := progression.SkillMastery{SkillID: row.SkillID, Attempts: row.Attempts, Correct: row.Correct}
		dash.Skills = append(dash.Skills, SkillSummary{
			SkillID:  row.SkillID,
			Attempts: row.Attempts,
			Correct:  row.Correct,
			Accuracy: m.Accuracy(),
			Tier:     m.Tier(),
		})
	}

	return dash, nil
}

// loadProgress builds an engine snapshot from the learner's progress row
// and owned items
func (s *ProgressionService) loadProgress(tx *database.Tx, learnerID int64) (progression.Progress, error) {
	row, err := s.progressRepo.GetProgress(tx, learnerID)
	if err != nil {
		return progression.Progress{}, err
	}
	owned, err := s.progressRepo.GetOwnedItemIDs(tx, learnerID)
	if err != nil {
		return progression.Progress{}, err
	}

	p := progression.Progress{
		TotalXP:    row.TotalXP,
		StreakDays: row.StreakDays,
		Stars:      row.Stars,
		Gems:       row.Gems,
		Coins:      row.Coins,
		OwnedItems: owned,
	}
	if row.LastActive != nil {
		p.LastActive = progression.DayOf(*row.LastActive)
	}
	return p, nil
}

// saveProgress writes an engine snapshot back to the progress row. Owned
// items are written separately through AddOwnedItem.
func (s *ProgressionService) saveProgress(tx *database.Tx, learnerID int64, p progression.Progress) error {
	row := &models.LearnerProgressRow{
		LearnerID:  learnerID,
		TotalXP:    p.TotalXP,
		StreakDays: p.StreakDays,
		Stars:      p.Stars,
		Gems:       p.Gems,
		Coins:      p.Coins,
	}
	if !p.LastActive.IsZero() {
		t := p.LastActive
		row.LastActive = &t
	}
	return s.progressRepo.SaveProgress(tx, row)
}

// payMilestones grants the gem payout for any streak milestones crossed
func (s *ProgressionService) payMilestones(p progression.Progress, streak progression.StreakResult) progression.Progress {
	if len(streak.MilestonesReached) == 0 {
		return p
	}
	gems := GemsPerMilestone * int64(len(streak.MilestonesReached))
	p, _ = s.engine.GrantCurrency(p, 0, gems, 0)
	return p
}

// loadOrGenerateDay returns the learner's challenge set for the day,
// generating and persisting a fresh one on first access
func (s *ProgressionService) loadOrGenerateDay(tx *database.Tx, learnerID int64, now time.Time) (progression.ChallengeSet, error) {
	day := progression.DayOf(now)

	rows, err := s.challengeRepo.GetDay(tx, learnerID, day)
	if err != nil {
		return progression.ChallengeSet{}, err
	}

	if len(rows) == 0 {
		templates, err := s.challengeRepo.GetTemplates()
		if err != nil {
			return progression.ChallengeSet{}, err
		}
		picked := PickDailyTemplates(templates, learnerID, day)
		if len(picked) != progression.ChallengeCount {
			return progression.ChallengeSet{}, fmt.Errorf("challenge catalog is missing a kind: picked %d of %d", len(picked), progression.ChallengeCount)
		}

		for slot, t := range picked {
			rows = append(rows, models.DailyChallengeRow{
				LearnerID:  learnerID,
				Day:        day,
				Slot:       slot,
				TemplateID: t.ID,
				Kind:       t.Kind,
				Target:     t.Target,
			})
		}
		if err := s.challengeRepo.InsertDay(tx, rows); err != nil {
			return progression.ChallengeSet{}, err
		}
	}

	claimed, err := s.challengeRepo.GetBonusClaimed(tx, learnerID, day)
	if err != nil {
		return progression.ChallengeSet{}, err
	}

	set := progression.ChallengeSet{Day: day, BonusClaimed: claimed}
	for i, row := range rows {
		if i >= progression.ChallengeCount {
			break
		}
		set.Challenges[i] = progression.Challenge{
			ID:        row.TemplateID,
			Kind:      progression.ChallengeKind(row.Kind),
			Target:    row.Target,
			Progress:  row.Progress,
			Completed: row.Completed,
		}
	}
	return set, nil
}

// advanceKind advances the day's challenge of the given kind and pays the
// coin reward when this advance completes it
func (s *ProgressionService) advanceKind(
	tx *database.Tx,
	learnerID int64,
	p progression.Progress,
	set progression.ChallengeSet,
	kind progression.ChallengeKind,
	by int,
) (progression.Progress, progression.ChallengeSet, progression.ChallengeResult, error) {
	var challengeID string
	slot := -1
	for i, c := range set.Challenges {
		if c.Kind == kind {
			challengeID = c.ID
			slot = i
			break
		}
	}
	if slot < 0 {
		return p, set, progression.ChallengeResult{}, nil
	}

	set, result := s.engine.AdvanceChallenge(set, challengeID, by)
	if !result.Applied {
		return p, set, result, nil
	}

	c := set.Challenges[slot]
	err := s.challengeRepo.SaveChallengeProgress(tx, models.DailyChallengeRow{
		LearnerID: learnerID,
		Day:       set.Day,
		Slot:      slot,
		Progress:  c.Progress,
		Completed: c.Completed,
	})
	if err != nil {
		return p, set, result, err
	}

	if result.JustCompleted {
		p, _ = s.engine.GrantCurrency(p, 0, 0, CoinsPerChallenge)
	}
	return p, set, result, nil
}

// LearnerStats derives the parent-facing summary for one learner.
// Read-only; the daily challenge set is not generated here.
func (s *ProgressionService) LearnerStats(learner models.Learner) (*models.LearnerWithStats, error) {
	row, err := s.progressRepo.GetProgress(s.progressRepo.DB(), learner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for learner %d: %w", learner.ID, err)
	}

	skills, err := s.progressRepo.GetAllSkillMastery(learner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills for learner %d: %w", learner.ID, err)
	}
	mastered := 0
	for _, skill := range skills {
		m := progression.SkillMastery{SkillID: skill.SkillID, Attempts: skill.Attempts, Correct: skill.Correct}
		tier := m.Tier()
		if tier == progression.TierMastered || tier == progression.TierExpert {
			mastered++
		}
	}

	level, title := progression.LevelForXP(row.TotalXP)
	return &models.LearnerWithStats{
		Learner:        learner,
		TotalXP:        row.TotalXP,
		Level:          level,
		LevelTitle:     title,
		PercentInLevel: s.engine.ProgressWithinLevel(row.TotalXP),
		StreakDays:     row.StreakDays,
		Stars:          row.Stars,
		Gems:           row.Gems,
		Coins:          row.Coins,
		SkillsMastered: mastered,
	}, nil
}
