package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"brainblast/internal/database"
	"brainblast/internal/progression"
	"brainblast/internal/repository"
)

type testEnv struct {
	db        *database.DB
	svc       *ProgressionService
	learnerID int64
}

// newTestEnv opens a throwaway SQLite database with the full schema,
// seeded catalogs, and one learner.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	learnerRepo := repository.NewLearnerRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	shopRepo := repository.NewShopRepository(db)

	if err := NewContentService(shopRepo, challengeRepo).SeedCatalogs(); err != nil {
		t.Fatalf("Failed to seed catalogs: %v", err)
	}

	user, err := userRepo.CreateUser("parent@example.com", "hash", "Parent")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	familyService := NewFamilyService(db, familyRepo, learnerRepo, userRepo)
	family, err := familyService.CreateFamily("Test Family", user.ID)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	learner, _, err := familyService.CreateLearner(family.ID, user.ID, "Maya", "")
	if err != nil {
		t.Fatalf("Failed to create learner: %v", err)
	}

	engine := progression.NewEngine(progression.DefaultConfig())
	svc := NewProgressionService(db, engine, progressRepo, challengeRepo, shopRepo)

	return &testEnv{db: db, svc: svc, learnerID: learner.ID}
}

func TestSubmitAnswer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	outcome, err := env.svc.SubmitAnswer(env.learnerID, "addition", true, now)
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if !outcome.XP.Applied {
		t.Error("expected XP grant for a correct answer")
	}
	if outcome.Progress.TotalXP != XPCorrectAnswer {
		t.Errorf("total XP = %d, want %d", outcome.Progress.TotalXP, XPCorrectAnswer)
	}
	if outcome.Progress.StreakDays != 1 {
		t.Errorf("streak = %d, want 1 after first activity", outcome.Progress.StreakDays)
	}
	if outcome.Mastery != progression.TierIntro {
		t.Errorf("mastery tier = %q, want intro after one attempt", outcome.Mastery)
	}

	outcome, err = env.svc.SubmitAnswer(env.learnerID, "addition", false, now)
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if outcome.XP.Applied {
		t.Error("expected no XP for a wrong answer")
	}
	if outcome.Progress.TotalXP != XPCorrectAnswer {
		t.Errorf("total XP = %d, want unchanged %d", outcome.Progress.TotalXP, XPCorrectAnswer)
	}
	if outcome.Streak.Applied {
		t.Error("expected streak untouched on a same-day repeat")
	}
}

func TestCompleteActivityXPByKind(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tests := []struct {
		kind progression.ChallengeKind
		xp   int64
	}{
		{progression.KindPractice, XPActivityPractice},
		{progression.KindGame, XPActivityGame},
		{progression.KindReading, XPActivityReading},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			env := newTestEnv(t)
			now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

			outcome, err := env.svc.CompleteActivity(env.learnerID, tt.kind, now)
			if err != nil {
				t.Fatalf("CompleteActivity failed: %v", err)
			}
			if outcome.Progress.TotalXP != tt.xp {
				t.Errorf("total XP = %d, want %d", outcome.Progress.TotalXP, tt.xp)
			}
			if !outcome.Challenge.Applied {
				t.Error("expected the day's challenge to advance")
			}
		})
	}
}

func TestPurchaseItemLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)

	shopRepo := repository.NewShopRepository(env.db)
	items, err := shopRepo.GetItems()
	if err != nil || len(items) == 0 {
		t.Fatalf("expected seeded shop items, got %d (err %v)", len(items), err)
	}
	item := items[0]

	// Not enough coins yet
	result, err := env.svc.PurchaseItem(env.learnerID, item.ID)
	if err != nil {
		t.Fatalf("PurchaseItem failed: %v", err)
	}
	if result.Success || result.Outcome != progression.PurchaseNotEnough {
		t.Fatalf("expected insufficient_coins, got %+v", result)
	}

	// Fund the wallet directly
	if _, err := env.db.Exec("UPDATE learner_progress SET coins = ? WHERE learner_id = ?", item.PriceCoin, env.learnerID); err != nil {
		t.Fatalf("failed to fund wallet: %v", err)
	}

	result, err = env.svc.PurchaseItem(env.learnerID, item.ID)
	if err != nil {
		t.Fatalf("PurchaseItem failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected purchase to succeed, got %+v", result)
	}
	if result.Coins != 0 {
		t.Errorf("coins after purchase = %d, want 0", result.Coins)
	}

	// Owning the item blocks a repeat purchase even with coins
	if _, err := env.db.Exec("UPDATE learner_progress SET coins = ? WHERE learner_id = ?", item.PriceCoin, env.learnerID); err != nil {
		t.Fatalf("failed to refund wallet: %v", err)
	}
	result, err = env.svc.PurchaseItem(env.learnerID, item.ID)
	if err != nil {
		t.Fatalf("PurchaseItem failed: %v", err)
	}
	if result.Success || result.Outcome != progression.PurchaseAlreadyOwned {
		t.Fatalf("expected already_owned, got %+v", result)
	}

	// Unknown item is an error, not a declined purchase
	if _, err := env.svc.PurchaseItem(env.learnerID, "no-such-item"); err == nil {
		t.Fatal("expected an error for an unknown item")
	}
}

func TestDailyBonusLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	// Premature claim is declined
	outcome, err := env.svc.ClaimDailyBonus(env.learnerID, now)
	if err != nil {
		t.Fatalf("ClaimDailyBonus failed: %v", err)
	}
	if outcome.Claimed {
		t.Fatal("expected claim to be declined before challenges are done")
	}

	// Complete all three challenges. Seeded targets never exceed 10.
	for _, kind := range []progression.ChallengeKind{progression.KindPractice, progression.KindGame, progression.KindReading} {
		for i := 0; i < 10; i++ {
			if _, err := env.svc.CompleteActivity(env.learnerID, kind, now); err != nil {
				t.Fatalf("CompleteActivity failed: %v", err)
			}
		}
	}

	dash, err := env.svc.GetDashboard(env.learnerID, now)
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if !dash.BonusEligible {
		t.Fatalf("expected bonus to be eligible, challenges: %+v", dash.Challenges)
	}

	before := dash.Progress.TotalXP
	outcome, err = env.svc.ClaimDailyBonus(env.learnerID, now)
	if err != nil {
		t.Fatalf("ClaimDailyBonus failed: %v", err)
	}
	if !outcome.Claimed {
		t.Fatal("expected the claim to succeed")
	}
	if outcome.RewardXP != progression.DefaultConfig().DailyBonusXP {
		t.Errorf("reward = %d, want %d", outcome.RewardXP, progression.DefaultConfig().DailyBonusXP)
	}

	dash, err = env.svc.GetDashboard(env.learnerID, now)
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if dash.Progress.TotalXP != before+outcome.RewardXP {
		t.Errorf("total XP = %d, want %d", dash.Progress.TotalXP, before+outcome.RewardXP)
	}
	if !dash.BonusClaimed || dash.BonusEligible {
		t.Error("expected bonus to be marked claimed and no longer eligible")
	}

	// Second claim the same day is declined
	outcome, err = env.svc.ClaimDailyBonus(env.learnerID, now)
	if err != nil {
		t.Fatalf("ClaimDailyBonus failed: %v", err)
	}
	if outcome.Claimed {
		t.Fatal("expected a repeat claim to be declined")
	}
}

func TestGetDashboardGeneratesOneChallengePerKind(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	dash, err := env.svc.GetDashboard(env.learnerID, now)
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}

	kinds := map[progression.ChallengeKind]int{}
	for _, c := range dash.Challenges.Challenges {
		kinds[c.Kind]++
	}
	for _, kind := range []progression.ChallengeKind{progression.KindPractice, progression.KindGame, progression.KindReading} {
		if kinds[kind] != 1 {
			t.Errorf("expected exactly one %s challenge, got %d", kind, kinds[kind])
		}
	}

	// A later call the same day returns the same set
	again, err := env.svc.GetDashboard(env.learnerID, now.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	for i := range dash.Challenges.Challenges {
		if dash.Challenges.Challenges[i].ID != again.Challenges.Challenges[i].ID {
			t.Errorf("slot %d changed within the day: %q vs %q", i, dash.Challenges.Challenges[i].ID, again.Challenges.Challenges[i].ID)
		}
	}
}
