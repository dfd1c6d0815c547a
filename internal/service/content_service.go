package service

import (
	"fmt"
	"math/rand"
	"time"

	"brainblast/internal/models"
	"brainblast/internal/progression"
	"brainblast/internal/repository"
)

// ContentService owns the static content catalogs: shop items and daily
// challenge templates. Catalogs are seeded into the database at startup so
// the rest of the app reads them like any other table.
type ContentService struct {
	shopRepo      *repository.ShopRepository
	challengeRepo *repository.ChallengeRepository
}

// NewContentService creates a new content service
func NewContentService(shopRepo *repository.ShopRepository, challengeRepo *repository.ChallengeRepository) *ContentService {
	return &ContentService{
		shopRepo:      shopRepo,
		challengeRepo: challengeRepo,
	}
}

// defaultShopItems is the built-in cosmetics catalog
var defaultShopItems = []models.ShopItem{
	{ID: "outfit-explorer", Name: "Explorer Outfit", Category: "outfit", PriceCoin: 100},
	{ID: "outfit-scientist", Name: "Scientist Coat", Category: "outfit", PriceCoin: 150},
	{ID: "outfit-wizard", Name: "Wizard Robes", Category: "outfit", PriceCoin: 250},
	{ID: "outfit-astronaut", Name: "Astronaut Suit", Category: "outfit", PriceCoin: 400},
	{ID: "accessory-glasses", Name: "Smart Glasses", Category: "accessory", PriceCoin: 50},
	{ID: "accessory-cape", Name: "Hero Cape", Category: "accessory", PriceCoin: 120},
	{ID: "accessory-crown", Name: "Golden Crown", Category: "accessory", PriceCoin: 300},
	{ID: "background-forest", Name: "Enchanted Forest", Category: "background", PriceCoin: 80},
	{ID: "background-space", Name: "Outer Space", Category: "background", PriceCoin: 180},
	{ID: "background-ocean", Name: "Deep Ocean", Category: "background", PriceCoin: 180},
	{ID: "effect-sparkles", Name: "Sparkle Trail", Category: "effect", PriceCoin: 200},
	{ID: "effect-rainbow", Name: "Rainbow Burst", Category: "effect", PriceCoin: 350},
}

// defaultChallengeTemplates is the built-in daily challenge catalog. The
// picker chooses one template of each kind per learner per day.
var defaultChallengeTemplates = []models.ChallengeTemplate{
	{ID: "practice-5", Kind: "practice", Description: "Answer 5 practice questions", Target: 5},
	{ID: "practice-10", Kind: "practice", Description: "Answer 10 practice questions", Target: 10},
	{ID: "practice-streak-3", Kind: "practice", Description: "Get 3 answers right in a row", Target: 3},
	{ID: "game-1", Kind: "game", Description: "Finish a mini-game", Target: 1},
	{ID: "game-2", Kind: "game", Description: "Finish 2 mini-games", Target: 2},
	{ID: "game-3", Kind: "game", Description: "Finish 3 mini-games", Target: 3},
	{ID: "reading-1", Kind: "reading", Description: "Read a passage", Target: 1},
	{ID: "reading-2", Kind: "reading", Description: "Read 2 passages", Target: 2},
	{ID: "reading-3", Kind: "reading", Description: "Read 3 passages", Target: 3},
}

// SeedCatalogs writes the built-in catalogs into the database, refreshing
// any entries that changed. Safe to run on every startup.
func (s *ContentService) SeedCatalogs() error {
	for _, item := range defaultShopItems {
		if err := s.shopRepo.UpsertItem(item); err != nil {
			return fmt.Errorf("failed to seed shop item %s: %w", item.ID, err)
		}
	}
	for _, t := range defaultChallengeTemplates {
		if err := s.challengeRepo.UpsertTemplate(t); err != nil {
			return fmt.Errorf("failed to seed challenge template %s: %w", t.ID, err)
		}
	}
	return nil
}

// PickDailyTemplates chooses one template of each kind for a learner's day.
// The choice is seeded by learner and day, so repeated generation for the
// same learner and day always lands on the same three templates.
func PickDailyTemplates(templates []models.ChallengeTemplate, learnerID int64, day time.Time) []models.ChallengeTemplate {
	byKind := make(map[string][]models.ChallengeTemplate)
	for _, t := range templates {
		byKind[t.Kind] = append(byKind[t.Kind], t)
	}

	seed := learnerID*1_000_003 + progression.DayOf(day).Unix()
	rng := rand.New(rand.NewSource(seed))

	var picked []models.ChallengeTemplate
	for _, kind := range []string{"practice", "game", "reading"} {
		candidates := byKind[kind]
		if len(candidates) == 0 {
			continue
		}
		picked = append(picked, candidates[rng.Intn(len(candidates))])
	}
	return picked
}
