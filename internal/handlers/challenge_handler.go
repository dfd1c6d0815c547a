package handlers

import (
	"log"
	"net/http"
	"time"

	"brainblast/internal/service"
)

// ChallengeHandler serves the day's challenges and the bonus claim
type ChallengeHandler struct {
	progressionService *service.ProgressionService
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(progressionService *service.ProgressionService) *ChallengeHandler {
	return &ChallengeHandler{progressionService: progressionService}
}

// Today returns the signed-in learner's challenge set for the current day
func (h *ChallengeHandler) Today(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	dash, err := h.progressionService.GetDashboard(learner.ID, time.Now())
	if err != nil {
		log.Printf("Error loading challenges for learner %d: %v", learner.ID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"challenges":    toChallengeSetView(dash.Challenges),
		"bonusEligible": dash.BonusEligible,
		"bonusClaimed":  dash.BonusClaimed,
	})
}

// ClaimBonus pays out the daily bonus when all three challenges are done.
// A repeat or premature claim is a 200 with claimed false.
func (h *ChallengeHandler) ClaimBonus(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	outcome, err := h.progressionService.ClaimDailyBonus(learner.ID, time.Now())
	if err != nil {
		log.Printf("Error claiming daily bonus for learner %d: %v", learner.ID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"claimed":  outcome.Claimed,
		"rewardXp": outcome.RewardXP,
		"xp":       toXPResultView(outcome.XP),
	})
}
