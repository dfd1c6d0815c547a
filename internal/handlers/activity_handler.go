package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"brainblast/internal/progression"
	"brainblast/internal/service"
)

// ActivityHandler records learner answers and completed activities
type ActivityHandler struct {
	progressionService *service.ProgressionService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(progressionService *service.ProgressionService) *ActivityHandler {
	return &ActivityHandler{progressionService: progressionService}
}

// SubmitAnswer records one answered question for the signed-in learner
func (h *ActivityHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	var req struct {
		SkillID string `json:"skillId"`
		Correct bool   `json:"correct"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}
	req.SkillID = strings.TrimSpace(req.SkillID)
	if req.SkillID == "" {
		respondJSONError(w, http.StatusBadRequest, "skillId is required")
		return
	}

	outcome, err := h.progressionService.SubmitAnswer(learner.ID, req.SkillID, req.Correct, time.Now())
	if err != nil {
		log.Printf("Error submitting answer for learner %d: %v", learner.ID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"xp":        toXPResultView(outcome.XP),
		"mastery":   outcome.Mastery,
		"streak":    toStreakResultView(outcome.Streak),
		"challenge": toChallengeResultView(outcome.Challenge),
		"progress":  toProgressView(outcome.Progress),
	})
}

// CompleteActivity records a finished practice round, game, or reading
// passage for the signed-in learner
func (h *ActivityHandler) CompleteActivity(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	var req struct {
		Kind string `json:"kind"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	kind := progression.ChallengeKind(req.Kind)
	switch kind {
	case progression.KindPractice, progression.KindGame, progression.KindReading:
	default:
		respondJSONError(w, http.StatusBadRequest, "kind must be practice, game, or reading")
		return
	}

	outcome, err := h.progressionService.CompleteActivity(learner.ID, kind, time.Now())
	if err != nil {
		log.Printf("Error completing %s activity for learner %d: %v", kind, learner.ID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"xp":        toXPResultView(outcome.XP),
		"streak":    toStreakResultView(outcome.Streak),
		"challenge": toChallengeResultView(outcome.Challenge),
		"progress":  toProgressView(outcome.Progress),
	})
}
