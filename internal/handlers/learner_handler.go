package handlers

import (
	"log"
	"net/http"
	"time"

	"brainblast/internal/security"
	"brainblast/internal/service"
)

// LearnerHandler handles learner sign-in and the learner home screen
type LearnerHandler struct {
	familyService      *service.FamilyService
	progressionService *service.ProgressionService
}

// NewLearnerHandler creates a new learner handler
func NewLearnerHandler(familyService *service.FamilyService, progressionService *service.ProgressionService) *LearnerHandler {
	return &LearnerHandler{
		familyService:      familyService,
		progressionService: progressionService,
	}
}

// Login signs a learner in with their generated username and password
func (h *LearnerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	learner, sessionID, expiresAt, err := h.familyService.LoginLearner(req.Username, req.Password)
	if err != nil {
		respondJSONError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, LearnerSessionCookieName, sessionID, expiresAt))
	respondJSON(w, http.StatusOK, toLearnerView(*learner))
}

// Logout ends the learner's session
func (h *LearnerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(LearnerSessionCookieName); err == nil {
		if err := h.familyService.LogoutLearner(cookie.Value); err != nil {
			log.Printf("Error logging out learner session: %v", err)
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, LearnerSessionCookieName))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the signed-in learner's profile
func (h *LearnerHandler) Me(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	if learner == nil {
		respondJSONError(w, http.StatusUnauthorized, ErrUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, toLearnerView(*learner))
}

// Dashboard returns the learner's full home screen state: level, currencies,
// skills, and the day's challenges. Generates the challenge set on the
// day's first visit.
func (h *LearnerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	dash, err := h.progressionService.GetDashboard(learner.ID, time.Now())
	if err != nil {
		log.Printf("Error loading dashboard for learner %d: %v", learner.ID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	skills := make([]map[string]interface{}, 0, len(dash.Skills))
	for _, skill := range dash.Skills {
		skills = append(skills, map[string]interface{}{
			"skillId":  skill.SkillID,
			"attempts": skill.Attempts,
			"correct":  skill.Correct,
			"accuracy": skill.Accuracy,
			"tier":     skill.Tier,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"learner":        toLearnerView(*learner),
		"progress":       toProgressView(dash.Progress),
		"level":          dash.Level,
		"levelTitle":     dash.LevelTitle,
		"percentInLevel": dash.PercentInLevel,
		"skills":         skills,
		"challenges":     toChallengeSetView(dash.Challenges),
		"bonusEligible":  dash.BonusEligible,
		"bonusClaimed":   dash.BonusClaimed,
	})
}
