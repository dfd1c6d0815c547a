package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"brainblast/internal/models"
	"brainblast/internal/service"
	"brainblast/internal/validation"
)

// FamilyHandler handles family and learner management for parents
type FamilyHandler struct {
	familyService      *service.FamilyService
	progressionService *service.ProgressionService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService, progressionService *service.ProgressionService) *FamilyHandler {
	return &FamilyHandler{
		familyService:      familyService,
		progressionService: progressionService,
	}
}

type familyView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type familyMemberView struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type learnerView struct {
	ID          int64  `json:"id"`
	FamilyID    int64  `json:"familyId"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	AvatarColor string `json:"avatarColor"`
}

type learnerStatsView struct {
	learnerView
	TotalXP        int64   `json:"totalXp"`
	Level          int     `json:"level"`
	LevelTitle     string  `json:"levelTitle"`
	PercentInLevel float64 `json:"percentInLevel"`
	StreakDays     int     `json:"streakDays"`
	Stars          int64   `json:"stars"`
	Gems           int64   `json:"gems"`
	Coins          int64   `json:"coins"`
	SkillsMastered int     `json:"skillsMastered"`
}

func toLearnerView(l models.Learner) learnerView {
	return learnerView{
		ID:          l.ID,
		FamilyID:    l.FamilyID,
		Name:        l.Name,
		Username:    l.Username,
		AvatarColor: l.AvatarColor,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// ListFamilies returns the families the authenticated parent belongs to
func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	families, err := h.familyService.GetUserFamilies(user.ID)
	if err != nil {
		log.Printf("Error listing families for user %d: %v", user.ID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	views := make([]familyView, 0, len(families))
	for _, f := range families {
		views = append(views, familyView{ID: f.ID, Name: f.Name})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"families": views})
}

// CreateFamily creates an additional family for the parent
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	family, err := h.familyService.CreateFamily(req.Name, user.ID)
	if err != nil {
		log.Printf("Error creating family for user %d: %v", user.ID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, familyView{ID: family.ID, Name: family.Name})
}

// GetFamily returns one family with its parent roster
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid family ID")
		return
	}

	fam, err := h.familyService.GetFamilyWithMembers(familyID, user.ID)
	if err != nil {
		h.respondFamilyError(w, familyID, err)
		return
	}

	members := make([]familyMemberView, 0, len(fam.Members))
	for i, m := range fam.Members {
		members = append(members, familyMemberView{
			UserID: m.UserID,
			Name:   fam.Users[i].Name,
			Email:  fam.Users[i].Email,
			Role:   m.Role,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"family":  familyView{ID: fam.Family.ID, Name: fam.Family.Name},
		"members": members,
	})
}

// UpdateFamily renames a family
func (h *FamilyHandler) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid family ID")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.familyService.UpdateFamily(familyID, user.ID, req.Name); err != nil {
		h.respondFamilyError(w, familyID, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteFamily removes a family, its learners and all their progress
func (h *FamilyHandler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid family ID")
		return
	}

	if err := h.familyService.DeleteFamily(familyID, user.ID); err != nil {
		h.respondFamilyError(w, familyID, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddMember adds another registered parent to a family by email
func (h *FamilyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid family ID")
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.familyService.AddMemberByEmail(familyID, user.ID, req.Email); err != nil {
		if errors.Is(err, service.ErrNotFamilyMember) {
			respondJSONError(w, http.StatusForbidden, "Not a member of this family")
			return
		}
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (h *FamilyHandler) respondFamilyError(w http.ResponseWriter, familyID int64, err error) {
	switch {
	case errors.Is(err, service.ErrFamilyNotFound):
		respondJSONError(w, http.StatusNotFound, "Family not found")
	case errors.Is(err, service.ErrNotFamilyMember):
		respondJSONError(w, http.StatusForbidden, "Not a member of this family")
	default:
		log.Printf("Error handling family %d: %v", familyID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
	}
}

// ListLearners returns a family's learners with their progression stats
func (h *FamilyHandler) ListLearners(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid family ID")
		return
	}

	learners, err := h.familyService.GetFamilyLearners(familyID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFamilyMember) {
			respondJSONError(w, http.StatusForbidden, "Not a member of this family")
			return
		}
		log.Printf("Error listing learners for family %d: %v", familyID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	views := make([]learnerStatsView, 0, len(learners))
	for _, learner := range learners {
		stats, err := h.progressionService.LearnerStats(learner)
		if err != nil {
			log.Printf("Error loading stats for learner %d: %v", learner.ID, err)
			respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
			return
		}
		views = append(views, learnerStatsView{
			learnerView:    toLearnerView(learner),
			TotalXP:        stats.TotalXP,
			Level:          stats.Level,
			LevelTitle:     stats.LevelTitle,
			PercentInLevel: stats.PercentInLevel,
			StreakDays:     stats.StreakDays,
			Stars:          stats.Stars,
			Gems:           stats.Gems,
			Coins:          stats.Coins,
			SkillsMastered: stats.SkillsMastered,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"learners": views})
}

// CreateLearner adds a learner to a family. The generated password is
// returned in this response only; afterwards it exists solely as a hash.
func (h *FamilyHandler) CreateLearner(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid family ID")
		return
	}

	var req struct {
		Name        string `json:"name"`
		AvatarColor string `json:"avatarColor"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	learner, password, err := h.familyService.CreateLearner(familyID, user.ID, req.Name, req.AvatarColor)
	if err != nil {
		if errors.Is(err, service.ErrNotFamilyMember) {
			respondJSONError(w, http.StatusForbidden, "Not a member of this family")
			return
		}
		log.Printf("Error creating learner in family %d: %v", familyID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"learner":  toLearnerView(*learner),
		"password": password,
	})
}

// UpdateLearner renames a learner or changes their avatar color
func (h *FamilyHandler) UpdateLearner(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	learnerID, err := pathID(r, "learnerID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid learner ID")
		return
	}

	var req struct {
		Name        string `json:"name"`
		AvatarColor string `json:"avatarColor"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.familyService.UpdateLearner(learnerID, user.ID, req.Name, req.AvatarColor); err != nil {
		h.respondLearnerError(w, learnerID, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RegenerateLearnerPassword issues a fresh password for a learner
func (h *FamilyHandler) RegenerateLearnerPassword(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	learnerID, err := pathID(r, "learnerID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid learner ID")
		return
	}

	password, err := h.familyService.RegenerateLearnerPassword(learnerID, user.ID)
	if err != nil {
		h.respondLearnerError(w, learnerID, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"password": password})
}

// DeleteLearner removes a learner and all their progress
func (h *FamilyHandler) DeleteLearner(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	learnerID, err := pathID(r, "learnerID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid learner ID")
		return
	}

	if err := h.familyService.DeleteLearner(learnerID, user.ID); err != nil {
		h.respondLearnerError(w, learnerID, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *FamilyHandler) respondLearnerError(w http.ResponseWriter, learnerID int64, err error) {
	switch {
	case errors.Is(err, service.ErrLearnerNotFound):
		respondJSONError(w, http.StatusNotFound, "Learner not found")
	case errors.Is(err, service.ErrNotFamilyMember):
		respondJSONError(w, http.StatusForbidden, "Not a member of this family")
	default:
		log.Printf("Error updating learner %d: %v", learnerID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
	}
}
