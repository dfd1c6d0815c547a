package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"brainblast/internal/repository"
	"brainblast/internal/service"
	"brainblast/internal/validation"
)

// AdminHandler exposes admin-only maintenance endpoints
type AdminHandler struct {
	backupService *service.BackupService
	digestService *service.DigestService
	userRepo      *repository.UserRepository
}

func NewAdminHandler(backupService *service.BackupService, digestService *service.DigestService, userRepo *repository.UserRepository) *AdminHandler {
	return &AdminHandler{
		backupService: backupService,
		digestService: digestService,
		userRepo:      userRepo,
	}
}

// ExportBackup streams a full JSON backup of accounts and progression data
func (h *AdminHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("brainblast-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.backupService.ExportToWriter(w); err != nil {
		log.Printf("Error exporting backup: %v", err)
	}
}

// ImportBackup restores a previously exported JSON backup
func (h *AdminHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	if err := h.backupService.ImportFromReader(r.Body); err != nil {
		log.Printf("Error importing backup: %v", err)
		respondJSONError(w, http.StatusBadRequest, "Failed to import backup")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// ListUsers returns every parent account
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.GetAllUsers()
	if err != nil {
		log.Printf("Error listing users: %v", err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{ID: u.ID, Email: u.Email, Name: u.Name, IsAdmin: u.IsAdmin})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"users": views})
}

// UpdateUser edits a parent account's email, name or admin flag
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userRepo.UpdateUser(userID, req.Email, req.Name, req.IsAdmin); err != nil {
		log.Printf("Error updating user %d: %v", userID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteUser removes a parent account. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin := GetUserFromContext(r.Context())

	userID, err := pathID(r, "userID")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if admin != nil && admin.ID == userID {
		respondJSONError(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := h.userRepo.DeleteUser(userID); err != nil {
		log.Printf("Error deleting user %d: %v", userID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SendDigests triggers the weekly progress email immediately
func (h *AdminHandler) SendDigests(w http.ResponseWriter, r *http.Request) {
	if err := h.digestService.SendWeeklyDigests(r.Context(), time.Now()); err != nil {
		log.Printf("Error sending weekly digests: %v", err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "digests sent"})
}
