package handlers

import (
	"errors"
	"log"
	"net/http"

	"brainblast/internal/security"
	"brainblast/internal/service"
	"brainblast/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

type userView struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// Register creates a new parent account and starts a session
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		FamilyName string `json:"familyName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name, req.FamilyName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondJSONError(w, http.StatusConflict, "An account with that email already exists")
			return
		}
		log.Printf("Error registering user: %v", err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	session, _, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error creating session after registration: %v", err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	if h.emailService != nil {
		if err := h.emailService.SendWelcomeEmail(r.Context(), user.Email, user.Name); err != nil {
			log.Printf("Warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusCreated, userView{ID: user.ID, Email: user.Email, Name: user.Name, IsAdmin: user.IsAdmin})
}

// Login authenticates a parent and starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondJSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, userView{ID: user.ID, Email: user.Email, Name: user.Name, IsAdmin: user.IsAdmin})
}

// Logout ends the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			log.Printf("Error logging out session: %v", err)
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated parent's account details
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, ErrUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, userView{ID: user.ID, Email: user.Email, Name: user.Name, IsAdmin: user.IsAdmin})
}

// RequestPasswordReset sends a reset email if the account exists.
// Always responds 200 so the endpoint cannot be used to probe for accounts.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, req.Email); err != nil {
		log.Printf("Error requesting password reset for %s: %v", req.Email, err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "If that account exists, a reset email has been sent"})
}

// ResetPassword sets a new password using a reset token
// ValidateResetToken reports whether a reset token is still usable, so the
// client can show the reset form or an expiry message before submission.
func (h *AuthHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondJSONError(w, http.StatusBadRequest, "Missing token")
		return
	}

	valid, err := h.authService.ValidatePasswordResetToken(token)
	if err != nil {
		log.Printf("Error validating reset token: %v", err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	if err := validation.ValidatePassword(req.Password); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
