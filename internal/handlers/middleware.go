package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"brainblast/internal/models"
	"brainblast/internal/security"
	"brainblast/internal/service"
)

// ContextKey keys request-context values set by the middleware.
type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	LearnerContextKey ContextKey = "learner"
)

// Middleware bundles the services the request wrappers need.
type Middleware struct {
	authService   *service.AuthService
	familyService *service.FamilyService
	csrf          *security.CSRFGenerator
}

func NewMiddleware(authService *service.AuthService, familyService *service.FamilyService, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		authService:   authService,
		familyService: familyService,
		csrf:          csrf,
	}
}

// RequireAuth requires a valid parent session cookie
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondJSONError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		user, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
			respondJSONError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin requires a valid parent session belonging to an admin
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || !user.IsAdmin {
			respondJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	})
}

// RequireLearnerAuth requires a valid learner session cookie
func (m *Middleware) RequireLearnerAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(LearnerSessionCookieName)
		if err != nil {
			respondJSONError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		learner, err := m.familyService.ValidateLearnerSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, LearnerSessionCookieName))
			respondJSONError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), LearnerContextKey, learner)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect validates the X-CSRF-Token header against the parent
// session. Runs inside RequireAuth so the session cookie is known valid.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondJSONError(w, http.StatusForbidden, "Missing session")
			return
		}
		token := r.Header.Get("X-CSRF-Token")
		if token == "" || !m.csrf.ValidateToken(cookie.Value, token) {
			respondJSONError(w, http.StatusForbidden, "Invalid CSRF token")
			return
		}
		next(w, r)
	}
}

// CSRFToken issues a token bound to the current parent session
func (m *Middleware) CSRFToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		respondJSONError(w, http.StatusUnauthorized, ErrUnauthorized)
		return
	}
	token, err := m.csrf.GenerateToken(cookie.Value)
	if err != nil {
		log.Printf("Error generating CSRF token: %v", err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}

// RateLimit rejects requests from IPs that exceed the limiter's budget.
// Used on the login and password reset endpoints.
func RateLimit(limiter *security.RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(security.GetClientIP(r)) {
			respondJSONError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r)
	}
}

// Logging writes one line per request with method, path and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext returns the authenticated parent, or nil.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetLearnerFromContext returns the authenticated learner, or nil.
func GetLearnerFromContext(ctx context.Context) *models.Learner {
	learner, ok := ctx.Value(LearnerContextKey).(*models.Learner)
	if !ok {
		return nil
	}
	return learner
}
