package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brainblast/internal/models"
	"brainblast/internal/security"
)

func TestRateLimitBlocksAfterBudget(t *testing.T) {
	limiter := security.NewRateLimiter(2, time.Minute)
	handler := RateLimit(limiter, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, recorder.Code)
		}
	}

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler(recorder, req)
	if recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after budget exhausted, got %d", recorder.Code)
	}

	// A different IP still has its own budget
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	handler(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for fresh IP, got %d", recorder.Code)
	}
}

func TestCSRFProtect(t *testing.T) {
	csrf := security.NewCSRFGenerator("test-secret")
	m := &Middleware{csrf: csrf}

	handler := m.CSRFProtect(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	sessionID := "session-abc"
	token, err := csrf.GenerateToken(sessionID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name       string
		cookie     string
		token      string
		wantStatus int
	}{
		{"valid token", sessionID, token, http.StatusOK},
		{"missing token", sessionID, "", http.StatusForbidden},
		{"token for other session", "different-session", token, http.StatusForbidden},
		{"no session cookie", "", token, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/families", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.token != "" {
				req.Header.Set("X-CSRF-Token", tt.token)
			}
			handler(recorder, req)
			if recorder.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, recorder.Code)
			}
		})
	}
}

func TestGetUserFromContext(t *testing.T) {
	if user := GetUserFromContext(context.Background()); user != nil {
		t.Fatalf("expected nil for empty context, got %+v", user)
	}

	want := &models.User{ID: 7, Email: "parent@example.com"}
	ctx := context.WithValue(context.Background(), UserContextKey, want)
	if got := GetUserFromContext(ctx); got != want {
		t.Fatalf("expected stored user, got %+v", got)
	}
}

func TestGetLearnerFromContext(t *testing.T) {
	if learner := GetLearnerFromContext(context.Background()); learner != nil {
		t.Fatalf("expected nil for empty context, got %+v", learner)
	}

	want := &models.Learner{ID: 3, Name: "Maya"}
	ctx := context.WithValue(context.Background(), LearnerContextKey, want)
	if got := GetLearnerFromContext(ctx); got != want {
		t.Fatalf("expected stored learner, got %+v", got)
	}
}
