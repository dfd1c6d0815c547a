package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondWithError(t *testing.T) {
	t.Run("writes status and user message", func(t *testing.T) {
		rec := httptest.NewRecorder()

		respondWithError(rec, http.StatusForbidden, "Access denied", "", nil)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "Access denied" {
			t.Errorf("body = %q, want %q", got, "Access denied")
		}
	})

	t.Run("logs the error with the log message", func(t *testing.T) {
		var buf bytes.Buffer
		prev := log.Writer()
		log.SetOutput(&buf)
		defer log.SetOutput(prev)

		rec := httptest.NewRecorder()
		respondWithError(rec, http.StatusInternalServerError, "Something went wrong", "session lookup failed", errors.New("sql: no rows"))

		logged := buf.String()
		if !strings.Contains(logged, "session lookup failed") {
			t.Errorf("log missing internal message: %q", logged)
		}
		if !strings.Contains(logged, "sql: no rows") {
			t.Errorf("log missing wrapped error: %q", logged)
		}
		if strings.Contains(rec.Body.String(), "session lookup failed") {
			t.Errorf("internal message leaked to client: %q", rec.Body.String())
		}
	})

	t.Run("falls back to user message when no log message given", func(t *testing.T) {
		var buf bytes.Buffer
		prev := log.Writer()
		log.SetOutput(&buf)
		defer log.SetOutput(prev)

		rec := httptest.NewRecorder()
		respondWithError(rec, http.StatusBadRequest, "Invalid request", "", errors.New("unexpected EOF"))

		if !strings.Contains(buf.String(), "Invalid request") {
			t.Errorf("log missing fallback message: %q", buf.String())
		}
	})
}
