package handlers

const (
	SessionCookieName        = "session_id"
	LearnerSessionCookieName = "learner_session_id"

	ErrInvalidJSON         = "Invalid JSON body"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
)
