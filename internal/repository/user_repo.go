package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brainblast/internal/database"
	"brainblast/internal/models"
)

// UserRepository persists users, sessions and password reset tokens.
type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// userColumns is the select list every user query shares. The OAuth
// columns are nullable in the schema but empty strings in the model.
const userColumns = "id, email, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), is_admin, created_at, updated_at"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a user. The very first account becomes the admin.
func (r *UserRepository) CreateUser(email, passwordHash, name string) (*models.User, error) {
	var userCount int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	isAdmin := userCount == 0

	id, err := r.db.ExecReturningID(
		"INSERT INTO users (email, password_hash, name, is_admin) VALUES (?, ?, ?, ?)",
		email, passwordHash, name, isAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	now := time.Now()
	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetUserByEmail returns the user, or nil when the email is unknown.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	return scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

// GetUserByID returns the user, or nil when no row exists.
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	return scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetUserByOAuth returns the user linked to a provider identity.
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	return scanUser(r.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE oauth_provider = ? AND oauth_subject = ?",
		provider, subject,
	))
}

// GetAllUsers lists every account, newest first.
func (r *UserRepository) GetAllUsers() ([]models.User, error) {
	rows, err := r.db.Query("SELECT " + userColumns + " FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Name,
			&u.OAuthProvider, &u.OAuthSubject, &u.IsAdmin,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

// UpdateUser rewrites a user's email, name and admin flag.
func (r *UserRepository) UpdateUser(id int64, email, name string, isAdmin bool) error {
	_, err := r.db.Exec(
		"UPDATE users SET email = ?, name = ?, is_admin = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		email, name, isAdmin, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser removes an account; dependent rows cascade.
func (r *UserRepository) DeleteUser(id int64) error {
	if _, err := r.db.Exec("DELETE FROM users WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// UpdateUserPassword replaces the stored password hash.
func (r *UserRepository) UpdateUserPassword(userID int64, passwordHash string) error {
	_, err := r.db.Exec(
		"UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// LinkOAuthProvider attaches a provider identity to an account that
// does not have one yet.
func (r *UserRepository) LinkOAuthProvider(userID int64, provider, subject string) error {
	result, err := r.db.Exec(`
		UPDATE users
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		AND (oauth_provider IS NULL OR oauth_provider = '')
	`, provider, subject, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if affected == 0 {
		return errors.New("oauth provider already linked")
	}
	return nil
}

// CreateSession inserts a session row.
func (r *UserRepository) CreateSession(sessionID string, userID int64, expiresAt time.Time) (*models.Session, error) {
	_, err := r.db.Exec(
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		sessionID, userID, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession returns the session, or nil when the id is unknown.
func (r *UserRepository) GetSession(sessionID string) (*models.Session, error) {
	session := &models.Session{}
	err := r.db.QueryRow(
		"SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?", sessionID,
	).Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes one session.
func (r *UserRepository) DeleteSession(sessionID string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions prunes sessions past their expiry.
func (r *UserRepository) DeleteExpiredSessions() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

// CreatePasswordResetToken stores a reset token.
func (r *UserRepository) CreatePasswordResetToken(token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.Exec(
		"INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetPasswordResetToken returns the token row, or nil when unknown.
func (r *UserRepository) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	resetToken := &models.PasswordResetToken{}
	err := r.db.QueryRow(
		"SELECT token, user_id, expires_at, created_at, used FROM password_reset_tokens WHERE token = ?",
		token,
	).Scan(&resetToken.Token, &resetToken.UserID, &resetToken.ExpiresAt, &resetToken.CreatedAt, &resetToken.Used)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return resetToken, nil
}

// MarkPasswordResetTokenAsUsed burns a token so it cannot be replayed.
func (r *UserRepository) MarkPasswordResetTokenAsUsed(token string) error {
	query := fmt.Sprintf("UPDATE password_reset_tokens SET used = %s WHERE token = ?", r.db.Dialect.BoolValue(true))
	if _, err := r.db.Exec(query, token); err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return nil
}

// DeleteUserPasswordResetTokens drops every outstanding token for a user.
func (r *UserRepository) DeleteUserPasswordResetTokens(userID int64) error {
	if _, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete user reset tokens: %w", err)
	}
	return nil
}

// DeleteExpiredPasswordResetTokens prunes tokens past their expiry.
func (r *UserRepository) DeleteExpiredPasswordResetTokens() error {
	if _, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE expires_at < ?", time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return nil
}
