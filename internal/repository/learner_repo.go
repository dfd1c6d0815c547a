package repository

import (
	"database/sql"
	"fmt"
	"time"

	"brainblast/internal/database"
	"brainblast/internal/models"
)

// LearnerRepository handles database operations for learner profiles
type LearnerRepository struct {
	db *database.DB
}

// NewLearnerRepository creates a new learner repository
func NewLearnerRepository(db *database.DB) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// CreateLearner creates a new learner profile inside the given transaction
func (r *LearnerRepository) CreateLearner(q database.Querier, familyID int64, name, username, passwordHash, avatarColor string) (*models.Learner, error) {
	query := `
		INSERT INTO learners (family_id, name, username, password_hash, avatar_color)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := q.ExecReturningID(query, familyID, name, username, passwordHash, avatarColor)
	if err != nil {
		return nil, fmt.Errorf("failed to create learner: %w", err)
	}

	return &models.Learner{
		ID:          id,
		FamilyID:    familyID,
		Name:        name,
		Username:    username,
		AvatarColor: avatarColor,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// GetLearnerByID retrieves a learner by ID
func (r *LearnerRepository) GetLearnerByID(learnerID int64) (*models.Learner, error) {
	query := `
		SELECT id, family_id, name, username, avatar_color, created_at, updated_at
		FROM learners
		WHERE id = ?
	`
	learner := &models.Learner{}
	err := r.db.QueryRow(query, learnerID).Scan(
		&learner.ID,
		&learner.FamilyID,
		&learner.Name,
		&learner.Username,
		&learner.AvatarColor,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	return learner, nil
}

// GetLearnerByUsername retrieves a learner by username, along with the
// password hash for login verification
func (r *LearnerRepository) GetLearnerByUsername(username string) (*models.Learner, string, error) {
	query := `
		SELECT id, family_id, name, username, password_hash, avatar_color, created_at, updated_at
		FROM learners
		WHERE username = ?
	`
	learner := &models.Learner{}
	var passwordHash string
	err := r.db.QueryRow(query, username).Scan(
		&learner.ID,
		&learner.FamilyID,
		&learner.Name,
		&learner.Username,
		&passwordHash,
		&learner.AvatarColor,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get learner: %w", err)
	}

	return learner, passwordHash, nil
}

// GetFamilyLearners retrieves all learners in a family
func (r *LearnerRepository) GetFamilyLearners(familyID int64) ([]models.Learner, error) {
	query := `
		SELECT id, family_id, name, username, avatar_color, created_at, updated_at
		FROM learners
		WHERE family_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query learners: %w", err)
	}
	defer rows.Close()

	var learners []models.Learner
	for rows.Next() {
		var learner models.Learner
		if err := rows.Scan(
			&learner.ID,
			&learner.FamilyID,
			&learner.Name,
			&learner.Username,
			&learner.AvatarColor,
			&learner.CreatedAt,
			&learner.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan learner: %w", err)
		}
		learners = append(learners, learner)
	}

	return learners, rows.Err()
}

// UpdateLearner updates a learner's name and avatar color
func (r *LearnerRepository) UpdateLearner(learnerID int64, name, avatarColor string) error {
	query := "UPDATE learners SET name = ?, avatar_color = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, name, avatarColor, learnerID)
	if err != nil {
		return fmt.Errorf("failed to update learner: %w", err)
	}
	return nil
}

// UpdateLearnerPassword replaces a learner's password hash
func (r *LearnerRepository) UpdateLearnerPassword(learnerID int64, passwordHash string) error {
	query := "UPDATE learners SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.Exec(query, passwordHash, learnerID)
	if err != nil {
		return fmt.Errorf("failed to update learner password: %w", err)
	}
	return nil
}

// DeleteLearner deletes a learner profile and all dependent rows
func (r *LearnerRepository) DeleteLearner(learnerID int64) error {
	query := "DELETE FROM learners WHERE id = ?"
	_, err := r.db.Exec(query, learnerID)
	if err != nil {
		return fmt.Errorf("failed to delete learner: %w", err)
	}
	return nil
}

// CreateLearnerSession creates a new session for a learner
func (r *LearnerRepository) CreateLearnerSession(sessionID string, learnerID int64, expiresAt time.Time) error {
	query := "INSERT INTO learner_sessions (id, learner_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, sessionID, learnerID, expiresAt); err != nil {
		return fmt.Errorf("failed to create learner session: %w", err)
	}
	return nil
}

// GetLearnerSession returns the learner ID for an unexpired session
func (r *LearnerRepository) GetLearnerSession(sessionID string) (int64, error) {
	query := "SELECT learner_id FROM learner_sessions WHERE id = ? AND expires_at > ?"
	var learnerID int64
	err := r.db.QueryRow(query, sessionID, time.Now()).Scan(&learnerID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("session not found or expired")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get learner session: %w", err)
	}
	return learnerID, nil
}

// DeleteLearnerSession removes a learner session
func (r *LearnerRepository) DeleteLearnerSession(sessionID string) error {
	query := "DELETE FROM learner_sessions WHERE id = ?"
	if _, err := r.db.Exec(query, sessionID); err != nil {
		return fmt.Errorf("failed to delete learner session: %w", err)
	}
	return nil
}

// DeleteExpiredLearnerSessions removes all expired learner sessions
func (r *LearnerRepository) DeleteExpiredLearnerSessions() error {
	query := "DELETE FROM learner_sessions WHERE expires_at < ?"
	if _, err := r.db.Exec(query, time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired learner sessions: %w", err)
	}
	return nil
}
