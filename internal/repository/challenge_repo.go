package repository

import (
	"database/sql"
	"fmt"
	"time"

	"brainblast/internal/database"
	"brainblast/internal/models"
)

// ChallengeRepository handles the daily challenge catalog and each
// learner's per-day challenge rows
type ChallengeRepository struct {
	db *database.DB
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *database.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// GetTemplates lists the full challenge template catalog
func (r *ChallengeRepository) GetTemplates() ([]models.ChallengeTemplate, error) {
	query := `
		SELECT id, kind, description, target, created_at
		FROM challenge_templates
		ORDER BY kind ASC, id ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenge templates: %w", err)
	}
	defer rows.Close()

	var templates []models.ChallengeTemplate
	for rows.Next() {
		var t models.ChallengeTemplate
		if err := rows.Scan(&t.ID, &t.Kind, &t.Description, &t.Target, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge template: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// UpsertTemplate inserts or refreshes one catalog entry. Used by seeding
// at startup so catalog edits roll out without a migration.
func (r *ChallengeRepository) UpsertTemplate(t models.ChallengeTemplate) error {
	update := "UPDATE challenge_templates SET kind = ?, description = ?, target = ? WHERE id = ?"
	result, err := r.db.Exec(update, t.Kind, t.Description, t.Target, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update challenge template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check template update: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert := "INSERT INTO challenge_templates (id, kind, description, target) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(insert, t.ID, t.Kind, t.Description, t.Target); err != nil {
		return fmt.Errorf("failed to insert challenge template: %w", err)
	}
	return nil
}

// GetDay loads a learner's challenge rows for one day, ordered by slot.
// Returns an empty slice when no set has been generated yet.
func (r *ChallengeRepository) GetDay(q database.Querier, learnerID int64, day time.Time) ([]models.DailyChallengeRow, error) {
	query := `
		SELECT learner_id, day, slot, template_id, kind, target, progress, completed, updated_at
		FROM daily_challenges
		WHERE learner_id = ? AND day = ?
		ORDER BY slot ASC
	`
	rows, err := q.Query(query, learnerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily challenges: %w", err)
	}
	defer rows.Close()

	var challenges []models.DailyChallengeRow
	for rows.Next() {
		var c models.DailyChallengeRow
		if err := rows.Scan(
			&c.LearnerID,
			&c.Day,
			&c.Slot,
			&c.TemplateID,
			&c.Kind,
			&c.Target,
			&c.Progress,
			&c.Completed,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily challenge: %w", err)
		}
		challenges = append(challenges, c)
	}

	return challenges, rows.Err()
}

// InsertDay writes a freshly generated challenge set for one day
func (r *ChallengeRepository) InsertDay(q database.Querier, challenges []models.DailyChallengeRow) error {
	query := `
		INSERT INTO daily_challenges (learner_id, day, slot, template_id, kind, target, progress, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, c := range challenges {
		if _, err := q.Exec(query, c.LearnerID, c.Day, c.Slot, c.TemplateID, c.Kind, c.Target, c.Progress, c.Completed); err != nil {
			return fmt.Errorf("failed to insert daily challenge: %w", err)
		}
	}
	return nil
}

// SaveChallengeProgress updates one challenge slot's progress and
// completion state
func (r *ChallengeRepository) SaveChallengeProgress(q database.Querier, c models.DailyChallengeRow) error {
	query := `
		UPDATE daily_challenges
		SET progress = ?, completed = ?, updated_at = CURRENT_TIMESTAMP
		WHERE learner_id = ? AND day = ? AND slot = ?
	`
	if _, err := q.Exec(query, c.Progress, c.Completed, c.LearnerID, c.Day, c.Slot); err != nil {
		return fmt.Errorf("failed to save challenge progress: %w", err)
	}
	return nil
}

// GetBonusClaimed reports whether a learner already claimed the day's bonus
func (r *ChallengeRepository) GetBonusClaimed(q database.Querier, learnerID int64, day time.Time) (bool, error) {
	query := "SELECT claimed FROM daily_bonus_claims WHERE learner_id = ? AND day = ?"
	var claimed bool
	err := q.QueryRow(query, learnerID, day).Scan(&claimed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get bonus claim: %w", err)
	}
	return claimed, nil
}

// MarkBonusClaimed records a successful bonus claim for the day
func (r *ChallengeRepository) MarkBonusClaimed(q database.Querier, learnerID int64, day time.Time) error {
	dialect := q.GetDialect()
	query := fmt.Sprintf(
		"INSERT INTO daily_bonus_claims (learner_id, day, claimed, claimed_at) VALUES (?, ?, %s, CURRENT_TIMESTAMP)",
		dialect.BoolValue(true),
	)
	if _, err := q.Exec(query, learnerID, day); err != nil {
		return fmt.Errorf("failed to mark bonus claimed: %w", err)
	}
	return nil
}
