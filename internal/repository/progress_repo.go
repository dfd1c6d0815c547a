package repository

import (
	"database/sql"
	"fmt"
	"time"

	"brainblast/internal/database"
	"brainblast/internal/models"
)

// ProgressRepository handles persistence of learner reward state. All
// mutating methods take a Querier so a service can group the reads and
// writes of one operation into a single transaction.
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetProgress loads a learner's progress row, creating a zeroed row on
// first access so callers never see a missing learner state.
func (r *ProgressRepository) GetProgress(q database.Querier, learnerID int64) (*models.LearnerProgressRow, error) {
	row, err := r.scanProgress(q, learnerID)
	if err != nil {
		return nil, err
	}
	if row != nil {
		return row, nil
	}

	query := `
		INSERT INTO learner_progress (learner_id, total_xp, streak_days, stars, gems, coins)
		VALUES (?, 0, 0, 0, 0, 0)
	`
	if _, err := q.Exec(query, learnerID); err != nil {
		return nil, fmt.Errorf("failed to initialize progress: %w", err)
	}

	return &models.LearnerProgressRow{LearnerID: learnerID, UpdatedAt: time.Now()}, nil
}

func (r *ProgressRepository) scanProgress(q database.Querier, learnerID int64) (*models.LearnerProgressRow, error) {
	query := `
		SELECT learner_id, total_xp, streak_days, last_active, stars, gems, coins, updated_at
		FROM learner_progress
		WHERE learner_id = ?
	`
	row := &models.LearnerProgressRow{}
	var lastActive sql.NullTime
	err := q.QueryRow(query, learnerID).Scan(
		&row.LearnerID,
		&row.TotalXP,
		&row.StreakDays,
		&lastActive,
		&row.Stars,
		&row.Gems,
		&row.Coins,
		&row.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	if lastActive.Valid {
		t := lastActive.Time
		row.LastActive = &t
	}
	return row, nil
}

// SaveProgress writes a learner's full progress row
func (r *ProgressRepository) SaveProgress(q database.Querier, row *models.LearnerProgressRow) error {
	query := `
		UPDATE learner_progress
		SET total_xp = ?, streak_days = ?, last_active = ?, stars = ?, gems = ?, coins = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE learner_id = ?
	`
	var lastActive interface{}
	if row.LastActive != nil {
		lastActive = *row.LastActive
	}
	_, err := q.Exec(query, row.TotalXP, row.StreakDays, lastActive, row.Stars, row.Gems, row.Coins, row.LearnerID)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// RecordXPEvent appends one XP grant to the audit log
func (r *ProgressRepository) RecordXPEvent(q database.Querier, learnerID, amount int64, reason, skillID string) error {
	query := "INSERT INTO xp_events (learner_id, amount, reason, skill_id) VALUES (?, ?, ?, ?)"
	if _, err := q.Exec(query, learnerID, amount, reason, skillID); err != nil {
		return fmt.Errorf("failed to record xp event: %w", err)
	}
	return nil
}

// GetXPEventsSince lists a learner's XP grants newer than the cutoff,
// most recent first
func (r *ProgressRepository) GetXPEventsSince(learnerID int64, since time.Time) ([]models.XPEvent, error) {
	query := `
		SELECT id, learner_id, amount, reason, skill_id, created_at
		FROM xp_events
		WHERE learner_id = ? AND created_at >= ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, learnerID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query xp events: %w", err)
	}
	defer rows.Close()

	var events []models.XPEvent
	for rows.Next() {
		var e models.XPEvent
		if err := rows.Scan(&e.ID, &e.LearnerID, &e.Amount, &e.Reason, &e.SkillID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan xp event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// GetSkillMastery loads one skill's lifetime counters for a learner.
// Returns a zeroed row when the learner has never attempted the skill.
func (r *ProgressRepository) GetSkillMastery(q database.Querier, learnerID int64, skillID string) (*models.SkillMasteryRow, error) {
	query := `
		SELECT learner_id, skill_id, attempts, correct, updated_at
		FROM skill_mastery
		WHERE learner_id = ? AND skill_id = ?
	`
	row := &models.SkillMasteryRow{}
	err := q.QueryRow(query, learnerID, skillID).Scan(
		&row.LearnerID,
		&row.SkillID,
		&row.Attempts,
		&row.Correct,
		&row.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return &models.SkillMasteryRow{LearnerID: learnerID, SkillID: skillID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get skill mastery: %w", err)
	}
	return row, nil
}

// SaveSkillMastery upserts one skill's counters. The read-then-write is
// safe because callers hold a transaction for the whole operation.
func (r *ProgressRepository) SaveSkillMastery(q database.Querier, row *models.SkillMasteryRow) error {
	update := `
		UPDATE skill_mastery
		SET attempts = ?, correct = ?, updated_at = CURRENT_TIMESTAMP
		WHERE learner_id = ? AND skill_id = ?
	`
	result, err := q.Exec(update, row.Attempts, row.Correct, row.LearnerID, row.SkillID)
	if err != nil {
		return fmt.Errorf("failed to update skill mastery: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check skill mastery update: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert := "INSERT INTO skill_mastery (learner_id, skill_id, attempts, correct) VALUES (?, ?, ?, ?)"
	if _, err := q.Exec(insert, row.LearnerID, row.SkillID, row.Attempts, row.Correct); err != nil {
		return fmt.Errorf("failed to insert skill mastery: %w", err)
	}
	return nil
}

// GetAllSkillMastery lists every skill a learner has attempted
func (r *ProgressRepository) GetAllSkillMastery(learnerID int64) ([]models.SkillMasteryRow, error) {
	query := `
		SELECT learner_id, skill_id, attempts, correct, updated_at
		FROM skill_mastery
		WHERE learner_id = ?
		ORDER BY skill_id ASC
	`
	rows, err := r.db.Query(query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill mastery: %w", err)
	}
	defer rows.Close()

	var skills []models.SkillMasteryRow
	for rows.Next() {
		var row models.SkillMasteryRow
		if err := rows.Scan(&row.LearnerID, &row.SkillID, &row.Attempts, &row.Correct, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill mastery: %w", err)
		}
		skills = append(skills, row)
	}

	return skills, rows.Err()
}

// GetOwnedItemIDs lists the shop item IDs a learner has unlocked
func (r *ProgressRepository) GetOwnedItemIDs(q database.Querier, learnerID int64) (map[string]bool, error) {
	query := "SELECT item_id FROM owned_items WHERE learner_id = ?"
	rows, err := q.Query(query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned items: %w", err)
	}
	defer rows.Close()

	owned := make(map[string]bool)
	for rows.Next() {
		var itemID string
		if err := rows.Scan(&itemID); err != nil {
			return nil, fmt.Errorf("failed to scan owned item: %w", err)
		}
		owned[itemID] = true
	}

	return owned, rows.Err()
}

// AddOwnedItem records a newly unlocked shop item
func (r *ProgressRepository) AddOwnedItem(q database.Querier, learnerID int64, itemID string) error {
	query := "INSERT INTO owned_items (learner_id, item_id) VALUES (?, ?)"
	if _, err := q.Exec(query, learnerID, itemID); err != nil {
		return fmt.Errorf("failed to add owned item: %w", err)
	}
	return nil
}

// DB exposes the repository's connection as a Querier for callers that
// read outside a transaction.
func (r *ProgressRepository) DB() database.Querier {
	return r.db
}
