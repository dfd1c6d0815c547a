package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brainblast/internal/database"
	"brainblast/internal/models"
)

// FamilyRepository persists families and their membership rows.
type FamilyRepository struct {
	db *database.DB
}

func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily inserts a family and enrolls the creator as its admin,
// in one transaction.
func (r *FamilyRepository) CreateFamily(name string, creatorUserID int64) (*models.Family, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	familyID, err := tx.ExecReturningID("INSERT INTO families (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	_, err = tx.Exec("INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, 'admin')", familyID, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	now := time.Now()
	return &models.Family{ID: familyID, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// GetFamilyByID returns the family, or nil when no row exists.
func (r *FamilyRepository) GetFamilyByID(familyID int64) (*models.Family, error) {
	family := &models.Family{}
	err := r.db.QueryRow(
		"SELECT id, name, created_at, updated_at FROM families WHERE id = ?", familyID,
	).Scan(&family.ID, &family.Name, &family.CreatedAt, &family.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}

// GetUserFamilies lists every family the user belongs to, newest first.
func (r *FamilyRepository) GetUserFamilies(userID int64) ([]models.Family, error) {
	rows, err := r.db.Query(`
		SELECT f.id, f.name, f.created_at, f.updated_at
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var f models.Family
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read families: %w", err)
	}
	return families, nil
}

// AddFamilyMember enrolls a user in a family with the given role.
func (r *FamilyRepository) AddFamilyMember(familyID, userID int64, role string) error {
	_, err := r.db.Exec("INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, ?)", familyID, userID, role)
	if err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// IsFamilyMember reports whether the user belongs to the family.
func (r *FamilyRepository) IsFamilyMember(userID, familyID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM family_members WHERE user_id = ? AND family_id = ?",
		userID, familyID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check family membership: %w", err)
	}
	return count > 0, nil
}

// GetFamilyMembers returns the membership rows and the matching user
// records, in join order, oldest member first.
func (r *FamilyRepository) GetFamilyMembers(familyID int64) ([]models.FamilyMember, []models.User, error) {
	rows, err := r.db.Query(`
		SELECT fm.id, fm.family_id, fm.user_id, fm.role, fm.joined_at,
		       u.id, u.email, u.name, u.created_at
		FROM family_members fm
		INNER JOIN users u ON fm.user_id = u.id
		WHERE fm.family_id = ?
		ORDER BY fm.joined_at ASC
	`, familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMember
	var users []models.User
	for rows.Next() {
		var m models.FamilyMember
		var u models.User
		if err := rows.Scan(
			&m.ID, &m.FamilyID, &m.UserID, &m.Role, &m.JoinedAt,
			&u.ID, &u.Email, &u.Name, &u.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, m)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read family members: %w", err)
	}
	return members, users, nil
}

// UpdateFamily renames a family.
func (r *FamilyRepository) UpdateFamily(familyID int64, name string) error {
	_, err := r.db.Exec("UPDATE families SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", name, familyID)
	if err != nil {
		return fmt.Errorf("failed to update family: %w", err)
	}
	return nil
}

// DeleteFamily removes a family. Dependent rows go with it through
// foreign key cascades.
func (r *FamilyRepository) DeleteFamily(familyID int64) error {
	if _, err := r.db.Exec("DELETE FROM families WHERE id = ?", familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	return nil
}
