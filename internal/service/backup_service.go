package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"brainblast/internal/database"
)

// BackupData represents the complete database backup structure. Daily
// challenge rows are deliberately excluded: they regenerate on first access.
type BackupData struct {
	Version      string               `json:"version"`
	ExportedAt   time.Time            `json:"exported_at"`
	DatabaseType string               `json:"database_type"`
	Users        []UserBackup         `json:"users"`
	Families     []FamilyBackup       `json:"families"`
	Learners     []LearnerBackup      `json:"learners"`
	Progress     []ProgressBackup     `json:"progress"`
	Skills       []SkillBackup        `json:"skills"`
	OwnedItems   []OwnedItemBackup    `json:"owned_items"`
	XPEvents     []XPEventBackup      `json:"xp_events"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FamilyBackup represents a family record and its memberships
type FamilyBackup struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	Members   []FamilyMemberBackup `json:"members"`
}

// FamilyMemberBackup represents a family member record
type FamilyMemberBackup struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// LearnerBackup represents a learner profile for backup
type LearnerBackup struct {
	ID           int64     `json:"id"`
	FamilyID     int64     `json:"family_id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	AvatarColor  string    `json:"avatar_color"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProgressBackup represents one learner's reward state
type ProgressBackup struct {
	LearnerID  int64      `json:"learner_id"`
	TotalXP    int64      `json:"total_xp"`
	StreakDays int        `json:"streak_days"`
	LastActive *time.Time `json:"last_active"`
	Stars      int64      `json:"stars"`
	Gems       int64      `json:"gems"`
	Coins      int64      `json:"coins"`
}

// SkillBackup represents one learner's counters for one skill
type SkillBackup struct {
	LearnerID int64  `json:"learner_id"`
	SkillID   string `json:"skill_id"`
	Attempts  int    `json:"attempts"`
	Correct   int    `json:"correct"`
}

// OwnedItemBackup represents one unlocked shop item
type OwnedItemBackup struct {
	LearnerID  int64     `json:"learner_id"`
	ItemID     string    `json:"item_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// XPEventBackup represents one XP audit record
type XPEventBackup struct {
	LearnerID int64     `json:"learner_id"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
	SkillID   string    `json:"skill_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService exports the whole database to portable JSON and
// restores from it. The format is engine-neutral, so a backup taken on
// SQLite can be imported into PostgreSQL or MySQL.
type BackupService struct {
	db *database.DB
}

func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// GetDB exposes the connection for tooling that needs raw access,
// such as the pre-import wipe in the backup CLI.
func (s *BackupService) GetDB() *database.DB {
	return s.db
}

// Export writes a complete backup to a file.
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer (useful for HTTP responses)
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	steps := []struct {
		name string
		fn   func(*BackupData) error
	}{
		{"users", s.exportUsers},
		{"families", s.exportFamilies},
		{"learners", s.exportLearners},
		{"progress", s.exportProgress},
		{"skills", s.exportSkills},
		{"owned items", s.exportOwnedItems},
		{"xp events", s.exportXPEvents},
	}
	for _, step := range steps {
		if err := step.fn(backup); err != nil {
			return fmt.Errorf("failed to export %s: %w", step.name, err)
		}
	}

	log.Printf("Exported: %d users, %d families, %d learners, %d progress rows, %d skills, %d owned items, %d xp events",
		len(backup.Users), len(backup.Families), len(backup.Learners),
		len(backup.Progress), len(backup.Skills), len(backup.OwnedItems), len(backup.XPEvents))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader (for file uploads)
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in dependency order: users and families first, then the
	// learner rows that reference them.
	steps := []struct {
		name string
		fn   func() error
	}{
		{"users", func() error { return s.importUsers(backup.Users) }},
		{"families", func() error { return s.importFamilies(backup.Families) }},
		{"learners", func() error { return s.importLearners(backup.Learners) }},
		{"progress", func() error { return s.importProgress(backup.Progress) }},
		{"skills", func() error { return s.importSkills(backup.Skills) }},
		{"owned items", func() error { return s.importOwnedItems(backup.OwnedItems) }},
		{"xp events", func() error { return s.importXPEvents(backup.XPEvents) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("failed to import %s: %w", step.name, err)
		}
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, email, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), is_admin, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportFamilies(backup *BackupData) error {
	query := "SELECT id, name, created_at, updated_at FROM families ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var f FamilyBackup
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return err
		}

		memberQuery := "SELECT user_id, role FROM family_members WHERE family_id = ? ORDER BY user_id"
		memberRows, err := s.db.Query(memberQuery, f.ID)
		if err != nil {
			return err
		}
		for memberRows.Next() {
			var m FamilyMemberBackup
			if err := memberRows.Scan(&m.UserID, &m.Role); err != nil {
				memberRows.Close()
				return err
			}
			f.Members = append(f.Members, m)
		}
		memberRows.Close()

		backup.Families = append(backup.Families, f)
	}
	return rows.Err()
}

func (s *BackupService) exportLearners(backup *BackupData) error {
	query := "SELECT id, family_id, name, username, password_hash, COALESCE(avatar_color, '#4A90E2'), created_at, updated_at FROM learners ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l LearnerBackup
		if err := rows.Scan(&l.ID, &l.FamilyID, &l.Name, &l.Username, &l.PasswordHash, &l.AvatarColor, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return err
		}
		backup.Learners = append(backup.Learners, l)
	}
	return rows.Err()
}

func (s *BackupService) exportProgress(backup *BackupData) error {
	query := "SELECT learner_id, total_xp, streak_days, last_active, stars, gems, coins FROM learner_progress ORDER BY learner_id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProgressBackup
		var lastActive sql.NullTime
		if err := rows.Scan(&p.LearnerID, &p.TotalXP, &p.StreakDays, &lastActive, &p.Stars, &p.Gems, &p.Coins); err != nil {
			return err
		}
		if lastActive.Valid {
			p.LastActive = &lastActive.Time
		}
		backup.Progress = append(backup.Progress, p)
	}
	return rows.Err()
}

func (s *BackupService) exportSkills(backup *BackupData) error {
	query := "SELECT learner_id, skill_id, attempts, correct FROM skill_mastery ORDER BY learner_id, skill_id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sk SkillBackup
		if err := rows.Scan(&sk.LearnerID, &sk.SkillID, &sk.Attempts, &sk.Correct); err != nil {
			return err
		}
		backup.Skills = append(backup.Skills, sk)
	}
	return rows.Err()
}

func (s *BackupService) exportOwnedItems(backup *BackupData) error {
	query := "SELECT learner_id, item_id, unlocked_at FROM owned_items ORDER BY learner_id, item_id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var o OwnedItemBackup
		if err := rows.Scan(&o.LearnerID, &o.ItemID, &o.UnlockedAt); err != nil {
			return err
		}
		backup.OwnedItems = append(backup.OwnedItems, o)
	}
	return rows.Err()
}

func (s *BackupService) exportXPEvents(backup *BackupData) error {
	query := "SELECT learner_id, amount, reason, COALESCE(skill_id, ''), created_at FROM xp_events ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e XPEventBackup
		if err := rows.Scan(&e.LearnerID, &e.Amount, &e.Reason, &e.SkillID, &e.CreatedAt); err != nil {
			return err
		}
		backup.XPEvents = append(backup.XPEvents, e)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_subject, is_admin, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, u.ID, u.Email, u.PasswordHash, u.Name, nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.IsAdmin, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importFamilies(families []FamilyBackup) error {
	log.Printf("Importing %d families...", len(families))
	for _, f := range families {
		query := "INSERT INTO families (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)"
		_, err := s.db.Exec(query, f.ID, f.Name, f.CreatedAt, f.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import family %d: %w", f.ID, err)
		}

		for _, m := range f.Members {
			memberQuery := "INSERT INTO family_members (family_id, user_id, role) VALUES (?, ?, ?)"
			_, err := s.db.Exec(memberQuery, f.ID, m.UserID, m.Role)
			if err != nil {
				return fmt.Errorf("failed to import family member %d for family %d: %w", m.UserID, f.ID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importLearners(learners []LearnerBackup) error {
	log.Printf("Importing %d learners...", len(learners))
	for _, l := range learners {
		query := "INSERT INTO learners (id, family_id, name, username, password_hash, avatar_color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, l.ID, l.FamilyID, l.Name, l.Username, l.PasswordHash, l.AvatarColor, l.CreatedAt, l.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import learner %d: %w", l.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importProgress(progress []ProgressBackup) error {
	log.Printf("Importing %d progress rows...", len(progress))
	for _, p := range progress {
		var lastActive interface{}
		if p.LastActive != nil {
			lastActive = *p.LastActive
		}
		query := "INSERT INTO learner_progress (learner_id, total_xp, streak_days, last_active, stars, gems, coins) VALUES (?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, p.LearnerID, p.TotalXP, p.StreakDays, lastActive, p.Stars, p.Gems, p.Coins)
		if err != nil {
			return fmt.Errorf("failed to import progress for learner %d: %w", p.LearnerID, err)
		}
	}
	return nil
}

func (s *BackupService) importSkills(skills []SkillBackup) error {
	log.Printf("Importing %d skills...", len(skills))
	for _, sk := range skills {
		query := "INSERT INTO skill_mastery (learner_id, skill_id, attempts, correct) VALUES (?, ?, ?, ?)"
		_, err := s.db.Exec(query, sk.LearnerID, sk.SkillID, sk.Attempts, sk.Correct)
		if err != nil {
			return fmt.Errorf("failed to import skill %s for learner %d: %w", sk.SkillID, sk.LearnerID, err)
		}
	}
	return nil
}

func (s *BackupService) importOwnedItems(items []OwnedItemBackup) error {
	log.Printf("Importing %d owned items...", len(items))
	for _, o := range items {
		query := "INSERT INTO owned_items (learner_id, item_id, unlocked_at) VALUES (?, ?, ?)"
		_, err := s.db.Exec(query, o.LearnerID, o.ItemID, o.UnlockedAt)
		if err != nil {
			return fmt.Errorf("failed to import owned item %s for learner %d: %w", o.ItemID, o.LearnerID, err)
		}
	}
	return nil
}

func (s *BackupService) importXPEvents(events []XPEventBackup) error {
	log.Printf("Importing %d xp events...", len(events))
	for _, e := range events {
		query := "INSERT INTO xp_events (learner_id, amount, reason, skill_id, created_at) VALUES (?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, e.LearnerID, e.Amount, e.Reason, e.SkillID, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import xp event for learner %d: %w", e.LearnerID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
