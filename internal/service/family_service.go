package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"brainblast/internal/credentials"
	"brainblast/internal/database"
	"brainblast/internal/models"
	"brainblast/internal/repository"
	"brainblast/internal/security"
)

var (
	ErrFamilyNotFound  = errors.New("family not found")
	ErrNotFamilyMember = errors.New("user is not a member of this family")
	ErrLearnerNotFound = errors.New("learner not found")
)

// FamilyService handles family and learner profile business logic
type FamilyService struct {
	db          *database.DB
	familyRepo  *repository.FamilyRepository
	learnerRepo *repository.LearnerRepository
	userRepo    *repository.UserRepository
}

func NewFamilyService(db *database.DB, familyRepo *repository.FamilyRepository, learnerRepo *repository.LearnerRepository, userRepo *repository.UserRepository) *FamilyService {
	return &FamilyService{
		db:          db,
		familyRepo:  familyRepo,
		learnerRepo: learnerRepo,
		userRepo:    userRepo,
	}
}

// CreateFamily opens a family and makes the creator its admin.
func (s *FamilyService) CreateFamily(name string, creatorUserID int64) (*models.Family, error) {
	if name == "" {
		return nil, errors.New("family name is required")
	}

	family, err := s.familyRepo.CreateFamily(name, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	return family, nil
}

// GetUserFamilies lists the caller's families.
func (s *FamilyService) GetUserFamilies(userID int64) ([]models.Family, error) {
	families, err := s.familyRepo.GetUserFamilies(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user families: %w", err)
	}
	return families, nil
}

// GetFamily loads one family.
func (s *FamilyService) GetFamily(familyID int64) (*models.Family, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}

// VerifyFamilyAccess rejects callers who are not members of the family.
func (s *FamilyService) VerifyFamilyAccess(userID, familyID int64) error {
	isMember, err := s.familyRepo.IsFamilyMember(userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to verify family access: %w", err)
	}
	if !isMember {
		return ErrNotFamilyMember
	}
	return nil
}

// GetFamilyMembers retrieves all members of a family
func (s *FamilyService) GetFamilyMembers(familyID int64) ([]models.FamilyMember, []models.User, error) {
	members, users, err := s.familyRepo.GetFamilyMembers(familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get family members: %w", err)
	}
	return members, users, nil
}

// GetFamilyWithMembers loads a family and its member roster, for users
// who belong to it
func (s *FamilyService) GetFamilyWithMembers(familyID, userID int64) (*models.FamilyWithMembers, error) {
	if err := s.VerifyFamilyAccess(userID, familyID); err != nil {
		return nil, err
	}
	family, err := s.GetFamily(familyID)
	if err != nil {
		return nil, err
	}
	members, users, err := s.GetFamilyMembers(familyID)
	if err != nil {
		return nil, err
	}
	return &models.FamilyWithMembers{
		Family:  *family,
		Members: members,
		Users:   users,
	}, nil
}

// UpdateFamily renames a family
func (s *FamilyService) UpdateFamily(familyID, userID int64, name string) error {
	if err := s.VerifyFamilyAccess(userID, familyID); err != nil {
		return err
	}
	if name == "" {
		return errors.New("family name is required")
	}
	if err := s.familyRepo.UpdateFamily(familyID, name); err != nil {
		return fmt.Errorf("failed to update family: %w", err)
	}
	return nil
}

// DeleteFamily removes a family and everything attached to it
func (s *FamilyService) DeleteFamily(familyID, userID int64) error {
	if err := s.VerifyFamilyAccess(userID, familyID); err != nil {
		return err
	}
	if err := s.familyRepo.DeleteFamily(familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	return nil
}

// AddMemberByEmail adds another registered parent to a family
func (s *FamilyService) AddMemberByEmail(familyID, actorUserID int64, email string) error {
	if err := s.VerifyFamilyAccess(actorUserID, familyID); err != nil {
		return err
	}
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return errors.New("no account found for that email")
	}
	isMember, err := s.familyRepo.IsFamilyMember(user.ID, familyID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if isMember {
		return errors.New("user is already a member of this family")
	}
	if err := s.familyRepo.AddFamilyMember(familyID, user.ID, "parent"); err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// CreateLearner creates a new learner profile with generated credentials.
// The plaintext password is returned once so the parent can write it down;
// only the hash is stored. The profile and its zeroed progress row are
// created in one transaction.
func (s *FamilyService) CreateLearner(familyID, creatorUserID int64, name, avatarColor string) (*models.Learner, string, error) {
	if err := s.VerifyFamilyAccess(creatorUserID, familyID); err != nil {
		return nil, "", err
	}
	if name == "" {
		return nil, "", errors.New("learner name is required")
	}
	if err := s.screenName(name); err != nil {
		return nil, "", err
	}
	if avatarColor == "" {
		avatarColor = "#4A90E2"
	}

	username, err := s.uniqueUsername()
	if err != nil {
		return nil, "", err
	}

	password, err := credentials.GenerateLearnerPassword()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate password: %w", err)
	}
	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	var learner *models.Learner
	err = s.db.WithTx(func(tx *database.Tx) error {
		var err error
		learner, err = s.learnerRepo.CreateLearner(tx, familyID, name, username, passwordHash, avatarColor)
		if err != nil {
			return err
		}
		query := `
			INSERT INTO learner_progress (learner_id, total_xp, streak_days, stars, gems, coins)
			VALUES (?, 0, 0, 0, 0, 0)
		`
		_, err = tx.Exec(query, learner.ID)
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create learner: %w", err)
	}

	return learner, password, nil
}

// screenName rejects learner names containing words from the bad words
// filter. Learner names show up on shared family screens.
func (s *FamilyService) screenName(name string) error {
	flagged, err := s.db.ValidateWords(strings.Fields(strings.ToLower(name)))
	if err != nil {
		return fmt.Errorf("failed to screen learner name: %w", err)
	}
	if len(flagged) > 0 {
		return errors.New("learner name contains inappropriate words")
	}
	return nil
}

// uniqueUsername generates a learner username, retrying on collision or
// a word caught by the bad words filter
func (s *FamilyService) uniqueUsername() (string, error) {
	const maxRetries = 10
	for i := 0; i < maxRetries; i++ {
		username, err := credentials.GenerateLearnerUsername()
		if err != nil {
			return "", fmt.Errorf("failed to generate username: %w", err)
		}
		flagged, err := s.db.ValidateWords(strings.Split(username, "-"))
		if err != nil {
			return "", fmt.Errorf("failed to screen username: %w", err)
		}
		if len(flagged) > 0 {
			continue
		}
		existing, _, err := s.learnerRepo.GetLearnerByUsername(username)
		if err != nil {
			return "", fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if existing == nil {
			return username, nil
		}
	}
	return "", errors.New("could not find a unique username")
}

// GetFamilyLearners retrieves all learners in a family
func (s *FamilyService) GetFamilyLearners(familyID, userID int64) ([]models.Learner, error) {
	if err := s.VerifyFamilyAccess(userID, familyID); err != nil {
		return nil, err
	}

	learners, err := s.learnerRepo.GetFamilyLearners(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family learners: %w", err)
	}

	return learners, nil
}

// GetLearner retrieves a learner by ID
func (s *FamilyService) GetLearner(learnerID int64) (*models.Learner, error) {
	learner, err := s.learnerRepo.GetLearnerByID(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	if learner == nil {
		return nil, ErrLearnerNotFound
	}
	return learner, nil
}

// UpdateLearner updates a learner's name and avatar color
func (s *FamilyService) UpdateLearner(learnerID, userID int64, name, avatarColor string) error {
	learner, err := s.GetLearner(learnerID)
	if err != nil {
		return err
	}
	if err := s.VerifyFamilyAccess(userID, learner.FamilyID); err != nil {
		return err
	}
	if name == "" {
		return errors.New("learner name is required")
	}
	if err := s.screenName(name); err != nil {
		return err
	}

	if err := s.learnerRepo.UpdateLearner(learnerID, name, avatarColor); err != nil {
		return fmt.Errorf("failed to update learner: %w", err)
	}

	return nil
}

// RegenerateLearnerPassword generates a new random password for a learner
// and returns the plaintext once
func (s *FamilyService) RegenerateLearnerPassword(learnerID, userID int64) (string, error) {
	learner, err := s.GetLearner(learnerID)
	if err != nil {
		return "", err
	}
	if err := s.VerifyFamilyAccess(userID, learner.FamilyID); err != nil {
		return "", err
	}

	newPassword, err := credentials.GenerateLearnerPassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.learnerRepo.UpdateLearnerPassword(learnerID, passwordHash); err != nil {
		return "", fmt.Errorf("failed to update learner password: %w", err)
	}

	return newPassword, nil
}

// DeleteLearner deletes a learner profile
func (s *FamilyService) DeleteLearner(learnerID, userID int64) error {
	learner, err := s.GetLearner(learnerID)
	if err != nil {
		return err
	}
	if err := s.VerifyFamilyAccess(userID, learner.FamilyID); err != nil {
		return err
	}

	if err := s.learnerRepo.DeleteLearner(learnerID); err != nil {
		return fmt.Errorf("failed to delete learner: %w", err)
	}

	return nil
}

// LoginLearner verifies a learner's username and password and creates a
// session for them
func (s *FamilyService) LoginLearner(username, password string) (*models.Learner, string, time.Time, error) {
	learner, passwordHash, err := s.learnerRepo.GetLearnerByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to look up learner: %w", err)
	}
	if learner == nil || !security.CheckPassword(password, passwordHash) {
		return nil, "", time.Time{}, errors.New("invalid username or password")
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(24 * time.Hour)

	if err := s.learnerRepo.CreateLearnerSession(sessionID, learner.ID, expiresAt); err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to create learner session: %w", err)
	}

	return learner, sessionID, expiresAt, nil
}

// ValidateLearnerSession validates a learner session and returns the learner
func (s *FamilyService) ValidateLearnerSession(sessionID string) (*models.Learner, error) {
	learnerID, err := s.learnerRepo.GetLearnerSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid learner session: %w", err)
	}
	return s.GetLearner(learnerID)
}

// LogoutLearner removes a learner session
func (s *FamilyService) LogoutLearner(sessionID string) error {
	if err := s.learnerRepo.DeleteLearnerSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout learner: %w", err)
	}
	return nil
}

// CleanupExpiredLearnerSessions removes expired learner sessions
func (s *FamilyService) CleanupExpiredLearnerSessions() error {
	if err := s.learnerRepo.DeleteExpiredLearnerSessions(); err != nil {
		return fmt.Errorf("failed to cleanup learner sessions: %w", err)
	}
	return nil
}
