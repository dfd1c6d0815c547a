package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"brainblast/internal/models"
	"brainblast/internal/repository"
	"brainblast/internal/security"
	"brainblast/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

const passwordResetTokenTTL = time.Hour

// AuthService owns account registration, login sessions, OAuth sign-in
// and password resets.
type AuthService struct {
	userRepo        *repository.UserRepository
	familyRepo      *repository.FamilyRepository
	sessionDuration time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, familyRepo *repository.FamilyRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		familyRepo:      familyRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates an account and its initial family. Learners always
// hang off a family, so one is created even when no name is given.
func (s *AuthService) Register(email, password, name, familyName string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if familyName == "" {
		familyName = name + "'s Family"
	}
	if _, err := s.familyRepo.CreateFamily(familyName, user.ID); err != nil {
		// The account still works; a family can be created later.
		log.Printf("Warning: failed to create family for user %d: %v", user.ID, err)
	}

	return user, nil
}

// Login checks credentials and opens a session.
func (s *AuthService) Login(email, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

func (s *AuthService) openSession(userID int64) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	session, err := s.userRepo.CreateSession(sessionID, userID, time.Now().Add(s.sessionDuration))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ValidateSession resolves a session cookie to its user. Expired
// sessions are deleted on sight.
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// Logout deletes the session.
func (s *AuthService) Logout(sessionID string) error {
	if err := s.userRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions prunes sessions past their expiry.
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}

// OAuthLogin signs a user in through a social provider, creating or
// linking the account as needed, and opens a session.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Session, *models.User, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lookup oauth user: %w", err)
	}
	if user == nil {
		user, err = s.linkOrCreateOAuthUser(provider, subject, email, name)
		if err != nil {
			return nil, nil, err
		}
	}

	session, err := s.openSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// linkOrCreateOAuthUser attaches the provider identity to a matching
// existing account or registers a fresh one.
func (s *AuthService) linkOrCreateOAuthUser(provider, subject, email, name string) (*models.User, error) {
	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if existing != nil {
		if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
			return nil, ErrEmailTaken
		}
		if err := s.userRepo.LinkOAuthProvider(existing.ID, provider, subject); err != nil {
			return nil, fmt.Errorf("failed to link oauth provider: %w", err)
		}
		return existing, nil
	}

	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	// The account never logs in by password; store an unguessable hash.
	placeholderHash, err := security.HashPassword(security.GenerateSessionID())
	if err != nil {
		return nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
	}
	user, err := s.userRepo.CreateUser(email, placeholderHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}
	if err := s.userRepo.LinkOAuthProvider(user.ID, provider, subject); err != nil {
		return nil, fmt.Errorf("failed to link oauth provider: %w", err)
	}

	if _, err := s.familyRepo.CreateFamily(name+"'s Family", user.ID); err != nil {
		log.Printf("Warning: failed to create family for user %d: %v", user.ID, err)
	}
	return user, nil
}

// RequestPasswordReset issues a reset token and mails it. The result is
// the same whether or not the email has an account, so the endpoint
// cannot be used to probe for registered addresses.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailService *EmailService, email string) error {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	// OAuth-only accounts have no password to reset.
	if user.OAuthProvider != "" && user.PasswordHash == "" {
		return nil
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	// A new request supersedes any outstanding token.
	_ = s.userRepo.DeleteUserPasswordResetTokens(user.ID)

	expiresAt := time.Now().Add(passwordResetTokenTTL)
	if err := s.userRepo.CreatePasswordResetToken(token, user.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	if emailService != nil && emailService.IsEnabled() {
		if err := emailService.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}
	return nil
}

// ValidatePasswordResetToken reports whether the token is live: known,
// unused and unexpired.
func (s *AuthService) ValidatePasswordResetToken(token string) (bool, error) {
	resetToken, err := s.userRepo.GetPasswordResetToken(token)
	if err != nil {
		return false, fmt.Errorf("failed to get reset token: %w", err)
	}
	if resetToken == nil || resetToken.Used || resetToken.IsExpired() {
		return false, nil
	}
	return true, nil
}

// ResetPassword sets a new password for the token's user and burns the
// token.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	resetToken, err := s.userRepo.GetPasswordResetToken(token)
	if err != nil {
		return fmt.Errorf("failed to get reset token: %w", err)
	}
	if resetToken == nil {
		return errors.New("invalid or expired reset token")
	}
	if resetToken.Used {
		return errors.New("this reset link has already been used")
	}
	if resetToken.IsExpired() {
		return errors.New("this reset link has expired")
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdateUserPassword(resetToken.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.userRepo.MarkPasswordResetTokenAsUsed(token); err != nil {
		return fmt.Errorf("failed to mark token as used: %w", err)
	}
	return nil
}

// CleanupExpiredPasswordResetTokens prunes reset tokens past expiry.
func (s *AuthService) CleanupExpiredPasswordResetTokens() error {
	if err := s.userRepo.DeleteExpiredPasswordResetTokens(); err != nil {
		return fmt.Errorf("failed to cleanup reset tokens: %w", err)
	}
	return nil
}

func generateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
