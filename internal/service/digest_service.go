package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"brainblast/internal/progression"
	"brainblast/internal/repository"
)

// DigestService assembles and sends the weekly progress digest email to
// every parent account
type DigestService struct {
	userRepo     *repository.UserRepository
	familyRepo   *repository.FamilyRepository
	learnerRepo  *repository.LearnerRepository
	progressRepo *repository.ProgressRepository
	email        *EmailService
}

// NewDigestService creates a new digest service
func NewDigestService(
	userRepo *repository.UserRepository,
	familyRepo *repository.FamilyRepository,
	learnerRepo *repository.LearnerRepository,
	progressRepo *repository.ProgressRepository,
	email *EmailService,
) *DigestService {
	return &DigestService{
		userRepo:     userRepo,
		familyRepo:   familyRepo,
		learnerRepo:  learnerRepo,
		progressRepo: progressRepo,
		email:        email,
	}
}

// SendWeeklyDigests emails every parent a summary of their learners' week.
// Failures for one recipient are logged and do not stop the run.
func (s *DigestService) SendWeeklyDigests(ctx context.Context, now time.Time) error {
	if s.email == nil || !s.email.IsEnabled() {
		log.Println("Skipping weekly digests: email service disabled")
		return nil
	}

	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	weekAgo := now.AddDate(0, 0, -7)
	sent := 0
	for _, user := range users {
		entries, err := s.entriesForUser(user.ID, weekAgo)
		if err != nil {
			log.Printf("Weekly digest: skipping %s: %v", user.Email, err)
			continue
		}
		if len(entries) == 0 {
			continue
		}
		if err := s.email.SendWeeklyDigestEmail(ctx, user.Email, user.Name, entries); err != nil {
			log.Printf("Weekly digest: failed to send to %s: %v", user.Email, err)
			continue
		}
		sent++
	}

	log.Printf("Weekly digests sent to %d of %d users", sent, len(users))
	return nil
}

// entriesForUser builds one digest line per learner across all the user's
// families
func (s *DigestService) entriesForUser(userID int64, since time.Time) ([]DigestEntry, error) {
	families, err := s.familyRepo.GetUserFamilies(userID)
	if err != nil {
		return nil, err
	}

	var entries []DigestEntry
	for _, family := range families {
		learners, err := s.learnerRepo.GetFamilyLearners(family.ID)
		if err != nil {
			return nil, err
		}
		for _, learner := range learners {
			events, err := s.progressRepo.GetXPEventsSince(learner.ID, since)
			if err != nil {
				return nil, err
			}
			var weeklyXP int64
			for _, e := range events {
				weeklyXP += e.Amount
			}

			row, err := s.progressRepo.GetProgress(s.progressRepo.DB(), learner.ID)
			if err != nil {
				return nil, err
			}
			level, title := progression.LevelForXP(row.TotalXP)

			entries = append(entries, DigestEntry{
				Name:       learner.Name,
				Level:      level,
				LevelTitle: title,
				WeeklyXP:   weeklyXP,
				StreakDays: row.StreakDays,
			})
		}
	}
	return entries, nil
}
