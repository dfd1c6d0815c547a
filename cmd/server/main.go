package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"brainblast/internal/config"
	"brainblast/internal/database"
	"brainblast/internal/handlers"
	"brainblast/internal/progression"
	"brainblast/internal/repository"
	"brainblast/internal/security"
	"brainblast/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database initialized (%s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed bad words filter for learner username generation
	if err := db.SeedBadWords(); err != nil {
		log.Printf("Warning: Failed to seed bad words filter: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	learnerRepo := repository.NewLearnerRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	shopRepo := repository.NewShopRepository(db)

	// Initialize the progression engine with configured reward constants
	engineCfg := progression.DefaultConfig()
	engineCfg.StarsPerXP = cfg.StarsPerXP
	engineCfg.DailyBonusXP = cfg.DailyBonusXP
	engine := progression.NewEngine(engineCfg)

	authService := service.NewAuthService(userRepo, familyRepo, cfg.SessionDuration)
	familyService := service.NewFamilyService(db, familyRepo, learnerRepo, userRepo)
	progressionService := service.NewProgressionService(db, engine, progressRepo, challengeRepo, shopRepo)
	contentService := service.NewContentService(shopRepo, challengeRepo)
	backupService := service.NewBackupService(db)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Printf("Warning: Email service disabled: %v", err)
	}
	digestService := service.NewDigestService(userRepo, familyRepo, learnerRepo, progressRepo, emailService)

	// Seed the shop catalog and challenge templates
	if err := contentService.SeedCatalogs(); err != nil {
		log.Printf("Warning: Failed to seed catalogs: %v", err)
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	loginLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, familyService, csrf)
	authHandler := handlers.NewAuthHandler(authService, emailService, oauthProviders, cfg.OAuthRedirectBaseURL)
	familyHandler := handlers.NewFamilyHandler(familyService, progressionService)
	learnerHandler := handlers.NewLearnerHandler(familyService, progressionService)
	activityHandler := handlers.NewActivityHandler(progressionService)
	shopHandler := handlers.NewShopHandler(shopRepo, progressRepo, progressionService)
	challengeHandler := handlers.NewChallengeHandler(progressionService)
	adminHandler := handlers.NewAdminHandler(backupService, digestService, userRepo)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /auth/register", handlers.RateLimit(loginLimiter, authHandler.Register))
	mux.HandleFunc("POST /auth/login", handlers.RateLimit(loginLimiter, authHandler.Login))
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /auth/password-reset/request", handlers.RateLimit(loginLimiter, authHandler.RequestPasswordReset))
	mux.HandleFunc("GET /auth/password-reset/validate", authHandler.ValidateResetToken)
	mux.HandleFunc("POST /auth/password-reset", authHandler.ResetPassword)
	mux.HandleFunc("GET /auth/providers", authHandler.ListOAuthProviders)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Protected parent routes
	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /auth/csrf", middleware.RequireAuth(middleware.CSRFToken))
	mux.HandleFunc("GET /families", middleware.RequireAuth(familyHandler.ListFamilies))
	mux.HandleFunc("POST /families", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.CreateFamily)))
	mux.HandleFunc("GET /families/{familyID}", middleware.RequireAuth(familyHandler.GetFamily))
	mux.HandleFunc("PUT /families/{familyID}", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.UpdateFamily)))
	mux.HandleFunc("DELETE /families/{familyID}", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.DeleteFamily)))
	mux.HandleFunc("POST /families/{familyID}/members", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.AddMember)))
	mux.HandleFunc("GET /families/{familyID}/learners", middleware.RequireAuth(familyHandler.ListLearners))
	mux.HandleFunc("POST /families/{familyID}/learners", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.CreateLearner)))
	mux.HandleFunc("PUT /learners/{learnerID}", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.UpdateLearner)))
	mux.HandleFunc("POST /learners/{learnerID}/regenerate-password", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.RegenerateLearnerPassword)))
	mux.HandleFunc("DELETE /learners/{learnerID}", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.DeleteLearner)))

	// Learner routes
	mux.HandleFunc("POST /learner/login", handlers.RateLimit(loginLimiter, learnerHandler.Login))
	mux.HandleFunc("POST /learner/logout", learnerHandler.Logout)
	mux.HandleFunc("GET /learner/me", middleware.RequireLearnerAuth(learnerHandler.Me))
	mux.HandleFunc("GET /learner/dashboard", middleware.RequireLearnerAuth(learnerHandler.Dashboard))
	mux.HandleFunc("POST /learner/answers", middleware.RequireLearnerAuth(activityHandler.SubmitAnswer))
	mux.HandleFunc("POST /learner/activities", middleware.RequireLearnerAuth(activityHandler.CompleteActivity))
	mux.HandleFunc("GET /learner/shop", middleware.RequireLearnerAuth(shopHandler.ListItems))
	mux.HandleFunc("POST /learner/shop/purchase", middleware.RequireLearnerAuth(shopHandler.Purchase))
	mux.HandleFunc("GET /learner/challenges/today", middleware.RequireLearnerAuth(challengeHandler.Today))
	mux.HandleFunc("POST /learner/challenges/claim-bonus", middleware.RequireLearnerAuth(challengeHandler.ClaimBonus))

	// Admin routes
	mux.HandleFunc("GET /admin/backup", middleware.RequireAdmin(adminHandler.ExportBackup))
	mux.HandleFunc("POST /admin/backup", middleware.RequireAdmin(adminHandler.ImportBackup))
	mux.HandleFunc("GET /admin/users", middleware.RequireAdmin(adminHandler.ListUsers))
	mux.HandleFunc("PUT /admin/users/{userID}", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.UpdateUser)))
	mux.HandleFunc("DELETE /admin/users/{userID}", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteUser)))
	mux.HandleFunc("POST /admin/digests/send", middleware.RequireAdmin(adminHandler.SendDigests))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background maintenance
	go cleanupExpiredSessions(authService, familyService)
	go sendWeeklyDigests(digestService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

// cleanupExpiredSessions periodically removes expired sessions and
// password reset tokens
func cleanupExpiredSessions(authService *service.AuthService, familyService *service.FamilyService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
		if err := familyService.CleanupExpiredLearnerSessions(); err != nil {
			log.Printf("Error cleaning up expired learner sessions: %v", err)
		}
		if err := authService.CleanupExpiredPasswordResetTokens(); err != nil {
			log.Printf("Error cleaning up expired reset tokens: %v", err)
		}
	}
}

// sendWeeklyDigests emails parents a progress summary every Monday morning
func sendWeeklyDigests(digestService *service.DigestService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	var lastSent time.Time
	for range ticker.C {
		now := time.Now().UTC()
		if now.Weekday() != time.Monday || now.Hour() != 8 {
			continue
		}
		if !lastSent.IsZero() && now.Sub(lastSent) < 24*time.Hour {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		if err := digestService.SendWeeklyDigests(ctx, now); err != nil {
			log.Printf("Error sending weekly digests: %v", err)
		}
		cancel()
		lastSent = now
	}
}
