package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"familytracker/internal/config"
	"familytracker/internal/database"
	"familytracker/internal/handlers"
	"familytracker/internal/repository"
	"familytracker/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// An empty secret would verify any HS256 token signed with an empty key.
	if cfg.AuthJWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET must be set")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	invitationService := service.NewInvitationService(invitationRepo, familyRepo, emailService, cfg.AppBaseURL, cfg.InvitationTTL)
	familyService := service.NewFamilyService(familyRepo, categoryRepo, invitationService)
	expenseService := service.NewExpenseService(expenseRepo, familyRepo, userRepo, categoryRepo)

	// Initialize handlers
	middleware := handlers.NewMiddleware(userRepo, cfg.AuthJWTSecret)
	familyHandler := handlers.NewFamilyHandler(familyService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, cfg.AppBaseURL)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /accept-invitation", invitationHandler.RedirectInvitation)
	mux.HandleFunc("GET /api/invitations/{token}", invitationHandler.GetInvitation)

	// Family routes
	mux.HandleFunc("POST /api/family", middleware.RequireAuth(familyHandler.CreateFamily))
	mux.HandleFunc("GET /api/family", middleware.RequireAuth(familyHandler.GetFamily))
	mux.HandleFunc("GET /api/family/members", middleware.RequireAuth(familyHandler.ListMembers))
	mux.HandleFunc("POST /api/family/invite", middleware.RequireAuth(familyHandler.InviteMember))
	mux.HandleFunc("POST /api/family/members/{id}/remove", middleware.RequireAuth(familyHandler.RemoveMember))

	// Invitation routes
	mux.HandleFunc("POST /api/invitations/accept", middleware.RequireAuth(invitationHandler.AcceptInvitation))

	// Expense routes
	mux.HandleFunc("GET /api/expenses", middleware.RequireAuth(expenseHandler.ListExpenses))
	mux.HandleFunc("POST /api/expenses", middleware.RequireAuth(expenseHandler.CreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", middleware.RequireAuth(expenseHandler.UpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", middleware.RequireAuth(expenseHandler.DeleteExpense))
	mux.HandleFunc("GET /api/expenses/categories", middleware.RequireAuth(expenseHandler.UsedCategories))
	mux.HandleFunc("GET /api/categories", middleware.RequireAuth(expenseHandler.SuggestedCategories))

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
