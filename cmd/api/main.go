package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/marcusw/leadclaim/internal/auth"
	"github.com/marcusw/leadclaim/internal/config"
	"github.com/marcusw/leadclaim/internal/database"
	"github.com/marcusw/leadclaim/internal/handlers"
	middlewareCustom "github.com/marcusw/leadclaim/internal/middleware"
	"github.com/marcusw/leadclaim/internal/repositories"
	"github.com/marcusw/leadclaim/internal/routes"
	"github.com/marcusw/leadclaim/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Apply schema migrations
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	enquiryRepo := repositories.NewEnquiryRepository(db)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenManager, logger)
	enquiryService := services.NewEnquiryService(enquiryRepo, userRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	enquiryHandler := handlers.NewEnquiryHandler(enquiryService)
	healthHandler := handlers.NewHealthHandler(db)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middlewareCustom.Recovery(logger))
	router.Use(middlewareCustom.RateLimitByIP(middlewareCustom.RateLimitConfig{
		Requests: cfg.RateLimit.GlobalRequests,
		Window:   cfg.RateLimit.GlobalWindow,
		Message:  "Too many requests from this IP, please try again later",
	}))
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	intakeLimit := middlewareCustom.RateLimitConfig{
		Requests: cfg.RateLimit.IntakeRequests,
		Window:   cfg.RateLimit.IntakeWindow,
		Message:  "Too many enquiry submissions. Please try again after a minute.",
	}
	routes.RegisterRoutes(router, authHandler, enquiryHandler, healthHandler, tokenManager, userRepo, intakeLimit)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
