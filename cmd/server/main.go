package main

import (
	"context"
	"log"

	"github.com/devarko/thunderstorm/backend/internal/router"
	"github.com/devarko/thunderstorm/backend/internal/token"
	"github.com/devarko/thunderstorm/backend/pkg/config"
	"github.com/devarko/thunderstorm/backend/pkg/logger"
	"github.com/devarko/thunderstorm/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize storage connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure storage connections are closed when main exits

	// Credential service: the signing secret is injected here, nowhere else.
	tokens := token.NewService(cfg.JWTSecret)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	reconciler, err := router.SetupRoutes(e, router.Deps{
		MongoDB:           db.MongoDB,
		AuditDB:           db.Audit,
		Redis:             db.Redis,
		Tokens:            tokens,
		CacheTTL:          cfg.CacheTTL,
		ReconcileInterval: cfg.ReconcileInterval,
		ReconcileGrace:    cfg.ReconcileGrace,
	})
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Background repair of incomplete two-phase graph writes
	stopReconciler := reconciler.Start()
	defer stopReconciler(context.Background())

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
