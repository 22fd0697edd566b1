package main

import (
	"log"
	"os"

	api "github.com/Shilei0825/wag-well-record/cmd/api"
	authUsecase "github.com/Shilei0825/wag-well-record/internal/auth/usecase"
	petdomain "github.com/Shilei0825/wag-well-record/internal/pet/domain"
	petRepo "github.com/Shilei0825/wag-well-record/internal/pet/repository"
	recoverydomain "github.com/Shilei0825/wag-well-record/internal/recovery/domain"
	recoveryRepo "github.com/Shilei0825/wag-well-record/internal/recovery/repository"
	recoveryUsecase "github.com/Shilei0825/wag-well-record/internal/recovery/usecase"
	triagedomain "github.com/Shilei0825/wag-well-record/internal/triage/domain"
	triageRepo "github.com/Shilei0825/wag-well-record/internal/triage/repository"
	triageUsecase "github.com/Shilei0825/wag-well-record/internal/triage/usecase"
	"github.com/Shilei0825/wag-well-record/pkg/aivet"
	"github.com/Shilei0825/wag-well-record/pkg/config"
	"github.com/Shilei0825/wag-well-record/pkg/database"
	"github.com/Shilei0825/wag-well-record/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	logFormat := os.Getenv("LOG_FORMAT")
	zlog, err := logger.New(logLevel, logFormat)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		zlog.Fatalw("failed to connect to database", "error", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&petdomain.Pet{}, &triagedomain.Consultation{}, &recoverydomain.RecoveryPlan{}, &recoverydomain.RecoveryCheckin{}); err != nil {
		zlog.Fatalw("failed to migrate database", "error", err)
	}

	// Initialize repositories (dependency injection)
	pets := petRepo.NewGormPetRepository(db)
	consultations := triageRepo.NewGormConsultationRepository(db)
	plans := recoveryRepo.NewGormPlanRepository(db)
	checkins := recoveryRepo.NewGormCheckinRepository(db)

	// Initialize the AI gateway client shared by triage and recovery
	if cfg.AIGatewayKey == "" {
		zlog.Warnw("AI_GATEWAY_KEY not configured, AI calls will be rejected upstream")
	}
	gateway := aivet.NewClient(cfg.AIGatewayURL, cfg.AIGatewayKey, cfg.AIModel)

	// Initialize use cases
	authUc := authUsecase.NewAuthUsecase(cfg.JWTSecret)
	triageUc := triageUsecase.NewTriageUsecase(gateway, consultations, pets, triagedomain.NewUrgencyExtractor(), cfg.AITurnTimeout, zlog)
	recoveryUc := recoveryUsecase.NewRecoveryUsecase(plans, checkins, pets, gateway, cfg.DefaultRecoveryDays, zlog)

	// Initialize HTTP handler
	handler := api.NewHandler(authUc, triageUc, recoveryUc, pets, cfg)

	zlog.Infow("server starting", "port", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		zlog.Fatalw("failed to start server", "error", err)
	}
}
