package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authUsecase "github.com/Shilei0825/wag-well-record/internal/auth/usecase"
	petDelivery "github.com/Shilei0825/wag-well-record/internal/pet/delivery"
	petRepo "github.com/Shilei0825/wag-well-record/internal/pet/repository"
	recoveryDelivery "github.com/Shilei0825/wag-well-record/internal/recovery/delivery"
	recoveryUsecase "github.com/Shilei0825/wag-well-record/internal/recovery/usecase"
	triageDelivery "github.com/Shilei0825/wag-well-record/internal/triage/delivery"
	triageUsecase "github.com/Shilei0825/wag-well-record/internal/triage/usecase"
	"github.com/Shilei0825/wag-well-record/pkg/config"
)

// Handler owns the HTTP engine and route wiring.
type Handler struct {
	engine *gin.Engine
}

func NewHandler(authUc authUsecase.AuthUsecase, triageUc triageUsecase.TriageUsecase, recoveryUc recoveryUsecase.RecoveryUsecase, pets petRepo.PetRepository, cfg *config.Config) *Handler {
	engine := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsConfig))

	triageHandler := triageDelivery.NewTriageHandler(triageUc)
	recoveryHandler := recoveryDelivery.NewRecoveryHandler(recoveryUc)
	petHandler := petDelivery.NewPetHandler(pets)

	SetupRoutes(engine, authUc, triageHandler, recoveryHandler, petHandler)

	return &Handler{engine: engine}
}

// Start runs the HTTP server on the given address.
func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}
