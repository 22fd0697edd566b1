package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authDelivery "github.com/Shilei0825/wag-well-record/internal/auth/delivery"
	authUsecase "github.com/Shilei0825/wag-well-record/internal/auth/usecase"
	petDelivery "github.com/Shilei0825/wag-well-record/internal/pet/delivery"
	recoveryDelivery "github.com/Shilei0825/wag-well-record/internal/recovery/delivery"
	triageDelivery "github.com/Shilei0825/wag-well-record/internal/triage/delivery"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, triageHandler *triageDelivery.TriageHandler, recoveryHandler *recoveryDelivery.RecoveryHandler, petHandler *petDelivery.PetHandler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Treatment code vocabulary (public, read-only)
		api.GET("/treatment-codes", triageHandler.ListTreatmentCodes)

		// Pet context (protected)
		pets := api.Group("/pets")
		pets.Use(authDelivery.AuthMiddleware(authUc))
		{
			pets.GET("", petHandler.ListPets)
		}

		// Triage session routes (protected)
		triage := api.Group("/triage")
		triage.Use(authDelivery.AuthMiddleware(authUc))
		{
			triage.POST("/sessions", triageHandler.StartSession)
			triage.GET("/sessions/:id", triageHandler.GetSession)
			triage.POST("/sessions/:id/intake", triageHandler.SubmitIntake)
			triage.POST("/sessions/:id/skip", triageHandler.SkipIntake)
			triage.POST("/sessions/:id/messages", triageHandler.SendMessage)
			triage.POST("/sessions/:id/restart", triageHandler.Restart)
		}

		// Consultation history (protected)
		consultations := api.Group("/consultations")
		consultations.Use(authDelivery.AuthMiddleware(authUc))
		{
			consultations.GET("", triageHandler.ListConsultations)
			consultations.DELETE("/:id", triageHandler.DeleteConsultation)
		}

		// Recovery plan routes (protected)
		recovery := api.Group("/recovery")
		recovery.Use(authDelivery.AuthMiddleware(authUc))
		{
			recovery.POST("/plans", recoveryHandler.CreatePlan)
			recovery.GET("/plans", recoveryHandler.ListPlans)
			recovery.GET("/plans/:id", recoveryHandler.GetPlan)
			recovery.POST("/plans/:id/checkins", recoveryHandler.RecordCheckin)
		}
	}
}
