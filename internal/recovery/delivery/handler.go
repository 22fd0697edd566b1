package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shilei0825/wag-well-record/internal/recovery/repository"
	"github.com/Shilei0825/wag-well-record/internal/recovery/usecase"
)

// RecoveryHandler handles recovery plan and check-in HTTP requests
type RecoveryHandler struct {
	recoveryUsecase usecase.RecoveryUsecase
}

// NewRecoveryHandler creates a new RecoveryHandler
func NewRecoveryHandler(recoveryUsecase usecase.RecoveryUsecase) *RecoveryHandler {
	return &RecoveryHandler{recoveryUsecase: recoveryUsecase}
}

// CreatePlan starts a new recovery observation plan
// POST /api/recovery/plans
func (h *RecoveryHandler) CreatePlan(c *gin.Context) {
	userID := c.GetString("userID")

	var input usecase.CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.recoveryUsecase.CreatePlan(userID, input)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidPlanInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// ListPlans returns the user's plans, optionally one pet's, optionally active only
// GET /api/recovery/plans?pet_id=&active=true
func (h *RecoveryHandler) ListPlans(c *gin.Context) {
	userID := c.GetString("userID")

	var petID *string
	if p := c.Query("pet_id"); p != "" {
		petID = &p
	}
	activeOnly := c.Query("active") == "true"

	plans, err := h.recoveryUsecase.ListPlans(userID, petID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans, "total": len(plans)})
}

// GetPlan returns a plan with its checkins and day timeline
// GET /api/recovery/plans/:id
func (h *RecoveryHandler) GetPlan(c *gin.Context) {
	userID := c.GetString("userID")

	detail, err := h.recoveryUsecase.GetPlan(userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recovery plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// RecordCheckin records today's observation; the response tells the client
// whether to continue to the plan detail or the completion summary
// POST /api/recovery/plans/:id/checkins
func (h *RecoveryHandler) RecordCheckin(c *gin.Context) {
	userID := c.GetString("userID")

	var input usecase.CheckinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.recoveryUsecase.RecordCheckin(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recovery plan not found"})
		case errors.Is(err, repository.ErrDuplicateCheckin):
			c.JSON(http.StatusConflict, gin.H{"error": "今天已经记录过了 / Already checked in today"})
		case errors.Is(err, usecase.ErrPlanCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "观察计划已完成 / This plan is already completed"})
		case errors.Is(err, usecase.ErrInvalidCheckin):
			c.JSON(http.StatusBadRequest, gin.H{"error": "请完成所有问题 / Please answer all questions"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}
