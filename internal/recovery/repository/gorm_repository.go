package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Shilei0825/wag-well-record/internal/recovery/domain"
)

// gormPlanRepository implements PlanRepository using GORM
type gormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GORM-based PlanRepository
func NewGormPlanRepository(db *gorm.DB) PlanRepository {
	return &gormPlanRepository{db: db}
}

func (r *gormPlanRepository) Create(plan *domain.RecoveryPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	if plan.Status == "" {
		plan.Status = domain.PlanActive
	}
	plan.CreatedAt = time.Now()
	return r.db.Create(plan).Error
}

func (r *gormPlanRepository) FindByID(id string) (*domain.RecoveryPlan, error) {
	var plan domain.RecoveryPlan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *gormPlanRepository) FindByUser(userID string, petID *string, activeOnly bool) ([]*domain.RecoveryPlan, error) {
	var plans []*domain.RecoveryPlan

	query := r.db.Where("user_id = ?", userID)
	if petID != nil && *petID != "" {
		query = query.Where("pet_id = ?", *petID)
	}
	if activeOnly {
		query = query.Where("status = ?", domain.PlanActive)
	}

	err := query.Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (r *gormPlanRepository) Complete(id string, completedAt time.Time, aiSummary, trend, suggestion string) (bool, error) {
	// Guarded update keeps the transition one-way even under racing callers.
	result := r.db.Model(&domain.RecoveryPlan{}).
		Where("id = ? AND status = ?", id, domain.PlanActive).
		Updates(map[string]interface{}{
			"status":         domain.PlanCompleted,
			"completed_at":   completedAt,
			"ai_summary":     aiSummary,
			"recovery_trend": trend,
			"suggestion":     suggestion,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// gormCheckinRepository implements CheckinRepository using GORM
type gormCheckinRepository struct {
	db *gorm.DB
}

// NewGormCheckinRepository creates a new GORM-based CheckinRepository
func NewGormCheckinRepository(db *gorm.DB) CheckinRepository {
	return &gormCheckinRepository{db: db}
}

func (r *gormCheckinRepository) Create(checkin *domain.RecoveryCheckin) error {
	if checkin.ID == "" {
		checkin.ID = uuid.New().String()
	}
	checkin.CreatedAt = time.Now()
	err := r.db.Create(checkin).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCheckin
	}
	return err
}

func (r *gormCheckinRepository) FindByPlan(planID string) ([]*domain.RecoveryCheckin, error) {
	var checkins []*domain.RecoveryCheckin
	err := r.db.Where("plan_id = ?", planID).Order("day_index ASC").Find(&checkins).Error
	return checkins, err
}
