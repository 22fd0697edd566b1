package repository

import (
	"errors"
	"time"

	"github.com/Shilei0825/wag-well-record/internal/recovery/domain"
)

// ErrDuplicateCheckin is returned when a checkin for the same (plan, day)
// already exists; the unique index makes this safe under racing clients.
var ErrDuplicateCheckin = errors.New("a checkin for this day already exists")

// PlanRepository defines data access for recovery plans.
type PlanRepository interface {
	// Create persists a new plan; id and created_at are assigned here.
	Create(plan *domain.RecoveryPlan) error

	// FindByID finds a plan by id, (nil, nil) when absent.
	FindByID(id string) (*domain.RecoveryPlan, error)

	// FindByUser lists a user's plans newest-first, optionally filtered to
	// one pet and/or active status.
	FindByUser(userID string, petID *string, activeOnly bool) ([]*domain.RecoveryPlan, error)

	// Complete transitions an active plan to completed and stores the AI
	// summary fields. Returns false when the plan was not active (the
	// transition is one-way and happens at most once).
	Complete(id string, completedAt time.Time, aiSummary, trend, suggestion string) (bool, error)
}

// CheckinRepository defines data access for daily check-ins.
type CheckinRepository interface {
	// Create persists a checkin; returns ErrDuplicateCheckin when the
	// (plan_id, day_index) pair is already taken.
	Create(checkin *domain.RecoveryCheckin) error

	// FindByPlan lists a plan's checkins ordered by day_index ascending.
	FindByPlan(planID string) ([]*domain.RecoveryCheckin, error)
}
