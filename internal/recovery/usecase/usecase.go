package usecase

import (
	"context"
	"errors"

	"github.com/Shilei0825/wag-well-record/internal/recovery/domain"
	"github.com/Shilei0825/wag-well-record/pkg/aivet"
)

var (
	ErrPlanNotFound     = errors.New("recovery plan not found")
	ErrPlanCompleted    = errors.New("recovery plan is already completed")
	ErrInvalidCheckin   = errors.New("appetite, energy and symptom status are required")
	ErrInvalidPlanInput = errors.New("pet, source type and main symptom are required")
)

// SummaryGateway is the external AI collaborator that turns the full checkin
// list into a structured trend/summary/suggestion.
type SummaryGateway interface {
	SummarizeRecovery(ctx context.Context, petName, mainSymptom string, checkins []aivet.CheckinObservation) (*aivet.RecoverySummary, error)
}

// CreatePlanInput starts a new observation plan from a consultation or visit.
type CreatePlanInput struct {
	PetID         string               `json:"pet_id"`
	SourceType    domain.SourceType    `json:"source_type"`
	SourceID      string               `json:"source_id,omitempty"`
	MainSymptom   string               `json:"main_symptom"`
	SeverityLevel domain.SeverityLevel `json:"severity_level,omitempty"`
	DurationDays  int                  `json:"duration_days,omitempty"`
}

// CheckinInput is one day's observation. The day index is computed
// server-side from the plan's start date, never accepted from the client.
type CheckinInput struct {
	Appetite      domain.Appetite      `json:"appetite"`
	Energy        domain.Energy        `json:"energy"`
	SymptomStatus domain.SymptomStatus `json:"symptom_status"`
	Notes         string               `json:"notes,omitempty"`
}

// CheckinResult reports where the client should navigate next: the plan
// detail while the plan stays active, the summary view once it completes.
type CheckinResult struct {
	Checkin   *domain.RecoveryCheckin `json:"checkin"`
	Completed bool                    `json:"completed"`
	Plan      *domain.RecoveryPlan    `json:"plan"`
}

// PlanDetail is a plan plus its derived daily state.
type PlanDetail struct {
	Plan              *domain.RecoveryPlan      `json:"plan"`
	Checkins          []*domain.RecoveryCheckin `json:"checkins"`
	Timeline          []domain.TimelineDay      `json:"timeline"`
	CurrentDayIndex   int                       `json:"current_day_index"`
	NeedsCheckinToday bool                      `json:"needs_checkin_today"`
}

// RecoveryUsecase drives the plan lifecycle: creation, daily check-ins,
// completion and the one-shot AI summary.
type RecoveryUsecase interface {
	CreatePlan(userID string, input CreatePlanInput) (*domain.RecoveryPlan, error)
	ListPlans(userID string, petID *string, activeOnly bool) ([]*domain.RecoveryPlan, error)
	GetPlan(userID, planID string) (*PlanDetail, error)
	RecordCheckin(ctx context.Context, userID, planID string, input CheckinInput) (*CheckinResult, error)
}
