package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	petrepo "github.com/Shilei0825/wag-well-record/internal/pet/repository"
	"github.com/Shilei0825/wag-well-record/internal/recovery/domain"
	"github.com/Shilei0825/wag-well-record/internal/recovery/repository"
	"github.com/Shilei0825/wag-well-record/pkg/aivet"
)

const summaryTimeout = 30 * time.Second

type recoveryUsecase struct {
	planRepo    repository.PlanRepository
	checkinRepo repository.CheckinRepository
	petRepo     petrepo.PetRepository
	summary     SummaryGateway
	defaultDays int
	log         *zap.SugaredLogger
	completing  singleflight.Group
	now         func() time.Time
}

// NewRecoveryUsecase creates the plan lifecycle controller.
func NewRecoveryUsecase(planRepo repository.PlanRepository, checkinRepo repository.CheckinRepository, petRepo petrepo.PetRepository, summary SummaryGateway, defaultDays int, log *zap.SugaredLogger) RecoveryUsecase {
	if defaultDays <= 0 {
		defaultDays = 3
	}
	return &recoveryUsecase{
		planRepo:    planRepo,
		checkinRepo: checkinRepo,
		petRepo:     petRepo,
		summary:     summary,
		defaultDays: defaultDays,
		log:         log,
		now:         time.Now,
	}
}

func (u *recoveryUsecase) CreatePlan(userID string, input CreatePlanInput) (*domain.RecoveryPlan, error) {
	if input.PetID == "" || input.MainSymptom == "" {
		return nil, ErrInvalidPlanInput
	}
	switch input.SourceType {
	case domain.SourceAIConsult, domain.SourceVetVisit:
	default:
		return nil, ErrInvalidPlanInput
	}
	pet, err := u.petRepo.FindByID(input.PetID)
	if err != nil {
		return nil, err
	}
	if pet == nil || pet.UserID != userID {
		return nil, ErrInvalidPlanInput
	}

	severity := input.SeverityLevel
	if severity == "" {
		severity = domain.SeverityMild
	}
	if severity != domain.SeverityMild && severity != domain.SeverityModerate {
		return nil, ErrInvalidPlanInput
	}

	days := input.DurationDays
	if days == 0 {
		days = u.defaultDays
	}
	if days < 1 {
		return nil, ErrInvalidPlanInput
	}

	plan := &domain.RecoveryPlan{
		UserID:        userID,
		PetID:         input.PetID,
		SourceType:    input.SourceType,
		SourceID:      input.SourceID,
		MainSymptom:   input.MainSymptom,
		SeverityLevel: severity,
		DurationDays:  days,
		Status:        domain.PlanActive,
	}
	if err := u.planRepo.Create(plan); err != nil {
		return nil, err
	}
	u.log.Infow("recovery plan created", "plan_id", plan.ID, "pet_id", plan.PetID, "duration_days", plan.DurationDays)
	return plan, nil
}

func (u *recoveryUsecase) ListPlans(userID string, petID *string, activeOnly bool) ([]*domain.RecoveryPlan, error) {
	return u.planRepo.FindByUser(userID, petID, activeOnly)
}

func (u *recoveryUsecase) GetPlan(userID, planID string) (*PlanDetail, error) {
	plan, err := u.ownedPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	checkins, err := u.checkinRepo.FindByPlan(plan.ID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	return &PlanDetail{
		Plan:              plan,
		Checkins:          checkins,
		Timeline:          plan.Timeline(checkins, now),
		CurrentDayIndex:   plan.CurrentDayIndex(now),
		NeedsCheckinToday: plan.NeedsCheckinToday(now, len(checkins)),
	}, nil
}

func (u *recoveryUsecase) RecordCheckin(ctx context.Context, userID, planID string, input CheckinInput) (*CheckinResult, error) {
	if err := validateCheckin(input); err != nil {
		return nil, err
	}
	plan, err := u.ownedPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.PlanActive {
		return nil, ErrPlanCompleted
	}

	now := u.now()
	dayIndex := plan.CurrentDayIndex(now)

	existing, err := u.checkinRepo.FindByPlan(plan.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.DayIndex == dayIndex {
			return nil, repository.ErrDuplicateCheckin
		}
	}

	checkin := &domain.RecoveryCheckin{
		PlanID:        plan.ID,
		DayIndex:      dayIndex,
		Appetite:      input.Appetite,
		Energy:        input.Energy,
		SymptomStatus: input.SymptomStatus,
		Notes:         input.Notes,
	}
	if err := u.checkinRepo.Create(checkin); err != nil {
		return nil, err
	}

	result := &CheckinResult{Checkin: checkin, Plan: plan}
	if dayIndex >= plan.DurationDays {
		u.completePlan(ctx, plan, append(existing, checkin))
		if updated, err := u.planRepo.FindByID(plan.ID); err == nil && updated != nil {
			result.Plan = updated
		}
		result.Completed = true
	}
	return result, nil
}

// completePlan runs the one-shot summary and stamps the terminal state. The
// singleflight group keeps the summary gateway from being invoked more than
// once per plan, and the guarded update keeps the transition one-way.
func (u *recoveryUsecase) completePlan(ctx context.Context, plan *domain.RecoveryPlan, checkins []*domain.RecoveryCheckin) {
	u.completing.Do(plan.ID, func() (interface{}, error) {
		observations := make([]aivet.CheckinObservation, 0, len(checkins))
		for _, c := range checkins {
			observations = append(observations, aivet.CheckinObservation{
				DayIndex:      c.DayIndex,
				Appetite:      string(c.Appetite),
				Energy:        string(c.Energy),
				SymptomStatus: string(c.SymptomStatus),
			})
		}

		petName := "宠物"
		if pet, err := u.petRepo.FindByID(plan.PetID); err == nil && pet != nil {
			petName = pet.Name
		}

		summaryCtx, cancel := context.WithTimeout(ctx, summaryTimeout)
		defer cancel()

		summary, err := u.summary.SummarizeRecovery(summaryCtx, petName, plan.MainSymptom, observations)
		if err != nil {
			// The plan still completes; the fixed neutral summary stands in
			// for the unavailable structured response.
			u.log.Warnw("recovery summary failed, using fallback", "plan_id", plan.ID, "error", err)
			fallback := aivet.FallbackRecoverySummary()
			summary = &fallback
		}

		transitioned, err := u.planRepo.Complete(plan.ID, u.now(), summary.Summary, summary.Trend, summary.Suggestion)
		if err != nil {
			u.log.Errorw("failed to complete recovery plan", "plan_id", plan.ID, "error", err)
			return nil, err
		}
		if !transitioned {
			u.log.Warnw("recovery plan was already completed", "plan_id", plan.ID)
		}
		return nil, nil
	})
}

func (u *recoveryUsecase) ownedPlan(userID, planID string) (*domain.RecoveryPlan, error) {
	plan, err := u.planRepo.FindByID(planID)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func validateCheckin(input CheckinInput) error {
	switch input.Appetite {
	case domain.AppetiteNormal, domain.AppetiteReduced, domain.AppetitePoor:
	default:
		return ErrInvalidCheckin
	}
	switch input.Energy {
	case domain.EnergyNormal, domain.EnergyLow, domain.EnergyVeryLow:
	default:
		return ErrInvalidCheckin
	}
	switch input.SymptomStatus {
	case domain.SymptomImproved, domain.SymptomSame, domain.SymptomWorse:
	default:
		return ErrInvalidCheckin
	}
	return nil
}
