package domain

import (
	"time"
)

// SourceType says what prompted the observation plan.
type SourceType string

const (
	SourceAIConsult SourceType = "ai_consult"
	SourceVetVisit  SourceType = "vet_visit"
)

// PlanStatus is the plan lifecycle state. The transition is one-way:
// a completed plan is never reopened.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
)

// SeverityLevel of a recovery plan. Severe cases are routed to a vet rather
// than home observation, so only the two mild tiers exist here.
type SeverityLevel string

const (
	SeverityMild     SeverityLevel = "mild"
	SeverityModerate SeverityLevel = "moderate"
)

// RecoveryPlan is a fixed-duration, day-indexed observation schedule
// following a consultation or vet visit.
type RecoveryPlan struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	UserID        string        `json:"user_id" gorm:"index;not null"`
	PetID         string        `json:"pet_id" gorm:"index;not null"`
	SourceType    SourceType    `json:"source_type" gorm:"not null"`
	SourceID      string        `json:"source_id,omitempty"`
	MainSymptom   string        `json:"main_symptom" gorm:"not null"`
	SeverityLevel SeverityLevel `json:"severity_level" gorm:"default:mild"`
	DurationDays  int           `json:"duration_days" gorm:"not null"`
	Status        PlanStatus    `json:"status" gorm:"default:active;index"`
	AISummary     string        `json:"ai_summary,omitempty"`
	RecoveryTrend string        `json:"recovery_trend,omitempty"`
	Suggestion    string        `json:"suggestion,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

func (RecoveryPlan) TableName() string {
	return "recovery_plans"
}

// Appetite level recorded in a daily check-in.
type Appetite string

const (
	AppetiteNormal  Appetite = "normal"
	AppetiteReduced Appetite = "reduced"
	AppetitePoor    Appetite = "poor"
)

// Energy level recorded in a daily check-in.
type Energy string

const (
	EnergyNormal  Energy = "normal"
	EnergyLow     Energy = "low"
	EnergyVeryLow Energy = "very_low"
)

// SymptomStatus is the day-over-day symptom comparison.
type SymptomStatus string

const (
	SymptomImproved SymptomStatus = "improved"
	SymptomSame     SymptomStatus = "same"
	SymptomWorse    SymptomStatus = "worse"
)

// RecoveryCheckin is one day's structured observation entry. The unique index
// on (plan_id, day_index) enforces the one-checkin-per-day invariant at the
// storage layer, not just in the client.
type RecoveryCheckin struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	PlanID        string        `json:"plan_id" gorm:"uniqueIndex:idx_recovery_checkins_plan_day;not null"`
	DayIndex      int           `json:"day_index" gorm:"uniqueIndex:idx_recovery_checkins_plan_day;not null"`
	Appetite      Appetite      `json:"appetite" gorm:"not null"`
	Energy        Energy        `json:"energy" gorm:"not null"`
	SymptomStatus SymptomStatus `json:"symptom_status" gorm:"not null"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (RecoveryCheckin) TableName() string {
	return "recovery_checkins"
}

// CurrentDayIndex is the 1-based observation day at the given time, clamped
// to the plan's duration. Monotonically non-decreasing in wall-clock time.
func (p *RecoveryPlan) CurrentDayIndex(now time.Time) int {
	day := int(now.Sub(p.CreatedAt).Hours()/24) + 1
	if day < 1 {
		day = 1
	}
	if day > p.DurationDays {
		day = p.DurationDays
	}
	return day
}

// NeedsCheckinToday reports whether today's entry is still missing.
func (p *RecoveryPlan) NeedsCheckinToday(now time.Time, completedCheckins int) bool {
	return p.Status == PlanActive && completedCheckins < p.CurrentDayIndex(now)
}

// DayState classifies one slot of the plan timeline.
type DayState string

const (
	DayCompleted DayState = "completed"
	DayToday     DayState = "today"
	DayFuture    DayState = "future"
	DayMissed    DayState = "missed"
)

// TimelineDay is one rendered slot of the plan's per-day timeline.
type TimelineDay struct {
	DayIndex int              `json:"day_index"`
	State    DayState         `json:"state"`
	Checkin  *RecoveryCheckin `json:"checkin,omitempty"`
}

// Timeline renders the full schedule of length duration_days. Past days with
// no entry are reported missed, never backfilled.
func (p *RecoveryPlan) Timeline(checkins []*RecoveryCheckin, now time.Time) []TimelineDay {
	byDay := make(map[int]*RecoveryCheckin, len(checkins))
	for _, c := range checkins {
		byDay[c.DayIndex] = c
	}
	current := p.CurrentDayIndex(now)

	days := make([]TimelineDay, 0, p.DurationDays)
	for i := 1; i <= p.DurationDays; i++ {
		day := TimelineDay{DayIndex: i}
		switch {
		case byDay[i] != nil:
			day.State = DayCompleted
			day.Checkin = byDay[i]
		case i == current:
			day.State = DayToday
		case i > current:
			day.State = DayFuture
		default:
			day.State = DayMissed
		}
		days = append(days, day)
	}
	return days
}
