package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Consultation is the persisted record of one completed intake-seeded triage
// session. Consultations are immutable once written; chat-only sessions that
// skipped the intake are never persisted.
type Consultation struct {
	ID                 string                       `json:"id" gorm:"primaryKey"`
	UserID             string                       `json:"user_id" gorm:"index;not null"`
	PetID              string                       `json:"pet_id" gorm:"index;not null"`
	MainSymptom        string                       `json:"main_symptom" gorm:"not null"`
	Duration           string                       `json:"duration" gorm:"not null"`
	Severity           string                       `json:"severity" gorm:"not null"`
	AdditionalSymptoms datatypes.JSONSlice[string]  `json:"additional_symptoms"`
	AdditionalNotes    string                       `json:"additional_notes,omitempty"`
	UrgencyLevel       string                       `json:"urgency_level,omitempty"`
	Summary            string                       `json:"summary,omitempty"`
	FullResponse       string                       `json:"full_response,omitempty"`
	CreatedAt          time.Time                    `json:"created_at"`
}

func (Consultation) TableName() string {
	return "ai_vet_consultations"
}

// Preview derives the short history-card summary from the full response.
func Preview(fullResponse string, maxRunes int) string {
	runes := []rune(fullResponse)
	if len(runes) <= maxRunes {
		return fullResponse
	}
	return string(runes[:maxRunes])
}
