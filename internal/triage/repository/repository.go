package repository

import (
	"github.com/Shilei0825/wag-well-record/internal/triage/domain"
)

// ConsultationRepository defines data access for persisted consultations.
// There is no update: consultations are immutable once written.
type ConsultationRepository interface {
	// Create persists a new consultation; id and created_at are assigned here.
	Create(consultation *domain.Consultation) error

	// FindByUser lists a user's consultations newest-first, optionally
	// filtered to one pet.
	FindByUser(userID string, petID *string) ([]*domain.Consultation, error)

	// FindByID finds a consultation by id, (nil, nil) when absent.
	FindByID(id string) (*domain.Consultation, error)

	// Delete permanently removes a consultation.
	Delete(id string) error
}
