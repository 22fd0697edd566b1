package repository

import (
	"github.com/Shilei0825/wag-well-record/internal/pet/domain"
)

// PetRepository defines read access to pet profiles. Pets are managed by the
// host application; the triage core only reads them for context.
type PetRepository interface {
	// FindByID finds a pet by its ID, (nil, nil) when absent.
	FindByID(id string) (*domain.Pet, error)

	// FindByUserID lists all pets owned by a user.
	FindByUserID(userID string) ([]*domain.Pet, error)
}
