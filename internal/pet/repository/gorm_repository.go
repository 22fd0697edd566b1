package repository

import (
	"gorm.io/gorm"

	"github.com/Shilei0825/wag-well-record/internal/pet/domain"
)

type gormPetRepository struct {
	db *gorm.DB
}

// NewGormPetRepository creates a new GORM-based PetRepository
func NewGormPetRepository(db *gorm.DB) PetRepository {
	return &gormPetRepository{db: db}
}

func (r *gormPetRepository) FindByID(id string) (*domain.Pet, error) {
	var pet domain.Pet
	err := r.db.Where("id = ?", id).First(&pet).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pet, nil
}

func (r *gormPetRepository) FindByUserID(userID string) ([]*domain.Pet, error) {
	var pets []*domain.Pet
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&pets).Error
	return pets, err
}
