package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Shilei0825/wag-well-record/internal/triage/domain"
)

// gormConsultationRepository implements ConsultationRepository using GORM
type gormConsultationRepository struct {
	db *gorm.DB
}

// NewGormConsultationRepository creates a new GORM-based ConsultationRepository
func NewGormConsultationRepository(db *gorm.DB) ConsultationRepository {
	return &gormConsultationRepository{db: db}
}

func (r *gormConsultationRepository) Create(consultation *domain.Consultation) error {
	if consultation.ID == "" {
		consultation.ID = uuid.New().String()
	}
	consultation.CreatedAt = time.Now()
	return r.db.Create(consultation).Error
}

func (r *gormConsultationRepository) FindByUser(userID string, petID *string) ([]*domain.Consultation, error) {
	var consultations []*domain.Consultation

	query := r.db.Where("user_id = ?", userID)
	if petID != nil && *petID != "" {
		query = query.Where("pet_id = ?", *petID)
	}

	err := query.Order("created_at DESC").Find(&consultations).Error
	return consultations, err
}

func (r *gormConsultationRepository) FindByID(id string) (*domain.Consultation, error) {
	var consultation domain.Consultation
	err := r.db.Where("id = ?", id).First(&consultation).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

func (r *gormConsultationRepository) Delete(id string) error {
	return r.db.Delete(&domain.Consultation{}, "id = ?", id).Error
}
