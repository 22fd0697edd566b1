package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func consultationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "pet_id", "main_symptom", "duration", "severity",
		"additional_symptoms", "urgency_level", "created_at",
	})
}

func TestFindByUserFiltersAndOrders(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormConsultationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "ai_vet_consultations" WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs("user-1").
		WillReturnRows(consultationRows().
			AddRow("c-2", "user-1", "pet-1", "diarrhea", "1-3days", "mild", []byte(`["lethargy"]`), "可观察", time.Now()).
			AddRow("c-1", "user-1", "pet-2", "vomiting", "today", "moderate", []byte(`[]`), "紧急", time.Now().Add(-time.Hour)))

	consultations, err := repo.FindByUser("user-1", nil)
	require.NoError(t, err)
	require.Len(t, consultations, 2)
	assert.Equal(t, "c-2", consultations[0].ID)
	assert.Equal(t, []string{"lethargy"}, []string(consultations[0].AdditionalSymptoms))
	assert.Equal(t, "紧急", consultations[1].UrgencyLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUserWithPetFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormConsultationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "ai_vet_consultations" WHERE user_id = $1 AND pet_id = $2 ORDER BY created_at DESC`)).
		WithArgs("user-1", "pet-1").
		WillReturnRows(consultationRows())

	petID := "pet-1"
	consultations, err := repo.FindByUser("user-1", &petID)
	require.NoError(t, err)
	assert.Empty(t, consultations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDAbsentReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormConsultationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ai_vet_consultations" WHERE id = $1`)).
		WithArgs("gone", 1).
		WillReturnRows(consultationRows())

	consultation, err := repo.FindByID("gone")
	require.NoError(t, err)
	assert.Nil(t, consultation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteConsultation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormConsultationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "ai_vet_consultations" WHERE id = $1`)).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete("c-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
