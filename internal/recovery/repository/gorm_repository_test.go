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

	"github.com/Shilei0825/wag-well-record/internal/recovery/domain"
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

func TestCheckinCreateMapsDuplicateKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCheckinRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "recovery_checkins"`)).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(&domain.RecoveryCheckin{
		PlanID:        "plan-1",
		DayIndex:      1,
		Appetite:      domain.AppetiteNormal,
		Energy:        domain.EnergyNormal,
		SymptomStatus: domain.SymptomSame,
	})
	assert.ErrorIs(t, err, ErrDuplicateCheckin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckinFindByPlanOrdersByDay(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormCheckinRepository(db)

	rows := sqlmock.NewRows([]string{"id", "plan_id", "day_index", "appetite", "energy", "symptom_status", "created_at"}).
		AddRow("c-1", "plan-1", 1, "poor", "low", "same", time.Now().Add(-48*time.Hour)).
		AddRow("c-2", "plan-1", 2, "normal", "normal", "improved", time.Now().Add(-24*time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "recovery_checkins" WHERE plan_id = $1 ORDER BY day_index ASC`)).
		WithArgs("plan-1").
		WillReturnRows(rows)

	checkins, err := repo.FindByPlan("plan-1")
	require.NoError(t, err)
	require.Len(t, checkins, 2)
	assert.Equal(t, 1, checkins[0].DayIndex)
	assert.Equal(t, domain.SymptomImproved, checkins[1].SymptomStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanCompleteIsOneWay(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPlanRepository(db)
	completedAt := time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC)

	t.Run("active plan transitions", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "recovery_plans" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		transitioned, err := repo.Complete("plan-1", completedAt, "总结", "improving", "继续观察")
		require.NoError(t, err)
		assert.True(t, transitioned)
	})

	t.Run("already completed plan does not", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "recovery_plans" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		transitioned, err := repo.Complete("plan-1", completedAt, "总结", "improving", "继续观察")
		require.NoError(t, err)
		assert.False(t, transitioned)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanFindByUserActiveOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPlanRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "pet_id", "source_type", "main_symptom", "duration_days", "status", "created_at"}).
		AddRow("plan-1", "user-1", "pet-1", "ai_consult", "呕吐", 3, "active", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "recovery_plans" WHERE user_id = $1 AND pet_id = $2 AND status = $3 ORDER BY created_at DESC`)).
		WithArgs("user-1", "pet-1", "active").
		WillReturnRows(rows)

	petID := "pet-1"
	plans, err := repo.FindByUser("user-1", &petID, true)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, domain.PlanActive, plans[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
