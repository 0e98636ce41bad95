package settings

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Get(t *testing.T) {
	t.Run("Not saved yet", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM admin_settings WHERE id = \\$1").
			WithArgs(singletonID).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background())

		assert.ErrorIs(t, err, ErrSettingsNotFound)
	})

	t.Run("Saved", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM admin_settings").
			WillReturnRows(sqlmock.NewRows([]string{
				"admin_chat_id", "require_approval", "notifications_enabled",
				"max_rental_hours", "reminder_hours", "temp_hold_minutes", "updated_at",
			}).AddRow(int64(100), false, true, 48, 20, 15, time.Now()))

		s, err := repo.Get(context.Background())

		require.NoError(t, err)
		assert.False(t, s.RequireApproval)
		assert.Equal(t, 48, s.MaxRentalHours)
		assert.Equal(t, 15*time.Minute, s.TempHoldTTL())
	})
}

func TestRepository_GetRules_MergesDefaults(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT rules FROM rating_rules").
		WillReturnRows(sqlmock.NewRows([]string{"rules"}).
			AddRow([]byte(`{"discipline_window":3,"return_timing":{"late_1_24h":-25}}`)))

	rules, err := repo.GetRules(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, rules.DisciplineWindow)
	assert.Equal(t, -25, rules.ReturnTiming[domain.TimingLate1To24h])
	assert.Equal(t, -50, rules.ReturnTiming[domain.TimingLateOver24h])
	assert.Equal(t, 80, rules.PremiumThreshold)
}

func TestRepository_SaveRules(t *testing.T) {
	repo, mock := newRepo(t)
	rules := domain.DefaultRatingRules()

	mock.ExpectExec("INSERT INTO rating_rules \\(id,rules\\) VALUES \\(\\$1,\\$2\\) ON CONFLICT").
		WithArgs(singletonID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveRules(context.Background(), &rules))
	assert.NoError(t, mock.ExpectationsWereMet())
}
