package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/settings/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

type mockSettingsRepo struct {
	mock.Mock
}

func (m *mockSettingsRepo) Get(ctx context.Context) (*domain.AdminSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminSettings), args.Error(1)
}

func (m *mockSettingsRepo) Save(ctx context.Context, s *domain.AdminSettings) (*domain.AdminSettings, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminSettings), args.Error(1)
}

func TestService_Current(t *testing.T) {
	t.Run("Defaults until saved", func(t *testing.T) {
		repo := &mockSettingsRepo{}
		repo.On("Get", mock.Anything).Return(nil, settingsRepo.ErrSettingsNotFound)
		defaults := domain.DefaultAdminSettings()
		defaults.MaxRentalHours = 12
		svc := NewService(repo, defaults, logger.NewNop())

		settings, err := svc.Current(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 12, settings.MaxRentalHours)
		assert.True(t, settings.RequireApproval)

		// изменение результата не затрагивает значения по умолчанию
		settings.MaxRentalHours = 1
		again, err := svc.Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 12, again.MaxRentalHours)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := &mockSettingsRepo{}
		repo.On("Get", mock.Anything).Return(nil, errors.New("db down"))
		svc := NewService(repo, nil, logger.NewNop())

		_, err := svc.Current(context.Background())

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("Partial update", func(t *testing.T) {
		repo := &mockSettingsRepo{}
		repo.On("Get", mock.Anything).Return(domain.DefaultAdminSettings(), nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.AdminSettings) bool {
			return !s.RequireApproval && s.MaxRentalHours == domain.DefaultMaxRentalHours
		})).Return(&domain.AdminSettings{MaxRentalHours: 24, ReminderHours: 23, TempHoldMinutes: 30}, nil)
		svc := NewService(repo, nil, logger.NewNop())

		resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{RequireApproval: ptr.Ptr(false)})

		require.NoError(t, err)
		assert.False(t, resp.RequireApproval)
		assert.Nil(t, resp.UpdatedAt)
	})

	t.Run("Hold longer than a day", func(t *testing.T) {
		repo := &mockSettingsRepo{}
		repo.On("Get", mock.Anything).Return(domain.DefaultAdminSettings(), nil)
		svc := NewService(repo, nil, logger.NewNop())

		_, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{TempHoldMinutes: ptr.Ptr(2000)})

		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
