package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	userRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/user"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/users/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/keylock"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepo) SetBanned(ctx context.Context, id int64, banned bool) error {
	return m.Called(ctx, id, banned).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockRentalRepo struct {
	mock.Mock
}

func (m *mockRentalRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Rental, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

type mockConsoleRepo struct {
	mock.Mock
}

func (m *mockConsoleRepo) UpdateStatus(ctx context.Context, id string, status domain.ConsoleStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockHoldRepo struct {
	mock.Mock
}

func (m *mockHoldRepo) DeleteByUser(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mocks struct {
	users    *mockUserRepo
	rentals  *mockRentalRepo
	consoles *mockConsoleRepo
	holds    *mockHoldRepo
}

func newService() (*Service, *mocks) {
	m := &mocks{
		users:    &mockUserRepo{},
		rentals:  &mockRentalRepo{},
		consoles: &mockConsoleRepo{},
		holds:    &mockHoldRepo{},
	}
	svc := NewService(m.users, m.rentals, m.consoles, m.holds, passThroughTx{}, keylock.New(), logger.NewNop())
	return svc, m
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name     string
		req      *models.RegisterRequest
		expected domain.RegistrationStep
	}{
		{"No phone", &models.RegisterRequest{ID: 1}, domain.RegistrationPhone},
		{"Blank name", &models.RegisterRequest{ID: 1, Phone: ptr.Ptr("+79990000000"), FullName: ptr.Ptr(" ")}, domain.RegistrationFullName},
		{"Complete", &models.RegisterRequest{ID: 1, Phone: ptr.Ptr("+79990000000"), FullName: ptr.Ptr("Иван Иванов")}, domain.RegistrationCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService()
			m.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
				return u.RegistrationStep == tt.expected
			})).Return(&domain.User{ID: 1, RegistrationStep: tt.expected}, nil)

			resp, err := svc.Register(context.Background(), tt.req)

			require.NoError(t, err)
			assert.Equal(t, string(tt.expected), resp.RegistrationStep)
			m.users.AssertExpectations(t)
		})
	}

	t.Run("Already registered", func(t *testing.T) {
		svc, m := newService()
		m.users.On("Create", mock.Anything, mock.Anything).Return(nil, userRepo.ErrUserExists)

		_, err := svc.Register(context.Background(), &models.RegisterRequest{ID: 1})

		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("Invalid id", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.Register(context.Background(), &models.RegisterRequest{ID: 0})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_Get(t *testing.T) {
	svc, m := newService()
	step := domain.VerificationLocationRequest
	m.users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, VerificationStep: &step}, nil)
	m.users.On("GetByID", mock.Anything, int64(2)).Return(nil, userRepo.ErrUserNotFound)

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, resp.VerificationStep)
	assert.Equal(t, "location_request", *resp.VerificationStep)

	_, err = svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_SetBanned(t *testing.T) {
	svc, m := newService()
	m.users.On("SetBanned", mock.Anything, int64(1), true).Return(nil)
	m.users.On("SetBanned", mock.Anything, int64(2), true).Return(userRepo.ErrUserNotFound)
	m.users.On("SetBanned", mock.Anything, int64(3), true).Return(errors.New("timeout"))

	assert.NoError(t, svc.SetBanned(context.Background(), 1, true))
	assert.ErrorIs(t, svc.SetBanned(context.Background(), 2, true), ErrUserNotFound)
	assert.ErrorIs(t, svc.SetBanned(context.Background(), 3, true), ErrInternal)
}

func TestService_Delete(t *testing.T) {
	t.Run("Active rental frees its console", func(t *testing.T) {
		svc, m := newService()
		m.rentals.On("ListByUser", mock.Anything, int64(1)).Return([]*domain.Rental{
			{ID: "r1", ConsoleID: "c1", Status: domain.RentalActive},
			{ID: "r0", ConsoleID: "c2", Status: domain.RentalCompleted},
		}, nil)
		m.consoles.On("UpdateStatus", mock.Anything, "c1", domain.ConsoleAvailable).Return(nil)
		m.holds.On("DeleteByUser", mock.Anything, int64(1)).Return(true, nil)
		m.users.On("Delete", mock.Anything, int64(1)).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), 1))
		m.consoles.AssertNumberOfCalls(t, "UpdateStatus", 1)
		m.users.AssertExpectations(t)
	})

	t.Run("Unknown user", func(t *testing.T) {
		svc, m := newService()
		m.rentals.On("ListByUser", mock.Anything, int64(1)).Return([]*domain.Rental{}, nil)
		m.holds.On("DeleteByUser", mock.Anything, int64(1)).Return(false, nil)
		m.users.On("Delete", mock.Anything, int64(1)).Return(userRepo.ErrUserNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrUserNotFound)
	})
}
