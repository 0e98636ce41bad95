package ratings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
)

type MockRatingService struct{ mock.Mock }

func (m *MockRatingService) GetUserRating(ctx context.Context, userID int64) (*models.UserRatingResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRatingResponse), args.Error(1)
}

func (m *MockRatingService) ListRatings(ctx context.Context) ([]*models.UserRatingResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserRatingResponse), args.Error(1)
}

func (m *MockRatingService) AddTransaction(ctx context.Context, req *models.AddTransactionRequest) (*models.UserRatingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRatingResponse), args.Error(1)
}

func (m *MockRatingService) ListTransactions(ctx context.Context, userID *int64, limit uint64) ([]*models.TransactionResponse, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TransactionResponse), args.Error(1)
}

func (m *MockRatingService) History(ctx context.Context, userID int64, limit uint64) ([]*models.HistoryEntryResponse, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HistoryEntryResponse), args.Error(1)
}

func (m *MockRatingService) AdjustLoyaltyBonus(ctx context.Context, userID int64, delta int, reason string) (*models.UserRatingResponse, error) {
	args := m.Called(ctx, userID, delta, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRatingResponse), args.Error(1)
}

func (m *MockRatingService) GetRules(ctx context.Context) (*domain.RatingRules, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingRules), args.Error(1)
}

func (m *MockRatingService) UpdateRules(ctx context.Context, rules *domain.RatingRules) (*domain.RatingRules, error) {
	args := m.Called(ctx, rules)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingRules), args.Error(1)
}

func (m *MockRatingService) RecordManualRating(ctx context.Context, req *models.ManualRatingRequest) (*models.ManualRatingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ManualRatingResponse), args.Error(1)
}

func (m *MockRatingService) RentalsAwaitingRating(ctx context.Context) ([]*models.PendingRentalResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingRentalResponse), args.Error(1)
}

func router(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Auth(middleware.NewAdmins([]int64{1})))
	r.HandleFunc("/users/{userId}/rating", h.GetUserRating).Methods(http.MethodGet)
	r.HandleFunc("/users/{userId}/rating/history", h.History).Methods(http.MethodGet)
	r.HandleFunc("/admin/ratings/transactions", h.ListTransactions).Methods(http.MethodGet)
	r.HandleFunc("/admin/ratings/transactions", h.AddTransaction).Methods(http.MethodPost)
	r.HandleFunc("/admin/ratings/manual", h.RecordManualRating).Methods(http.MethodPost)
	return r
}

func do(h *Handler, method, target, body string, caller int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, fmt.Sprint(caller))
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)
	return rec
}

func TestHandler_GetUserRating(t *testing.T) {
	t.Run("Own rating", func(t *testing.T) {
		svc := &MockRatingService{}
		svc.On("GetUserRating", mock.Anything, int64(42)).
			Return(&models.UserRatingResponse{UserID: 42, Status: "regular"}, nil)

		rec := do(NewHandler(svc, logger.NewNop()), http.MethodGet, "/users/42/rating", "", 42)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Someone else's rating", func(t *testing.T) {
		rec := do(NewHandler(&MockRatingService{}, logger.NewNop()), http.MethodGet, "/users/7/rating", "", 42)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Admin sees any rating", func(t *testing.T) {
		svc := &MockRatingService{}
		svc.On("GetUserRating", mock.Anything, int64(7)).Return(nil, rating.ErrUserNotFound)

		rec := do(NewHandler(svc, logger.NewNop()), http.MethodGet, "/users/7/rating", "", 1)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_History(t *testing.T) {
	t.Run("Default limit", func(t *testing.T) {
		svc := &MockRatingService{}
		svc.On("History", mock.Anything, int64(42), uint64(defaultLimit)).
			Return([]*models.HistoryEntryResponse{}, nil)

		rec := do(NewHandler(svc, logger.NewNop()), http.MethodGet, "/users/42/rating/history", "", 42)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid limit", func(t *testing.T) {
		rec := do(NewHandler(&MockRatingService{}, logger.NewNop()), http.MethodGet, "/users/42/rating/history?limit=abc", "", 42)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_ListTransactions(t *testing.T) {
	svc := &MockRatingService{}
	svc.On("ListTransactions", mock.Anything, mock.MatchedBy(func(id *int64) bool {
		return id != nil && *id == 42
	}), uint64(maxLimit)).Return([]*models.TransactionResponse{}, nil)

	rec := do(NewHandler(svc, logger.NewNop()), http.MethodGet, "/admin/ratings/transactions?userId=42&limit=10000", "", 1)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_AddTransaction(t *testing.T) {
	t.Run("Records the admin as author", func(t *testing.T) {
		svc := &MockRatingService{}
		svc.On("AddTransaction", mock.Anything, mock.MatchedBy(func(req *models.AddTransactionRequest) bool {
			return req.UserID == 42 && req.CreatedBy == 1 && req.ItemCondition == "minor_defects"
		})).Return(&models.UserRatingResponse{UserID: 42, Status: "regular"}, nil)

		body := `{"userId":42,"returnTiming":"on_time","itemCondition":"minor_defects","ruleCompliance":"no_violations"}`
		rec := do(NewHandler(svc, logger.NewNop()), http.MethodPost, "/admin/ratings/transactions", body, 1)

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Unknown class", func(t *testing.T) {
		body := `{"userId":42,"returnTiming":"sometimes","itemCondition":"perfect","ruleCompliance":"no_violations"}`
		rec := do(NewHandler(&MockRatingService{}, logger.NewNop()), http.MethodPost, "/admin/ratings/transactions", body, 1)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_RecordManualRating(t *testing.T) {
	body := `{"rentalId":"r-1","consoleCondition":"perfect","ruleCompliance":"no_violations","returnTiming":"on_time"}`

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"Rental not found", rating.ErrRentalNotFound, http.StatusNotFound},
		{"Rental not finished", rating.ErrRentalNotFinished, http.StatusConflict},
		{"Already rated", rating.ErrAlreadyRated, http.StatusConflict},
		{"Invalid input", rating.ErrInvalidInput, http.StatusBadRequest},
		{"Internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockRatingService{}
			svc.On("RecordManualRating", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := do(NewHandler(svc, logger.NewNop()), http.MethodPost, "/admin/ratings/manual", body, 1)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
