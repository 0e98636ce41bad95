package book_console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	bookConsole "github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

type MockUseCase struct{ mock.Mock }

func (m *MockUseCase) Execute(ctx context.Context, req *bookConsole.Request) (*models.RentalResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalResponse), args.Error(1)
}

func post(h *Handler, body string, userID *int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/rentals", strings.NewReader(body))
	if userID != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), *userID, false))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Handle(t *testing.T) {
	userID := int64(42)

	t.Run("Success", func(t *testing.T) {
		uc := &MockUseCase{}
		uc.On("Execute", mock.Anything, &bookConsole.Request{
			UserID:        42,
			ConsoleID:     "ps5-1",
			SelectedHours: ptr.Ptr(3),
		}).Return(&models.RentalResponse{ID: "r-1", UserID: 42, ConsoleID: "ps5-1", TotalCost: 300}, nil)

		rec := post(NewHandler(uc, logger.NewNop()), `{"consoleId":"ps5-1","hours":3}`, &userID)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body models.RentalResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "r-1", body.ID)
		assert.Equal(t, 300.0, body.TotalCost)
		uc.AssertExpectations(t)
	})

	t.Run("Open-ended rental", func(t *testing.T) {
		uc := &MockUseCase{}
		uc.On("Execute", mock.Anything, &bookConsole.Request{
			UserID:    42,
			ConsoleID: "ps5-1",
		}).Return(&models.RentalResponse{ID: "r-2", UserID: 42, ConsoleID: "ps5-1"}, nil)

		rec := post(NewHandler(uc, logger.NewNop()), `{"consoleId":"ps5-1"}`, &userID)

		require.Equal(t, http.StatusCreated, rec.Code)
		uc.AssertExpectations(t)
	})

	t.Run("No caller", func(t *testing.T) {
		rec := post(NewHandler(&MockUseCase{}, logger.NewNop()), `{"consoleId":"ps5-1","hours":3}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Unknown field", func(t *testing.T) {
		rec := post(NewHandler(&MockUseCase{}, logger.NewNop()), `{"consoleId":"ps5-1","hours":3,"extra":1}`, &userID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Zero hours", func(t *testing.T) {
		rec := post(NewHandler(&MockUseCase{}, logger.NewNop()), `{"consoleId":"ps5-1","hours":0}`, &userID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Error mapping", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
		}{
			{"Console not found", bookConsole.ErrConsoleNotFound, http.StatusNotFound},
			{"User not found", bookConsole.ErrUserNotFound, http.StatusNotFound},
			{"Console unavailable", bookConsole.ErrConsoleUnavailable, http.StatusConflict},
			{"Console held", bookConsole.ErrConsoleHeld, http.StatusConflict},
			{"Approval required", bookConsole.ErrApprovalRequired, http.StatusConflict},
			{"Banned", bookConsole.ErrUserBanned, http.StatusForbidden},
			{"Invalid input", bookConsole.ErrInvalidInput, http.StatusBadRequest},
			{"Internal", errors.New("boom"), http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				uc := &MockUseCase{}
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

				rec := post(NewHandler(uc, logger.NewNop()), `{"consoleId":"ps5-1","hours":2}`, &userID)

				assert.Equal(t, tt.status, rec.Code)
				var body handlers.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.status, body.Code)
			})
		}
	})
}
