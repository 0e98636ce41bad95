package discounts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/discounts"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/discounts/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
)

type MockDiscountService struct{ mock.Mock }

func (m *MockDiscountService) Create(ctx context.Context, req *models.CreateDiscountRequest) (*models.DiscountResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscountResponse), args.Error(1)
}

func (m *MockDiscountService) Get(ctx context.Context, id string) (*models.DiscountResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscountResponse), args.Error(1)
}

func (m *MockDiscountService) List(ctx context.Context, consoleID *string) ([]*models.DiscountResponse, error) {
	args := m.Called(ctx, consoleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DiscountResponse), args.Error(1)
}

func (m *MockDiscountService) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockDiscountService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func router(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/admin/discounts", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/admin/discounts/{discountId}", h.SetActive).Methods(http.MethodPatch)
	r.HandleFunc("/admin/discounts/{discountId}", h.Delete).Methods(http.MethodDelete)
	return r
}

func do(h *Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router(h).ServeHTTP(rec, req)
	return rec
}

func TestHandler_Create(t *testing.T) {
	body := `{"consoleId":"ps5-1","type":"percentage","value":20,"startDate":"2025-06-01","endDate":"2025-06-30"}`

	t.Run("Success", func(t *testing.T) {
		svc := &MockDiscountService{}
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req *models.CreateDiscountRequest) bool {
			return req.ConsoleID == "ps5-1" &&
				req.StartDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) &&
				req.EndDate.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
		})).Return(&models.DiscountResponse{ID: "d-1", ConsoleID: "ps5-1"}, nil)

		rec := do(NewHandler(svc, logger.NewNop()), http.MethodPost, "/admin/discounts", body)

		assert.Equal(t, http.StatusCreated, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Unknown type", func(t *testing.T) {
		rec := do(NewHandler(&MockDiscountService{}, logger.NewNop()), http.MethodPost, "/admin/discounts",
			strings.Replace(body, "percentage", "bogus", 1))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Malformed date", func(t *testing.T) {
		rec := do(NewHandler(&MockDiscountService{}, logger.NewNop()), http.MethodPost, "/admin/discounts",
			strings.Replace(body, "2025-06-30", "30.06.2025", 1))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Console not found", func(t *testing.T) {
		svc := &MockDiscountService{}
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, discounts.ErrConsoleNotFound)

		rec := do(NewHandler(svc, logger.NewNop()), http.MethodPost, "/admin/discounts", body)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_SetActive(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockDiscountService{}
		svc.On("SetActive", mock.Anything, "d-1", false).Return(nil)

		rec := do(NewHandler(svc, logger.NewNop()), http.MethodPatch, "/admin/discounts/d-1", `{"active":false}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Missing flag", func(t *testing.T) {
		rec := do(NewHandler(&MockDiscountService{}, logger.NewNop()), http.MethodPatch, "/admin/discounts/d-1", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	svc := &MockDiscountService{}
	svc.On("Delete", mock.Anything, "d-404").Return(discounts.ErrDiscountNotFound)

	rec := do(NewHandler(svc, logger.NewNop()), http.MethodDelete, "/admin/discounts/d-404", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
