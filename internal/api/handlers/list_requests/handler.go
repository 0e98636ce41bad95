package list_requests

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals"
)

const (
	msgInvalidStatus   = "некорректный статус заявки"
	msgRequestNotFound = "заявка не найдена"
)

type Handler struct {
	service RequestService
	logger  Logger
}

func NewHandler(service RequestService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/rental-requests?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListRequests(r.Context(), handlers.QueryString(r, "status"))
	if err != nil {
		if errors.Is(err, rentals.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /admin/rental-requests - Failed to list requests: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/admin/rental-requests/{requestId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := handlers.PathString(r, "requestId")

	request, err := h.service.GetRequest(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, rentals.ErrRequestNotFound) {
			handlers.RespondNotFound(w, msgRequestNotFound)
			return
		}
		h.logger.Error("GET /admin/rental-requests/{id} - Failed to get request: request_id=%s, error=%v", requestID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, request)
}
