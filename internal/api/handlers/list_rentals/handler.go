package list_rentals

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals"
)

const msgInvalidStatus = "некорректный статус аренды"

type Handler struct {
	service RentalService
	logger  Logger
}

func NewHandler(service RentalService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/rentals?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), handlers.QueryString(r, "status"))
	if err != nil {
		if errors.Is(err, rentals.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /admin/rentals - Failed to list rentals: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/rentals - Rentals retrieved: count=%d", len(result.Rentals))
	handlers.RespondJSON(w, http.StatusOK, result)
}
