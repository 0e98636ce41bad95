package get_user_rentals

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgInvalidStatus = "некорректный статус аренды"
)

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

// Handle GET /api/v1/users/{userId}/rentals?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		h.logger.Warn("GET /users/{userId}/rentals - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListByUser(r.Context(), &models.ListUserRentalsRequest{
		UserID:   userID,
		CallerID: callerID,
		IsAdmin:  middleware.IsAdmin(r.Context()),
		Status:   handlers.QueryString(r, "status"),
	})
	if err != nil {
		switch {
		case errors.Is(err, rentals.ErrAccessDenied):
			h.logger.Warn("GET /users/{userId}/rentals - Access denied: user_id=%d, caller_id=%d", userID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rentals.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{userId}/rentals - Failed to get rentals: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{userId}/rentals - Rentals retrieved: user_id=%d, count=%d", userID, len(result.Rentals))
	handlers.RespondJSON(w, http.StatusOK, result)
}
