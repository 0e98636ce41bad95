package get_rental

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
)

const (
	msgNotFound      = "аренда не найдена"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/rentals/{rentalId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rentalID := handlers.PathString(r, "rentalId")

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /rentals/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Сервис сам проверит права доступа
	rental, err := h.service.GetByID(r.Context(), &models.GetRentalRequest{
		RentalID: rentalID,
		CallerID: userID,
		IsAdmin:  middleware.IsAdmin(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, rentals.ErrRentalNotFound):
			h.logger.Warn("GET /rentals/{id} - Rental not found: rental_id=%s", rentalID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rentals.ErrAccessDenied):
			h.logger.Warn("GET /rentals/{id} - Access denied: rental_id=%s, user_id=%d", rentalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /rentals/{id} - Failed to get rental: rental_id=%s, error=%v", rentalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /rentals/{id} - Rental retrieved: rental_id=%s, user_id=%d", rentalID, userID)
	handlers.RespondJSON(w, http.StatusOK, rental)
}
