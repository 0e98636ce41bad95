package confirm_location

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	confirmLocation "github.com/m04kA/SMC-ConsoleRental/internal/usecase/confirm_location"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgUserNotFound       = "пользователь не зарегистрирован"
	msgNotAwaiting        = "аренда не ожидает геопозицию"
	msgRentalNotFound     = "аренда не найдена"
	msgRentalNotActive    = "аренда уже завершена"
	msgInvalidCoordinates = "некорректные координаты"
)

type Handler struct {
	useCase ConfirmLocationUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmLocationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rentals/{rentalId}/location
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	rentalID := handlers.PathString(r, "rentalId")

	var req LocationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rentals/{id}/location - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidCoordinates)
		return
	}

	rental, err := h.useCase.Execute(r.Context(), &confirmLocation.Request{
		UserID:    userID,
		RentalID:  rentalID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmLocation.ErrUserNotFound):
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, confirmLocation.ErrNoPendingVerification):
			h.logger.Warn("POST /rentals/{id}/location - Not awaiting location: user_id=%d, rental_id=%s", userID, rentalID)
			handlers.RespondConflict(w, msgNotAwaiting)

		case errors.Is(err, confirmLocation.ErrRentalNotFound):
			handlers.RespondNotFound(w, msgRentalNotFound)

		case errors.Is(err, confirmLocation.ErrInvalidTransition):
			handlers.RespondConflict(w, msgRentalNotActive)

		case errors.Is(err, confirmLocation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidCoordinates)

		default:
			h.logger.Error("POST /rentals/{id}/location - Failed to save location: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rentals/{id}/location - Location saved: rental_id=%s", rental.ID)
	handlers.RespondJSON(w, http.StatusOK, rental)
}
