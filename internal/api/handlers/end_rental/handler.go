package end_rental

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	endRental "github.com/m04kA/SMC-ConsoleRental/internal/usecase/end_rental"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgRentalNotFound  = "аренда не найдена"
	msgAlreadyEnded    = "аренда уже завершена"
	msgForbidden       = "доступ запрещен"
	msgConsoleBusy     = "консоль занята другой операцией, повторите позже"
	msgInvalidRentalID = "некорректный ID аренды"
)

type Handler struct {
	useCase EndRentalUseCase
	logger  Logger
}

func NewHandler(useCase EndRentalUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rentals/{rentalId}/end и POST /api/v1/admin/rentals/{rentalId}/end
// Клиент завершает только свою аренду, администратор любую
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	rentalID := handlers.PathString(r, "rentalId")

	result, err := h.useCase.Execute(r.Context(), &endRental.Request{
		RentalID: rentalID,
		CallerID: callerID,
		IsAdmin:  middleware.IsAdmin(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, endRental.ErrRentalNotFound):
			handlers.RespondNotFound(w, msgRentalNotFound)

		case errors.Is(err, endRental.ErrNotOwner):
			h.logger.Warn("POST /rentals/{id}/end - Not owner: rental_id=%s, caller_id=%d", rentalID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, endRental.ErrAlreadyEnded):
			handlers.RespondConflict(w, msgAlreadyEnded)

		case errors.Is(err, endRental.ErrConsoleBusy):
			handlers.RespondConflict(w, msgConsoleBusy)

		case errors.Is(err, endRental.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRentalID)

		default:
			h.logger.Error("POST /rentals/{id}/end - Failed to end rental: rental_id=%s, error=%v", rentalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rentals/{id}/end - Rental ended: rental_id=%s, hours=%d", rentalID, result.BilledHours)
	handlers.RespondJSON(w, http.StatusOK, result)
}
