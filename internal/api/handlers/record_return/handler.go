package record_return

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	recordReturn "github.com/m04kA/SMC-ConsoleRental/internal/usecase/record_return"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgRentalNotFound     = "аренда не найдена"
	msgAlreadyReturned    = "возврат уже оформлен"
	msgConsoleBusy        = "консоль занята другой операцией, повторите позже"
	msgInvalidReturn      = "некорректные данные возврата"
)

type Handler struct {
	useCase RecordReturnUseCase
	logger  Logger
}

func NewHandler(useCase RecordReturnUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/rentals/{rentalId}/return
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	rentalID := handlers.PathString(r, "rentalId")

	var req RecordReturnRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/rentals/{id}/return - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	rental, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(rentalID, adminID))
	if err != nil {
		switch {
		case errors.Is(err, recordReturn.ErrRentalNotFound):
			handlers.RespondNotFound(w, msgRentalNotFound)

		case errors.Is(err, recordReturn.ErrInvalidTransition):
			handlers.RespondConflict(w, msgAlreadyReturned)

		case errors.Is(err, recordReturn.ErrConsoleBusy):
			handlers.RespondConflict(w, msgConsoleBusy)

		case errors.Is(err, recordReturn.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidReturn)

		default:
			h.logger.Error("POST /admin/rentals/{id}/return - Failed to record return: rental_id=%s, error=%v", rentalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/rentals/{id}/return - Return recorded: rental_id=%s, admin_id=%d", rentalID, adminID)
	handlers.RespondJSON(w, http.StatusOK, rental)
}
