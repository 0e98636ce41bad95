package book_console

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	bookConsole "github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgConsoleNotFound    = "консоль не найдена"
	msgUserNotFound       = "пользователь не зарегистрирован"
	msgConsoleUnavailable = "консоль уже арендована"
	msgConsoleHeld        = "консоль временно удерживается другим клиентом"
	msgUserBanned         = "аренда недоступна: пользователь заблокирован"
	msgApprovalRequired   = "аренда оформляется через заявку"
	msgInvalidHours       = "некорректная длительность аренды"
)

type Handler struct {
	useCase BookConsoleUseCase
	logger  Logger
}

func NewHandler(useCase BookConsoleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rentals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BookConsoleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rentals - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /rentals - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	rental, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, bookConsole.ErrConsoleNotFound):
			handlers.RespondNotFound(w, msgConsoleNotFound)

		case errors.Is(err, bookConsole.ErrUserNotFound):
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, bookConsole.ErrConsoleUnavailable):
			h.logger.Warn("POST /rentals - Console unavailable: user_id=%d, console_id=%s", userID, req.ConsoleID)
			handlers.RespondConflict(w, msgConsoleUnavailable)

		case errors.Is(err, bookConsole.ErrConsoleHeld):
			handlers.RespondConflict(w, msgConsoleHeld)

		case errors.Is(err, bookConsole.ErrApprovalRequired):
			handlers.RespondConflict(w, msgApprovalRequired)

		case errors.Is(err, bookConsole.ErrUserBanned):
			h.logger.Warn("POST /rentals - Banned user: user_id=%d", userID)
			handlers.RespondForbidden(w, msgUserBanned)

		case errors.Is(err, bookConsole.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidHours)

		default:
			h.logger.Error("POST /rentals - Failed to book console: user_id=%d, console_id=%s, error=%v", userID, req.ConsoleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rentals - Rental started: rental_id=%s, user_id=%d", rental.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, rental)
}
