package submit_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	submitRequest "github.com/m04kA/SMC-ConsoleRental/internal/usecase/submit_request"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgConsoleNotFound    = "консоль не найдена"
	msgUserNotFound       = "пользователь не зарегистрирован"
	msgConsoleUnavailable = "консоль уже арендована"
	msgConsoleHeld        = "консоль временно удерживается другим клиентом"
	msgUserBanned         = "аренда недоступна: пользователь заблокирован"
	msgInvalidHours       = "некорректная длительность аренды"
)

type Handler struct {
	useCase SubmitRequestUseCase
	logger  Logger
}

func NewHandler(useCase SubmitRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rental-requests
// При выключенном подтверждении аренда начинается сразу, ответ содержит и заявку, и аренду
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SubmitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rental-requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, submitRequest.ErrConsoleNotFound):
			handlers.RespondNotFound(w, msgConsoleNotFound)

		case errors.Is(err, submitRequest.ErrUserNotFound):
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, submitRequest.ErrConsoleUnavailable):
			handlers.RespondConflict(w, msgConsoleUnavailable)

		case errors.Is(err, submitRequest.ErrConsoleHeld):
			handlers.RespondConflict(w, msgConsoleHeld)

		case errors.Is(err, submitRequest.ErrUserBanned):
			h.logger.Warn("POST /rental-requests - Banned user: user_id=%d", userID)
			handlers.RespondForbidden(w, msgUserBanned)

		case errors.Is(err, submitRequest.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidHours)

		default:
			h.logger.Error("POST /rental-requests - Failed to submit: user_id=%d, console_id=%s, error=%v", userID, req.ConsoleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rental-requests - Request submitted: request_id=%s, status=%s", result.Request.ID, result.Request.Status)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
