package reject_request

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	rejectRequest "github.com/m04kA/SMC-ConsoleRental/internal/usecase/reject_request"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgRequestNotFound    = "заявка не найдена"
	msgNotPending         = "заявка уже рассмотрена"
	msgConsoleBusy        = "консоль занята другой операцией, повторите позже"
	msgInvalidReason      = "слишком длинная причина отказа"
)

type Handler struct {
	useCase RejectRequestUseCase
	logger  Logger
}

func NewHandler(useCase RejectRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/rental-requests/{requestId}/reject
// Тело запроса необязательно
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	requestID := handlers.PathString(r, "requestId")

	var req RejectRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /admin/rental-requests/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidReason)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &rejectRequest.Request{
		RequestID: requestID,
		AdminID:   adminID,
		Reason:    req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, rejectRequest.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgRequestNotFound)

		case errors.Is(err, rejectRequest.ErrInvalidTransition):
			handlers.RespondConflict(w, msgNotPending)

		case errors.Is(err, rejectRequest.ErrConsoleBusy):
			handlers.RespondConflict(w, msgConsoleBusy)

		case errors.Is(err, rejectRequest.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidReason)

		default:
			h.logger.Error("POST /admin/rental-requests/{id}/reject - Failed to reject: request_id=%s, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/rental-requests/{id}/reject - Request rejected: request_id=%s, admin_id=%d", requestID, adminID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
