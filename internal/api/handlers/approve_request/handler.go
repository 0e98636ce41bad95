package approve_request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	approveRequest "github.com/m04kA/SMC-ConsoleRental/internal/usecase/approve_request"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidAutoReject  = "параметр autoReject должен быть true или false"
	msgRequestNotFound    = "заявка не найдена"
	msgNotPending         = "заявка уже рассмотрена"
	msgConsoleNotFound    = "консоль не найдена"
	msgConsoleUnavailable = "консоль уже арендована"
	msgInvalidRequest     = "некорректные параметры запроса"
)

type Handler struct {
	useCase ApproveRequestUseCase
	logger  Logger
}

func NewHandler(useCase ApproveRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/rental-requests/{requestId}/approve
// Query params: autoReject (optional) - отклонить заявку, если консоль занята
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	requestID := handlers.PathString(r, "requestId")

	autoReject := false
	if raw := r.URL.Query().Get("autoReject"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidAutoReject)
			return
		}
		autoReject = parsed
	}

	result, err := h.useCase.Execute(r.Context(), &approveRequest.Request{
		RequestID:  requestID,
		AdminID:    adminID,
		AutoReject: autoReject,
	})
	if err != nil {
		switch {
		case errors.Is(err, approveRequest.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgRequestNotFound)

		case errors.Is(err, approveRequest.ErrInvalidTransition):
			handlers.RespondConflict(w, msgNotPending)

		case errors.Is(err, approveRequest.ErrConsoleNotFound):
			handlers.RespondNotFound(w, msgConsoleNotFound)

		case errors.Is(err, approveRequest.ErrConsoleUnavailable):
			h.logger.Warn("POST /admin/rental-requests/{id}/approve - Console unavailable: request_id=%s", requestID)
			handlers.RespondConflict(w, msgConsoleUnavailable)

		case errors.Is(err, approveRequest.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /admin/rental-requests/{id}/approve - Failed to approve: request_id=%s, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/rental-requests/{id}/approve - Request decided: request_id=%s, admin_id=%d, auto_rejected=%t",
		requestID, adminID, result.AutoRejected)
	handlers.RespondJSON(w, http.StatusOK, result)
}
