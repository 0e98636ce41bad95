package consoles

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/consoles"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус консоли"
	msgConsoleNotFound    = "консоль не найдена"
	msgConsoleRented      = "консоль сейчас в аренде"
	msgInvalidConsole     = "некорректные данные консоли"
)

// Handler каталог консолей: публичное чтение и управление администратором
type Handler struct {
	service ConsoleService
	logger  Logger
}

func NewHandler(service ConsoleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/consoles?status=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), handlers.QueryString(r, "status"))
	if err != nil {
		if errors.Is(err, consoles.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /consoles - Failed to list consoles: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/consoles/{consoleId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	consoleID := handlers.PathString(r, "consoleId")

	console, err := h.service.Get(r.Context(), consoleID)
	if err != nil {
		if errors.Is(err, consoles.ErrConsoleNotFound) {
			handlers.RespondNotFound(w, msgConsoleNotFound)
			return
		}
		h.logger.Error("GET /consoles/{id} - Failed to get console: console_id=%s, error=%v", consoleID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, console)
}

// Create POST /api/v1/admin/consoles
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateConsoleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/consoles - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	console, err := h.service.Create(r.Context(), req.ToServiceRequest())
	if err != nil {
		if errors.Is(err, consoles.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidConsole)
			return
		}
		h.logger.Error("POST /admin/consoles - Failed to create console: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/consoles - Console created: console_id=%s", console.ID)
	handlers.RespondJSON(w, http.StatusCreated, console)
}

// Delete DELETE /api/v1/admin/consoles/{consoleId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	consoleID := handlers.PathString(r, "consoleId")

	if err := h.service.Delete(r.Context(), consoleID); err != nil {
		switch {
		case errors.Is(err, consoles.ErrConsoleNotFound):
			handlers.RespondNotFound(w, msgConsoleNotFound)

		case errors.Is(err, consoles.ErrConsoleRented):
			handlers.RespondConflict(w, msgConsoleRented)

		default:
			h.logger.Error("DELETE /admin/consoles/{id} - Failed to delete console: console_id=%s, error=%v", consoleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/consoles/{id} - Console deleted: console_id=%s", consoleID)
	handlers.RespondNoContent(w)
}
