package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/SMC-ConsoleRental/internal/usecase/get_available_slots"
)

const (
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPastDate        = "дата уже прошла"
	msgDateTooFar      = "дата слишком далеко в будущем для вашего уровня"
	msgConsoleNotFound = "консоль не найдена"
	msgInvalidRequest  = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/consoles/{consoleId}/slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consoleID := handlers.PathString(r, "consoleId")

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /consoles/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /consoles/{id}/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		UserID:    middleware.OptionalUserID(r.Context()),
		ConsoleID: consoleID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrConsoleNotFound):
			h.logger.Warn("GET /consoles/{id}/slots - Console not found: console_id=%s", consoleID)
			handlers.RespondNotFound(w, msgConsoleNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /consoles/{id}/slots - Failed to get slots: console_id=%s, error=%v", consoleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /consoles/{id}/slots - Slots retrieved: console_id=%s, date=%s, count=%d",
		consoleID, result.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
