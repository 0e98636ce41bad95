package reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgConsoleNotFound    = "консоль не найдена"
	msgDateUnavailable    = "дата недоступна для бронирования"
	msgSlotTaken          = "слот уже забронирован"
	msgInvalidData        = "некорректные данные бронирования"
)

// Handler временные удержания и брони слотов клиента
type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Hold POST /api/v1/temp-reservations
// Время удержания берется из настроек
func (h *Handler) Hold(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req TempReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.service.TempReserve(r.Context(), userID, req.ConsoleID, 0)
	if err != nil {
		h.respondError(w, "POST /temp-reservations", err)
		return
	}

	h.logger.Info("POST /temp-reservations - Console held: user_id=%d, console_id=%s, expires_at=%s",
		userID, req.ConsoleID, result.ExpiresAt)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// ReleaseHold DELETE /api/v1/temp-reservations
func (h *Handler) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	released, err := h.service.ReleaseTemp(r.Context(), userID)
	if err != nil {
		h.respondError(w, "DELETE /temp-reservations", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ReleaseResponse{Released: released})
}

// ReserveSlot POST /api/v1/slot-reservations
func (h *Handler) ReserveSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SlotReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	date, err := handlers.ParseDate(req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.ReserveSlot(r.Context(), &models.ReserveSlotRequest{
		ConsoleID:     req.ConsoleID,
		UserID:        userID,
		Date:          date,
		TimeSlot:      req.TimeSlot,
		DurationHours: req.DurationHours,
		Notes:         req.Notes,
	})
	if err != nil {
		h.respondError(w, "POST /slot-reservations", err)
		return
	}

	h.logger.Info("POST /slot-reservations - Slot reserved: reservation_id=%s, user_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// ReleaseSlot DELETE /api/v1/slot-reservations/{reservationId}
func (h *Handler) ReleaseSlot(w http.ResponseWriter, r *http.Request) {
	reservationID := handlers.PathString(r, "reservationId")

	released, err := h.service.ReleaseSlot(r.Context(), reservationID)
	if err != nil {
		h.respondError(w, "DELETE /slot-reservations/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ReleaseResponse{Released: released})
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, availability.ErrConsoleNotFound):
		handlers.RespondNotFound(w, msgConsoleNotFound)

	case errors.Is(err, availability.ErrDateUnavailable):
		handlers.RespondConflict(w, msgDateUnavailable)

	case errors.Is(err, availability.ErrSlotTaken):
		handlers.RespondConflict(w, msgSlotTaken)

	case errors.Is(err, availability.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
