package calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidYearMonth   = "некорректные год или месяц"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgConsoleNotFound    = "консоль не найдена"
	msgAlreadyBlocked     = "дата уже заблокирована"
	msgNotBlocked         = "дата не заблокирована"
	msgHolidayExists      = "праздник на эту дату уже есть"
	msgHolidayNotFound    = "праздник не найден"
	msgInvalidData        = "некорректные данные календаря"
)

// Handler календарь: публичный просмотр и настройка администратором
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

// ConsoleMonth GET /api/v1/consoles/{consoleId}/calendar?year=&month=
func (h *Handler) ConsoleMonth(w http.ResponseWriter, r *http.Request) {
	consoleID := handlers.PathString(r, "consoleId")
	h.month(w, r, &consoleID)
}

// SystemMonth GET /api/v1/calendar?year=&month=
func (h *Handler) SystemMonth(w http.ResponseWriter, r *http.Request) {
	h.month(w, r, nil)
}

func (h *Handler) month(w http.ResponseWriter, r *http.Request, consoleID *string) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		h.logger.Warn("GET calendar - Invalid year/month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	result, err := h.service.MonthPreview(r.Context(), consoleID, year, month)
	if err != nil {
		h.respondError(w, "GET calendar", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Day GET /api/v1/consoles/{consoleId}/days/{date}
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	consoleID := handlers.PathString(r, "consoleId")

	date, err := handlers.ParseDate(handlers.PathString(r, "date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.DayStatus(r.Context(), consoleID, date)
	if err != nil {
		h.respondError(w, "GET /consoles/{id}/days/{date}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListBlocked GET /api/v1/admin/calendar/blocked-dates?consoleId=
func (h *Handler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListBlockedDates(r.Context(), handlers.QueryString(r, "consoleId"))
	if err != nil {
		h.respondError(w, "GET /admin/calendar/blocked-dates", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Block POST /api/v1/admin/calendar/blocked-dates
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	var req BlockDateRequest
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

	if err := h.service.BlockDate(r.Context(), req.ConsoleID, date, req.Reason); err != nil {
		h.respondError(w, "POST /admin/calendar/blocked-dates", err)
		return
	}

	h.logger.Info("POST /admin/calendar/blocked-dates - Date blocked: date=%s", req.Date)
	handlers.RespondNoContent(w)
}

// Unblock DELETE /api/v1/admin/calendar/blocked-dates?date=&consoleId=
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.UnblockDate(r.Context(), handlers.QueryString(r, "consoleId"), date); err != nil {
		h.respondError(w, "DELETE /admin/calendar/blocked-dates", err)
		return
	}

	handlers.RespondNoContent(w)
}

// ListHolidays GET /api/v1/admin/calendar/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListHolidays(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/calendar/holidays", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// AddHoliday POST /api/v1/admin/calendar/holidays
func (h *Handler) AddHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
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

	if err := h.service.AddHoliday(r.Context(), date, req.Name, req.Working); err != nil {
		h.respondError(w, "POST /admin/calendar/holidays", err)
		return
	}

	h.logger.Info("POST /admin/calendar/holidays - Holiday added: date=%s", req.Date)
	handlers.RespondNoContent(w)
}

// RemoveHoliday DELETE /api/v1/admin/calendar/holidays/{date}
func (h *Handler) RemoveHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDate(handlers.PathString(r, "date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.RemoveHoliday(r.Context(), date); err != nil {
		h.respondError(w, "DELETE /admin/calendar/holidays/{date}", err)
		return
	}

	handlers.RespondNoContent(w)
}

// GetSettings GET /api/v1/admin/calendar/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/calendar/settings", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// UpdateSettings PUT /api/v1/admin/calendar/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.service.UpdateSettings(r.Context(), req.ToServiceRequest())
	if err != nil {
		h.respondError(w, "PUT /admin/calendar/settings", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, availability.ErrConsoleNotFound):
		handlers.RespondNotFound(w, msgConsoleNotFound)

	case errors.Is(err, availability.ErrAlreadyBlocked):
		handlers.RespondConflict(w, msgAlreadyBlocked)

	case errors.Is(err, availability.ErrNotBlocked):
		handlers.RespondNotFound(w, msgNotBlocked)

	case errors.Is(err, availability.ErrHolidayExists):
		handlers.RespondConflict(w, msgHolidayExists)

	case errors.Is(err, availability.ErrHolidayNotFound):
		handlers.RespondNotFound(w, msgHolidayNotFound)

	case errors.Is(err, availability.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}

// parseYearMonth год и месяц из query; по умолчанию текущий месяц UTC
func parseYearMonth(r *http.Request) (int, time.Month, error) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, err
		}
		year = parsed
	}

	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, err
		}
		month = time.Month(parsed)
	}

	return year, month, nil
}
