package discounts

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/discounts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDiscountNotFound   = "скидка не найдена"
	msgConsoleNotFound    = "консоль не найдена"
	msgInvalidDiscount    = "некорректные параметры скидки"
)

type Handler struct {
	service DiscountService
	logger  Logger
}

func NewHandler(service DiscountService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/admin/discounts
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDiscountRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/discounts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	discount, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		h.respondError(w, "POST /admin/discounts", err)
		return
	}

	h.logger.Info("POST /admin/discounts - Discount created: discount_id=%s, console_id=%s", discount.ID, discount.ConsoleID)
	handlers.RespondJSON(w, http.StatusCreated, discount)
}

// List GET /api/v1/admin/discounts?consoleId=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), handlers.QueryString(r, "consoleId"))
	if err != nil {
		h.respondError(w, "GET /admin/discounts", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/admin/discounts/{discountId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	discountID := handlers.PathString(r, "discountId")

	discount, err := h.service.Get(r.Context(), discountID)
	if err != nil {
		h.respondError(w, "GET /admin/discounts/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, discount)
}

// SetActive PATCH /api/v1/admin/discounts/{discountId}
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	discountID := handlers.PathString(r, "discountId")

	var req SetActiveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	if err := h.service.SetActive(r.Context(), discountID, *req.Active); err != nil {
		h.respondError(w, "PATCH /admin/discounts/{id}", err)
		return
	}

	h.logger.Info("PATCH /admin/discounts/{id} - Discount updated: discount_id=%s, active=%t", discountID, *req.Active)
	handlers.RespondNoContent(w)
}

// Delete DELETE /api/v1/admin/discounts/{discountId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	discountID := handlers.PathString(r, "discountId")

	if err := h.service.Delete(r.Context(), discountID); err != nil {
		h.respondError(w, "DELETE /admin/discounts/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/discounts/{id} - Discount deleted: discount_id=%s", discountID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, discounts.ErrDiscountNotFound):
		handlers.RespondNotFound(w, msgDiscountNotFound)

	case errors.Is(err, discounts.ErrConsoleNotFound):
		handlers.RespondNotFound(w, msgConsoleNotFound)

	case errors.Is(err, discounts.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDiscount)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
