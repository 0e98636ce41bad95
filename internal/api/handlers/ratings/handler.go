package ratings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidUserID      = "некорректный ID пользователя"
	msgInvalidLimit       = "некорректный параметр limit"
	msgForbidden          = "доступ запрещен"
	msgUserNotFound       = "пользователь не найден"
	msgRentalNotFound     = "аренда не найдена"
	msgRentalNotFinished  = "аренда еще не завершена"
	msgAlreadyRated       = "аренда уже оценена"
	msgInvalidRating      = "некорректные параметры рейтинга"

	defaultLimit = 50
	maxLimit     = 500
)

type Handler struct {
	service RatingService
	logger  Logger
}

func NewHandler(service RatingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetUserRating GET /api/v1/users/{userId}/rating
// Клиент видит только свой рейтинг, администратор любой
func (h *Handler) GetUserRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetUserRating(r.Context(), userID)
	if err != nil {
		h.respondError(w, "GET /users/{id}/rating", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// History GET /api/v1/users/{userId}/rating/history?limit=
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUser(w, r)
	if !ok {
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidLimit)
		return
	}

	result, err := h.service.History(r.Context(), userID, limit)
	if err != nil {
		h.respondError(w, "GET /users/{id}/rating/history", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListRatings GET /api/v1/admin/ratings
func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListRatings(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/ratings", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListTransactions GET /api/v1/admin/ratings/transactions?userId=&limit=
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var userID *int64
	if raw := handlers.QueryString(r, "userId"); raw != nil {
		id, err := strconv.ParseInt(*raw, 10, 64)
		if err != nil || id <= 0 {
			handlers.RespondBadRequest(w, msgInvalidUserID)
			return
		}
		userID = &id
	}

	limit, err := parseLimit(r)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidLimit)
		return
	}

	result, err := h.service.ListTransactions(r.Context(), userID, limit)
	if err != nil {
		h.respondError(w, "GET /admin/ratings/transactions", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// AddTransaction POST /api/v1/admin/ratings/transactions
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var req AddTransactionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/ratings/transactions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.service.AddTransaction(r.Context(), &models.AddTransactionRequest{
		UserID:         req.UserID,
		RentalID:       req.RentalID,
		ReturnTiming:   req.ReturnTiming,
		ItemCondition:  req.ItemCondition,
		RuleCompliance: req.RuleCompliance,
		Notes:          req.Notes,
		CreatedBy:      adminID,
	})
	if err != nil {
		h.respondError(w, "POST /admin/ratings/transactions", err)
		return
	}

	h.logger.Info("POST /admin/ratings/transactions - Transaction added: user_id=%d, admin_id=%d, status=%s",
		req.UserID, adminID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// AdjustLoyaltyBonus POST /api/v1/admin/users/{userId}/loyalty-bonus
func (h *Handler) AdjustLoyaltyBonus(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil || userID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	var req LoyaltyBonusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.service.AdjustLoyaltyBonus(r.Context(), userID, req.Delta, req.Reason)
	if err != nil {
		h.respondError(w, "POST /admin/users/{id}/loyalty-bonus", err)
		return
	}

	h.logger.Info("POST /admin/users/{id}/loyalty-bonus - Bonus adjusted: user_id=%d, delta=%d", userID, req.Delta)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// GetRules GET /api/v1/admin/ratings/rules
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.GetRules(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/ratings/rules", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rules)
}

// UpdateRules PUT /api/v1/admin/ratings/rules
func (h *Handler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var req domain.RatingRules
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/ratings/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rules, err := h.service.UpdateRules(r.Context(), &req)
	if err != nil {
		h.respondError(w, "PUT /admin/ratings/rules", err)
		return
	}

	h.logger.Info("PUT /admin/ratings/rules - Rules updated")
	handlers.RespondJSON(w, http.StatusOK, rules)
}

// RecordManualRating POST /api/v1/admin/ratings/manual
func (h *Handler) RecordManualRating(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var req ManualRatingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	result, err := h.service.RecordManualRating(r.Context(), &models.ManualRatingRequest{
		RentalID:         req.RentalID,
		ConsoleCondition: req.ConsoleCondition,
		RuleCompliance:   req.RuleCompliance,
		ReturnTiming:     req.ReturnTiming,
		Comment:          req.Comment,
		CreatedBy:        adminID,
	})
	if err != nil {
		h.respondError(w, "POST /admin/ratings/manual", err)
		return
	}

	h.logger.Info("POST /admin/ratings/manual - Rental rated: rental_id=%s, score=%.2f", req.RentalID, result.UserManualScore)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// RentalsAwaitingRating GET /api/v1/admin/ratings/pending
func (h *Handler) RentalsAwaitingRating(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RentalsAwaitingRating(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/ratings/pending", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// targetUser ID клиента из пути; чужой рейтинг доступен только администратору
func (h *Handler) targetUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, false
	}

	userID, err := handlers.PathInt64(r, "userId")
	if err != nil || userID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return 0, false
	}

	if userID != callerID && !middleware.IsAdmin(r.Context()) {
		handlers.RespondForbidden(w, msgForbidden)
		return 0, false
	}

	return userID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, rating.ErrUserNotFound):
		handlers.RespondNotFound(w, msgUserNotFound)

	case errors.Is(err, rating.ErrRentalNotFound):
		handlers.RespondNotFound(w, msgRentalNotFound)

	case errors.Is(err, rating.ErrRentalNotFinished):
		handlers.RespondConflict(w, msgRentalNotFinished)

	case errors.Is(err, rating.ErrAlreadyRated):
		handlers.RespondConflict(w, msgAlreadyRated)

	case errors.Is(err, rating.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRating)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}

func parseLimit(r *http.Request) (uint64, error) {
	raw := handlers.QueryString(r, "limit")
	if raw == nil {
		return defaultLimit, nil
	}

	limit, err := strconv.ParseUint(*raw, 10, 64)
	if err != nil || limit == 0 {
		return 0, errors.New("invalid limit")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}
