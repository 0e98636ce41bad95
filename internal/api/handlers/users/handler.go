package users

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/users"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/users/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidUserID      = "некорректный ID пользователя"
	msgUserNotFound       = "пользователь не найден"
	msgUserExists         = "пользователь уже зарегистрирован"
	msgForbidden          = "доступ запрещен"
	msgInvalidUser        = "некорректные данные пользователя"
)

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register POST /api/v1/users
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	user, err := h.service.Register(r.Context(), &models.RegisterRequest{
		ID:                     userID,
		Phone:                  req.Phone,
		FullName:               req.FullName,
		PromotionParticipation: req.PromotionParticipation,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserExists):
			handlers.RespondConflict(w, msgUserExists)

		case errors.Is(err, users.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidUser)

		default:
			h.logger.Error("POST /users - Failed to register: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /users - User registered: user_id=%d", userID)
	handlers.RespondJSON(w, http.StatusCreated, user)
}

// Get GET /api/v1/users/{userId}
// Клиент видит только себя, администратор любого
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.targetUser(w, r)
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, "GET /users/{id}", userID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user)
}

// List GET /api/v1/admin/users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/users - Failed to list users: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Ban POST /api/v1/admin/users/{userId}/ban
func (h *Handler) Ban(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	var req BanRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	if err := h.service.SetBanned(r.Context(), userID, *req.Banned); err != nil {
		h.respondServiceError(w, "POST /admin/users/{id}/ban", userID, err)
		return
	}

	h.logger.Info("POST /admin/users/{id}/ban - User updated: user_id=%d, banned=%t", userID, *req.Banned)
	handlers.RespondNoContent(w)
}

// Delete DELETE /api/v1/admin/users/{userId}
// Вместе с клиентом удаляются его аренды и заявки
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		h.respondServiceError(w, "DELETE /admin/users/{id}", userID, err)
		return
	}

	h.logger.Info("DELETE /admin/users/{id} - User deleted: user_id=%d", userID)
	handlers.RespondNoContent(w)
}

// targetUser ID клиента из пути с проверкой доступа
func (h *Handler) targetUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, false
	}

	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return 0, false
	}

	if userID != callerID && !middleware.IsAdmin(r.Context()) {
		h.logger.Warn("Access denied: caller_id=%d, user_id=%d", callerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return 0, false
	}

	return userID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, userID int64, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		handlers.RespondNotFound(w, msgUserNotFound)

	case errors.Is(err, users.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidUser)

	default:
		h.logger.Error("%s - Failed: user_id=%d, error=%v", route, userID, err)
		handlers.RespondInternalError(w)
	}
}
