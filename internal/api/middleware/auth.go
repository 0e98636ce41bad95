package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
)

type contextKey string

const (
	userIDKey  contextKey = "userID"
	isAdminKey contextKey = "isAdmin"

	// UserIDHeader заголовок с Telegram ID клиента
	UserIDHeader = "X-User-ID"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
	msgAdminOnly     = "действие доступно только администратору"
)

// Admins список Telegram ID администраторов
type Admins struct {
	ids map[int64]struct{}
}

func NewAdmins(ids []int64) *Admins {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &Admins{ids: set}
}

func (a *Admins) IsAdmin(id int64) bool {
	_, ok := a.ids[id]
	return ok
}

// Auth читает X-User-ID и кладет ID клиента и признак администратора в контекст
func Auth(admins *Admins) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if raw == "" {
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				handlers.RespondUnauthorized(w, msgInvalidUserID)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, isAdminKey, admins.IsAdmin(userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает только администраторов; ставится после Auth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID ID клиента из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// IsAdmin признак администратора из контекста запроса
func IsAdmin(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(isAdminKey).(bool)
	return isAdmin
}

// WithUser контекст с ID клиента, для тестов обработчиков
func WithUser(ctx context.Context, userID int64, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, isAdminKey, isAdmin)
}

// OptionalAuth как Auth, но запрос без X-User-ID пропускается анонимно
func OptionalAuth(admins *Admins) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		strict := Auth(admins)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(UserIDHeader) == "" {
				next.ServeHTTP(w, r)
				return
			}
			strict.ServeHTTP(w, r)
		})
	}
}

// OptionalUserID ID клиента, если он представился
func OptionalUserID(ctx context.Context) *int64 {
	userID, ok := GetUserID(ctx)
	if !ok {
		return nil
	}
	return &userID
}
