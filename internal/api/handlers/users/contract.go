package users

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/users/models"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error)
	Get(ctx context.Context, id int64) (*models.UserResponse, error)
	List(ctx context.Context) (*models.UserListResponse, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
