package consoles

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/consoles/models"
)

type ConsoleService interface {
	List(ctx context.Context, status *string) (*models.ConsoleListResponse, error)
	Get(ctx context.Context, id string) (*models.ConsoleResponse, error)
	Create(ctx context.Context, req *models.CreateConsoleRequest) (*models.ConsoleResponse, error)
	Delete(ctx context.Context, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
