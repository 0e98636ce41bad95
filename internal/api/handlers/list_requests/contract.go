package list_requests

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
)

type RequestService interface {
	ListRequests(ctx context.Context, status *string) (*models.RequestListResponse, error)
	GetRequest(ctx context.Context, id string) (*models.RequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
