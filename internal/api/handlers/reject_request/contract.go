package reject_request

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	rejectRequest "github.com/m04kA/SMC-ConsoleRental/internal/usecase/reject_request"
)

type RejectRequestUseCase interface {
	Execute(ctx context.Context, req *rejectRequest.Request) (*models.RequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
