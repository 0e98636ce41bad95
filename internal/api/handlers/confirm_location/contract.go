package confirm_location

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	confirmLocation "github.com/m04kA/SMC-ConsoleRental/internal/usecase/confirm_location"
)

type ConfirmLocationUseCase interface {
	Execute(ctx context.Context, req *confirmLocation.Request) (*models.RentalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
