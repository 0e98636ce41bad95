package get_rental

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
)

type RentalService interface {
	GetByID(ctx context.Context, req *models.GetRentalRequest) (*models.RentalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
