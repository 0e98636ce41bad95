package get_user_rentals

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
)

type RentalService interface {
	ListByUser(ctx context.Context, req *models.ListUserRentalsRequest) (*models.RentalListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
