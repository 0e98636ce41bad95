package record_return

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	recordReturn "github.com/m04kA/SMC-ConsoleRental/internal/usecase/record_return"
)

type RecordReturnUseCase interface {
	Execute(ctx context.Context, req *recordReturn.Request) (*models.RentalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
