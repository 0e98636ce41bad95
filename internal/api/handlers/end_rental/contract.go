package end_rental

import (
	"context"

	endRental "github.com/m04kA/SMC-ConsoleRental/internal/usecase/end_rental"
)

type EndRentalUseCase interface {
	Execute(ctx context.Context, req *endRental.Request) (*endRental.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
