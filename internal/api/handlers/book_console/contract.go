package book_console

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	bookConsole "github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
)

type BookConsoleUseCase interface {
	Execute(ctx context.Context, req *bookConsole.Request) (*models.RentalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
