package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
)

type AvailabilityService interface {
	TempReserve(ctx context.Context, userID int64, consoleID string, ttl time.Duration) (*models.TempReservationResponse, error)
	ReleaseTemp(ctx context.Context, userID int64) (bool, error)
	ReserveSlot(ctx context.Context, req *models.ReserveSlotRequest) (*models.ReservationResponse, error)
	ReleaseSlot(ctx context.Context, reservationID string) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
