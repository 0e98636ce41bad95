package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
)

type AvailabilityService interface {
	MonthPreview(ctx context.Context, consoleID *string, year int, month time.Month) (*models.MonthPreviewResponse, error)
	DayStatus(ctx context.Context, consoleID string, date time.Time) (*models.DayInfoResponse, error)

	BlockDate(ctx context.Context, consoleID *string, date time.Time, reason *string) error
	UnblockDate(ctx context.Context, consoleID *string, date time.Time) error
	ListBlockedDates(ctx context.Context, consoleID *string) ([]*models.BlockedDateResponse, error)

	AddHoliday(ctx context.Context, date time.Time, name string, working bool) error
	RemoveHoliday(ctx context.Context, date time.Time) error
	ListHolidays(ctx context.Context) ([]*models.HolidayResponse, error)

	GetSettings(ctx context.Context) (*models.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
