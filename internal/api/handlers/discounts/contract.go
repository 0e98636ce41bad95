package discounts

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/service/discounts/models"
)

type DiscountService interface {
	Create(ctx context.Context, req *models.CreateDiscountRequest) (*models.DiscountResponse, error)
	Get(ctx context.Context, id string) (*models.DiscountResponse, error)
	List(ctx context.Context, consoleID *string) ([]*models.DiscountResponse, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
