package ratings

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating/models"
)

type RatingService interface {
	GetUserRating(ctx context.Context, userID int64) (*models.UserRatingResponse, error)
	ListRatings(ctx context.Context) ([]*models.UserRatingResponse, error)
	AddTransaction(ctx context.Context, req *models.AddTransactionRequest) (*models.UserRatingResponse, error)
	ListTransactions(ctx context.Context, userID *int64, limit uint64) ([]*models.TransactionResponse, error)
	History(ctx context.Context, userID int64, limit uint64) ([]*models.HistoryEntryResponse, error)
	AdjustLoyaltyBonus(ctx context.Context, userID int64, delta int, reason string) (*models.UserRatingResponse, error)
	GetRules(ctx context.Context) (*domain.RatingRules, error)
	UpdateRules(ctx context.Context, rules *domain.RatingRules) (*domain.RatingRules, error)
	RecordManualRating(ctx context.Context, req *models.ManualRatingRequest) (*models.ManualRatingResponse, error)
	RentalsAwaitingRating(ctx context.Context) ([]*models.PendingRentalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
