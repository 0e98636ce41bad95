package rental

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/psqlbuilder"
)

const activeConsoleConstraint = "uq_rentals_active_console"

var rentalColumns = []string{
	"id",
	"user_id",
	"console_id",
	"request_id",
	"start_time",
	"end_time",
	"expected_end_time",
	"selected_hours",
	"expected_cost",
	"discount_id",
	"discount_amount",
	"total_cost",
	"status",
	"location_lat",
	"location_lng",
	"return_info",
	"rating_id",
	"rated_at",
	"reminder_sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий аренд
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аренд
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую аренду
// Нарушение уникального индекса активных аренд возвращается как ErrConsoleBusy
func (r *Repository) Create(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rentals").
		Columns(
			"id",
			"user_id",
			"console_id",
			"request_id",
			"start_time",
			"expected_end_time",
			"selected_hours",
			"expected_cost",
			"discount_id",
			"discount_amount",
			"total_cost",
			"status",
		).
		Values(
			rental.ID,
			rental.UserID,
			rental.ConsoleID,
			rental.RequestID,
			rental.StartTime,
			rental.ExpectedEndTime,
			rental.SelectedHours,
			rental.ExpectedCost,
			rental.DiscountID,
			rental.DiscountAmount,
			rental.TotalCost,
			rental.Status,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rental.CreatedAt, &rental.UpdatedAt)
	if pgerrors.IsUniqueViolation(err) && pgerrors.ConstraintName(err) == activeConsoleConstraint {
		return nil, ErrConsoleBusy
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return rental, nil
}

// GetByID получает аренду по ID. Внутри транзакции строка блокируется
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(rentalColumns...).
		From("rentals").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rental, err := scanRental(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRentalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rental: %v", ErrScanRow, err)
	}

	return rental, nil
}

// GetActiveByConsole возвращает активную аренду консоли
func (r *Repository) GetActiveByConsole(ctx context.Context, consoleID string) (*domain.Rental, error) {
	rentals, err := r.list(ctx, "GetActiveByConsole", squirrel.Eq{
		"console_id": consoleID,
		"status":     domain.RentalActive,
	}, "start_time DESC")
	if err != nil {
		return nil, err
	}
	if len(rentals) == 0 {
		return nil, ErrRentalNotFound
	}
	return rentals[0], nil
}

// List возвращает аренды от новых к старым, опционально с фильтром по статусу
func (r *Repository) List(ctx context.Context, status *domain.RentalStatus) ([]*domain.Rental, error) {
	var where squirrel.Sqlizer = squirrel.Expr("TRUE")
	if status != nil {
		where = squirrel.Eq{"status": *status}
	}
	return r.list(ctx, "List", where, "start_time DESC")
}

// ListByUser возвращает аренды клиента от новых к старым
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Rental, error) {
	return r.list(ctx, "ListByUser", squirrel.Eq{"user_id": userID}, "start_time DESC")
}

// ListActiveByConsole возвращает активные аренды консоли
func (r *Repository) ListActiveByConsole(ctx context.Context, consoleID string) ([]*domain.Rental, error) {
	return r.list(ctx, "ListActiveByConsole", squirrel.Eq{
		"console_id": consoleID,
		"status":     domain.RentalActive,
	}, "start_time ASC")
}

// ListDueForReminder возвращает активные аренды, которые заканчиваются не позже deadline
// и по которым еще не отправлено напоминание
func (r *Repository) ListDueForReminder(ctx context.Context, deadline time.Time) ([]*domain.Rental, error) {
	return r.list(ctx, "ListDueForReminder", squirrel.And{
		squirrel.Eq{"status": domain.RentalActive},
		squirrel.Eq{"reminder_sent_at": nil},
		squirrel.NotEq{"expected_end_time": nil},
		squirrel.LtOrEq{"expected_end_time": deadline},
	}, "expected_end_time ASC")
}

// ListAwaitingRating возвращает завершенные аренды без ручной оценки
func (r *Repository) ListAwaitingRating(ctx context.Context) ([]*domain.Rental, error) {
	return r.list(ctx, "ListAwaitingRating", squirrel.And{
		squirrel.Eq{"status": []domain.RentalStatus{domain.RentalCompleted, domain.RentalReturned}},
		squirrel.Eq{"rating_id": nil},
	}, "end_time DESC")
}

// CountByUser количество аренд клиента за всё время
func (r *Repository) CountByUser(ctx context.Context, userID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("rentals").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByUser - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByUser - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ActiveConsoleIDs ID консолей, у которых есть активная аренда
func (r *Repository) ActiveConsoleIDs(ctx context.Context) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT console_id").
		From("rentals").
		Where(squirrel.Eq{"status": domain.RentalActive}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveConsoleIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveConsoleIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ActiveConsoleIDs - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ActiveConsoleIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// Update сохраняет изменяемые поля аренды: завершение, геопозицию, приёмку и отметку оценки
func (r *Repository) Update(ctx context.Context, rental *domain.Rental) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var lat, lng *float64
	if rental.Location != nil {
		lat, lng = &rental.Location.Latitude, &rental.Location.Longitude
	}

	query, args, err := psqlbuilder.Update("rentals").
		Set("end_time", rental.EndTime).
		Set("total_cost", rental.TotalCost).
		Set("status", rental.Status).
		Set("location_lat", lat).
		Set("location_lng", lng).
		Set("return_info", rental.ReturnInfo).
		Set("rating_id", rental.RatingID).
		Set("rated_at", rental.RatedAt).
		Set("reminder_sent_at", rental.ReminderSentAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rental.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRentalNotFound
	}

	return nil
}

// SetReminderSent отмечает, что напоминание о возврате отправлено
func (r *Repository) SetReminderSent(ctx context.Context, id string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("rentals").
		Set("reminder_sent_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetReminderSent - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) list(ctx context.Context, method string, where squirrel.Sqlizer, orderBy string) ([]*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(rentalColumns...).
		From("rentals").
		Where(where).
		OrderBy(orderBy).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	rentals := make([]*domain.Rental, 0)
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return rentals, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	var rt domain.Rental
	var requestID, discountID, ratingID sql.NullString
	var endTime, expectedEnd, ratedAt, reminderSentAt sql.NullTime
	var selectedHours sql.NullInt64
	var lat, lng sql.NullFloat64
	var returnInfo []byte

	err := row.Scan(
		&rt.ID,
		&rt.UserID,
		&rt.ConsoleID,
		&requestID,
		&rt.StartTime,
		&endTime,
		&expectedEnd,
		&selectedHours,
		&rt.ExpectedCost,
		&discountID,
		&rt.DiscountAmount,
		&rt.TotalCost,
		&rt.Status,
		&lat,
		&lng,
		&returnInfo,
		&ratingID,
		&ratedAt,
		&reminderSentAt,
		&rt.CreatedAt,
		&rt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if requestID.Valid {
		rt.RequestID = &requestID.String
	}
	if endTime.Valid {
		rt.EndTime = &endTime.Time
	}
	if expectedEnd.Valid {
		rt.ExpectedEndTime = &expectedEnd.Time
	}
	if selectedHours.Valid {
		hours := int(selectedHours.Int64)
		rt.SelectedHours = &hours
	}
	if discountID.Valid {
		rt.DiscountID = &discountID.String
	}
	if lat.Valid && lng.Valid {
		rt.Location = &domain.Location{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	if returnInfo != nil {
		var info domain.ReturnInfo
		if err := info.Scan(returnInfo); err != nil {
			return nil, err
		}
		rt.ReturnInfo = &info
	}
	if ratingID.Valid {
		rt.RatingID = &ratingID.String
	}
	if ratedAt.Valid {
		rt.RatedAt = &ratedAt.Time
	}
	if reminderSentAt.Valid {
		rt.ReminderSentAt = &reminderSentAt.Time
	}

	return &rt, nil
}
