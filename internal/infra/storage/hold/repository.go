package hold

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/psqlbuilder"
)

var holdColumns = []string{"id", "user_id", "console_id", "status", "created_at", "expires_at"}

// Repository репозиторий временных удержаний консолей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория удержаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Replace удаляет удержание клиента, если оно было, и сохраняет новое
// Вызывается внутри транзакции: у клиента не больше одного удержания
func (r *Repository) Replace(ctx context.Context, hold *domain.TempReservation) error {
	if _, err := r.DeleteByUser(ctx, hold.UserID); err != nil {
		return err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("temp_reservations").
		Columns(holdColumns...).
		Values(hold.ID, hold.UserID, hold.ConsoleID, hold.Status, hold.CreatedAt, hold.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteByUser снимает удержание клиента. Возвращает false, если удержания не было
func (r *Repository) DeleteByUser(ctx context.Context, userID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("temp_reservations").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: DeleteByUser - build delete query: %v", ErrBuildQuery, err)
	}

	removed, err := r.exec(ctx, executor, "DeleteByUser", query, args)
	if err != nil {
		return false, err
	}

	return removed > 0, nil
}

// DeleteByUserAndConsole снимает удержание клиента, только если оно относится к консоли
func (r *Repository) DeleteByUserAndConsole(ctx context.Context, userID int64, consoleID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("temp_reservations").
		Where(squirrel.Eq{"user_id": userID, "console_id": consoleID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: DeleteByUserAndConsole - build delete query: %v", ErrBuildQuery, err)
	}

	removed, err := r.exec(ctx, executor, "DeleteByUserAndConsole", query, args)
	if err != nil {
		return false, err
	}

	return removed > 0, nil
}

// DeleteExpired удаляет удержания, истекшие к моменту now
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("temp_reservations").
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "DeleteExpired", query, args)
}

// FindByConsole возвращает действующее удержание консоли другим клиентом или nil
func (r *Repository) FindByConsole(ctx context.Context, consoleID string, excludeUserID *int64, now time.Time) (*domain.TempReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(holdColumns...).
		From("temp_reservations").
		Where(squirrel.Eq{"console_id": consoleID, "status": domain.TempReservationActive}).
		Where(squirrel.GtOrEq{"expires_at": now}).
		OrderBy("created_at ASC").
		Limit(1)
	if excludeUserID != nil {
		builder = builder.Where(squirrel.NotEq{"user_id": *excludeUserID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByConsole - build select query: %v", ErrBuildQuery, err)
	}

	var h domain.TempReservation
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&h.ID,
		&h.UserID,
		&h.ConsoleID,
		&h.Status,
		&h.CreatedAt,
		&h.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindByConsole - scan hold: %v", ErrScanRow, err)
	}

	return &h, nil
}

func (r *Repository) exec(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	return rowsAffected, nil
}
