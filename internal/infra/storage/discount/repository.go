package discount

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/psqlbuilder"
)

var discountColumns = []string{
	"id",
	"console_id",
	"type",
	"value",
	"start_date",
	"end_date",
	"min_hours",
	"active",
	"description",
	"created_at",
}

// Repository репозиторий скидок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория скидок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую скидку
func (r *Repository) Create(ctx context.Context, discount *domain.Discount) (*domain.Discount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("discounts").
		Columns(
			"id",
			"console_id",
			"type",
			"value",
			"start_date",
			"end_date",
			"min_hours",
			"active",
			"description",
		).
		Values(
			discount.ID,
			discount.ConsoleID,
			discount.Type,
			discount.Value,
			discount.StartDate,
			discount.EndDate,
			discount.MinHours,
			discount.Active,
			discount.Description,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&discount.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return discount, nil
}

// GetByID получает скидку по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Discount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(discountColumns...).
		From("discounts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	discount, err := scanDiscount(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrDiscountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan discount: %v", ErrScanRow, err)
	}

	return discount, nil
}

// List возвращает скидки, опционально только для одной консоли
func (r *Repository) List(ctx context.Context, consoleID *string) ([]*domain.Discount, error) {
	builder := psqlbuilder.Select(discountColumns...).
		From("discounts").
		OrderBy("start_date DESC", "created_at DESC")
	if consoleID != nil {
		builder = builder.Where(squirrel.Eq{"console_id": *consoleID})
	}
	return r.list(ctx, "List", builder)
}

// ListActiveByConsole возвращает включенные скидки консоли; окно действия проверяет сервис
func (r *Repository) ListActiveByConsole(ctx context.Context, consoleID string) ([]*domain.Discount, error) {
	builder := psqlbuilder.Select(discountColumns...).
		From("discounts").
		Where(squirrel.Eq{"console_id": consoleID, "active": true}).
		OrderBy("start_date DESC")
	return r.list(ctx, "ListActiveByConsole", builder)
}

// SetActive включает или выключает скидку
func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("discounts").
		Set("active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, executor, "SetActive", query, args)
}

// Delete удаляет скидку
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("discounts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, executor, "Delete", query, args)
}

func (r *Repository) execAffecting(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrDiscountNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, method string, builder squirrel.SelectBuilder) ([]*domain.Discount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	discounts := make([]*domain.Discount, 0)
	for rows.Next() {
		discount, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		discounts = append(discounts, discount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return discounts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDiscount(row rowScanner) (*domain.Discount, error) {
	var d domain.Discount
	var description sql.NullString

	err := row.Scan(
		&d.ID,
		&d.ConsoleID,
		&d.Type,
		&d.Value,
		&d.StartDate,
		&d.EndDate,
		&d.MinHours,
		&d.Active,
		&description,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		d.Description = &description.String
	}

	return &d, nil
}
