package console

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/psqlbuilder"
)

var consoleColumns = []string{
	"id",
	"name",
	"model",
	"games",
	"rental_price",
	"sale_price",
	"status",
	"photo_path",
	"show_photo_in_bot",
	"created_at",
	"updated_at",
}

// Repository репозиторий консолей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория консолей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую консоль
func (r *Repository) Create(ctx context.Context, console *domain.Console) (*domain.Console, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("consoles").
		Columns(
			"id",
			"name",
			"model",
			"games",
			"rental_price",
			"sale_price",
			"status",
			"photo_path",
			"show_photo_in_bot",
		).
		Values(
			console.ID,
			console.Name,
			console.Model,
			pq.Array(console.Games),
			console.RentalPrice,
			console.SalePrice,
			console.Status,
			console.PhotoPath,
			console.ShowPhotoInBot,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&console.CreatedAt, &console.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return console, nil
}

// GetByID получает консоль по ID
// Внутри транзакции строка блокируется (FOR UPDATE): это точка сериализации
// для всех операций, меняющих статус консоли
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Console, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(consoleColumns...).
		From("consoles").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	console, err := scanConsole(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConsoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan console: %v", ErrScanRow, err)
	}

	return console, nil
}

// List возвращает консоли, опционально только с указанным статусом
func (r *Repository) List(ctx context.Context, status *domain.ConsoleStatus) ([]*domain.Console, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(consoleColumns...).
		From("consoles").
		OrderBy("name ASC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	consoles := make([]*domain.Console, 0)
	for rows.Next() {
		console, err := scanConsole(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		consoles = append(consoles, console)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return consoles, nil
}

// UpdateStatus меняет статус консоли
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.ConsoleStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("consoles").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrConsoleNotFound
	}

	return nil
}

// Delete удаляет консоль. Аренды сохраняют ID консоли для истории
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("consoles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrConsoleNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConsole(row rowScanner) (*domain.Console, error) {
	var c domain.Console
	var salePrice sql.NullFloat64
	var photoPath sql.NullString

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Model,
		(*pq.StringArray)(&c.Games),
		&c.RentalPrice,
		&salePrice,
		&c.Status,
		&photoPath,
		&c.ShowPhotoInBot,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if salePrice.Valid {
		c.SalePrice = &salePrice.Float64
	}
	if photoPath.Valid {
		c.PhotoPath = &photoPath.String
	}

	return &c, nil
}
