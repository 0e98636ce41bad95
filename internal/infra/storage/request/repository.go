package request

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/psqlbuilder"
)

var requestColumns = []string{
	"id",
	"user_id",
	"console_id",
	"selected_hours",
	"expected_cost",
	"request_time",
	"status",
	"rental_id",
	"decided_at",
	"reject_reason",
}

// Repository репозиторий заявок на аренду
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую заявку
func (r *Repository) Create(ctx context.Context, req *domain.RentalRequest) (*domain.RentalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rental_requests").
		Columns(
			"id",
			"user_id",
			"console_id",
			"selected_hours",
			"expected_cost",
			"request_time",
			"status",
			"rental_id",
			"decided_at",
		).
		Values(
			req.ID,
			req.UserID,
			req.ConsoleID,
			req.SelectedHours,
			req.ExpectedCost,
			req.RequestTime,
			req.Status,
			req.RentalID,
			req.DecidedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return req, nil
}

// GetByID получает заявку по ID. Внутри транзакции строка блокируется
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(requestColumns...).
		From("rental_requests").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// GetByRentalID получает заявку, по которой создана аренда
func (r *Repository) GetByRentalID(ctx context.Context, rentalID string) (*domain.RentalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("rental_requests").
		Where(squirrel.Eq{"rental_id": rentalID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRentalID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRentalID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// List возвращает заявки от новых к старым, опционально с фильтром по статусу
func (r *Repository) List(ctx context.Context, status *domain.RequestStatus) ([]*domain.RentalRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(requestColumns...).
		From("rental_requests").
		OrderBy("request_time DESC")
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

	requests := make([]*domain.RentalRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}

// UpdateDecision сохраняет результат рассмотрения заявки
func (r *Repository) UpdateDecision(ctx context.Context, req *domain.RentalRequest) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("rental_requests").
		Set("status", req.Status).
		Set("rental_id", req.RentalID).
		Set("decided_at", req.DecidedAt).
		Set("reject_reason", req.RejectReason).
		Where(squirrel.Eq{"id": req.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.RentalRequest, error) {
	var req domain.RentalRequest
	var selectedHours sql.NullInt64
	var rentalID, rejectReason sql.NullString
	var decidedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.ConsoleID,
		&selectedHours,
		&req.ExpectedCost,
		&req.RequestTime,
		&req.Status,
		&rentalID,
		&decidedAt,
		&rejectReason,
	)
	if err != nil {
		return nil, err
	}

	if selectedHours.Valid {
		hours := int(selectedHours.Int64)
		req.SelectedHours = &hours
	}
	if rentalID.Valid {
		req.RentalID = &rentalID.String
	}
	if decidedAt.Valid {
		req.DecidedAt = &decidedAt.Time
	}
	if rejectReason.Valid {
		req.RejectReason = &rejectReason.String
	}

	return &req, nil
}
