package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/psqlbuilder"
)

var userColumns = []string{
	"id",
	"phone",
	"full_name",
	"registration_step",
	"is_banned",
	"total_spent",
	"loyalty_bonus",
	"promotion_participation",
	"joined_at",
	"verification_step",
	"pending_rental_id",
	"updated_at",
}

// Repository репозиторий клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create регистрирует клиента
func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("users").
		Columns(
			"id",
			"phone",
			"full_name",
			"registration_step",
			"promotion_participation",
		).
		Values(
			user.ID,
			user.Phone,
			user.FullName,
			user.RegistrationStep,
			user.PromotionParticipation,
		).
		Suffix("RETURNING joined_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&user.JoinedAt, &user.UpdatedAt)
	if pgerrors.IsUniqueViolation(err) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return user, nil
}

// GetByID получает клиента по ID. Внутри транзакции строка блокируется
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	user, err := scanUser(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan user: %v", ErrScanRow, err)
	}

	return user, nil
}

// List возвращает всех клиентов в порядке регистрации
func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(userColumns...).
		From("users").
		OrderBy("joined_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return users, nil
}

// SetBanned блокирует или разблокирует клиента
func (r *Repository) SetBanned(ctx context.Context, id int64, banned bool) error {
	return r.update(ctx, "SetBanned", id, map[string]interface{}{"is_banned": banned})
}

// AddTotalSpent увеличивает сумму оплаченных аренд
func (r *Repository) AddTotalSpent(ctx context.Context, id int64, amount float64) error {
	return r.update(ctx, "AddTotalSpent", id, map[string]interface{}{
		"total_spent": squirrel.Expr("total_spent + ?", amount),
	})
}

// SetLoyaltyBonus сохраняет ручной бонус лояльности
func (r *Repository) SetLoyaltyBonus(ctx context.Context, id int64, bonus int) error {
	return r.update(ctx, "SetLoyaltyBonus", id, map[string]interface{}{"loyalty_bonus": bonus})
}

// SetVerification сохраняет шаг проверки документов и аренду, к которой он относится
// nil значения очищают поля
func (r *Repository) SetVerification(ctx context.Context, id int64, step *domain.VerificationStep, pendingRentalID *string) error {
	return r.update(ctx, "SetVerification", id, map[string]interface{}{
		"verification_step": step,
		"pending_rental_id": pendingRentalID,
	})
}

// Delete удаляет клиента; заявки, аренды и рейтинги удаляются каскадно
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("users").
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
		return ErrUserNotFound
	}

	return nil
}

func (r *Repository) update(ctx context.Context, method string, id int64, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("users").
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var phone, fullName, verificationStep, pendingRentalID sql.NullString

	err := row.Scan(
		&u.ID,
		&phone,
		&fullName,
		&u.RegistrationStep,
		&u.IsBanned,
		&u.TotalSpent,
		&u.LoyaltyBonus,
		&u.PromotionParticipation,
		&u.JoinedAt,
		&verificationStep,
		&pendingRentalID,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	if verificationStep.Valid {
		step := domain.VerificationStep(verificationStep.String)
		u.VerificationStep = &step
	}
	if pendingRentalID.Valid {
		u.PendingRentalID = &pendingRentalID.String
	}

	return &u, nil
}
