package rating

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

var transactionColumns = []string{
	"id",
	"user_id",
	"rental_id",
	"return_timing",
	"item_condition",
	"rule_compliance",
	"notes",
	"created_by",
	"created_at",
}

var ratingColumns = []string{
	"user_id",
	"discipline",
	"loyalty",
	"final_score",
	"status",
	"scheme",
	"calculated_at",
}

var manualColumns = []string{
	"id",
	"rental_id",
	"user_id",
	"console_condition",
	"rule_compliance",
	"return_timing",
	"comment",
	"created_by",
	"created_at",
}

// Repository репозиторий рейтинга: транзакции, снимки, история и ручные оценки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория рейтинга
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// AddTransaction добавляет запись об итогах аренды
func (r *Repository) AddTransaction(ctx context.Context, tx *domain.RatingTransaction) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rating_transactions").
		Columns(transactionColumns...).
		Values(
			tx.ID,
			tx.UserID,
			tx.RentalID,
			tx.ReturnTiming,
			tx.ItemCondition,
			tx.RuleCompliance,
			tx.Notes,
			tx.CreatedBy,
			tx.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddTransaction - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddTransaction - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteRentalTransactions удаляет записи, созданные для аренды. Возвращает количество удаленных
func (r *Repository) DeleteRentalTransactions(ctx context.Context, rentalID string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("rating_transactions").
		Where(squirrel.Eq{"rental_id": rentalID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteRentalTransactions - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteRentalTransactions - execute delete: %v", ErrExecQuery, err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteRentalTransactions - get rows affected: %v", ErrExecQuery, err)
	}

	return removed, nil
}

// ListTransactions возвращает транзакции от новых к старым
// userID = nil: по всем клиентам, limit = 0: без ограничения
func (r *Repository) ListTransactions(ctx context.Context, userID *int64, limit uint64) ([]*domain.RatingTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(transactionColumns...).
		From("rating_transactions").
		OrderBy("created_at DESC", "id ASC")
	if userID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *userID})
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTransactions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTransactions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	txs := make([]*domain.RatingTransaction, 0)
	for rows.Next() {
		var tx domain.RatingTransaction
		var rentalID, notes sql.NullString
		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&rentalID,
			&tx.ReturnTiming,
			&tx.ItemCondition,
			&tx.RuleCompliance,
			&notes,
			&tx.CreatedBy,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTransactions - scan row: %v", ErrScanRow, err)
		}
		if rentalID.Valid {
			tx.RentalID = &rentalID.String
		}
		if notes.Valid {
			tx.Notes = &notes.String
		}
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTransactions - rows error: %v", ErrScanRow, err)
	}

	return txs, nil
}

// SaveRating сохраняет последний рассчитанный рейтинг клиента
func (r *Repository) SaveRating(ctx context.Context, rating *domain.UserRating) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("user_ratings").
		Columns(ratingColumns...).
		Values(
			rating.UserID,
			rating.Discipline,
			rating.Loyalty,
			rating.FinalScore,
			rating.Status,
			rating.Scheme,
			rating.CalculatedAt,
		).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			discipline = EXCLUDED.discipline,
			loyalty = EXCLUDED.loyalty,
			final_score = EXCLUDED.final_score,
			status = EXCLUDED.status,
			scheme = EXCLUDED.scheme,
			calculated_at = EXCLUDED.calculated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveRating - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveRating - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetRating возвращает сохраненный рейтинг клиента
func (r *Repository) GetRating(ctx context.Context, userID int64) (*domain.UserRating, error) {
	ratings, err := r.listRatings(ctx, "GetRating", squirrel.Eq{"user_id": userID})
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, ErrRatingNotFound
	}
	return ratings[0], nil
}

// ListRatings возвращает рейтинги всех клиентов по убыванию итогового балла
func (r *Repository) ListRatings(ctx context.Context) ([]*domain.UserRating, error) {
	return r.listRatings(ctx, "ListRatings", nil)
}

func (r *Repository) listRatings(ctx context.Context, method string, where squirrel.Sqlizer) ([]*domain.UserRating, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(ratingColumns...).
		From("user_ratings").
		OrderBy("final_score DESC", "user_id ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	ratings := make([]*domain.UserRating, 0)
	for rows.Next() {
		var ur domain.UserRating
		err := rows.Scan(
			&ur.UserID,
			&ur.Discipline,
			&ur.Loyalty,
			&ur.FinalScore,
			&ur.Status,
			&ur.Scheme,
			&ur.CalculatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		ratings = append(ratings, &ur)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return ratings, nil
}

// AddHistory добавляет снимок рейтинга в историю
func (r *Repository) AddHistory(ctx context.Context, entry *domain.RatingHistoryEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rating_history").
		Columns(
			"user_id",
			"scheme",
			"score",
			"status",
			"discipline",
			"loyalty",
			"bonus_reason",
			"bonus_amount",
			"created_at",
		).
		Values(
			entry.UserID,
			entry.Scheme,
			entry.Score,
			entry.Status,
			entry.Discipline,
			entry.Loyalty,
			entry.BonusReason,
			entry.BonusAmount,
			entry.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID); err != nil {
		return fmt.Errorf("%w: AddHistory - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListHistory возвращает историю рейтинга клиента от новых записей к старым
func (r *Repository) ListHistory(ctx context.Context, userID int64, limit uint64) ([]*domain.RatingHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"id",
		"user_id",
		"scheme",
		"score",
		"status",
		"discipline",
		"loyalty",
		"bonus_reason",
		"bonus_amount",
		"created_at",
	).
		From("rating_history").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.RatingHistoryEntry, 0)
	for rows.Next() {
		var e domain.RatingHistoryEntry
		var status, bonusReason sql.NullString
		var discipline, loyalty, bonusAmount sql.NullInt64
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Scheme,
			&e.Score,
			&status,
			&discipline,
			&loyalty,
			&bonusReason,
			&bonusAmount,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListHistory - scan row: %v", ErrScanRow, err)
		}
		if status.Valid {
			tier := domain.StatusTier(status.String)
			e.Status = &tier
		}
		e.Discipline = intPtr(discipline)
		e.Loyalty = intPtr(loyalty)
		e.BonusAmount = intPtr(bonusAmount)
		if bonusReason.Valid {
			e.BonusReason = &bonusReason.String
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHistory - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// CreateManualRating сохраняет ручную оценку аренды. Повторная оценка возвращает ErrAlreadyRated
func (r *Repository) CreateManualRating(ctx context.Context, m *domain.ManualRating) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("manual_ratings").
		Columns(manualColumns...).
		Values(
			m.ID,
			m.RentalID,
			m.UserID,
			m.ConsoleCondition,
			m.RuleCompliance,
			m.ReturnTiming,
			m.Comment,
			m.CreatedBy,
			m.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateManualRating - build insert query: %v", ErrBuildQuery, err)
	}

	_, err = executor.ExecContext(ctx, query, args...)
	if pgerrors.IsUniqueViolation(err) {
		return ErrAlreadyRated
	}
	if err != nil {
		return fmt.Errorf("%w: CreateManualRating - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListManualRatings возвращает ручные оценки клиента
func (r *Repository) ListManualRatings(ctx context.Context, userID int64) ([]*domain.ManualRating, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(manualColumns...).
		From("manual_ratings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListManualRatings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListManualRatings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ratings := make([]*domain.ManualRating, 0)
	for rows.Next() {
		var m domain.ManualRating
		var comment sql.NullString
		err := rows.Scan(
			&m.ID,
			&m.RentalID,
			&m.UserID,
			&m.ConsoleCondition,
			&m.RuleCompliance,
			&m.ReturnTiming,
			&comment,
			&m.CreatedBy,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListManualRatings - scan row: %v", ErrScanRow, err)
		}
		if comment.Valid {
			m.Comment = &comment.String
		}
		ratings = append(ratings, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListManualRatings - rows error: %v", ErrScanRow, err)
	}

	return ratings, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
