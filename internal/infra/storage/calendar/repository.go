package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ConsoleRental/pkg/types"
)

// Repository репозиторий календаря: рабочие дни и слоты, праздники,
// заблокированные даты и бронирования слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSettings возвращает настройки календаря; если они не сохранены, возвращает значения по умолчанию
func (r *Repository) GetSettings(ctx context.Context) (*domain.CalendarSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("working_days", "time_slots", "updated_at").
		From("calendar_settings").
		Where(squirrel.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var days pq.Int64Array
	var slots pq.StringArray
	var updatedAt time.Time

	err = executor.QueryRowContext(ctx, query, args...).Scan(&days, &slots, &updatedAt)
	if err == sql.ErrNoRows {
		return domain.DefaultCalendarSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	settings := &domain.CalendarSettings{
		WorkingDays: make([]int, 0, len(days)),
		TimeSlots:   make([]types.TimeString, 0, len(slots)),
		UpdatedAt:   updatedAt,
	}
	for _, d := range days {
		settings.WorkingDays = append(settings.WorkingDays, int(d))
	}
	for _, s := range slots {
		settings.TimeSlots = append(settings.TimeSlots, types.TimeString(s))
	}

	return settings, nil
}

// SaveSettings сохраняет рабочие дни и каталог слотов
func (r *Repository) SaveSettings(ctx context.Context, settings *domain.CalendarSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days := make(pq.Int64Array, 0, len(settings.WorkingDays))
	for _, d := range settings.WorkingDays {
		days = append(days, int64(d))
	}
	slots := make(pq.StringArray, 0, len(settings.TimeSlots))
	for _, s := range settings.TimeSlots {
		slots = append(slots, s.String())
	}

	query, args, err := psqlbuilder.Insert("calendar_settings").
		Columns("id", "working_days", "time_slots").
		Values(1, days, slots).
		Suffix("ON CONFLICT (id) DO UPDATE SET working_days = EXCLUDED.working_days, time_slots = EXCLUDED.time_slots, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveSettings - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveSettings - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// AddHoliday сохраняет праздник. Повтор даты возвращает ErrHolidayExists
func (r *Repository) AddHoliday(ctx context.Context, holiday *domain.Holiday) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holidays").
		Columns("date", "name", "working").
		Values(holiday.Date, holiday.Name, holiday.Working).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddHoliday - build insert query: %v", ErrBuildQuery, err)
	}

	_, err = executor.ExecContext(ctx, query, args...)
	if pgerrors.IsUniqueViolation(err) {
		return ErrHolidayExists
	}
	if err != nil {
		return fmt.Errorf("%w: AddHoliday - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// RemoveHoliday удаляет праздник на дату
func (r *Repository) RemoveHoliday(ctx context.Context, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holidays").
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RemoveHoliday - build delete query: %v", ErrBuildQuery, err)
	}

	removed, err := execCount(ctx, executor, "RemoveHoliday", query, args)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrHolidayNotFound
	}

	return nil
}

// ListHolidays возвращает праздники по возрастанию даты
func (r *Repository) ListHolidays(ctx context.Context) ([]*domain.Holiday, error) {
	const method = "ListHolidays"
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "name", "working").
		From("holidays").
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	holidays := make([]*domain.Holiday, 0)
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.Date, &h.Name, &h.Working); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		holidays = append(holidays, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return holidays, nil
}

// BlockDate блокирует дату для консоли или для всех консолей (consoleID = nil)
func (r *Repository) BlockDate(ctx context.Context, block *domain.BlockedDate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_dates").
		Columns("console_id", "date", "reason").
		Values(block.ConsoleID, block.Date, block.Reason).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: BlockDate - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.CreatedAt)
	if pgerrors.IsUniqueViolation(err) {
		return ErrAlreadyBlocked
	}
	if err != nil {
		return fmt.Errorf("%w: BlockDate - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// UnblockDate снимает блокировку. Возвращает false, если блокировки не было
func (r *Repository) UnblockDate(ctx context.Context, consoleID *string, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_dates").
		Where(squirrel.Eq{"console_id": consoleID, "date": date}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: UnblockDate - build delete query: %v", ErrBuildQuery, err)
	}

	removed, err := execCount(ctx, executor, "UnblockDate", query, args)
	if err != nil {
		return false, err
	}

	return removed > 0, nil
}

// ListBlockedDates возвращает блокировки по возрастанию даты
// consoleID = nil: только общесистемные блокировки
func (r *Repository) ListBlockedDates(ctx context.Context, consoleID *string) ([]*domain.BlockedDate, error) {
	return r.listBlocked(ctx, "ListBlockedDates", squirrel.Eq{"console_id": consoleID})
}

// ListBlocksBetween возвращает блокировки в интервале дат включительно
func (r *Repository) ListBlocksBetween(ctx context.Context, consoleID *string, from, to time.Time) ([]*domain.BlockedDate, error) {
	scope := squirrel.Or{squirrel.Eq{"console_id": nil}}
	if consoleID != nil {
		scope = append(scope, squirrel.Eq{"console_id": *consoleID})
	}
	return r.listBlocked(ctx, "ListBlocksBetween", squirrel.And{
		scope,
		squirrel.GtOrEq{"date": from},
		squirrel.LtOrEq{"date": to},
	})
}

func (r *Repository) listBlocked(ctx context.Context, method string, where squirrel.Sqlizer) ([]*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("console_id", "date", "reason", "created_at").
		From("blocked_dates").
		Where(where).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	blocks := make([]*domain.BlockedDate, 0)
	for rows.Next() {
		var b domain.BlockedDate
		var consoleID, reason sql.NullString
		if err := rows.Scan(&consoleID, &b.Date, &reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		if consoleID.Valid {
			b.ConsoleID = &consoleID.String
		}
		if reason.Valid {
			b.Reason = &reason.String
		}
		blocks = append(blocks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return blocks, nil
}

// CreateReservation бронирует слот. Занятый слот возвращает ErrSlotTaken
func (r *Repository) CreateReservation(ctx context.Context, res *domain.SlotReservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_reservations").
		Columns("id", "console_id", "user_id", "date", "time_slot", "duration_hours", "status", "notes").
		Values(res.ID, res.ConsoleID, res.UserID, res.Date, res.TimeSlot, res.DurationHours, res.Status, res.Notes).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateReservation - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.CreatedAt)
	if pgerrors.IsUniqueViolation(err) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("%w: CreateReservation - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteReservation удаляет бронирование. Возвращает false, если удалять нечего
func (r *Repository) DeleteReservation(ctx context.Context, id string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: DeleteReservation - build delete query: %v", ErrBuildQuery, err)
	}

	removed, err := execCount(ctx, executor, "DeleteReservation", query, args)
	if err != nil {
		return false, err
	}

	return removed > 0, nil
}

// ListHeldReservations возвращает действующие бронирования консоли в интервале дат включительно
func (r *Repository) ListHeldReservations(ctx context.Context, consoleID string, from, to time.Time) ([]*domain.SlotReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"console_id",
		"user_id",
		"date",
		"time_slot",
		"duration_hours",
		"status",
		"notes",
		"created_at",
	).
		From("slot_reservations").
		Where(squirrel.Eq{"console_id": consoleID, "status": domain.SlotReserved}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC", "time_slot ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListHeldReservations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHeldReservations - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.SlotReservation, 0)
	for rows.Next() {
		var res domain.SlotReservation
		var notes sql.NullString
		err := rows.Scan(
			&res.ID,
			&res.ConsoleID,
			&res.UserID,
			&res.Date,
			&res.TimeSlot,
			&res.DurationHours,
			&res.Status,
			&notes,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListHeldReservations - scan row: %v", ErrScanRow, err)
		}
		if notes.Valid {
			res.Notes = &notes.String
		}
		reservations = append(reservations, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHeldReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

func execCount(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) (int64, error) {
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
