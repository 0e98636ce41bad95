package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsoleRental/pkg/psqlbuilder"
)

// singletonID настройки хранятся одной строкой
const singletonID = 1

// Repository репозиторий настроек проката и правил рейтинга
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки проката
// Если настройки еще не сохранялись, возвращает ErrSettingsNotFound
func (r *Repository) Get(ctx context.Context) (*domain.AdminSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"admin_chat_id",
		"require_approval",
		"notifications_enabled",
		"max_rental_hours",
		"reminder_hours",
		"temp_hold_minutes",
		"updated_at",
	).
		From("admin_settings").
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.AdminSettings
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.AdminChatID,
		&s.RequireApproval,
		&s.NotificationsEnabled,
		&s.MaxRentalHours,
		&s.ReminderHours,
		&s.TempHoldMinutes,
		&s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	return &s, nil
}

// Save создает или обновляет настройки проката
func (r *Repository) Save(ctx context.Context, s *domain.AdminSettings) (*domain.AdminSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("admin_settings").
		Columns(
			"id",
			"admin_chat_id",
			"require_approval",
			"notifications_enabled",
			"max_rental_hours",
			"reminder_hours",
			"temp_hold_minutes",
		).
		Values(
			singletonID,
			s.AdminChatID,
			s.RequireApproval,
			s.NotificationsEnabled,
			s.MaxRentalHours,
			s.ReminderHours,
			s.TempHoldMinutes,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			admin_chat_id = EXCLUDED.admin_chat_id,
			require_approval = EXCLUDED.require_approval,
			notifications_enabled = EXCLUDED.notifications_enabled,
			max_rental_hours = EXCLUDED.max_rental_hours,
			reminder_hours = EXCLUDED.reminder_hours,
			temp_hold_minutes = EXCLUDED.temp_hold_minutes,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	return s, nil
}

// GetRules получает правила рейтинга
// Если правила еще не сохранялись, возвращает ErrSettingsNotFound
func (r *Repository) GetRules(ctx context.Context) (*domain.RatingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("rules").
		From("rating_rules").
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - build select query: %v", ErrBuildQuery, err)
	}

	var raw []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRules - scan rules: %v", ErrScanRow, err)
	}

	// Поля, которых нет в сохраненном документе, берутся из значений по умолчанию
	rules := domain.DefaultRatingRules()
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("%w: GetRules - decode rules: %v", ErrScanRow, err)
	}

	return &rules, nil
}

// SaveRules сохраняет правила рейтинга
func (r *Repository) SaveRules(ctx context.Context, rules *domain.RatingRules) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	raw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("%w: SaveRules - encode rules: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("rating_rules").
		Columns("id", "rules").
		Values(singletonID, string(raw)).
		Suffix("ON CONFLICT (id) DO UPDATE SET rules = EXCLUDED.rules, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveRules - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveRules - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}
