package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	calendarRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/calendar"
	consoleRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/console"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
)

// Service сервис доступности: статусы дней, бронирования слотов,
// блокировки дат, праздники и временные удержания консолей
type Service struct {
	calendarRepo CalendarRepository
	rentalRepo   RentalRepository
	consoleRepo  ConsoleRepository
	holdRepo     HoldRepository
	discounts    DiscountCalendar
	settings     SettingsProvider
	txManager    TransactionManager
	locker       KeyLocker
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	calendarRepo CalendarRepository,
	rentalRepo RentalRepository,
	consoleRepo ConsoleRepository,
	holdRepo HoldRepository,
	discounts DiscountCalendar,
	settings SettingsProvider,
	txManager TransactionManager,
	locker KeyLocker,
	logger Logger,
) *Service {
	return NewServiceWithTimeProvider(
		calendarRepo, rentalRepo, consoleRepo, holdRepo, discounts,
		settings, txManager, locker, &RealTimeProvider{}, logger,
	)
}

// NewServiceWithTimeProvider создает сервис с заданным провайдером времени (для тестов)
func NewServiceWithTimeProvider(
	calendarRepo CalendarRepository,
	rentalRepo RentalRepository,
	consoleRepo ConsoleRepository,
	holdRepo HoldRepository,
	discounts DiscountCalendar,
	settings SettingsProvider,
	txManager TransactionManager,
	locker KeyLocker,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		rentalRepo:   rentalRepo,
		consoleRepo:  consoleRepo,
		holdRepo:     holdRepo,
		discounts:    discounts,
		settings:     settings,
		txManager:    txManager,
		locker:       locker,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// DayStatus возвращает статус дня для консоли
func (s *Service) DayStatus(ctx context.Context, consoleID string, date time.Time) (*models.DayInfoResponse, error) {
	day := domain.DateOnly(date)

	ev, err := s.loadEvaluator(ctx, "DayStatus", &consoleID, day, day)
	if err != nil {
		return nil, err
	}

	return models.FromDomainDayInfo(ev.evaluate(day)), nil
}

// IsDateFree сообщает, можно ли бронировать консоль на дату
// Свободны дни со статусом available и reserved: у последнего остаются свободные слоты
func (s *Service) IsDateFree(ctx context.Context, consoleID string, date time.Time) (bool, error) {
	day := domain.DateOnly(date)

	ev, err := s.loadEvaluator(ctx, "IsDateFree", &consoleID, day, day)
	if err != nil {
		return false, err
	}

	return ev.evaluate(day).Status.IsBookable(), nil
}

// MonthPreview возвращает статусы всех дней месяца
// consoleID = nil: только общесистемные статусы
func (s *Service) MonthPreview(ctx context.Context, consoleID *string, year int, month time.Month) (*models.MonthPreviewResponse, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, fmt.Errorf("%w: invalid year or month", ErrInvalidInput)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	ev, err := s.loadEvaluator(ctx, "MonthPreview", consoleID, first, last)
	if err != nil {
		return nil, err
	}

	days := make([]*models.DayInfoResponse, 0, last.Day())
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, models.FromDomainDayInfo(ev.evaluate(day)))
	}

	return &models.MonthPreviewResponse{
		Year:      year,
		Month:     int(month),
		ConsoleID: consoleID,
		Days:      days,
		Legend:    models.Legend(),
	}, nil
}

// AvailableSlots возвращает свободные слоты консоли на дату
// userID: клиент, для которого строится список; удержание другим клиентом отмечается в ответе
func (s *Service) AvailableSlots(ctx context.Context, consoleID string, date time.Time, userID *int64) (*models.AvailableSlotsResponse, error) {
	day := domain.DateOnly(date)

	ev, err := s.loadEvaluator(ctx, "AvailableSlots", &consoleID, day, day)
	if err != nil {
		return nil, err
	}

	info := ev.evaluate(day)
	resp := &models.AvailableSlotsResponse{
		ConsoleID: consoleID,
		Date:      day.Format(domain.DateFormat),
		DayStatus: string(info.Status),
		Slots:     make([]string, 0),
	}

	held, _, err := s.IsTempReserved(ctx, consoleID, userID)
	if err != nil {
		return nil, err
	}
	resp.HeldByOther = held

	if !info.Status.IsBookable() {
		return resp, nil
	}

	taken := takenSlots(ev.reservations[dayKey(day)])
	for _, slot := range ev.settings.TimeSlots {
		if !taken[slot] {
			resp.Slots = append(resp.Slots, slot.String())
		}
	}

	return resp, nil
}

// ReserveSlot бронирует слот консоли на дату
func (s *Service) ReserveSlot(ctx context.Context, req *models.ReserveSlotRequest) (*models.ReservationResponse, error) {
	s.logger.Info("ReserveSlot: console=%s date=%s slot=%s user=%d",
		req.ConsoleID, req.Date.Format(domain.DateFormat), req.TimeSlot, req.UserID)

	// 1. Валидируем входные данные
	slot, err := validateReservation(req)
	if err != nil {
		s.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}
	if req.DurationHours == 0 {
		req.DurationHours = domain.DefaultSlotDurationHours
	}

	// 2. Проверяем, что консоль существует
	if err := s.ensureConsole(ctx, "ReserveSlot", req.ConsoleID); err != nil {
		return nil, err
	}

	// 3. Проверка пересечений и вставка идут под блокировкой слотов консоли
	lockCtx, cancel := context.WithTimeout(ctx, domain.ConsoleLockTimeout)
	defer cancel()
	unlock, err := s.locker.Lock(lockCtx, slotLockKey(req.ConsoleID))
	if err != nil {
		s.logger.Warn("ReserveSlot: failed to lock slots of console=%s: %v", req.ConsoleID, err)
		return nil, fmt.Errorf("%w: console is busy: %v", ErrSlotTaken, err)
	}
	defer unlock()

	// 4. Загружаем состояние дня
	day := domain.DateOnly(req.Date)
	ev, err := s.loadEvaluator(ctx, "ReserveSlot", &req.ConsoleID, day, day)
	if err != nil {
		return nil, err
	}

	if !ev.settings.HasSlot(slot) {
		s.logger.Warn("ReserveSlot: slot %s is not in catalogue", slot)
		return nil, fmt.Errorf("%w: unknown time slot %s", ErrInvalidInput, slot)
	}

	info := ev.evaluate(day)
	if !info.Status.IsBookable() {
		s.logger.Warn("ReserveSlot: date %s has status %s", day.Format(domain.DateFormat), info.Status)
		return nil, fmt.Errorf("%w: %s", ErrDateUnavailable, info.Status)
	}

	// 5. Проверяем пересечение с существующими бронированиями
	requested := coveredSlots(slot, req.DurationHours)
	taken := takenSlots(ev.reservations[dayKey(day)])
	for _, ts := range requested {
		if taken[ts] {
			s.logger.Warn("ReserveSlot: slot %s on %s is already taken", ts, day.Format(domain.DateFormat))
			return nil, ErrSlotTaken
		}
	}

	// 6. Сохраняем; уникальный индекс отсекает повторную бронь того же слота
	reservation := &domain.SlotReservation{
		ID:            newID(),
		ConsoleID:     req.ConsoleID,
		UserID:        req.UserID,
		Date:          day,
		TimeSlot:      slot,
		DurationHours: req.DurationHours,
		Status:        domain.SlotReserved,
		Notes:         req.Notes,
	}
	if err := s.calendarRepo.CreateReservation(ctx, reservation); err != nil {
		if errors.Is(err, calendarRepo.ErrSlotTaken) {
			s.logger.Warn("ReserveSlot: slot %s taken concurrently", slot)
			return nil, ErrSlotTaken
		}
		s.logger.Error("ReserveSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReserveSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReserveSlot: successfully reserved id=%s", reservation.ID)
	return models.FromDomainReservation(reservation), nil
}

// ReleaseSlot удаляет бронирование слота. Возвращает false, если удалять нечего
func (s *Service) ReleaseSlot(ctx context.Context, reservationID string) (bool, error) {
	removed, err := s.calendarRepo.DeleteReservation(ctx, reservationID)
	if err != nil {
		s.logger.Error("ReleaseSlot: repository error for id=%s: %v", reservationID, err)
		return false, fmt.Errorf("%w: ReleaseSlot - repository error: %v", ErrInternal, err)
	}
	s.logger.Info("ReleaseSlot: reservation id=%s removed=%t", reservationID, removed)
	return removed, nil
}

// BlockDate блокирует дату для консоли или для всех консолей (consoleID = nil)
func (s *Service) BlockDate(ctx context.Context, consoleID *string, date time.Time, reason *string) error {
	day := domain.DateOnly(date)
	s.logger.Info("BlockDate: console=%v date=%s", consoleID, day.Format(domain.DateFormat))

	if consoleID != nil {
		if err := s.ensureConsole(ctx, "BlockDate", *consoleID); err != nil {
			return err
		}
	}

	err := s.calendarRepo.BlockDate(ctx, &domain.BlockedDate{ConsoleID: consoleID, Date: day, Reason: reason})
	if err != nil {
		if errors.Is(err, calendarRepo.ErrAlreadyBlocked) {
			s.logger.Warn("BlockDate: date %s already blocked", day.Format(domain.DateFormat))
			return ErrAlreadyBlocked
		}
		s.logger.Error("BlockDate: repository error: %v", err)
		return fmt.Errorf("%w: BlockDate - repository error: %v", ErrInternal, err)
	}
	return nil
}

// UnblockDate снимает блокировку даты
func (s *Service) UnblockDate(ctx context.Context, consoleID *string, date time.Time) error {
	day := domain.DateOnly(date)
	s.logger.Info("UnblockDate: console=%v date=%s", consoleID, day.Format(domain.DateFormat))

	removed, err := s.calendarRepo.UnblockDate(ctx, consoleID, day)
	if err != nil {
		s.logger.Error("UnblockDate: repository error: %v", err)
		return fmt.Errorf("%w: UnblockDate - repository error: %v", ErrInternal, err)
	}
	if !removed {
		s.logger.Warn("UnblockDate: date %s is not blocked", day.Format(domain.DateFormat))
		return ErrNotBlocked
	}
	return nil
}

// ListBlockedDates возвращает блокировки по возрастанию даты
func (s *Service) ListBlockedDates(ctx context.Context, consoleID *string) ([]*models.BlockedDateResponse, error) {
	blocks, err := s.calendarRepo.ListBlockedDates(ctx, consoleID)
	if err != nil {
		s.logger.Error("ListBlockedDates: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlockedDates - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBlockedDates(blocks), nil
}

// AddHoliday добавляет праздник
func (s *Service) AddHoliday(ctx context.Context, date time.Time, name string, working bool) error {
	if name == "" || len([]rune(name)) > domain.MaxHolidayNameLength {
		return fmt.Errorf("%w: holiday name must be 1..%d characters", ErrInvalidInput, domain.MaxHolidayNameLength)
	}

	day := domain.DateOnly(date)
	err := s.calendarRepo.AddHoliday(ctx, &domain.Holiday{Date: day, Name: name, Working: working})
	if err != nil {
		if errors.Is(err, calendarRepo.ErrHolidayExists) {
			s.logger.Warn("AddHoliday: holiday on %s already exists", day.Format(domain.DateFormat))
			return ErrHolidayExists
		}
		s.logger.Error("AddHoliday: repository error: %v", err)
		return fmt.Errorf("%w: AddHoliday - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddHoliday: added %s on %s (working=%t)", name, day.Format(domain.DateFormat), working)
	return nil
}

// RemoveHoliday удаляет праздник
func (s *Service) RemoveHoliday(ctx context.Context, date time.Time) error {
	day := domain.DateOnly(date)
	if err := s.calendarRepo.RemoveHoliday(ctx, day); err != nil {
		if errors.Is(err, calendarRepo.ErrHolidayNotFound) {
			return ErrHolidayNotFound
		}
		s.logger.Error("RemoveHoliday: repository error: %v", err)
		return fmt.Errorf("%w: RemoveHoliday - repository error: %v", ErrInternal, err)
	}
	return nil
}

// ListHolidays возвращает праздники по возрастанию даты
func (s *Service) ListHolidays(ctx context.Context) ([]*models.HolidayResponse, error) {
	holidays, err := s.calendarRepo.ListHolidays(ctx)
	if err != nil {
		s.logger.Error("ListHolidays: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListHolidays - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainHolidays(holidays), nil
}

// GetSettings возвращает рабочие дни и каталог слотов
func (s *Service) GetSettings(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.calendarRepo.GetSettings(ctx)
	if err != nil {
		s.logger.Error("GetSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainSettings(settings), nil
}

// UpdateSettings сохраняет рабочие дни и каталог слотов
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	settings, err := validateSettings(req)
	if err != nil {
		s.logger.Warn("UpdateSettings: validation failed: %v", err)
		return nil, err
	}

	if err := s.calendarRepo.SaveSettings(ctx, settings); err != nil {
		s.logger.Error("UpdateSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: working days=%v, %d slots", settings.WorkingDays, len(settings.TimeSlots))
	return models.FromDomainSettings(settings), nil
}

func (s *Service) ensureConsole(ctx context.Context, method, consoleID string) error {
	if _, err := s.consoleRepo.GetByID(ctx, consoleID); err != nil {
		if errors.Is(err, consoleRepo.ErrConsoleNotFound) {
			s.logger.Warn("%s: console=%s not found", method, consoleID)
			return ErrConsoleNotFound
		}
		s.logger.Error("%s: failed to get console=%s: %v", method, consoleID, err)
		return fmt.Errorf("%w: %s - get console: %v", ErrInternal, method, err)
	}
	return nil
}
