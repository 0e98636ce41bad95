package availability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
)

func newID() string {
	return uuid.NewString()
}

func userLockKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

func slotLockKey(consoleID string) string {
	return "slots:" + consoleID
}

// TempReserve ставит временное удержание консоли за клиентом
// Предыдущее удержание клиента снимается; ttl <= 0: значение из настроек
func (s *Service) TempReserve(ctx context.Context, userID int64, consoleID string, ttl time.Duration) (*models.TempReservationResponse, error) {
	s.logger.Info("TempReserve: user=%d console=%s", userID, consoleID)

	// 1. Определяем время жизни удержания
	if ttl <= 0 {
		settings, err := s.settings.Current(ctx)
		if err != nil {
			s.logger.Error("TempReserve: failed to load settings: %v", err)
			return nil, fmt.Errorf("%w: TempReserve - load settings: %v", ErrInternal, err)
		}
		ttl = settings.TempHoldTTL()
	}
	if ttl > domain.MaxTempHoldMinutes*time.Minute {
		return nil, fmt.Errorf("%w: hold ttl exceeds %d minutes", ErrInvalidInput, domain.MaxTempHoldMinutes)
	}

	// 2. Консоль должна существовать
	if err := s.ensureConsole(ctx, "TempReserve", consoleID); err != nil {
		return nil, err
	}

	// 3. Заменяем удержание клиента под блокировкой пользователя
	unlock, err := s.locker.Lock(ctx, userLockKey(userID))
	if err != nil {
		s.logger.Warn("TempReserve: failed to acquire lock for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: TempReserve - acquire lock: %v", ErrInternal, err)
	}
	defer unlock()

	now := s.timeProvider.Now()
	hold := &domain.TempReservation{
		ID:        newID(),
		UserID:    userID,
		ConsoleID: consoleID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Status:    domain.TempReservationActive,
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.holdRepo.Replace(ctx, hold)
	})
	if err != nil {
		s.logger.Error("TempReserve: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: TempReserve - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("TempReserve: console=%s held by user=%d until %s", consoleID, userID, hold.ExpiresAt.Format(time.RFC3339))
	return models.FromDomainTempReservation(hold), nil
}

// IsTempReserved сообщает, удерживается ли консоль кем-то кроме excludeUserID
// Возвращает id удерживающего клиента. Истекшие удержания удаляются до проверки
func (s *Service) IsTempReserved(ctx context.Context, consoleID string, excludeUserID *int64) (bool, *int64, error) {
	if _, err := s.CleanupExpired(ctx); err != nil {
		return false, nil, err
	}

	hold, err := s.holdRepo.FindByConsole(ctx, consoleID, excludeUserID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("IsTempReserved: repository error for console=%s: %v", consoleID, err)
		return false, nil, fmt.Errorf("%w: IsTempReserved - repository error: %v", ErrInternal, err)
	}
	if hold == nil {
		return false, nil, nil
	}

	holder := hold.UserID
	return true, &holder, nil
}

// ReleaseTemp снимает удержание клиента. Возвращает false, если удержания не было
func (s *Service) ReleaseTemp(ctx context.Context, userID int64) (bool, error) {
	released, err := s.holdRepo.DeleteByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ReleaseTemp: repository error for user=%d: %v", userID, err)
		return false, fmt.Errorf("%w: ReleaseTemp - repository error: %v", ErrInternal, err)
	}
	if released {
		s.logger.Info("ReleaseTemp: hold of user=%d released", userID)
	}
	return released, nil
}

// ReleaseTempForConsole снимает удержание клиента на этой консоли
// Удержание клиента на другой консоли не трогается
func (s *Service) ReleaseTempForConsole(ctx context.Context, userID int64, consoleID string) (bool, error) {
	released, err := s.holdRepo.DeleteByUserAndConsole(ctx, userID, consoleID)
	if err != nil {
		s.logger.Error("ReleaseTempForConsole: repository error for user=%d console=%s: %v", userID, consoleID, err)
		return false, fmt.Errorf("%w: ReleaseTempForConsole - repository error: %v", ErrInternal, err)
	}
	if released {
		s.logger.Info("ReleaseTempForConsole: hold of user=%d on console=%s released", userID, consoleID)
	}
	return released, nil
}

// CleanupExpired удаляет истекшие удержания. Повторный вызов ничего не меняет
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	removed, err := s.holdRepo.DeleteExpired(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("CleanupExpired: repository error: %v", err)
		return 0, fmt.Errorf("%w: CleanupExpired - repository error: %v", ErrInternal, err)
	}
	if removed > 0 {
		s.logger.Info("CleanupExpired: removed %d expired holds", removed)
	}
	return removed, nil
}
