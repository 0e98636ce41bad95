package book_console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	consoleRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/console"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	userRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/user"
	availabilityModels "github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
	discountModels "github.com/m04kA/SMC-ConsoleRental/internal/service/discounts/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/keylock"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
	"github.com/m04kA/SMC-ConsoleRental/pkg/txmanager"
)

var now = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

// store хранилище в памяти для консолей, аренд, клиентов и удержаний
type store struct {
	mu       sync.Mutex
	consoles map[string]*domain.Console
	rentals  map[string]*domain.Rental
	users    map[int64]*domain.User
	holds    map[string]int64
}

func newStore() *store {
	return &store{
		consoles: map[string]*domain.Console{
			"c1": {ID: "c1", Name: "PS5", RentalPrice: 100, Status: domain.ConsoleAvailable},
		},
		rentals: map[string]*domain.Rental{},
		users: map[int64]*domain.User{
			42: {ID: 42, RegistrationStep: domain.RegistrationCompleted},
			7:  {ID: 7, RegistrationStep: domain.RegistrationCompleted},
		},
		holds: map[string]int64{},
	}
}

func (s *store) GetByID(_ context.Context, id string) (*domain.Console, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.consoles[id]
	if !ok {
		return nil, consoleRepo.ErrConsoleNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *store) UpdateStatus(_ context.Context, id string, status domain.ConsoleStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consoles[id].Status = status
	return nil
}

type rentals struct{ *store }

func (r rentals) Create(_ context.Context, rental *domain.Rental) (*domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rentals {
		if existing.ConsoleID == rental.ConsoleID && existing.IsActive() {
			return nil, rentalRepo.ErrConsoleBusy
		}
	}
	r.rentals[rental.ID] = rental
	return rental, nil
}

func (r rentals) GetActiveByConsole(_ context.Context, consoleID string) (*domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rentals {
		if existing.ConsoleID == consoleID && existing.IsActive() {
			return existing, nil
		}
	}
	return nil, rentalRepo.ErrRentalNotFound
}

type users struct{ *store }

func (u users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return user, nil
}

func (u users) SetVerification(_ context.Context, id int64, step *domain.VerificationStep, pendingRentalID *string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.users[id].VerificationStep = step
	u.users[id].PendingRentalID = pendingRentalID
	return nil
}

type holds struct{ *store }

func (h holds) TempReserve(_ context.Context, userID int64, consoleID string, _ time.Duration) (*availabilityModels.TempReservationResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c, u := range h.holds {
		if u == userID {
			delete(h.holds, c)
		}
	}
	h.holds[consoleID] = userID
	return &availabilityModels.TempReservationResponse{UserID: userID, ConsoleID: consoleID}, nil
}

func (h holds) IsTempReserved(_ context.Context, consoleID string, excludeUserID *int64) (bool, *int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	holder, ok := h.holds[consoleID]
	if !ok || (excludeUserID != nil && holder == *excludeUserID) {
		return false, nil, nil
	}
	return true, &holder, nil
}

type flatPricer struct {
	discount float64
}

func (p flatPricer) Price(_ context.Context, _ string, base float64, hours int, _ time.Time) (*discountModels.PriceQuote, error) {
	quote := &discountModels.PriceQuote{Hours: hours, BaseCost: base, FinalCost: base}
	if p.discount > 0 {
		quote.DiscountAmount = p.discount
		quote.FinalCost = base - p.discount
		quote.Discount = &discountModels.DiscountResponse{ID: "d1"}
	}
	return quote, nil
}

// failingPricer не должен вызываться для аренды без срока
type failingPricer struct{}

func (failingPricer) Price(context.Context, string, float64, int, time.Time) (*discountModels.PriceQuote, error) {
	return nil, errors.New("pricer must not be called")
}

type staticSettings struct {
	settings *domain.AdminSettings
}

func (s staticSettings) Current(context.Context) (*domain.AdminSettings, error) {
	cp := *s.settings
	return &cp, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []*domain.RentalEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, e *domain.RentalEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// conflictingTx выполняет fn и сообщает, что конфликт сериализации не разрешился
type conflictingTx struct{}

func (conflictingTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	_ = fn(ctx)
	return fmt.Errorf("%w: commit: could not serialize access", txmanager.ErrSerializationFailure)
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

func directSettings() *domain.AdminSettings {
	s := domain.DefaultAdminSettings()
	s.RequireApproval = false
	return s
}

func newUseCase(st *store, settings *domain.AdminSettings, pricer Pricer) (*UseCase, *recordingDispatcher) {
	d := &recordingDispatcher{}
	uc := NewUseCaseWithTimeProvider(
		st, rentals{st}, users{st}, holds{st}, pricer, staticSettings{settings},
		d, keylock.New(), passThroughTx{}, fixedClock{}, logger.NewNop(),
	)
	return uc, d
}

func TestUseCase_Execute(t *testing.T) {
	t.Run("Rental starts immediately", func(t *testing.T) {
		st := newStore()
		uc, d := newUseCase(st, directSettings(), flatPricer{discount: 30})

		resp, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(3)})

		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, 270.0, resp.ExpectedCost)
		assert.Equal(t, 30.0, resp.DiscountAmount)
		require.NotNil(t, resp.ExpectedEndTime)
		assert.Equal(t, now.Add(3*time.Hour), *resp.ExpectedEndTime)
		assert.Equal(t, domain.ConsoleRented, st.consoles["c1"].Status)
		assert.Equal(t, int64(42), st.holds["c1"])
		require.NotNil(t, st.users[42].VerificationStep)
		assert.Equal(t, domain.VerificationLocationRequest, *st.users[42].VerificationStep)
		require.Len(t, d.events, 1)
		assert.Equal(t, domain.EventRentalStarted, d.events[0].Type)
	})

	t.Run("Open-ended rental", func(t *testing.T) {
		st := newStore()
		uc, d := newUseCase(st, directSettings(), failingPricer{})

		resp, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1"})

		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
		assert.Nil(t, resp.SelectedHours)
		assert.Nil(t, resp.ExpectedEndTime)
		assert.Zero(t, resp.ExpectedCost)
		assert.Nil(t, resp.DiscountID)
		assert.Equal(t, domain.ConsoleRented, st.consoles["c1"].Status)
		require.Len(t, d.events, 1)
		assert.Nil(t, d.events[0].Hours)
		assert.Nil(t, d.events[0].DueAt)
	})

	t.Run("Open-ended rental ignores hours limit", func(t *testing.T) {
		settings := directSettings()
		settings.MaxRentalHours = 1
		uc, _ := newUseCase(newStore(), settings, failingPricer{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1"})

		assert.NoError(t, err)
	})

	t.Run("Zero hours", func(t *testing.T) {
		uc, _ := newUseCase(newStore(), directSettings(), flatPricer{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(0)})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Approval required", func(t *testing.T) {
		uc, _ := newUseCase(newStore(), domain.DefaultAdminSettings(), flatPricer{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(3)})

		assert.ErrorIs(t, err, ErrApprovalRequired)
	})

	t.Run("Hours above limit", func(t *testing.T) {
		uc, _ := newUseCase(newStore(), directSettings(), flatPricer{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(25)})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Banned user", func(t *testing.T) {
		st := newStore()
		st.users[42].IsBanned = true
		uc, _ := newUseCase(st, directSettings(), flatPricer{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrUserBanned)
	})

	t.Run("Unknown console", func(t *testing.T) {
		uc, _ := newUseCase(newStore(), directSettings(), flatPricer{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c9", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrConsoleNotFound)
	})

	t.Run("Held by another user", func(t *testing.T) {
		st := newStore()
		st.holds["c1"] = 7
		uc, d := newUseCase(st, directSettings(), flatPricer{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrConsoleHeld)
		assert.Equal(t, domain.ConsoleAvailable, st.consoles["c1"].Status)
		assert.Empty(t, d.events)
	})

	t.Run("Second booking conflicts", func(t *testing.T) {
		st := newStore()
		uc, _ := newUseCase(st, directSettings(), flatPricer{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})
		require.NoError(t, err)

		_, err = uc.Execute(context.Background(), &Request{UserID: 7, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})
		assert.ErrorIs(t, err, ErrConsoleUnavailable)
	})

	t.Run("Serialization conflict", func(t *testing.T) {
		st := newStore()
		uc := NewUseCaseWithTimeProvider(
			st, rentals{st}, users{st}, holds{st}, flatPricer{}, staticSettings{directSettings()},
			&recordingDispatcher{}, keylock.New(), conflictingTx{}, fixedClock{}, logger.NewNop(),
		)

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrConsoleUnavailable)
	})

	t.Run("Drifted console status", func(t *testing.T) {
		st := newStore()
		st.rentals["r0"] = &domain.Rental{ID: "r0", ConsoleID: "c1", Status: domain.RentalActive}
		uc, _ := newUseCase(st, directSettings(), flatPricer{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrConsoleUnavailable)
	})
}

func TestUseCase_ConcurrentBookings(t *testing.T) {
	st := newStore()
	for i := int64(100); i < 110; i++ {
		st.users[i] = &domain.User{ID: i}
	}
	uc, _ := newUseCase(st, directSettings(), flatPricer{})

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := int64(100); i < 110; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{UserID: userID, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, ErrConsoleUnavailable) || errors.Is(err, ErrConsoleHeld), err)
	}
	assert.Equal(t, 1, succeeded)

	active := 0
	for _, r := range st.rentals {
		if r.IsActive() {
			active++
		}
	}
	assert.Equal(t, 1, active)
}
