package availability

import (
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/types"
)

func validateReservation(req *models.ReserveSlotRequest) (types.TimeString, error) {
	if req.ConsoleID == "" {
		return "", fmt.Errorf("%w: consoleId is required", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return "", fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	slot, err := types.NewTimeStringFromString(req.TimeSlot)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.DurationHours < 0 || req.DurationHours > 24 {
		return "", fmt.Errorf("%w: durationHours must be within 1..24", ErrInvalidInput)
	}
	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return "", fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return slot, nil
}

func validateSettings(req *models.UpdateSettingsRequest) (*domain.CalendarSettings, error) {
	if len(req.WorkingDays) == 0 {
		return nil, fmt.Errorf("%w: at least one working day is required", ErrInvalidInput)
	}

	seenDays := make(map[int]bool, len(req.WorkingDays))
	for _, d := range req.WorkingDays {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("%w: working day %d is out of range 1..7", ErrInvalidInput, d)
		}
		if seenDays[d] {
			return nil, fmt.Errorf("%w: working day %d is duplicated", ErrInvalidInput, d)
		}
		seenDays[d] = true
	}

	slots := make([]types.TimeString, 0, len(req.TimeSlots))
	seenSlots := make(map[types.TimeString]bool, len(req.TimeSlots))
	for _, raw := range req.TimeSlots {
		slot, err := types.NewTimeStringFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if seenSlots[slot] {
			return nil, fmt.Errorf("%w: time slot %s is duplicated", ErrInvalidInput, slot)
		}
		seenSlots[slot] = true
		slots = append(slots, slot)
	}

	days := make([]int, len(req.WorkingDays))
	copy(days, req.WorkingDays)

	return &domain.CalendarSettings{WorkingDays: days, TimeSlots: slots}, nil
}
