package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

func TestBillableHours(t *testing.T) {
	start := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected int
	}{
		{"Ten minutes bills the minimum hour", 10 * time.Minute, 1},
		{"Ninety minutes truncates to one hour", 90 * time.Minute, 1},
		{"Exactly two hours", 2 * time.Hour, 2},
		{"Two hours fifty nine minutes", 2*time.Hour + 59*time.Minute, 2},
		{"Clock skew still bills one hour", -5 * time.Minute, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BillableHours(start, start.Add(tt.elapsed)))
		})
	}
}

func TestRental_OccupiesDate(t *testing.T) {
	start := time.Date(2025, 5, 10, 20, 0, 0, 0, time.UTC)

	t.Run("Span up to expected end", func(t *testing.T) {
		r := &Rental{StartTime: start, ExpectedEndTime: ptr.Ptr(start.Add(30 * time.Hour)), Status: RentalActive}

		assert.False(t, r.OccupiesDate(time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC)))
		assert.True(t, r.OccupiesDate(time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)))
		assert.True(t, r.OccupiesDate(time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)))
		assert.False(t, r.OccupiesDate(time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("Start day only without expected end", func(t *testing.T) {
		r := &Rental{StartTime: start, Status: RentalActive}

		assert.True(t, r.OccupiesDate(time.Date(2025, 5, 10, 23, 0, 0, 0, time.UTC)))
		assert.False(t, r.OccupiesDate(time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)))
	})
}

func TestRental_States(t *testing.T) {
	active := &Rental{Status: RentalActive}
	assert.True(t, active.IsActive())
	assert.True(t, active.CanRecordReturn())
	assert.False(t, active.IsAwaitingRating())

	completed := &Rental{Status: RentalCompleted}
	assert.True(t, completed.CanRecordReturn())
	assert.True(t, completed.IsAwaitingRating())

	returned := &Rental{Status: RentalReturned, RatingID: ptr.Ptr("r-1")}
	assert.False(t, returned.CanRecordReturn())
	assert.False(t, returned.IsAwaitingRating())
}

func TestRental_Timing(t *testing.T) {
	end := time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC)
	r := &Rental{ExpectedEndTime: &end}

	assert.Equal(t, TimingOnTime, r.Timing(end))
	assert.Equal(t, TimingLate1To24h, r.Timing(end.Add(time.Minute)))
	assert.Equal(t, TimingLate1To24h, r.Timing(end.Add(24*time.Hour)))
	assert.Equal(t, TimingLateOver24h, r.Timing(end.Add(25*time.Hour)))
	assert.Equal(t, TimingOnTime, (&Rental{}).Timing(end))
}

func TestDiscount_Amount(t *testing.T) {
	t.Run("Percentage", func(t *testing.T) {
		d := &Discount{Type: DiscountPercentage, Value: 10}
		assert.Equal(t, 240.0, d.Amount(2400))
	})

	t.Run("Percentage rounds to currency unit", func(t *testing.T) {
		d := &Discount{Type: DiscountPercentage, Value: 15}
		assert.Equal(t, 15.0, d.Amount(99))
	})

	t.Run("Fixed is capped by base", func(t *testing.T) {
		d := &Discount{Type: DiscountFixed, Value: 5000}
		assert.Equal(t, 100.0, d.Amount(100))
	})

	t.Run("Zero base", func(t *testing.T) {
		d := &Discount{Type: DiscountFixed, Value: 50}
		assert.Equal(t, 0.0, d.Amount(0))
	})
}

func TestDiscount_Matching(t *testing.T) {
	d := &Discount{
		Active:    true,
		StartDate: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC),
		MinHours:  3,
	}

	assert.False(t, d.IsActiveAt(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)))
	assert.True(t, d.IsActiveAt(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, d.CoversDate(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)))
	assert.True(t, d.CoversDate(time.Date(2025, 6, 3, 23, 0, 0, 0, time.UTC)))
	assert.False(t, d.CoversDate(time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)))
	assert.False(t, d.AppliesToHours(2))
	assert.True(t, d.AppliesToHours(3))

	d.Active = false
	assert.False(t, d.IsActiveAt(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 1, ISOWeekday(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))) // понедельник
	assert.Equal(t, 7, ISOWeekday(time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC))) // воскресенье
}

func TestCalendarSettings(t *testing.T) {
	s := &CalendarSettings{WorkingDays: []int{1, 2, 3, 4, 5}}
	assert.True(t, s.IsWorkingDay(time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsWorkingDay(time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)))

	def := DefaultCalendarSettings()
	assert.Len(t, def.TimeSlots, 13)
	assert.True(t, def.HasSlot("21:00"))
	assert.False(t, def.HasSlot("22:00"))
}

func TestReturnCondition_ItemCondition(t *testing.T) {
	assert.Equal(t, ItemPerfect, ConditionExcellent.ItemCondition())
	assert.Equal(t, ItemMinorDefects, ConditionMinorDefects.ItemCondition())
	assert.Equal(t, ItemMajorDefects, ConditionDamaged.ItemCondition())
	assert.Equal(t, ItemMajorDefects, ConditionLost.ItemCondition())
}

func TestStatusTier_DisplayName(t *testing.T) {
	assert.Equal(t, "Premium", TierPremium.DisplayName())
	assert.Equal(t, "Обычный", TierRegular.DisplayName())
	assert.Equal(t, "Риск", TierRisk.DisplayName())
}
