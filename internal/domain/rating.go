package domain

import "time"

// ReturnTiming класс своевременности возврата
type ReturnTiming string

const (
	TimingOnTime      ReturnTiming = "on_time"
	TimingLate1To24h  ReturnTiming = "late_1_24h"
	TimingLateOver24h ReturnTiming = "late_over_24h"
)

// ItemCondition класс состояния консоли для рейтинга дисциплины
type ItemCondition string

const (
	ItemPerfect      ItemCondition = "perfect"
	ItemMinorDefects ItemCondition = "minor_defects"
	ItemMajorDefects ItemCondition = "major_defects"
)

// RuleCompliance класс соблюдения правил аренды
type RuleCompliance string

const (
	ComplianceNone  RuleCompliance = "no_violations"
	ComplianceMinor RuleCompliance = "minor_violation"
	ComplianceMajor RuleCompliance = "major_violation"
)

func IsValidReturnTiming(v ReturnTiming) bool {
	return v == TimingOnTime || v == TimingLate1To24h || v == TimingLateOver24h
}

func IsValidItemCondition(v ItemCondition) bool {
	return v == ItemPerfect || v == ItemMinorDefects || v == ItemMajorDefects
}

func IsValidRuleCompliance(v RuleCompliance) bool {
	return v == ComplianceNone || v == ComplianceMinor || v == ComplianceMajor
}

// RatingTransaction запись об итогах аренды. Не изменяется после создания
type RatingTransaction struct {
	ID             string
	UserID         int64
	RentalID       *string
	ReturnTiming   ReturnTiming
	ItemCondition  ItemCondition
	RuleCompliance RuleCompliance
	Notes          *string
	CreatedBy      int64 // 0: создано системой при завершении аренды
	CreatedAt      time.Time
}

// StatusTier уровень клиента
type StatusTier string

const (
	TierPremium StatusTier = "premium"
	TierRegular StatusTier = "regular"
	TierRisk    StatusTier = "risk"
)

// DisplayName название уровня для интерфейса
func (t StatusTier) DisplayName() string {
	switch t {
	case TierPremium:
		return "Premium"
	case TierRisk:
		return "Риск"
	default:
		return "Обычный"
	}
}

// RatingScheme схема расчета, которой получена оценка
type RatingScheme string

const (
	SchemeWeighted RatingScheme = "weighted" // 0–100, дисциплина и лояльность
	SchemeManual   RatingScheme = "manual"   // 1.0–5.0, ручные оценки администратора
)

// UserRating рассчитанный рейтинг клиента. Всегда может быть пересчитан из истории
type UserRating struct {
	UserID       int64
	Discipline   int
	Loyalty      int
	FinalScore   int
	Status       StatusTier
	Scheme       RatingScheme
	CalculatedAt time.Time
}

// TierBenefits льготы уровня клиента
type TierBenefits struct {
	DiscountPercent    int
	DepositMultiplier  float64
	PrioritySupport    bool
	AdvanceBookingDays int
}

// RatingHistoryEntry снимок рейтинга с причиной пересчета
type RatingHistoryEntry struct {
	ID          int64
	UserID      int64
	Scheme      RatingScheme
	Score       float64
	Status      *StatusTier
	Discipline  *int
	Loyalty     *int
	BonusReason *string
	BonusAmount *int
	CreatedAt   time.Time
}

// RatingRules настраиваемые правила расчета рейтинга
type RatingRules struct {
	ReturnTiming   map[ReturnTiming]int   `json:"return_timing"`
	ItemCondition  map[ItemCondition]int  `json:"item_condition"`
	RuleCompliance map[RuleCompliance]int `json:"rule_compliance"`

	DisciplineWindow int `json:"discipline_window"`

	PerRentalBonus      int `json:"per_rental_bonus"`
	MaxRepeatBonus      int `json:"max_repeat_bonus"`
	PromotionBonus      int `json:"promotion_bonus"`
	Tenure6MonthsBonus  int `json:"tenure_6_months_bonus"`
	Tenure12MonthsBonus int `json:"tenure_12_months_bonus"`

	DisciplineWeight float64 `json:"discipline_weight"`
	LoyaltyWeight    float64 `json:"loyalty_weight"`

	PremiumThreshold int `json:"premium_threshold"`
	RegularThreshold int `json:"regular_threshold"`
}

// DefaultRatingRules правила по умолчанию
func DefaultRatingRules() RatingRules {
	return RatingRules{
		ReturnTiming: map[ReturnTiming]int{
			TimingOnTime:      0,
			TimingLate1To24h:  -20,
			TimingLateOver24h: -50,
		},
		ItemCondition: map[ItemCondition]int{
			ItemPerfect:      0,
			ItemMinorDefects: -15,
			ItemMajorDefects: -40,
		},
		RuleCompliance: map[RuleCompliance]int{
			ComplianceNone:  0,
			ComplianceMinor: -10,
			ComplianceMajor: -30,
		},
		DisciplineWindow:    5,
		PerRentalBonus:      5,
		MaxRepeatBonus:      30,
		PromotionBonus:      10,
		Tenure6MonthsBonus:  10,
		Tenure12MonthsBonus: 20,
		DisciplineWeight:    0.6,
		LoyaltyWeight:       0.4,
		PremiumThreshold:    80,
		RegularThreshold:    50,
	}
}

// ConsoleConditionMark оценка состояния консоли в ручном рейтинге
type ConsoleConditionMark string

const (
	MarkPerfect     ConsoleConditionMark = "perfect"
	MarkMinorDamage ConsoleConditionMark = "minor_damage"
	MarkMajorDamage ConsoleConditionMark = "major_damage"
	MarkLost        ConsoleConditionMark = "lost"
)

// ComplianceMark оценка соблюдения правил в ручном рейтинге
type ComplianceMark string

const (
	MarkNoViolations    ComplianceMark = "no_violations"
	MarkMinorViolations ComplianceMark = "minor_violations"
	MarkMajorViolations ComplianceMark = "major_violations"
)

// TimingMark оценка своевременности в ручном рейтинге
type TimingMark string

const (
	MarkOnTime    TimingMark = "on_time"
	MarkLateHours TimingMark = "late_hours"
	MarkLateDays  TimingMark = "late_days"
)

// ManualRating ручная оценка завершенной аренды. ID совпадает с ID аренды
type ManualRating struct {
	ID               string
	RentalID         string
	UserID           int64
	ConsoleCondition ConsoleConditionMark
	RuleCompliance   ComplianceMark
	ReturnTiming     TimingMark
	Comment          *string
	CreatedBy        int64
	CreatedAt        time.Time
}
