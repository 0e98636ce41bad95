package rating

import (
	"math"
	"sort"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

const (
	minScore = 0
	maxScore = 100

	// нейтральная дисциплина клиента без истории
	neutralDiscipline = 50

	tenure6MonthsDays  = 180
	tenure12MonthsDays = 365

	manualBaseline = 5.0
	manualMin      = 1.0
	manualMax      = 5.0

	conditionWeight  = 0.4
	complianceWeight = 0.3
	timingWeight     = 0.3
)

// LoyaltyProfile данные клиента для расчета лояльности
type LoyaltyProfile struct {
	RentalCount  int
	Promotion    bool
	JoinedAt     time.Time
	LoyaltyBonus int
}

// ProfileFromUser собирает профиль лояльности из клиента и числа его аренд
func ProfileFromUser(user *domain.User, rentalCount int) LoyaltyProfile {
	return LoyaltyProfile{
		RentalCount:  rentalCount,
		Promotion:    user.PromotionParticipation,
		JoinedAt:     user.JoinedAt,
		LoyaltyBonus: user.LoyaltyBonus,
	}
}

// Discipline рассчитывает дисциплину по последним транзакциям окна
func Discipline(txs []*domain.RatingTransaction, rules domain.RatingRules) int {
	if len(txs) == 0 {
		return neutralDiscipline
	}

	recent := make([]*domain.RatingTransaction, len(txs))
	copy(recent, txs)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	window := rules.DisciplineWindow
	if window <= 0 {
		window = domain.DefaultRatingRules().DisciplineWindow
	}
	if len(recent) > window {
		recent = recent[:window]
	}

	total := 0
	for _, tx := range recent {
		score := maxScore +
			rules.ReturnTiming[tx.ReturnTiming] +
			rules.ItemCondition[tx.ItemCondition] +
			rules.RuleCompliance[tx.RuleCompliance]
		total += clamp(score, minScore, maxScore)
	}

	return int(math.Round(float64(total) / float64(len(recent))))
}

// Loyalty рассчитывает лояльность: повторные аренды, акции, стаж и ручной бонус
func Loyalty(profile LoyaltyProfile, now time.Time, rules domain.RatingRules) int {
	score := profile.RentalCount * rules.PerRentalBonus
	if score > rules.MaxRepeatBonus {
		score = rules.MaxRepeatBonus
	}

	if profile.Promotion {
		score += rules.PromotionBonus
	}

	if !profile.JoinedAt.IsZero() && !now.Before(profile.JoinedAt) {
		days := int(now.Sub(profile.JoinedAt).Hours() / 24)
		switch {
		case days >= tenure12MonthsDays:
			score += rules.Tenure12MonthsBonus
		case days >= tenure6MonthsDays:
			score += rules.Tenure6MonthsBonus
		}
	}

	score += profile.LoyaltyBonus

	return clamp(score, minScore, maxScore)
}

// Final итоговый балл и уровень клиента
func Final(discipline, loyalty int, rules domain.RatingRules) (int, domain.StatusTier) {
	score := float64(discipline)*rules.DisciplineWeight + float64(loyalty)*rules.LoyaltyWeight
	final := clamp(int(math.Round(score)), minScore, maxScore)
	return final, Tier(final, rules)
}

// Tier уровень клиента по итоговому баллу
func Tier(score int, rules domain.RatingRules) domain.StatusTier {
	switch {
	case score >= rules.PremiumThreshold:
		return domain.TierPremium
	case score >= rules.RegularThreshold:
		return domain.TierRegular
	default:
		return domain.TierRisk
	}
}

// Benefits льготы уровня; неизвестный уровень получает льготы обычного
func Benefits(status domain.StatusTier) domain.TierBenefits {
	switch status {
	case domain.TierPremium:
		return domain.TierBenefits{DiscountPercent: 10, DepositMultiplier: 0.8, PrioritySupport: true, AdvanceBookingDays: 45}
	case domain.TierRisk:
		return domain.TierBenefits{DiscountPercent: 0, DepositMultiplier: 1.5, PrioritySupport: false, AdvanceBookingDays: 7}
	default:
		return domain.TierBenefits{DiscountPercent: 0, DepositMultiplier: 1.0, PrioritySupport: false, AdvanceBookingDays: 30}
	}
}

var conditionMarks = map[domain.ConsoleConditionMark]float64{
	domain.MarkPerfect:     1.0,
	domain.MarkMinorDamage: 0.5,
	domain.MarkMajorDamage: -0.5,
	domain.MarkLost:        -1.5,
}

var complianceMarks = map[domain.ComplianceMark]float64{
	domain.MarkNoViolations:    1.0,
	domain.MarkMinorViolations: 0.3,
	domain.MarkMajorViolations: -0.7,
}

var timingMarks = map[domain.TimingMark]float64{
	domain.MarkOnTime:    1.0,
	domain.MarkLateHours: 0.3,
	domain.MarkLateDays:  -0.5,
}

// ManualScore балл по ручным оценкам на шкале 1.0–5.0, два знака после запятой
func ManualScore(ratings []*domain.ManualRating) float64 {
	score := manualBaseline
	for _, r := range ratings {
		score += conditionMarks[r.ConsoleCondition]*conditionWeight +
			complianceMarks[r.RuleCompliance]*complianceWeight +
			timingMarks[r.ReturnTiming]*timingWeight
	}
	score = math.Max(manualMin, math.Min(manualMax, score))
	return math.Round(score*100) / 100
}

// IsValidManualRating проверяет значения ручной оценки
func IsValidManualRating(m *domain.ManualRating) bool {
	_, okCondition := conditionMarks[m.ConsoleCondition]
	_, okCompliance := complianceMarks[m.RuleCompliance]
	_, okTiming := timingMarks[m.ReturnTiming]
	return okCondition && okCompliance && okTiming
}

// Describe краткое описание итогов аренды для истории рейтинга
func Describe(tx *domain.RatingTransaction) string {
	onTime := tx.ReturnTiming == domain.TimingOnTime
	perfect := tx.ItemCondition == domain.ItemPerfect
	clean := tx.RuleCompliance == domain.ComplianceNone
	serious := tx.ItemCondition == domain.ItemMajorDefects || tx.RuleCompliance == domain.ComplianceMajor

	switch {
	case onTime && perfect && clean:
		return "Отличная аренда"
	case !onTime && perfect && clean:
		return "Опоздание, но консоль в порядке"
	case onTime && !perfect && clean:
		return "Вовремя, но есть повреждения"
	case onTime && perfect && !clean:
		return "Вовремя, но нарушения правил"
	case serious:
		return "Серьезные нарушения"
	case tx.ReturnTiming == domain.TimingLate1To24h:
		return "Небольшое опоздание"
	case tx.ReturnTiming == domain.TimingLateOver24h:
		return "Опоздание более суток"
	default:
		return "Смешанные результаты"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
