package models

import (
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// AddTransactionRequest запрос на добавление итогов аренды администратором
type AddTransactionRequest struct {
	UserID         int64
	RentalID       *string
	ReturnTiming   string
	ItemCondition  string
	RuleCompliance string
	Notes          *string
	CreatedBy      int64
}

// RentalOutcome итоги аренды, записываемые при ее завершении или возврате
// ReplaceExisting: прежние транзакции этой аренды удаляются
type RentalOutcome struct {
	UserID          int64
	RentalID        string
	ReturnTiming    domain.ReturnTiming
	ItemCondition   domain.ItemCondition
	RuleCompliance  domain.RuleCompliance
	Notes           *string
	CreatedBy       int64
	ReplaceExisting bool
}

// DefaultOutcome итоги аренды без замечаний
func DefaultOutcome(userID int64, rentalID string) *RentalOutcome {
	return &RentalOutcome{
		UserID:         userID,
		RentalID:       rentalID,
		ReturnTiming:   domain.TimingOnTime,
		ItemCondition:  domain.ItemPerfect,
		RuleCompliance: domain.ComplianceNone,
	}
}

// BenefitsResponse льготы уровня клиента
type BenefitsResponse struct {
	DiscountPercent    int     `json:"discountPercent"`
	DepositMultiplier  float64 `json:"depositMultiplier"`
	PrioritySupport    bool    `json:"prioritySupport"`
	AdvanceBookingDays int     `json:"advanceBookingDays"`
}

// UserRatingResponse рейтинг клиента
type UserRatingResponse struct {
	UserID       int64            `json:"userId"`
	Discipline   int              `json:"discipline"`
	Loyalty      int              `json:"loyalty"`
	FinalScore   int              `json:"finalScore"`
	Status       string           `json:"status"`
	StatusName   string           `json:"statusName"`
	Scheme       string           `json:"scheme"`
	Benefits     BenefitsResponse `json:"benefits"`
	ManualScore  *float64         `json:"manualScore,omitempty"`
	CalculatedAt time.Time        `json:"calculatedAt"`
}

// TransactionResponse запись об итогах аренды
type TransactionResponse struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"userId"`
	RentalID       *string   `json:"rentalId,omitempty"`
	ReturnTiming   string    `json:"returnTiming"`
	ItemCondition  string    `json:"itemCondition"`
	RuleCompliance string    `json:"ruleCompliance"`
	Notes          *string   `json:"notes,omitempty"`
	Description    string    `json:"description"`
	CreatedBy      int64     `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HistoryEntryResponse снимок рейтинга из истории
type HistoryEntryResponse struct {
	ID          int64     `json:"id"`
	Scheme      string    `json:"scheme"`
	Score       float64   `json:"score"`
	Status      *string   `json:"status,omitempty"`
	Discipline  *int      `json:"discipline,omitempty"`
	Loyalty     *int      `json:"loyalty,omitempty"`
	BonusReason *string   `json:"bonusReason,omitempty"`
	BonusAmount *int      `json:"bonusAmount,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ManualRatingRequest ручная оценка завершенной аренды
type ManualRatingRequest struct {
	RentalID         string
	ConsoleCondition string
	RuleCompliance   string
	ReturnTiming     string
	Comment          *string
	CreatedBy        int64
}

// ManualRatingResponse сохраненная ручная оценка и новый балл клиента
type ManualRatingResponse struct {
	ID               string    `json:"id"`
	RentalID         string    `json:"rentalId"`
	UserID           int64     `json:"userId"`
	ConsoleCondition string    `json:"consoleCondition"`
	RuleCompliance   string    `json:"ruleCompliance"`
	ReturnTiming     string    `json:"returnTiming"`
	Comment          *string   `json:"comment,omitempty"`
	CreatedBy        int64     `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
	UserManualScore  float64   `json:"userManualScore"`
}

// PendingRentalResponse завершенная аренда без ручной оценки
type PendingRentalResponse struct {
	RentalID  string     `json:"rentalId"`
	UserID    int64      `json:"userId"`
	ConsoleID string     `json:"consoleId"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	TotalCost float64    `json:"totalCost"`
}

// FromDomainBenefits конвертирует domain.TierBenefits
func FromDomainBenefits(b domain.TierBenefits) BenefitsResponse {
	return BenefitsResponse{
		DiscountPercent:    b.DiscountPercent,
		DepositMultiplier:  b.DepositMultiplier,
		PrioritySupport:    b.PrioritySupport,
		AdvanceBookingDays: b.AdvanceBookingDays,
	}
}

// FromDomainRating конвертирует domain.UserRating; льготы передаются отдельно
func FromDomainRating(r *domain.UserRating, benefits domain.TierBenefits) *UserRatingResponse {
	return &UserRatingResponse{
		UserID:       r.UserID,
		Discipline:   r.Discipline,
		Loyalty:      r.Loyalty,
		FinalScore:   r.FinalScore,
		Status:       string(r.Status),
		StatusName:   r.Status.DisplayName(),
		Scheme:       string(r.Scheme),
		Benefits:     FromDomainBenefits(benefits),
		CalculatedAt: r.CalculatedAt,
	}
}

// FromDomainTransaction конвертирует domain.RatingTransaction
func FromDomainTransaction(tx *domain.RatingTransaction, description string) *TransactionResponse {
	return &TransactionResponse{
		ID:             tx.ID,
		UserID:         tx.UserID,
		RentalID:       tx.RentalID,
		ReturnTiming:   string(tx.ReturnTiming),
		ItemCondition:  string(tx.ItemCondition),
		RuleCompliance: string(tx.RuleCompliance),
		Notes:          tx.Notes,
		Description:    description,
		CreatedBy:      tx.CreatedBy,
		CreatedAt:      tx.CreatedAt,
	}
}

// FromDomainHistory конвертирует историю рейтинга
func FromDomainHistory(entries []*domain.RatingHistoryEntry) []*HistoryEntryResponse {
	result := make([]*HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := &HistoryEntryResponse{
			ID:          e.ID,
			Scheme:      string(e.Scheme),
			Score:       e.Score,
			Discipline:  e.Discipline,
			Loyalty:     e.Loyalty,
			BonusReason: e.BonusReason,
			BonusAmount: e.BonusAmount,
			CreatedAt:   e.CreatedAt,
		}
		if e.Status != nil {
			status := string(*e.Status)
			resp.Status = &status
		}
		result = append(result, resp)
	}
	return result
}

// FromDomainManualRating конвертирует domain.ManualRating
func FromDomainManualRating(m *domain.ManualRating, userScore float64) *ManualRatingResponse {
	return &ManualRatingResponse{
		ID:               m.ID,
		RentalID:         m.RentalID,
		UserID:           m.UserID,
		ConsoleCondition: string(m.ConsoleCondition),
		RuleCompliance:   string(m.RuleCompliance),
		ReturnTiming:     string(m.ReturnTiming),
		Comment:          m.Comment,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
		UserManualScore:  userScore,
	}
}

// FromDomainPendingRentals конвертирует аренды, ожидающие оценки
func FromDomainPendingRentals(rentals []*domain.Rental) []*PendingRentalResponse {
	result := make([]*PendingRentalResponse, 0, len(rentals))
	for _, r := range rentals {
		result = append(result, &PendingRentalResponse{
			RentalID:  r.ID,
			UserID:    r.UserID,
			ConsoleID: r.ConsoleID,
			Status:    string(r.Status),
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			TotalCost: r.TotalCost,
		})
	}
	return result
}
