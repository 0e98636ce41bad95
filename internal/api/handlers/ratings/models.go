package ratings

// AddTransactionRequest итоги аренды, внесенные администратором
type AddTransactionRequest struct {
	UserID         int64   `json:"userId" validate:"required,gt=0"`
	RentalID       *string `json:"rentalId,omitempty"`
	ReturnTiming   string  `json:"returnTiming" validate:"required,oneof=on_time late_1_24h late_over_24h"`
	ItemCondition  string  `json:"itemCondition" validate:"required,oneof=perfect minor_defects major_defects"`
	RuleCompliance string  `json:"ruleCompliance" validate:"required,oneof=no_violations minor_violation major_violation"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// LoyaltyBonusRequest изменение ручного бонуса лояльности
type LoyaltyBonusRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=200"`
}

// ManualRatingRequest ручная оценка завершенной аренды
type ManualRatingRequest struct {
	RentalID         string  `json:"rentalId" validate:"required"`
	ConsoleCondition string  `json:"consoleCondition" validate:"required,oneof=perfect minor_damage major_damage lost"`
	RuleCompliance   string  `json:"ruleCompliance" validate:"required,oneof=no_violations minor_violations major_violations"`
	ReturnTiming     string  `json:"returnTiming" validate:"required,oneof=on_time late_hours late_days"`
	Comment          *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}
