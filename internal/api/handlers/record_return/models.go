package record_return

import recordReturn "github.com/m04kA/SMC-ConsoleRental/internal/usecase/record_return"

// RecordReturnRequest HTTP запрос приема консоли
type RecordReturnRequest struct {
	AdminName       string   `json:"adminName" validate:"max=100"`
	Condition       string   `json:"condition" validate:"required,oneof=excellent minor_defects damaged lost"`
	RuleCompliance  *string  `json:"ruleCompliance,omitempty" validate:"omitempty,oneof=no_violations minor_violation major_violation"`
	AdminComment    string   `json:"adminComment" validate:"max=500"`
	Photos          []string `json:"photos" validate:"max=10"`
	ClientConfirmed bool     `json:"clientConfirmed"`
	ClientSignature *string  `json:"clientSignature,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RecordReturnRequest) ToUseCaseRequest(rentalID string, adminID int64) *recordReturn.Request {
	return &recordReturn.Request{
		RentalID:        rentalID,
		AdminID:         adminID,
		AdminName:       r.AdminName,
		Condition:       r.Condition,
		RuleCompliance:  r.RuleCompliance,
		AdminComment:    r.AdminComment,
		Photos:          r.Photos,
		ClientConfirmed: r.ClientConfirmed,
		ClientSignature: r.ClientSignature,
	}
}
