package record_return

import "github.com/m04kA/SMC-ConsoleRental/internal/domain"

// Request итоги приёмки консоли администратором
type Request struct {
	RentalID        string
	AdminID         int64
	AdminName       string
	Condition       string
	RuleCompliance  *string // по умолчанию без нарушений
	AdminComment    string
	Photos          []string
	ClientConfirmed bool
	ClientSignature *string
}

// parsed проверенные значения запроса
type parsed struct {
	condition  domain.ReturnCondition
	compliance domain.RuleCompliance
}
