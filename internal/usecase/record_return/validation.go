package record_return

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

const maxPhotos = 10

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (*parsed, error) {
	if strings.TrimSpace(req.RentalID) == "" {
		return nil, fmt.Errorf("%w: rentalID is required", ErrInvalidInput)
	}

	condition := domain.ReturnCondition(req.Condition)
	if !domain.IsValidReturnCondition(condition) {
		return nil, fmt.Errorf("%w: unknown condition %q", ErrInvalidInput, req.Condition)
	}

	compliance := domain.ComplianceNone
	if req.RuleCompliance != nil {
		compliance = domain.RuleCompliance(*req.RuleCompliance)
		if !domain.IsValidRuleCompliance(compliance) {
			return nil, fmt.Errorf("%w: unknown rule compliance %q", ErrInvalidInput, *req.RuleCompliance)
		}
	}

	if utf8.RuneCountInString(req.AdminComment) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if len(req.Photos) > maxPhotos {
		return nil, fmt.Errorf("%w: at most %d photos are allowed", ErrInvalidInput, maxPhotos)
	}

	return &parsed{condition: condition, compliance: compliance}, nil
}
