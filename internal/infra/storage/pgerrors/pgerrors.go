package pgerrors

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// IsUniqueViolation сообщает, что запрос нарушил уникальный индекс
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

// IsSerializationFailure сообщает о конфликте сериализуемых транзакций
func IsSerializationFailure(err error) bool {
	return hasCode(err, pgerrcode.SerializationFailure)
}

// ConstraintName имя нарушенного ограничения, если оно известно
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
