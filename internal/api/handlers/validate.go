package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate проверяет теги validate у тела запроса
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// ValidationMessage сообщение для клиента по ошибке валидации
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "некорректные данные запроса"
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "некорректные поля: " + strings.Join(fields, ", ")
}
