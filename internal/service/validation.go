package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// validate — общий экземпляр валидатора (потокобезопасен, кэширует разбор тегов).
var validate = validator.New(validator.WithRequiredStructEnabled())

// firstViolation возвращает сообщение для первого нарушенного правила.
// Поля проверяются в порядке объявления в структуре, поэтому порядок
// полей задаёт порядок проверок. messages — поле структуры → сообщение.
func firstViolation(s any, messages map[string]string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		if msg, ok := messages[validationErrs[0].StructField()]; ok {
			return newValidationError(msg)
		}
		return newValidationError(validationErrs[0].Error())
	}
	return err
}
