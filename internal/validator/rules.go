package validator

import (
	"log"

	"jobportal/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-role': любая роль из перечисления
	mustRegister("is-role", validateRole)

	// 'accepted': флажок согласия должен быть установлен
	mustRegister("accepted", validateAccepted)
}

// --- Функции валидации ---

func validateRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}
	return models.Role(value).IsValid()
}

func validateAccepted(fl validator.FieldLevel) bool {
	return fl.Field().Bool()
}
