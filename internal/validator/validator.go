package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError - одно нарушение: поле (имя из json-тега) и причина
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError содержит все нарушения в порядке полей структуры
type ValidationError struct {
	Errors []FieldError
}

// Error реализует стандартный интерфейс error.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("field '%s': %s", fe.Field, fe.Reason))
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}

// Fields возвращает имена полей с ошибками
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field)
	}
	return out
}

// Validator - это наша обертка над go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

// New создает новый экземпляр Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("validate")

	// Имена полей в ошибках берем из json-тегов DTO
	v.RegisterTagNameFunc(jsonFieldName)

	registerCustomRules(v)

	return &Validator{
		validate: v,
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Validate выполняет валидацию переданной структуры.
// Если есть ошибки, возвращает *ValidationError.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Это какая-то другая ошибка (например, ошибка рефлексии)
		return err
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, FieldError{Field: fe.Field(), Reason: getErrorMessage(fe)})
	}
	return &ValidationError{Errors: out}
}

// Form - сырая форма, которая умеет привести себя к типизированной записи.
// Ошибки разбора (например, "abc" в числовом поле) возвращаются списком.
type Form[T any] interface {
	Normalize() (T, []FieldError)
}

// ValidateForm нормализует форму и валидирует результат.
// Ошибки разбора и ошибки правил объединяются и сортируются по порядку полей T.
// Поле с ошибкой разбора не проверяется правилами повторно.
func ValidateForm[T any](v *Validator, form Form[T]) (T, error) {
	out, parseErrs := form.Normalize()

	var ruleErrs []FieldError
	if err := v.Validate(out); err != nil {
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			return out, err
		}
		ruleErrs = vErr.Errors
	}

	if len(parseErrs) == 0 && len(ruleErrs) == 0 {
		return out, nil
	}

	failed := make(map[string]struct{}, len(parseErrs))
	all := append([]FieldError{}, parseErrs...)
	for _, fe := range parseErrs {
		failed[fe.Field] = struct{}{}
	}
	for _, fe := range ruleErrs {
		if _, skip := failed[fe.Field]; !skip {
			all = append(all, fe)
		}
	}

	order := fieldOrder(reflect.TypeOf(out))
	sort.SliceStable(all, func(i, j int) bool {
		return order[all[i].Field] < order[all[j].Field]
	})

	return out, &ValidationError{Errors: all}
}

func fieldOrder(t reflect.Type) map[string]int {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	order := make(map[string]int)
	if t.Kind() != reflect.Struct {
		return order
	}
	for i := 0; i < t.NumField(); i++ {
		order[jsonFieldName(t.Field(i))] = i
	}
	return order
}

// getErrorMessage - вспомогательная функция для генерации сообщений.
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		if isLengthKind(fe.Kind()) {
			return fmt.Sprintf("Ensure this value has at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s", fe.Param())
	case "max":
		if isLengthKind(fe.Kind()) {
			return fmt.Sprintf("Ensure this value has at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s", fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "is-role":
		return "Select a valid role"
	case "accepted":
		return "You must agree to the terms and conditions"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}

func isLengthKind(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map
}
