package validator

import (
	"strconv"
	"strings"
)

// emailPlaceholders - значения поля email, означающие "email не указан"
var emailPlaceholders = map[string]struct{}{
	"":               {},
	"email":          {},
	"na":             {},
	"not applicable": {},
}

// NormalizeEmail обрезает пробелы и приводит к нижнему регистру.
// Пустая строка и заглушки ("NA", "Not Applicable" и т.п.) дают nil.
func NormalizeEmail(raw string) *string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if _, placeholder := emailPlaceholders[email]; placeholder {
		return nil
	}
	return &email
}

// NormalizeText обрезает пробелы; пустое значение - nil
func NormalizeText(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// ParseExperience разбирает стаж в годах. Пустое значение - nil без ошибки.
// Неотрицательность проверяется правилами валидации, а не здесь.
func ParseExperience(field, raw string) (*int, *FieldError) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &FieldError{Field: field, Reason: "Enter a whole number"}
	}
	return &n, nil
}
