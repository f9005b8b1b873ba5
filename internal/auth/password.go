package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// commonPasswords - короткий список паролей, которые отклоняются всегда
var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwertyui":  {},
	"qwerty123": {},
	"iloveyou":  {},
	"11111111":  {},
	"abc12345":  {},
	"letmein1":  {},
	"welcome1":  {},
	"admin123":  {},
}

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword проверяет политику паролей и возвращает все нарушения.
// Пустой срез - пароль допустим.
func ValidatePassword(password, username string) []string {
	var problems []string

	if len(password) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if password != "" && isAllDigits(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if username != "" && strings.EqualFold(password, username) {
		problems = append(problems, "The password is too similar to the username.")
	}
	if _, common := commonPasswords[strings.ToLower(password)]; common {
		problems = append(problems, "This password is too common.")
	}

	return problems
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
