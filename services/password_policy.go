package services

import (
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest password accepted for backoffice users
const MinPasswordLength = 10

// ValidatePassword checks the password rules and reports every unmet rule
// on the password field
func ValidatePassword(password string) error {
	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	var problems []string
	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "at least 10 characters")
	}
	if !hasUpper {
		problems = append(problems, "an uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "a lowercase letter")
	}
	if !hasNumber {
		problems = append(problems, "a number")
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Fields: map[string]string{"password": "must contain " + strings.Join(problems, ", ")}}
}
