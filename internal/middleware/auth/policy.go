package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrPasswordTooShort   = errors.New("this password is too short")
	ErrPasswordNumeric    = errors.New("this password is entirely numeric")
	ErrPasswordCommon     = errors.New("this password is too common")
	ErrPasswordSimilar    = errors.New("the password is too similar to the account details")
	ErrPasswordEmptyInput = errors.New("password is required")
)

// PasswordValidator checks password strength for a given account.
type PasswordValidator interface {
	Validate(password string, attrs ...string) error
}

// PasswordPolicy is the default strength policy: minimum length, not entirely
// numeric, not on the common list and not containing any account attribute
// (username, email local part, names) of four or more characters.
type PasswordPolicy struct {
	MinLength int
	Common    map[string]struct{}
}

// commonPasswords is a short deny-list of the most reused passwords.
var commonPasswords = []string{
	"password", "password1", "password123", "12345678", "123456789", "1234567890",
	"qwerty123", "qwertyuiop", "iloveyou", "sunshine", "princess", "football",
	"baseball", "welcome1", "admin123", "letmein1", "abc12345", "trustno1",
	"passw0rd", "superman", "11111111", "00000000", "monkey123", "dragon123",
}

func NewPasswordPolicy(minLength int) *PasswordPolicy {
	if minLength <= 0 {
		minLength = 8
	}
	common := make(map[string]struct{}, len(commonPasswords))
	for _, p := range commonPasswords {
		common[p] = struct{}{}
	}
	return &PasswordPolicy{MinLength: minLength, Common: common}
}

// Validate returns every failed rule joined into one error.
func (p *PasswordPolicy) Validate(password string, attrs ...string) error {
	if password == "" {
		return ErrPasswordEmptyInput
	}

	var errs []error
	if len([]rune(password)) < p.MinLength {
		errs = append(errs, fmt.Errorf("%w: it must contain at least %d characters", ErrPasswordTooShort, p.MinLength))
	}
	if isNumeric(password) {
		errs = append(errs, ErrPasswordNumeric)
	}
	if _, ok := p.Common[strings.ToLower(password)]; ok {
		errs = append(errs, ErrPasswordCommon)
	}
	if similarTo(password, attrs) {
		errs = append(errs, ErrPasswordSimilar)
	}
	return errors.Join(errs...)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func similarTo(password string, attrs []string) bool {
	lower := strings.ToLower(password)
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if at := strings.IndexByte(attr, '@'); at >= 0 {
			attr = attr[:at]
		}
		if len(attr) < 4 {
			continue
		}
		if strings.Contains(lower, attr) || strings.Contains(attr, lower) {
			return true
		}
	}
	return false
}
