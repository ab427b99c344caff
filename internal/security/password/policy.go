package password

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MinLen = 8

var (
	ErrTooShort       = errors.New("password too short")
	ErrTooSimilar     = errors.New("password too similar to username")
	ErrEntirelyNumber = errors.New("password is entirely numeric")
)

// Validate applies the account-creation rules: a minimum length, not the
// username, not all digits. It returns the trimmed password.
func Validate(pwd, username string) (string, error) {
	trimmed := strings.TrimSpace(pwd)
	if utf8.RuneCountInString(trimmed) < MinLen {
		return trimmed, ErrTooShort
	}
	if u := strings.TrimSpace(username); u != "" && strings.Contains(strings.ToLower(trimmed), strings.ToLower(u)) {
		return trimmed, ErrTooSimilar
	}
	if strings.IndexFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return trimmed, ErrEntirelyNumber
	}
	return trimmed, nil
}
