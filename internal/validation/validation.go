// Package validation gates user supplied strings before they reach the stores.
// Every function is a pure predicate that returns a wrapped sentinel on rejection.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidID       = errors.New("invalid national id")
	ErrInvalidInput    = errors.New("invalid input")
)

// IsValidationError reports whether err is one of the validation kinds
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPhone) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput)
}

const (
	phoneLength       = 10
	minPasswordLength = 6
	passwordSymbols   = "@_-"
	maxProvince       = 24
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[a-zA-Z]{2,}$`)

// Phone accepts exactly ten ASCII digits
func Phone(s string) error {
	if len(s) != phoneLength || !allDigits(s) {
		return fmt.Errorf("%w: expected %d digits", ErrInvalidPhone, phoneLength)
	}
	return nil
}

// Email applies the full address pattern
func Email(s string) error {
	if !emailPattern.MatchString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, s)
	}
	return nil
}

// Password requires six characters with an upper case letter, a lower case
// letter and one of @ _ -
func Password(s string) error {
	if len(s) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrInvalidPassword, minPasswordLength)
	}
	var upper, lower, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !upper || !lower || !symbol {
		return fmt.Errorf("%w: needs an upper case letter, a lower case letter and one of %s",
			ErrInvalidPassword, passwordSymbols)
	}
	return nil
}

// NationalID checks an Ecuadorian cedula: ten digits, province 01-24 and the
// modulo 10 verifier in the last position.
func NationalID(s string) error {
	if len(s) != 10 || !allDigits(s) {
		return fmt.Errorf("%w: expected 10 digits", ErrInvalidID)
	}
	province := int(s[0]-'0')*10 + int(s[1]-'0')
	if province < 1 || province > maxProvince {
		return fmt.Errorf("%w: unknown province %02d", ErrInvalidID, province)
	}
	sum := 0
	for i := 0; i < 9; i++ {
		d := int(s[i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	verifier := (10 - sum%10) % 10
	if verifier != int(s[9]-'0') {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidID)
	}
	return nil
}

// ParseCode parses a positive integer identifier such as a product or cart code
func ParseCode(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: code must be a positive integer, got %q", ErrInvalidInput, s)
	}
	return n, nil
}

// ParseQuantity parses a positive cart quantity
func ParseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: quantity must be a positive integer, got %q", ErrInvalidInput, s)
	}
	return n, nil
}

// ParseStock parses an optional non-negative stock count; empty means unset
func ParseStock(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: stock must be a non-negative integer, got %q", ErrInvalidInput, s)
	}
	return &n, nil
}

// ParsePrice parses a non-negative decimal price
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: price must be a number, got %q", ErrInvalidInput, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidInput, s)
	}
	return t, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
