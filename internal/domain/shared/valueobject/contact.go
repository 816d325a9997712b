package valueobject

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/billing/backend/internal/domain/shared"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern    = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	nricPattern     = regexp.MustCompile(`^\d{6}-\d{2}-\d{4}$`)
	passportPattern = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)
)

// Email is a validated email address.
type Email struct {
	value string
}

// NewEmail creates an Email, rejecting malformed or oversized addresses
func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Email{}, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(trimmed) > 200 {
		return Email{}, shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(trimmed) {
		return Email{}, shared.NewDomainError("INVALID_EMAIL", fmt.Sprintf("Invalid email format: %s", trimmed))
	}
	return Email{value: strings.ToLower(trimmed)}, nil
}

// String returns the email address
func (e Email) String() string {
	return e.value
}

// Phone is a validated phone number.
type Phone struct {
	value string
}

// NewPhone creates a Phone, allowing digits, spaces, hyphens, parentheses
// and a plus sign
func NewPhone(value string) (Phone, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Phone{}, shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if len(trimmed) > 50 {
		return Phone{}, shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(trimmed) {
		return Phone{}, shared.NewDomainError("INVALID_PHONE", fmt.Sprintf("Invalid phone number format: %s", trimmed))
	}
	return Phone{value: trimmed}, nil
}

// String returns the phone number
func (p Phone) String() string {
	return p.value
}

// NRIC is a Malaysian national registration identity card number
// in the YYMMDD-PB-#### format.
type NRIC struct {
	value string
}

// NewNRIC creates an NRIC, enforcing the standard dashed format
func NewNRIC(value string) (NRIC, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return NRIC{}, shared.NewDomainError("INVALID_NRIC", "NRIC cannot be empty")
	}
	if !nricPattern.MatchString(trimmed) {
		return NRIC{}, shared.NewDomainError("INVALID_NRIC",
			fmt.Sprintf("NRIC must match YYMMDD-PB-#### format, got %s", trimmed))
	}
	return NRIC{value: trimmed}, nil
}

// String returns the NRIC number
func (n NRIC) String() string {
	return n.value
}

// PassportNumber is a validated passport number: 6 to 12 uppercase
// alphanumeric characters.
type PassportNumber struct {
	value string
}

// NewPassportNumber creates a PassportNumber; lowercase input is uppercased
// before validation
func NewPassportNumber(value string) (PassportNumber, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return PassportNumber{}, shared.NewDomainError("INVALID_PASSPORT_NUMBER", "Passport number cannot be empty")
	}
	if !passportPattern.MatchString(trimmed) {
		return PassportNumber{}, shared.NewDomainError("INVALID_PASSPORT_NUMBER",
			fmt.Sprintf("Passport number must be 6-12 alphanumeric characters, got %s", trimmed))
	}
	return PassportNumber{value: trimmed}, nil
}

// String returns the passport number
func (p PassportNumber) String() string {
	return p.value
}
