package funnel

import (
	"regexp"
	"strings"
)

// emailShape is the minimal text@text.text check used by the contact step.
var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

// DigitsOnly strips every non-digit rune. The result is the canonical stored
// form of a phone number.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone renders a phone number for display, progressively as digits
// accrue: 0-3 digits unformatted, 4-6 as "(XXX) XXX", 7-10 as
// "(XXX) XXX-XXXX". Input may already be formatted; formatting is idempotent.
func FormatPhone(s string) string {
	digits := DigitsOnly(s)
	if len(digits) > 10 {
		digits = digits[:10]
	}
	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return "(" + digits[:3] + ") " + digits[3:]
	default:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	}
}

func validateAddress(location string) error {
	if location == "" {
		return ValidationError{Field: "location", Message: "Address is required"}
	}
	return nil
}

func validateNames(first, last string) error {
	if strings.TrimSpace(first) == "" {
		return ValidationError{Field: "firstName", Message: "First name is required"}
	}
	if strings.TrimSpace(last) == "" {
		return ValidationError{Field: "lastName", Message: "Last name is required"}
	}
	return nil
}

func validatePhone(phone string) error {
	digits := DigitsOnly(phone)
	if digits == "" {
		return ValidationError{Field: "phone", Message: "Phone number is required"}
	}
	if len(digits) != 10 {
		return ValidationError{Field: "phone", Message: "Please enter a valid 10-digit phone number"}
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ValidationError{Field: "email", Message: "Email is required"}
	}
	if !emailShape.MatchString(email) {
		return ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

func validateDelivery(method string) error {
	switch method {
	case DeliveryInPerson, DeliveryVirtual:
		return nil
	case "":
		return ValidationError{Field: "delivery", Message: "Delivery method is required"}
	default:
		return ValidationError{Field: "delivery", Message: "Delivery method must be inperson or virtual"}
	}
}
