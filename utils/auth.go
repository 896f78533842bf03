package utils

import (
	"net/mail"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address parses as a bare RFC 5322 address
func ValidateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ValidatePhoneNumber validates a 10-digit Indian mobile number with the +91 country code
func ValidatePhoneNumber(phoneNumber string) bool {
	if len(phoneNumber) != 13 || !strings.HasPrefix(phoneNumber, "+91") {
		return false
	}
	for _, r := range phoneNumber[3:] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	// Indian mobile numbers start with 6-9
	return phoneNumber[3] >= '6'
}

// FormatPhoneNumber strips separators and adds the +91 country code if not present
func FormatPhoneNumber(phoneNumber string) string {
	var digits strings.Builder
	for _, r := range phoneNumber {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	number := digits.String()

	switch {
	case len(number) == 12 && strings.HasPrefix(number, "91"):
		return "+" + number
	case len(number) == 11 && strings.HasPrefix(number, "0"):
		return "+91" + number[1:]
	default:
		return "+91" + number
	}
}
