package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const digitBytes = "0123456789"

// GenerateRandomDigitString returns n random decimal digits; used for entity IDs.
func GenerateRandomDigitString(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digitBytes))))
		if err != nil {
			continue
		}
		sb.WriteByte(digitBytes[num.Int64()])
	}
	return sb.String()
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail lowercases and trims an address for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func Contains(slice []string, value string) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}
