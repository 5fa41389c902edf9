package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"
)

// GenerateVerificationToken returns an unguessable opaque token. UUIDv4
// carries 122 random bits; the store's unique constraint catches the
// astronomically unlikely collision.
func GenerateVerificationToken() string {
	return uuid.NewString()
}

// GenerateOTP returns a uniformly random digit string of the given length,
// zero digits included, so short codes keep their leading zeros.
func GenerateOTP(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	digits := make([]byte, length)
	for i, b := range buf {
		// Rejection sampling per byte keeps each digit uniform.
		for b >= 250 {
			var one [1]byte
			if _, err := rand.Read(one[:]); err != nil {
				return "", fmt.Errorf("failed to read random bytes: %w", err)
			}
			b = one[0]
		}
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}

// otpEqual compares two codes in constant time.
func otpEqual(stored, input string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(input)) == 1
}
