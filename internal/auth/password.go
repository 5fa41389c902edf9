package auth

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is the only password requirement.
const MinPasswordLength = 8

// HashPassword hashes a password with bcrypt. The salt is embedded in the
// returned hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
