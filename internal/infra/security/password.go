package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor for all new hashes. Older seed
// data hashed at cost 10 still verifies, since the cost is encoded in the
// hash itself; 12 is the single standard going forward.
const PasswordHashCost = 12

// HashPassword generates a salted bcrypt hash of the provided password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash
// using the library's constant-time comparison. Any mismatch, including a
// malformed stored hash, reports false rather than an error.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
