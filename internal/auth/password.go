package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt digest of the plaintext. Two calls
// with the same input yield different digests; VerifyPassword tolerates that.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether the digest was produced from an equal
// plaintext. bcrypt's comparison is constant-time.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
