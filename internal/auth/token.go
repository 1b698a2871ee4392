// Package auth implements the credential codec, password hashing and the
// per-request authorization state used by the HTTP guards.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "pauller-api"
	tokenAudience = "pauller-client"

	// DefaultTokenTTL is the credential lifetime used when the config does not
	// override it.
	DefaultTokenTTL = 7 * 24 * time.Hour
)

// Decode failure kinds. They exist for logging only; the boundary translates
// all of them into the same client-facing response.
var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
	ErrBadSignature   = errors.New("signature verification failed")
	ErrMissingSubject = errors.New("missing subject claim")
)

// IssueToken mints a signed bearer credential asserting the given username
// until now+ttl.
func IssueToken(username, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("signing secret not configured")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// DecodeToken validates the signature, structure and expiry of a credential
// and returns its subject username. The jwt library uses a constant-time
// compare for HMAC signatures.
func DecodeToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return "", ErrBadSignature
		default:
			return "", ErrTokenMalformed
		}
	}
	if !token.Valid {
		return "", ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenMalformed
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrMissingSubject
	}

	return subject, nil
}

// generateJTI creates a unique token ID so two tokens minted in the same
// second still differ.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
