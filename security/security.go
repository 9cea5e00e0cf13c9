package security

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateToken generates a secure random token, used for password reset
// codes and CSRF protection.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
