// utils/remember_me.go
package utils

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RememberedSession is what a remember-me token resolves to.
type RememberedSession struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RememberMeDuration is how long a remember-me session stays valid.
const RememberMeDuration = 30 * 24 * time.Hour

// GenerateRememberMeToken generates a secure random token.
func GenerateRememberMeToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

func encryptionKey() []byte {
	key := os.Getenv("REMEMBER_ME_ENCRYPTION_KEY")
	if key == "" {
		// Fallback for development only.
		key = "default-encryption-key-32-bytes-long"
	}
	if len(key) < 32 {
		key = key + "00000000000000000000000000000000"
	}
	return []byte(key[:32])
}

// encryptSession seals the session payload with AES-GCM before it touches
// Redis.
func encryptSession(session RememberedSession) (string, error) {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(encryptionKey())
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, jsonData, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func decryptSession(encrypted string) (*RememberedSession, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encryptionKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}

	var session RememberedSession
	if err := json.Unmarshal(plaintext, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// StoreRememberedSession stores an encrypted session in Redis.
func StoreRememberedSession(redisClient *redis.Client, token string, session RememberedSession) error {
	if redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	encrypted, err := encryptSession(session)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	key := fmt.Sprintf("remember_me:%s", token)
	if err := redisClient.Set(context.Background(), key, encrypted, RememberMeDuration).Err(); err != nil {
		return fmt.Errorf("failed to store in redis: %w", err)
	}
	return nil
}

// RetrieveRememberedSession resolves a remember-me token, or returns an
// error for unknown/expired tokens.
func RetrieveRememberedSession(redisClient *redis.Client, token string) (*RememberedSession, error) {
	if redisClient == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	key := fmt.Sprintf("remember_me:%s", token)
	encrypted, err := redisClient.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("remember-me token not found or expired")
	}
	if err != nil {
		return nil, err
	}

	session, err := decryptSession(encrypted)
	if err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		redisClient.Del(context.Background(), key)
		return nil, fmt.Errorf("remember-me session expired")
	}
	return session, nil
}

// ForgetRememberedSession removes a remember-me token (logout).
func ForgetRememberedSession(redisClient *redis.Client, token string) {
	if redisClient == nil || token == "" {
		return
	}
	redisClient.Del(context.Background(), fmt.Sprintf("remember_me:%s", token))
}
