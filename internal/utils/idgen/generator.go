package idgen

import (
	"crypto/rand"
	"fmt"
)

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSecureID возвращает prefix_<length символов [0-9a-z]>
func GenerateSecureID(prefix string, length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	encoded := make([]byte, length)
	for i, b := range bytes {
		encoded[i] = charset[int(b)%len(charset)]
	}

	return fmt.Sprintf("%s_%s", prefix, encoded), nil
}
