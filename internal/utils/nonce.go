package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateNonce returns a random hex string of 2*size characters.
func GenerateNonce(size int) (string, error) {
	bytes := make([]byte, size)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
