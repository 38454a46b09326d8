package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateTokenHex returns a hex string from n cryptographically random
// bytes, suitable for single-use reset tokens.
func GenerateTokenHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
