package util

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomString returns a hex string of n random bytes.
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
