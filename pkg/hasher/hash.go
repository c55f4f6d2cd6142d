package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 hash of the input string as hex.
// Refresh tokens are stored by this hash, never in plain text.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func Verify(s, hash string) bool {
	return Hash(s) == hash
}

// SumBytes is the same function but takes []byte as input.
func SumBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
