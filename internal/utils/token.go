package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewResetToken returns a one-time plaintext secret and its sha256 hex
// digest. The plaintext goes into the reset email; only the digest is
// stored, so a leaked database never reveals a usable token.
func NewResetToken() (plain, hashed string, err error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(buf)
	return plain, HashToken(plain), nil
}

// HashToken maps a plaintext reset secret to its stored form.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
