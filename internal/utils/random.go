package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateResetToken returns a 64-character hex string built from 32 bytes of
// cryptographically secure randomness, used as a password-reset link token.
func GenerateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating reset token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// GenerateOTP returns a zero-padded 6-digit recovery code drawn from
// crypto/rand.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("error generating recovery code: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
