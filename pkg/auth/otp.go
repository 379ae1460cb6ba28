package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateOTPCode returns a random numeric code of the given length.
// Leading zeros are allowed.
func GenerateOTPCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid OTP length: %d", length)
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate OTP digit: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}
