package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	assert.True(t, CheckPasswordHash("password123", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestGenerateOTPCode(t *testing.T) {
	code, err := GenerateOTPCode(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}

	_, err = GenerateOTPCode(0)
	assert.Error(t, err)
}
