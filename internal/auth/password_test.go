package auth

import (
	"strings"
	"testing"

	apperrors "bookit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	passwords := []string{"hunter2", "correct horse battery staple", "pässwörd", " "}

	for _, p := range passwords {
		hash, err := HashPassword(p, bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, p, hash)
		assert.True(t, VerifyPassword(hash, p), p)
		assert.False(t, VerifyPassword(hash, p+"x"), p)
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword(a, "same"))
	assert.True(t, VerifyPassword(b, "same"))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "secret"))
}

func TestHashPasswordRejectsOverlongPassword(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 80), bcrypt.MinCost)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = HashPassword(strings.Repeat("a", 72), bcrypt.MinCost)
	assert.NoError(t, err)
}
