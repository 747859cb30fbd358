package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct-password")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct-password", hash)

	assert.True(t, CheckPasswordHash("correct-password", hash))
	assert.False(t, CheckPasswordHash("WRONG-password", hash))
}

func TestCheckPasswordHash_NotAHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPasswordHash("anything", "plaintext-not-a-hash"))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("long-enough"))
}
