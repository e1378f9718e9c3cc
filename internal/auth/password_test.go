package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher()

	digest, err := hasher.Hash("12345")
	require.NoError(t, err)
	assert.NotEqual(t, "12345", digest)

	assert.True(t, hasher.Verify("12345", digest))
	assert.False(t, hasher.Verify("wrong", digest))
	assert.False(t, hasher.Verify("12345", "not-a-bcrypt-digest"))
}

func TestPasswordHasher_SaltedDigests(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("12345")
	require.NoError(t, err)
	second, err := hasher.Hash("12345")
	require.NoError(t, err)

	// salts differ per call, both still verify
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("12345", first))
	assert.True(t, hasher.Verify("12345", second))
}
