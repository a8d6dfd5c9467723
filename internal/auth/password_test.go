package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-password", digest)

	assert.True(t, hasher.Verify("s3cret-password", digest))
	assert.False(t, hasher.Verify("wrong-password", digest))
}

func TestBcryptHasherLongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	long := strings.Repeat("x", 100)
	digest, err := hasher.Hash(long)
	require.NoError(t, err)
	assert.True(t, hasher.Verify(long, digest))
}

func TestBcryptHasherLongPasswordsStayDistinct(t *testing.T) {
	// Without the pre-hash step bcrypt would truncate both inputs to the
	// same 72 leading bytes and accept either password for either digest.
	hasher := NewBcryptHasher(bcrypt.MinCost)

	prefix := strings.Repeat("a", 72)
	first := prefix + "tail-one"
	second := prefix + "tail-two"

	digest, err := hasher.Hash(first)
	require.NoError(t, err)

	assert.True(t, hasher.Verify(first, digest))
	assert.False(t, hasher.Verify(second, digest))
}

func TestBcryptHasherMalformedDigest(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, hasher.Verify("whatever", "not-a-bcrypt-digest"))
	assert.False(t, hasher.Verify("whatever", ""))
}

func TestNewBcryptHasherCostFallback(t *testing.T) {
	hasher := NewBcryptHasher(1000)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewBcryptHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
