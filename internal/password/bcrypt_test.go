package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", hash)

	ok, err := h.Verify(hash, "Secret123!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	ok, err := h.Verify("not-a-hash", "Secret123!")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost).cost)
}
