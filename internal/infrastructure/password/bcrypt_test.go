package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_SaltedOutputsDiffer(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher()

	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, "secret1", first)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher()

	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.True(t, h.Verify("secret1", hash))
	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("", hash))
	assert.False(t, h.Verify("secret1", "not-a-hash"))
}
