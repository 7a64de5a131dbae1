package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer s3cret")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", tok)

	tok, err = BearerToken("bearer   s3cret ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", tok)

	for _, h := range []string{"", "Bearer", "Bearer  ", "Basic abc", "s3cret"} {
		_, err := BearerToken(h)
		assert.ErrorIs(t, err, ErrTokenMissing, h)
	}
}

func TestVerifier(t *testing.T) {
	hash, err := HashToken("s3cret")
	require.NoError(t, err)

	v, err := NewVerifier(hash)
	require.NoError(t, err)
	assert.NoError(t, v.Verify("s3cret"))
	assert.ErrorIs(t, v.Verify("guess"), ErrTokenInvalid)

	_, err = NewVerifier("plaintext")
	assert.Error(t, err)

	var zero *Verifier
	assert.ErrorIs(t, zero.Verify("s3cret"), ErrTokenInvalid)

	_, err = HashToken(" ")
	assert.ErrorIs(t, err, ErrTokenMissing)
}
