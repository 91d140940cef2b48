// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, upgraded, err := VerifyPasswordWithRehash("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, upgraded)

	ok, _, err = VerifyPasswordWithRehash("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestVerifyUpgradesOutdatedParams(t *testing.T) {
	old := argonParams{memory: 8 * 1024, time: 1, threads: 1, keyLen: 32}
	salt := []byte("0123456789abcdef")
	hash := encodeHash(old, salt, derive("pw-123456", salt, old))

	ok, upgraded, err := VerifyPasswordWithRehash("pw-123456", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, upgraded)

	params, _, _, err := decodeHash(upgraded)
	require.NoError(t, err)
	assert.Equal(t, currentParams, params)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	_, _, err := VerifyPasswordWithRehash("pw", "plaintext")
	assert.ErrorIs(t, err, ErrMalformedHash)

	_, _, err = VerifyPasswordWithRehash("pw", "$argon2id$v=19$m=x$salt$key")
	assert.ErrorIs(t, err, ErrMalformedHash)
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	ok, upgraded, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, upgraded)

	empty := ""
	ok, _, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashToken(t *testing.T) {
	token, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, HashToken(token), 64)
	assert.Equal(t, HashToken(token), HashToken(token))
	assert.NotEqual(t, HashToken(token), HashToken(token+"x"))
}
