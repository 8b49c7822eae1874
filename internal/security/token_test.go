package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	token, hash, err := GenerateSessionToken(32)
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.Len(t, hash, 32)
	assert.Equal(t, hash, HashSessionToken(token))
}

func TestGenerateSessionTokenUnique(t *testing.T) {
	a, _, err := GenerateSessionToken(32)
	require.NoError(t, err)
	b, _, err := GenerateSessionToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGenerateSessionTokenDefaultLength(t *testing.T) {
	token, _, err := GenerateSessionToken(0)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
