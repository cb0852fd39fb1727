package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	signed, err := Issue("secret", time.Hour, "user-1", true)
	require.NoError(t, err)

	claims, err := Parse("secret", signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, err := Issue("secret", time.Hour, "user-1", false)
	require.NoError(t, err)

	_, err = Parse("other-secret", signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	signed, err := Issue("secret", -time.Minute, "user-1", false)
	require.NoError(t, err)

	_, err = Parse("secret", signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
