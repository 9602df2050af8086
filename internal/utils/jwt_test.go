package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetspace/room-booking/internal/model"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	name := "Ada"
	u := model.User{ID: 7, Email: "ada@example.com", Name: &name, Role: "admin"}

	tok, err := NewAccessToken(testSecret, u, time.Hour)
	require.NoError(t, err)

	p, err := ParsePrincipal(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), p.ID)
	assert.Equal(t, "admin", p.Role)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "Ada", p.Name)
}

func TestParsePrincipalExpiredToken(t *testing.T) {
	u := model.User{ID: 7, Email: "ada@example.com", Role: "user"}
	tok, err := NewAccessToken(testSecret, u, -time.Minute)
	require.NoError(t, err)

	_, err = ParsePrincipal(testSecret, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParsePrincipalWrongSecret(t *testing.T) {
	u := model.User{ID: 7, Email: "ada@example.com", Role: "user"}
	tok, err := NewAccessToken(testSecret, u, time.Hour)
	require.NoError(t, err)

	_, err = ParsePrincipal("other-secret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParsePrincipalGarbage(t *testing.T) {
	_, err := ParsePrincipal(testSecret, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
