package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)

	tok, exp, err := ti.Issue("sess-1", "agent_1", "agent")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ti.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "agent_1", claims.UserID)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID())
	assert.Equal(t, "agent_1", claims.Subject)
}

func TestParse_Garbage(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	_, err := ti.Parse("invalid.token.string")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	ti.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := ti.Issue("sess-1", "client_1", "client")
	require.NoError(t, err)

	ti.now = time.Now
	_, err = ti.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, _, err := NewTokenIssuer("secret1", time.Hour).Issue("s", "u", "client")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret2", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_OtherSigningMethod(t *testing.T) {
	claims := &Claims{
		UserID: "u",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "s",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(tok)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected signing method")
}

func TestParse_MissingSession(t *testing.T) {
	claims := &Claims{UserID: "u", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
