package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(AccessTTL)
	tok, err := NewAccessToken("42", "admin", exp, accessSecret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("42", "user", time.Now().Add(-time.Minute), accessSecret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, accessSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("42", "user", time.Now().Add(time.Minute), accessSecret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, refreshSecret)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := NewRefreshToken("7", "jti-1", time.Now().Add(RefreshTTL), refreshSecret)
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(tok, refreshSecret)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "jti-1", claims.ID)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{Role: "admin"})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(s, accessSecret)
	require.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	t.Parallel()

	_, err := RefreshClaimsFromToken("not-a-valid-jwt", refreshSecret)
	require.Error(t, err)
}
