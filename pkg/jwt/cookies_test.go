package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCookie(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	c := CreateCookie(AccessCookie, "tok", "/", exp)

	assert.Equal(t, "accessToken", c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, exp, c.Expires)
}

func TestDeleteCookie(t *testing.T) {
	c := DeleteCookie(RefreshCookie, "/")
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
}

func TestSha256Hex(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", Sha256Hex("hello"))
}

func TestNewJTI(t *testing.T) {
	_, err := uuid.Parse(NewJTI())
	require.NoError(t, err)
	assert.NotEqual(t, NewJTI(), NewJTI())
}
