package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repo.New(testutil.NewDB(t)), []byte("test-jwt-secret"), []byte("test-refresh-secret"))
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: " ", password: "secret123"},
		{name: "empty password", email: "user@example.com", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAuthService_RegisterLoginRefreshLogout(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, " Alice@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	_, err = svc.Register(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	pair, err := svc.Login(ctx, "ALICE@example.com", "password123")
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.Tokens.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)

	// Promotion is visible after a refresh.
	_, err = svc.SetRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, next.Role)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "a rotated refresh token is single use")

	require.NoError(t, svc.Logout(ctx, next.RefreshToken))
	_, err = svc.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, ""))
}

func TestAuthService_Refresh_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Signed with the access secret instead of the refresh secret.
	access, err := tokens.NewAccessToken("1", models.RoleUser, tokensExp(), svc.Tokens.JWTSecret)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, access)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Users(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "bob@example.com", "password123")
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", got.Email)

	_, err = svc.GetUser(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.SetRole(ctx, u.ID, "root")
	assert.ErrorIs(t, err, domain.ErrValidation)

	total, users, err := svc.ListUsers(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, users, 1)
}

func tokensExp() time.Time { return time.Now().Add(tokens.AccessTTL) }
