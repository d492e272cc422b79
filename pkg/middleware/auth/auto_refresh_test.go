package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	args := m.Called(ctx, refreshToken)
	if p := args.Get(0); p != nil {
		return p.(*tokens.Pair), args.Error(1)
	}
	return nil, args.Error(1)
}

func newCtx(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func accessCookie(t *testing.T, sub, role string, exp time.Time) *http.Cookie {
	t.Helper()
	tok, err := tokens.NewAccessToken(sub, role, exp, secret)
	require.NoError(t, err)
	return &http.Cookie{Name: jwthelp.AccessCookie, Value: tok}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	c, _ := newCtx()

	err := m.RequireAuth(ok)(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	c, rec := newCtx(accessCookie(t, "5", "user", time.Now().Add(time.Minute)))

	require.NoError(t, m.RequireAuth(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5", c.Get(CtxUserID))
	assert.Equal(t, "user", c.Get(CtxRole))
}

func TestRequireAdmin_Forbidden(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	c, _ := newCtx(accessCookie(t, "5", "user", time.Now().Add(time.Minute)))

	err := m.RequireAdmin(ok)(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAuth_ExpiredTokenIsRefreshed(t *testing.T) {
	newAccess, err := tokens.NewAccessToken("9", "admin", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	r := &mockRefresher{}
	r.On("Refresh", mock.Anything, "old-refresh").Return(&tokens.Pair{
		AccessToken:  newAccess,
		RefreshToken: "new-refresh",
		AccessExp:    time.Now().Add(time.Minute),
		RefreshExp:   time.Now().Add(time.Hour),
		Role:         "admin",
	}, nil)

	m := NewAutoRefreshMiddleware(secret, r)
	c, rec := newCtx(
		accessCookie(t, "9", "admin", time.Now().Add(-time.Minute)),
		&http.Cookie{Name: jwthelp.RefreshCookie, Value: "old-refresh"},
	)

	require.NoError(t, m.RequireAdmin(ok)(c))
	assert.Equal(t, "9", c.Get(CtxUserID))

	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
	}
	assert.ElementsMatch(t, []string{jwthelp.AccessCookie, jwthelp.RefreshCookie}, names)
	r.AssertExpectations(t)
}

func TestRequireAuth_RefreshFails(t *testing.T) {
	r := &mockRefresher{}
	r.On("Refresh", mock.Anything, "revoked").Return(nil, errors.New("revoked"))

	m := NewAutoRefreshMiddleware(secret, r)
	c, _ := newCtx(
		accessCookie(t, "9", "user", time.Now().Add(-time.Minute)),
		&http.Cookie{Name: jwthelp.RefreshCookie, Value: "revoked"},
	)

	err := m.RequireAuth(ok)(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_RefreshCookieOnly(t *testing.T) {
	newAccess, err := tokens.NewAccessToken("7", "user", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	r := &mockRefresher{}
	r.On("Refresh", mock.Anything, "still-valid").Return(&tokens.Pair{
		AccessToken:  newAccess,
		RefreshToken: "rotated",
		AccessExp:    time.Now().Add(time.Minute),
		RefreshExp:   time.Now().Add(time.Hour),
		Role:         "user",
	}, nil).Once()

	m := NewAutoRefreshMiddleware(secret, r)
	c, rec := newCtx(&http.Cookie{Name: jwthelp.RefreshCookie, Value: "still-valid"})

	require.NoError(t, m.RequireAuth(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", c.Get(CtxUserID))

	got := map[string]string{}
	for _, ck := range rec.Result().Cookies() {
		got[ck.Name] = ck.Value
	}
	assert.Equal(t, newAccess, got[jwthelp.AccessCookie])
	assert.Equal(t, "rotated", got[jwthelp.RefreshCookie])
	r.AssertExpectations(t)
}

func TestRequireAdmin_RefreshCookieOnlyStillChecksRole(t *testing.T) {
	newAccess, err := tokens.NewAccessToken("7", "user", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	r := &mockRefresher{}
	r.On("Refresh", mock.Anything, "still-valid").Return(&tokens.Pair{
		AccessToken: newAccess,
		AccessExp:   time.Now().Add(time.Minute),
		RefreshExp:  time.Now().Add(time.Hour),
		Role:        "user",
	}, nil).Once()

	m := NewAutoRefreshMiddleware(secret, r)
	c, _ := newCtx(&http.Cookie{Name: jwthelp.RefreshCookie, Value: "still-valid"})

	err = m.RequireAdmin(ok)(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAuth_NoCookiesDoesNotRefresh(t *testing.T) {
	r := &mockRefresher{}
	m := NewAutoRefreshMiddleware(secret, r)
	c, _ := newCtx()

	err := m.RequireAuth(ok)(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	r.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}
