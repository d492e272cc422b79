package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/testutil"
	pkghash "github.com/Skotchmaster/storefront/pkg/hash"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

func TestMain(m *testing.M) {
	pkghash.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testEnv struct {
	E    *echo.Echo
	DB   *gorm.DB
	Auth *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	r := repo.New(db)
	auth := service.NewAuthService(r, []byte("test-jwt-secret"), []byte("test-refresh-secret"))

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	Register(e, &Deps{
		OrderHandler:     &OrderHTTP{Svc: service.NewOrderService(r, events.Nop{})},
		InventoryHandler: &InventoryHTTP{Svc: &service.InventoryService{Repo: r}},
		CatalogHandler:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Publisher: events.Nop{}}},
		CategoryHandler:  &CategoryHTTP{Svc: &service.CategoryService{Repo: r}},
		AuthHandler:      &AuthHTTP{Svc: auth},
		CartHandler:      &CartHTTP{Svc: &service.CartService{Repo: r}},
		ServiceName:      "storefront",
		JWTSecret:        auth.Tokens.JWTSecret,
		Refresher:        auth,
		Ping:             func(ctx context.Context) error { return db.WithContext(ctx).Exec("SELECT 1").Error },
	})

	return &testEnv{E: e, DB: db, Auth: auth}
}

// login creates a user with the role and returns its auth cookies.
func (env *testEnv) login(t *testing.T, email, role string) (*models.User, []*http.Cookie) {
	t.Helper()

	u := testutil.SeedUser(t, env.DB, email, role)
	pair, err := env.Auth.Tokens.Issue(context.Background(), u)
	require.NoError(t, err)
	return u, authCookies(pair)
}

func authCookies(pair *tokens.Pair) []*http.Cookie {
	return []*http.Cookie{
		{Name: jwthelp.AccessCookie, Value: pair.AccessToken},
		{Name: jwthelp.RefreshCookie, Value: pair.RefreshToken},
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
