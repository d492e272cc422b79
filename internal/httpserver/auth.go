package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setAuthCookies(c echo.Context, pair *tokens.Pair) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(l, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_error", "invalid body", err)
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(l, "login_failed", err)
	}

	setAuthCookies(c, pair)
	l.Info("login_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"is_admin": pair.Role == "admin",
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	cookie, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || cookie.Value == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	pair, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		clearAuthCookies(c)
		return httpError(l, "refresh_failed", err)
	}

	setAuthCookies(c, pair)
	return c.JSON(http.StatusOK, echo.Map{
		"is_admin": pair.Role == "admin",
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if cookie, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			clearAuthCookies(c)
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refreshToken", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	clearAuthCookies(c)
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_me")

	user, err := currentUser(c)
	if err != nil {
		l.Warn("me_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	u, err := h.Svc.GetUser(ctx, user.ID)
	if err != nil {
		return httpError(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_list_users")

	p := parsePage(c)
	total, users, err := h.Svc.ListUsers(ctx, p.Offset, p.Limit)
	if err != nil {
		return httpError(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(users, p.Page, p.Offset, p.Limit, total))
}

func (h *AuthHTTP) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_update_role")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "update_role_error", "id is not an integer", err)
	}

	var req transport.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_role_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return httpError(l, "update_role_error", err)
	}

	u, err := h.Svc.SetRole(ctx, id, req.Role)
	if err != nil {
		return httpError(l, "update_role_error", err)
	}

	l.Info("update_role_success", "user_id", id, "role", u.Role)
	return c.JSON(http.StatusOK, u)
}
