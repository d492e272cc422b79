package httpserver

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/util"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

var errUnauthorized = errors.New("unauthorized")

type caller struct {
	ID      uint
	IsAdmin bool
}

// currentUser reads what the auth middleware stored in the context.
func currentUser(c echo.Context) (caller, error) {
	s, ok := c.Get(middleware.CtxUserID).(string)
	if !ok || s == "" {
		return caller{}, errUnauthorized
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return caller{}, errUnauthorized
	}
	role, _ := c.Get(middleware.CtxRole).(string)
	return caller{ID: uint(id), IsAdmin: role == middleware.RoleAdmin}, nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return uint(id), nil
}

type pageParams struct {
	Page   int
	Offset int
	Limit  int
}

func parsePage(c echo.Context) pageParams {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	return pageParams{Page: page, Offset: offset, Limit: limit}
}
