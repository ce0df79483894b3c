// Package auth resolves the caller of an API request. Token issuance and
// sessions are owned by an upstream gateway; requests arrive with the
// authenticated user id in a header.
package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const UserIDHeader = "X-User-ID"

type CurrentUser interface {
	UserID(c echo.Context) (string, error)
}

type HeaderUser struct {
	header string
}

func NewHeaderUser() *HeaderUser {
	return &HeaderUser{header: UserIDHeader}
}

func (h *HeaderUser) UserID(c echo.Context) (string, error) {
	id := strings.TrimSpace(c.Request().Header.Get(h.header))
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}
