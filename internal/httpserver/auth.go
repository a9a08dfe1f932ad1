package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/DaviHS/badaoburguer/internal/middleware/auth"
	"github.com/DaviHS/badaoburguer/internal/service"
	"github.com/DaviHS/badaoburguer/internal/transport"
	"github.com/DaviHS/badaoburguer/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		l.Warn("register_error", "error", err)
		return domainError(err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return domainError(err)
	}

	for _, ck := range authmw.SessionCookies(result) {
		c.SetCookie(ck)
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, map[string]bool{"is_admin": result.IsAdmin})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	rfCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	result, err := h.Svc.Refresh(ctx, rfCookie.Value)
	if err != nil {
		return domainError(err)
	}

	for _, ck := range authmw.SessionCookies(result) {
		c.SetCookie(ck)
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_admin": result.IsAdmin})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if rfCookie, err := c.Cookie("refreshToken"); err == nil {
		if err := h.Svc.Logout(ctx, rfCookie.Value); err != nil {
			l.Warn("logout_error", "error", err)
		}
	}

	for _, ck := range authmw.ClearSessionCookies() {
		c.SetCookie(ck)
	}
	return c.NoContent(http.StatusNoContent)
}
