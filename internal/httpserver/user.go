package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/DaviHS/badaoburguer/internal/middleware/auth"
	"github.com/DaviHS/badaoburguer/internal/notify"
	"github.com/DaviHS/badaoburguer/internal/service"
	"github.com/DaviHS/badaoburguer/internal/transport"
	"github.com/DaviHS/badaoburguer/pkg/logging"
)

type UserHTTP struct {
	Svc      *service.UserService
	Notifier service.Notifier
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	user, err := h.Svc.GetUser(ctx, userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	_, size, offset := pagination(c)
	users, err := h.Svc.ListUsers(ctx, size, offset)
	if err != nil {
		logging.FromContext(ctx).Error("list_users_error", "error", err)
		return domainError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) SetActive(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.set_active")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transport.SetUserActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetActive(ctx, id, req.Active); err != nil {
		l.Warn("set_active_error", "user_id", id, "error", err)
		return domainError(err)
	}

	l.Info("set_active_success", "user_id", id, "active", req.Active)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) SetRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.set_role")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transport.SetUserRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetRole(ctx, id, req.Role); err != nil {
		l.Warn("set_role_error", "user_id", id, "error", err)
		return domainError(err)
	}

	l.Info("set_role_success", "user_id", id, "role", req.Role)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) RegisterPushSubscription(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.push_subscribe")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req transport.PushSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.RegisterPushSubscription(ctx, userID, req, c.Request().UserAgent()); err != nil {
		l.Warn("push_subscribe_error", "error", err)
		return domainError(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *UserHTTP) UnregisterPushSubscriptions(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.Svc.UnregisterPushSubscriptions(ctx, userID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TestNotification lets an admin verify the dispatch pipeline end to end.
func (h *UserHTTP) TestNotification(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.test_notification")

	if h.Notifier == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "notifications disabled")
	}

	payload := notify.Payload{
		Title: "Teste de Notificacao",
		Body:  "Esta e uma notificacao de teste para administradores",
		URL:   "/admin",
	}
	if err := h.Notifier.NotifyAdmins(ctx, payload); err != nil {
		l.Warn("test_notification_error", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "notification dispatch failed")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
