package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/DaviHS/badaoburguer/internal/middleware/auth"
	"github.com/DaviHS/badaoburguer/internal/service"
	"github.com/DaviHS/badaoburguer/internal/transport"
	"github.com/DaviHS/badaoburguer/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return domainError(err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.CreateOrderResponse{OrderID: order.ID})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		l.Warn("get_order_error", "order_id", id, "error", err)
		return domainError(err)
	}

	userID, _ := authmw.UserID(c)
	if order.UserID != userID && !authmw.IsAdmin(c) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	_, size, offset := pagination(c)
	orders, err := h.Svc.ListUserOrders(ctx, userID, size, offset)
	if err != nil {
		logging.FromContext(ctx).Error("list_my_orders_error", "error", err)
		return domainError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	_, size, offset := pagination(c)
	orders, err := h.Svc.ListOrders(ctx, size, offset)
	if err != nil {
		logging.FromContext(ctx).Error("list_orders_error", "error", err)
		return domainError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.StatusID)
	if err != nil {
		l.Warn("update_status_error", "order_id", id, "target", req.StatusID, "error", err)
		return domainError(err)
	}

	l.Info("update_status_success", "order_id", id, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) NextStatuses(c echo.Context) error {
	ctx := c.Request().Context()

	current, err := strconv.Atoi(c.Param("status"))
	if err != nil || current < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "status is not a valid integer")
	}

	allowed, err := h.Svc.NextStatuses(ctx, current)
	if err != nil {
		logging.FromContext(ctx).Warn("next_statuses_error", "status", current, "error", err)
		return domainError(err)
	}
	return c.JSON(http.StatusOK, transport.NextStatusesResponse{Current: current, Allowed: allowed})
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteOrder(ctx, id); err != nil {
		l.Warn("delete_order_error", "order_id", id, "error", err)
		return domainError(err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
