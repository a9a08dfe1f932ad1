package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/DaviHS/badaoburguer/internal/middleware/auth"
	"github.com/DaviHS/badaoburguer/internal/service"
	"github.com/DaviHS/badaoburguer/internal/transport"
	"github.com/DaviHS/badaoburguer/pkg/logging"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) StartPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.start")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req transport.StartPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("start_payment_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	switch req.Method {
	case "card":
		resp, err := h.Svc.StartCardPayment(ctx, userID, req.OrderID)
		if err != nil {
			l.Warn("start_payment_error", "order_id", req.OrderID, "error", err)
			return domainError(err)
		}
		l.Info("start_payment_success", "order_id", req.OrderID, "method", "card")
		return c.JSON(http.StatusOK, resp)
	case "pix":
		resp, err := h.Svc.StartPixPayment(ctx, userID, req.OrderID)
		if err != nil {
			l.Warn("start_payment_error", "order_id", req.OrderID, "error", err)
			return domainError(err)
		}
		l.Info("start_payment_success", "order_id", req.OrderID, "method", "pix")
		return c.JSON(http.StatusOK, resp)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported payment method")
	}
}

func (h *PaymentHTTP) CheckStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c)
	if err != nil {
		return err
	}

	resp, err := h.Svc.CheckStatus(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("check_payment_status_error", "order_id", id, "error", err)
		return domainError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Webhook acknowledges unresolvable references with 2xx so the provider stops
// retrying; only provider lookup failures surface as errors.
func (h *PaymentHTTP) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.webhook")

	var req transport.WebhookRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("webhook_error", "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.HandleWebhook(ctx, req); err != nil {
		l.Error("webhook_error", "payment_id", req.Data.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "webhook processing failed")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
