package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DaviHS/badaoburguer/internal/mercadopago"
	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/repo"
	"github.com/DaviHS/badaoburguer/internal/status"
	"github.com/DaviHS/badaoburguer/internal/transport"
	"github.com/DaviHS/badaoburguer/pkg/logging"
)

var ErrPaymentStart = errors.New("payment could not be started")

type PaymentService struct {
	Repo     *repo.GormRepo
	Provider PaymentProvider
	Orders   *OrderService

	PublicBaseURL string
	// AutoConfirm advances Pending orders to Paid when the provider reports
	// approval, always through the status validator.
	AutoConfirm bool
}

func (s *PaymentService) StartCardPayment(ctx context.Context, userID, orderID uint) (*transport.CardPaymentResponse, error) {
	order, err := s.ownOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	amount, _ := order.Total.Round(2).Float64()
	pref, err := s.Provider.CreatePreference(ctx, mercadopago.PreferenceRequest{
		Items: []mercadopago.PreferenceItem{{
			ID:         strconv.FormatUint(uint64(order.ID), 10),
			Title:      fmt.Sprintf("Pedido #%d - Badao Burguer", order.ID),
			Quantity:   1,
			UnitPrice:  amount,
			CurrencyID: "BRL",
		}},
		BackURLs: mercadopago.BackURLs{
			Success: s.PublicBaseURL + "/order/success",
			Failure: s.PublicBaseURL + "/order/failure",
			Pending: s.PublicBaseURL + "/order/pending",
		},
		AutoReturn:          "approved",
		ExternalReference:   strconv.FormatUint(uint64(order.ID), 10),
		NotificationURL:     s.PublicBaseURL + "/webhooks/mercadopago",
		StatementDescriptor: "BADAO GRILL",
	})
	if err != nil {
		logging.FromContext(ctx).Error("payment_start_failed", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentStart, err)
	}

	if err := s.Repo.UpdateOrderPayment(ctx, order.ID, pref.ID, "pending", time.Now().UTC()); err != nil {
		return nil, err
	}

	url := pref.InitPoint
	if url == "" {
		url = pref.SandboxInitPoint
	}
	return &transport.CardPaymentResponse{PaymentID: pref.ID, PaymentURL: url}, nil
}

func (s *PaymentService) StartPixPayment(ctx context.Context, userID, orderID uint) (*transport.PixPaymentResponse, error) {
	order, err := s.ownOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	first, last := splitName(user.FullName)

	amount, _ := order.Total.Round(2).Float64()
	payment, err := s.Provider.CreatePayment(ctx, mercadopago.PaymentRequest{
		TransactionAmount: amount,
		Description:       fmt.Sprintf("Pedido #%d - Badao Burguer", order.ID),
		PaymentMethodID:   "pix",
		Payer: mercadopago.Payer{
			Email:     user.Email,
			FirstName: first,
			LastName:  last,
		},
		ExternalReference: strconv.FormatUint(uint64(order.ID), 10),
		NotificationURL:   s.PublicBaseURL + "/webhooks/mercadopago",
	})
	if err != nil {
		logging.FromContext(ctx).Error("payment_start_failed", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentStart, err)
	}

	txID := payment.ID.String()
	if err := s.Repo.UpdateOrderPayment(ctx, order.ID, txID, "pending", time.Now().UTC()); err != nil {
		return nil, err
	}

	expiry := payment.DateOfExpiration
	if expiry == "" {
		expiry = time.Now().Add(30 * time.Minute).UTC().Format(time.RFC3339)
	}
	return &transport.PixPaymentResponse{
		TransactionID:  txID,
		QRCode:         payment.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64:   payment.PointOfInteraction.TransactionData.QRCodeBase64,
		ExpirationDate: expiry,
	}, nil
}

// HandleWebhook reconciles a provider event with an order. Unresolvable
// references are swallowed (logged, nil error) so the provider stops
// retrying; only provider lookup failures propagate, because those are worth
// a retry.
func (s *PaymentService) HandleWebhook(ctx context.Context, req transport.WebhookRequest) error {
	l := logging.FromContext(ctx).With("svc", "payment.webhook")

	if req.Type != "payment" {
		l.Info("webhook_skipped", "type", req.Type)
		return nil
	}

	payment, err := s.Provider.GetPayment(ctx, req.Data.ID)
	if err != nil {
		return fmt.Errorf("fetch payment %s: %w", req.Data.ID, err)
	}

	orderID64, err := strconv.ParseUint(payment.ExternalReference, 10, 32)
	if err != nil || orderID64 == 0 {
		l.Warn("webhook_unresolvable_reference", "payment_id", req.Data.ID, "external_reference", payment.ExternalReference)
		return nil
	}
	orderID := uint(orderID64)

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			l.Warn("webhook_order_missing", "payment_id", req.Data.ID, "order_id", orderID)
			return nil
		}
		return err
	}

	paymentID := payment.ID.String()
	if paymentID == "" {
		paymentID = req.Data.ID
	}

	// Duplicate delivery: same payment and status already applied.
	if order.PaymentID == paymentID && order.PaymentStatus == payment.Status {
		l.Info("webhook_duplicate", "payment_id", paymentID, "status", payment.Status)
		return nil
	}

	// Out-of-order delivery: last writer wins by provider timestamp.
	if order.PaymentUpdatedAt != nil && !payment.DateLastUpdated.IsZero() &&
		payment.DateLastUpdated.Before(*order.PaymentUpdatedAt) {
		l.Warn("webhook_stale", "payment_id", paymentID, "status", payment.Status,
			"provider_updated_at", payment.DateLastUpdated, "applied_at", *order.PaymentUpdatedAt)
		return nil
	}

	providerUpdatedAt := payment.DateLastUpdated
	if providerUpdatedAt.IsZero() {
		providerUpdatedAt = time.Now().UTC()
	}
	if err := s.Repo.UpdateOrderPayment(ctx, orderID, paymentID, payment.Status, providerUpdatedAt); err != nil {
		return err
	}
	l.Info("payment_status_applied", "order_id", orderID, "payment_id", paymentID, "status", payment.Status)

	if s.AutoConfirm && payment.Status == "approved" && order.Status == int(status.Pending) {
		if _, err := s.Orders.UpdateStatus(ctx, orderID, int(status.Paid)); err != nil {
			var ite *status.InvalidTransitionError
			if errors.As(err, &ite) {
				l.Warn("auto_confirm_skipped", "order_id", orderID, "error", err)
				return nil
			}
			return err
		}
	}
	return nil
}

func (s *PaymentService) CheckStatus(ctx context.Context, orderID uint) (*transport.PaymentStatusResponse, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &transport.PaymentStatusResponse{OrderID: order.ID, PaymentStatus: order.PaymentStatus}, nil
}

func (s *PaymentService) ownOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repo.ErrOrderNotFound
	}
	return order, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "Cliente", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
