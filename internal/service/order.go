package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/notify"
	"github.com/DaviHS/badaoburguer/internal/repo"
	"github.com/DaviHS/badaoburguer/internal/status"
	"github.com/DaviHS/badaoburguer/internal/transport"
	"github.com/DaviHS/badaoburguer/pkg/logging"
)

// totalTolerance absorbs client-side rounding; anything beyond it rejects the
// order before any write happens.
var totalTolerance = decimal.RequireFromString("0.01")

var paymentMethods = map[string]bool{
	"card": true,
	"pix":  true,
	"cash": true,
}

type OrderService struct {
	Repo     *repo.GormRepo
	Notifier Notifier
}

// CreateOrder runs the whole creation protocol in one transaction: product
// lookups, total verification, header + item inserts with snapshotted prices,
// and stock reservation per item. A failure at any point rolls everything
// back.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, req transport.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	if req.PaymentMethod != "" && !paymentMethods[req.PaymentMethod] {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
	for i := range req.Items {
		if req.Items[i].ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if req.Items[i].Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}

	var (
		order    *models.Order
		lowStock []models.Product
	)

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		serverTotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, it := range req.Items {
			product, err := tx.GetActiveProduct(ctx, it.ProductID)
			if err != nil {
				return err
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  it.Quantity,
				Price:     product.Price,
			})
			serverTotal = serverTotal.Add(product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		if serverTotal.Sub(req.Total).Abs().GreaterThan(totalTolerance) {
			return fmt.Errorf("%w: client total %s, server total %s", ErrTotalMismatch, req.Total.StringFixed(2), serverTotal.StringFixed(2))
		}

		order = &models.Order{
			UserID:        userID,
			Total:         serverTotal,
			Status:        int(status.Pending),
			PaymentMethod: req.PaymentMethod,
			Observations:  req.Observations,
			PaymentStatus: "pending",
			Items:         items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := tx.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			product, err := tx.GetProduct(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product.Stock <= product.MinStock {
				lowStock = append(lowStock, *product)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l := logging.FromContext(ctx).With("svc", "order.create", "order_id", order.ID)
	l.Info("order_created", "user_id", userID, "total", order.Total.StringFixed(2))

	if s.Notifier != nil {
		name := s.customerName(ctx, userID)
		if err := s.Notifier.NotifyAdmins(ctx, notify.NewOrderPayload(order.ID, name, order.Total)); err != nil {
			l.Warn("notify_failed", "error", err)
		}
		for _, p := range lowStock {
			if err := s.Notifier.NotifyAdmins(ctx, notify.LowStockPayload(p.ID, p.Name, p.Stock, p.MinStock)); err != nil {
				l.Warn("notify_failed", "error", err)
			}
		}
	}

	return order, nil
}

// statusUpdateAttempts bounds the validate-then-swap retry loop when a
// concurrent writer changes the status between the read and the write.
const statusUpdateAttempts = 3

// UpdateStatus moves an order through the state machine. Entering Cancelled
// restores every reserved quantity inside the same transaction; the machine's
// refusal to re-enter Cancelled, together with the compare-and-swap status
// write, is what makes restoration happen exactly once even under concurrent
// updates.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, targetStatus int) (*models.Order, error) {
	if _, err := s.Repo.GetOrderStatus(ctx, targetStatus); err != nil {
		if errors.Is(err, repo.ErrStatusNotFound) {
			return nil, fmt.Errorf("%w: unknown status %d", ErrValidation, targetStatus)
		}
		return nil, err
	}

	var (
		order *models.Order
		from  status.Status
		to    = status.Status(targetStatus)
	)

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		for attempt := 1; ; attempt++ {
			var err error
			order, err = tx.GetOrder(ctx, orderID)
			if err != nil {
				return err
			}
			from = status.Status(order.Status)

			if err := status.ValidateTransition(from, to); err != nil {
				return err
			}

			err = tx.UpdateOrderStatus(ctx, orderID, order.Status, targetStatus)
			if errors.Is(err, repo.ErrStatusConflict) && attempt < statusUpdateAttempts {
				continue
			}
			if err != nil {
				return err
			}
			break
		}

		if to == status.Cancelled {
			for _, item := range order.Items {
				if err := tx.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Status = targetStatus

	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", orderID)
	l.Info("status_changed", "from", from.Name(), "to", to.Name())

	if s.Notifier != nil {
		if err := s.Notifier.NotifyUser(ctx, order.UserID, notify.StatusChangedUserPayload(orderID, to)); err != nil {
			l.Warn("notify_failed", "error", err)
		}
		name := s.customerName(ctx, order.UserID)
		if err := s.Notifier.NotifyAdmins(ctx, notify.StatusChangedAdminPayload(orderID, name, from, to)); err != nil {
			l.Warn("notify_failed", "error", err)
		}
	}

	return order, nil
}

// NextStatuses drives the admin UI affordances; the validator remains the
// actual gate on writes.
func (s *OrderService) NextStatuses(ctx context.Context, current int) ([]int, error) {
	if _, err := s.Repo.GetOrderStatus(ctx, current); err != nil {
		if errors.Is(err, repo.ErrStatusNotFound) {
			return nil, fmt.Errorf("%w: unknown status %d", ErrValidation, current)
		}
		return nil, err
	}

	allowed := status.NextStatuses(status.Status(current))
	out := make([]int, len(allowed))
	for i, s := range allowed {
		out[i] = int(s)
	}
	return out, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.Repo.GetOrder(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, limit, offset)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	return s.Repo.ListUserOrders(ctx, userID, limit, offset)
}

// DeleteOrder removes an order and its items. Stock is deliberately left
// alone: deletion is an admin bookkeeping action, not a cancellation.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	return s.Repo.DeleteOrder(ctx, id)
}

func (s *OrderService) customerName(ctx context.Context, userID uint) string {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return "Cliente"
	}
	return user.FullName
}
