package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/repo"
	"github.com/DaviHS/badaoburguer/internal/status"
	"github.com/DaviHS/badaoburguer/internal/transport"
)

func newOrderEnv(t *testing.T) (*OrderService, *repo.GormRepo, *fakeNotifier, *models.User) {
	t.Helper()

	r := newTestRepo(t)
	notifier := &fakeNotifier{}
	user := createTestUser(t, r, "user")
	return &OrderService{Repo: r, Notifier: notifier}, r, notifier, user
}

func productStock(t *testing.T, r *repo.GormRepo, id uint) int {
	t.Helper()

	prod, err := r.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return prod.Stock
}

func TestCreateOrder_Success(t *testing.T) {
	svc, r, notifier, user := newOrderEnv(t)
	ctx := context.Background()

	prodA := createTestProduct(t, r, "X-Bacon", "BURG", "18.90", 10)
	prodB := createTestProduct(t, r, "Guarana", "BEBI", "8.10", 5)

	order, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: prodA.ID, Quantity: 2},
			{ProductID: prodB.ID, Quantity: 1},
		},
		PaymentMethod: "pix",
		Total:         decimal.RequireFromString("45.90"),
	})
	require.NoError(t, err)
	require.NotZero(t, order.ID)

	assert.Equal(t, int(status.Pending), order.Status)
	assert.Equal(t, "pending", order.PaymentStatus)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("45.90")), "total %s", order.Total)

	stored, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.True(t, stored.Items[0].Price.Equal(decimal.RequireFromString("18.90")))
	assert.True(t, stored.Items[1].Price.Equal(decimal.RequireFromString("8.10")))

	assert.Equal(t, 8, productStock(t, r, prodA.ID))
	assert.Equal(t, 4, productStock(t, r, prodB.ID))

	sent := notifier.all()
	require.NotEmpty(t, sent)
	assert.Equal(t, "admins", sent[0].Audience)
	assert.Contains(t, sent[0].Payload.Title, "Novo Pedido")
}

func TestCreateOrder_TotalToleranceBoundary(t *testing.T) {
	svc, r, _, user := newOrderEnv(t)
	ctx := context.Background()

	prod := createTestProduct(t, r, "X-Salada", "BURG", "10.00", 10)

	// Off by exactly one cent still passes.
	_, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 1}},
		Total: decimal.RequireFromString("10.01"),
	})
	require.NoError(t, err)

	// Off by two cents is rejected.
	_, err = svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 1}},
		Total: decimal.RequireFromString("10.02"),
	})
	require.ErrorIs(t, err, ErrTotalMismatch)
}

func TestCreateOrder_TotalMismatchIsAtomic(t *testing.T) {
	svc, r, notifier, user := newOrderEnv(t)
	ctx := context.Background()

	prodA := createTestProduct(t, r, "X-Bacon", "BURG", "18.90", 10)
	prodB := createTestProduct(t, r, "Guarana", "BEBI", "8.10", 5)

	_, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: prodA.ID, Quantity: 2},
			{ProductID: prodB.ID, Quantity: 1},
		},
		Total: decimal.RequireFromString("99.00"),
	})
	require.ErrorIs(t, err, ErrTotalMismatch)

	var orders, items int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	assert.Equal(t, 10, productStock(t, r, prodA.ID))
	assert.Equal(t, 5, productStock(t, r, prodB.ID))
	assert.Empty(t, notifier.all())
}

func TestCreateOrder_InsufficientStockRollsBack(t *testing.T) {
	svc, r, _, user := newOrderEnv(t)
	ctx := context.Background()

	plenty := createTestProduct(t, r, "X-Bacon", "BURG", "10.00", 10)
	scarce := createTestProduct(t, r, "Pudim", "SOBR", "5.00", 1)

	_, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: plenty.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 3},
		},
		Total: decimal.RequireFromString("35.00"),
	})
	require.ErrorIs(t, err, repo.ErrInsufficientStock)

	// The first item's reservation must have been rolled back too.
	assert.Equal(t, 10, productStock(t, r, plenty.ID))
	assert.Equal(t, 1, productStock(t, r, scarce.ID))

	var orders int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	svc, _, _, user := newOrderEnv(t)

	_, err := svc.CreateOrder(context.Background(), user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: 999, Quantity: 1}},
		Total: decimal.RequireFromString("10.00"),
	})
	require.ErrorIs(t, err, repo.ErrProductNotFound)
}

func TestCreateOrder_InactiveProductRejected(t *testing.T) {
	svc, r, _, user := newOrderEnv(t)
	ctx := context.Background()

	prod := createTestProduct(t, r, "Antigo", "VELH", "10.00", 10)
	require.NoError(t, r.DeactivateProduct(ctx, prod.ID))

	_, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 1}},
		Total: decimal.RequireFromString("10.00"),
	})
	require.ErrorIs(t, err, repo.ErrProductNotFound)
}

func TestCreateOrder_Validation(t *testing.T) {
	svc, r, _, user := newOrderEnv(t)
	ctx := context.Background()

	prod := createTestProduct(t, r, "X-Bacon", "BURG", "10.00", 10)

	tests := []struct {
		name string
		req  transport.CreateOrderRequest
	}{
		{name: "no items", req: transport.CreateOrderRequest{Total: decimal.Zero}},
		{name: "zero quantity", req: transport.CreateOrderRequest{
			Items: []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 0}},
			Total: decimal.Zero,
		}},
		{name: "zero product id", req: transport.CreateOrderRequest{
			Items: []transport.CreateOrderItem{{ProductID: 0, Quantity: 1}},
			Total: decimal.Zero,
		}},
		{name: "bad payment method", req: transport.CreateOrderRequest{
			Items:         []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 1}},
			PaymentMethod: "bitcoin",
			Total:         decimal.RequireFromString("10.00"),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, user.ID, tc.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	svc, r, notifier, user := newOrderEnv(t)
	ctx := context.Background()

	prod := createTestProduct(t, r, "X-Bacon", "BURG", "10.00", 10)
	order, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 1}},
		Total: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	for _, target := range []status.Status{status.Paid, status.Preparing, status.Ready, status.Delivering, status.Delivered} {
		updated, err := svc.UpdateStatus(ctx, order.ID, int(target))
		require.NoError(t, err, "to %s", target.Name())
		assert.Equal(t, int(target), updated.Status)
	}

	// Customer got one notification per transition.
	var userNotes int
	for _, n := range notifier.all() {
		if n.Audience == "user" {
			userNotes++
			assert.Equal(t, user.ID, n.UserID)
		}
	}
	assert.Equal(t, 5, userNotes)
}

func TestUpdateStatus_IllegalJumpReportsAllowed(t *testing.T) {
	svc, r, _, user := newOrderEnv(t)
	ctx := context.Background()

	prod := createTestProduct(t, r, "X-Bacon", "BURG", "10.00", 10)
	order, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 1}},
		Total: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, int(status.Paid))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, int(status.Delivered))
	var ite *status.InvalidTransitionError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, status.Paid, ite.From)
	assert.Equal(t, []status.Status{status.Preparing, status.Cancelled}, ite.Allowed)

	// Order unchanged.
	stored, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int(status.Paid), stored.Status)
}

func TestUpdateStatus_CancelRestoresStockOnce(t *testing.T) {
	svc, r, _, user := newOrderEnv(t)
	ctx := context.Background()

	prodA := createTestProduct(t, r, "X-Bacon", "BURG", "18.90", 10)
	prodB := createTestProduct(t, r, "Guarana", "BEBI", "8.10", 5)

	order, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: prodA.ID, Quantity: 2},
			{ProductID: prodB.ID, Quantity: 1},
		},
		Total: decimal.RequireFromString("45.90"),
	})
	require.NoError(t, err)
	require.Equal(t, 8, productStock(t, r, prodA.ID))

	_, err = svc.UpdateStatus(ctx, order.ID, int(status.Paid))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, int(status.Cancelled))
	require.NoError(t, err)
	assert.Equal(t, 10, productStock(t, r, prodA.ID))
	assert.Equal(t, 5, productStock(t, r, prodB.ID))

	// Cancelled is terminal: re-entering is rejected and stock stays put.
	_, err = svc.UpdateStatus(ctx, order.ID, int(status.Cancelled))
	var ite *status.InvalidTransitionError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, 10, productStock(t, r, prodA.ID))
	assert.Equal(t, 5, productStock(t, r, prodB.ID))

	_, err = svc.UpdateStatus(ctx, order.ID, int(status.Paid))
	require.Error(t, err)
}

func TestUpdateStatus_UnknownStatusAndOrder(t *testing.T) {
	svc, r, _, user := newOrderEnv(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, 12345, int(status.Paid))
	require.ErrorIs(t, err, repo.ErrOrderNotFound)

	prod := createTestProduct(t, r, "X-Bacon", "BURG", "10.00", 10)
	order, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 1}},
		Total: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, 42)
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatus_NotifierFailureDoesNotRollBack(t *testing.T) {
	svc, r, notifier, user := newOrderEnv(t)
	ctx := context.Background()

	prod := createTestProduct(t, r, "X-Bacon", "BURG", "10.00", 10)
	order, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 1}},
		Total: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	notifier.err = errors.New("broker down")

	updated, err := svc.UpdateStatus(ctx, order.ID, int(status.Paid))
	require.NoError(t, err)
	assert.Equal(t, int(status.Paid), updated.Status)

	stored, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int(status.Paid), stored.Status)
}

func TestNextStatuses(t *testing.T) {
	svc, _, _, _ := newOrderEnv(t)
	ctx := context.Background()

	allowed, err := svc.NextStatuses(ctx, int(status.Pending))
	require.NoError(t, err)
	assert.Equal(t, []int{int(status.Paid), int(status.Cancelled)}, allowed)

	allowed, err = svc.NextStatuses(ctx, int(status.Delivered))
	require.NoError(t, err)
	assert.Empty(t, allowed)

	_, err = svc.NextStatuses(ctx, 42)
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteOrder_RemovesItemsKeepsStock(t *testing.T) {
	svc, r, _, user := newOrderEnv(t)
	ctx := context.Background()

	prod := createTestProduct(t, r, "X-Bacon", "BURG", "10.00", 10)
	order, err := svc.CreateOrder(ctx, user.ID, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: prod.ID, Quantity: 2}},
		Total: decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))

	_, err = r.GetOrder(ctx, order.ID)
	require.ErrorIs(t, err, repo.ErrOrderNotFound)

	var items int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Zero(t, items)

	// Deletion is bookkeeping, not cancellation.
	assert.Equal(t, 8, productStock(t, r, prod.ID))

	require.ErrorIs(t, svc.DeleteOrder(ctx, order.ID), repo.ErrOrderNotFound)
}
