package service

import (
	"context"
	"errors"

	"github.com/DaviHS/badaoburguer/internal/mercadopago"
	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/notify"
)

var (
	ErrValidation    = errors.New("validation")     // 400
	ErrTotalMismatch = errors.New("total mismatch") // 400
)

// Notifier delivers best-effort notifications. Implementations must never be
// relied on for correctness; every call site logs and continues on error.
type Notifier interface {
	NotifyAdmins(ctx context.Context, payload notify.Payload) error
	NotifyUser(ctx context.Context, userID uint, payload notify.Payload) error
}

// ProductIndexer mirrors catalog writes into the search index.
type ProductIndexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, productID uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

// PaymentProvider is the Mercado Pago surface the payment service consumes.
type PaymentProvider interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
	CreatePayment(ctx context.Context, req mercadopago.PaymentRequest) (*mercadopago.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
}
