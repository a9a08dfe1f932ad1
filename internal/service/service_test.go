package service

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DaviHS/badaoburguer/internal/mercadopago"
	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/notify"
	"github.com/DaviHS/badaoburguer/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	return &repo.GormRepo{DB: db}
}

func createTestUser(t *testing.T, r *repo.GormRepo, role string) *models.User {
	t.Helper()

	user := &models.User{
		FullName:     "Davi Henrique",
		Email:        "davi+" + role + "@badaoburguer.com",
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, r *repo.GormRepo) *models.Category {
	t.Helper()

	cat := &models.Category{Name: "Burgers", Code: "BURG", Active: true}
	require.NoError(t, r.DB.Create(cat).Error)
	return cat
}

func createTestProduct(t *testing.T, r *repo.GormRepo, name, code, price string, stock int) *models.Product {
	t.Helper()

	cat := models.Category{Name: "cat-" + code, Code: code, Active: true}
	require.NoError(t, r.DB.Create(&cat).Error)

	prod := &models.Product{
		Name:       name,
		Code:       code + "-001",
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: cat.ID,
		Active:     true,
	}
	require.NoError(t, r.DB.Create(prod).Error)
	return prod
}

type sentNotification struct {
	Audience string
	UserID   uint
	Payload  notify.Payload
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) NotifyAdmins(_ context.Context, payload notify.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentNotification{Audience: notify.AudienceAdmins, Payload: payload})
	return nil
}

func (f *fakeNotifier) NotifyUser(_ context.Context, userID uint, payload notify.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentNotification{Audience: notify.AudienceUser, UserID: userID, Payload: payload})
	return nil
}

func (f *fakeNotifier) all() []sentNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentNotification, len(f.sent))
	copy(out, f.sent)
	return out
}

type fakeIndexer struct {
	indexed []uint
	deleted []uint
}

func (f *fakeIndexer) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndexer) DeleteProduct(_ context.Context, productID uint) error {
	f.deleted = append(f.deleted, productID)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, _ string, _, _ int) (int64, []models.Product, error) {
	return 0, nil, nil
}

type fakeProvider struct {
	preference *mercadopago.Preference
	payment    *mercadopago.Payment
	getPayment map[string]*mercadopago.Payment
	err        error

	preferenceReqs []mercadopago.PreferenceRequest
	paymentReqs    []mercadopago.PaymentRequest
}

func (f *fakeProvider) CreatePreference(_ context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.preferenceReqs = append(f.preferenceReqs, req)
	return f.preference, nil
}

func (f *fakeProvider) CreatePayment(_ context.Context, req mercadopago.PaymentRequest) (*mercadopago.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.paymentReqs = append(f.paymentReqs, req)
	return f.payment, nil
}

func (f *fakeProvider) GetPayment(_ context.Context, paymentID string) (*mercadopago.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.getPayment[paymentID]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return p, nil
}
