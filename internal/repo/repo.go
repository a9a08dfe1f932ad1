package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/status"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrStatusNotFound    = errors.New("order status not found")
	ErrStatusConflict    = errors.New("order status changed concurrently")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn against a repo bound to a single transaction. Any error
// rolls the whole unit of work back.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatus{},
		&models.PushSubscription{},
	); err != nil {
		return err
	}
	return seedOrderStatuses(db)
}

var statusSeed = []models.OrderStatus{
	{StatusID: int(status.Pending), Name: "Pendente", Description: "Aguardando pagamento"},
	{StatusID: int(status.Paid), Name: "Pago", Description: "Pagamento confirmado"},
	{StatusID: int(status.Preparing), Name: "Preparando", Description: "Pedido em preparo"},
	{StatusID: int(status.Ready), Name: "Pronto", Description: "Pronto para entrega"},
	{StatusID: int(status.Delivering), Name: "Saiu para Entrega", Description: "A caminho do cliente"},
	{StatusID: int(status.Delivered), Name: "Entregue", Description: "Pedido entregue"},
	{StatusID: int(status.Cancelled), Name: "Cancelado", Description: "Pedido cancelado"},
}

func seedOrderStatuses(db *gorm.DB) error {
	for _, s := range statusSeed {
		row := s
		if err := db.Where("status_id = ?", row.StatusID).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormRepo) GetOrderStatus(ctx context.Context, statusID int) (*models.OrderStatus, error) {
	var s models.OrderStatus
	if err := r.DB.WithContext(ctx).Where("status_id = ?", statusID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatusNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) ListOrderStatuses(ctx context.Context) ([]models.OrderStatus, error) {
	var out []models.OrderStatus
	if err := r.DB.WithContext(ctx).Order("status_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
