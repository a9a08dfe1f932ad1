package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/DaviHS/badaoburguer/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Preload("Items").Where("user_id = ?", userID)
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus is a compare-and-swap: the write only lands while the
// stored status still matches expected, so a concurrent writer cannot slip in
// between validation and the UPDATE. Zero rows affected means either the order
// is gone or another writer won the race.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, expected, newStatus int) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", newStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrOrderNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// UpdateOrderPayment writes the payment axis only; order status is untouched.
func (r *GormRepo) UpdateOrderPayment(ctx context.Context, id uint, paymentID, paymentStatus string, providerUpdatedAt time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
		"payment_id":         paymentID,
		"payment_status":     paymentStatus,
		"payment_updated_at": providerUpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}
