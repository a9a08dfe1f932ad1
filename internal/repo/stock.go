package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/DaviHS/badaoburguer/internal/models"
)

// ReserveStock decrements a product's stock in a single conditional statement,
// so two concurrent reservations can never both take the last unit. Zero rows
// affected means either the product is gone or the stock guard failed; a
// follow-up read tells the two apart.
func (r *GormRepo) ReserveStock(ctx context.Context, productID uint, quantity int) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND active = ? AND stock >= ?", productID, true, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetActiveProduct(ctx, productID); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock adds reserved quantities back. Callers guard against double
// restoration through the state machine: Cancelled is terminal and cannot be
// re-entered.
func (r *GormRepo) RestoreStock(ctx context.Context, productID uint, quantity int) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AdjustStock is the absolute set used by manual admin edits.
func (r *GormRepo) AdjustStock(ctx context.Context, productID uint, newStock int) (*models.Product, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", newStock)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}
	return r.GetProduct(ctx, productID)
}
