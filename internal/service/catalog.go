package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/repo"
	"github.com/DaviHS/badaoburguer/internal/transport"
	"github.com/DaviHS/badaoburguer/pkg/logging"
)

type CatalogService struct {
	Repo  *repo.GormRepo
	Index ProductIndexer
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListActiveProducts(ctx, offset, limit)
}

// CreateProduct generates the product code from the category code plus a
// 3-digit sequence, e.g. BURG-004.
func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Stock < 0 || req.MinStock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	category, err := s.Repo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	n, err := s.Repo.CountProductsInCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	prod := &models.Product{
		Name:        req.Name,
		Code:        fmt.Sprintf("%s-%03d", strings.ToUpper(category.Code), n+1),
		Description: req.Description,
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		CategoryID:  req.CategoryID,
		Active:      true,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.indexProduct(ctx, prod)
	return prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.MinStock != nil && *req.MinStock < 0 {
		return nil, fmt.Errorf("%w: min_stock cannot be negative", ErrValidation)
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		return nil, err
	}

	s.indexProduct(ctx, prod)
	return prod, nil
}

// DeleteProduct flips the active flag; rows referenced by historical orders
// are never hard-deleted.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeactivateProduct(ctx, id); err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) AdjustStock(ctx context.Context, id uint, newStock int) (*models.Product, error) {
	if newStock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	prod, err := s.Repo.AdjustStock(ctx, id, newStock)
	if err != nil {
		return nil, err
	}

	s.indexProduct(ctx, prod)
	return prod, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.Index == nil {
		return 0, nil, fmt.Errorf("%w: search unavailable", ErrValidation)
	}
	return s.Index.Search(ctx, query, from, size)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" || req.Code == "" {
		return nil, fmt.Errorf("%w: name and code required", ErrValidation)
	}

	cat := &models.Category{
		Name:        req.Name,
		Code:        strings.ToUpper(req.Code),
		Description: req.Description,
		Active:      true,
	}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) indexProduct(ctx context.Context, prod *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", prod.ID, "error", err)
	}
}
