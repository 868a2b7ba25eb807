package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dukerupert/sif/internal/domain"
)

// productService implements domain.ProductService.
type productService struct {
	store domain.ProductStore
}

// NewProductService creates a new ProductService instance.
func NewProductService(store domain.ProductStore) domain.ProductService {
	return &productService{store: store}
}

func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// CreateProduct validates the payload and the category reference before
// persisting. The referenced category must exist; nothing else crosses
// entity boundaries.
func (s *productService) CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error) {
	const op = "product.create"

	if err := validateProductParams(op, params); err != nil {
		return nil, err
	}

	if _, err := s.store.GetCategory(ctx, params.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	return s.store.CreateProduct(ctx, params)
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, params domain.ProductParams) (*domain.Product, error) {
	const op = "product.update"

	if err := validateProductParams(op, params); err != nil {
		return nil, err
	}

	if _, err := s.store.GetCategory(ctx, params.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	return s.store.UpdateProduct(ctx, id, params)
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	return s.store.DeleteProduct(ctx, id)
}

func validateProductParams(op string, params domain.ProductParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return domain.Invalid(op, "Product name is required.")
	}
	if params.PriceCents <= 0 {
		return domain.Invalid(op, "Price must be greater than 0.")
	}
	if params.Stock < 0 {
		return domain.Invalid(op, "Stock must not be negative.")
	}
	return nil
}

// categoryService implements domain.CategoryService.
type categoryService struct {
	store domain.ProductStore
}

// NewCategoryService creates a new CategoryService instance.
func NewCategoryService(store domain.ProductStore) domain.CategoryService {
	return &categoryService{store: store}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *categoryService) CreateCategory(ctx context.Context, params domain.CategoryParams) (*domain.Category, error) {
	const op = "category.create"

	if strings.TrimSpace(params.Name) == "" {
		return nil, domain.Invalid(op, "Category name is required.")
	}

	return s.store.CreateCategory(ctx, params)
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, params domain.CategoryParams) (*domain.Category, error) {
	const op = "category.update"

	if strings.TrimSpace(params.Name) == "" {
		return nil, domain.Invalid(op, "Category name is required.")
	}

	return s.store.UpdateCategory(ctx, id, params)
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}
