package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/sif/internal/domain"
)

// memProductStore is an in-memory ProductStore covering the paths the
// service layer exercises.
type memProductStore struct {
	products   map[int64]*domain.Product
	categories map[int64]*domain.Category
	nextID     int64
}

func newMemProductStore() *memProductStore {
	return &memProductStore{
		products:   make(map[int64]*domain.Product),
		categories: make(map[int64]*domain.Category),
	}
}

func (s *memProductStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *memProductStore) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memProductStore) CreateProduct(_ context.Context, params domain.ProductParams) (*domain.Product, error) {
	s.nextID++
	p := &domain.Product{
		ID:          s.nextID,
		Name:        params.Name,
		Description: params.Description,
		Image:       params.Image,
		PriceCents:  params.PriceCents,
		Stock:       params.Stock,
		CategoryID:  params.CategoryID,
	}
	s.products[p.ID] = p
	cp := *p
	return &cp, nil
}

func (s *memProductStore) UpdateProduct(_ context.Context, id int64, params domain.ProductParams) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Name = params.Name
	p.Description = params.Description
	p.Image = params.Image
	p.PriceCents = params.PriceCents
	p.Stock = params.Stock
	p.CategoryID = params.CategoryID
	cp := *p
	return &cp, nil
}

func (s *memProductStore) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *memProductStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *memProductStore) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memProductStore) CreateCategory(_ context.Context, params domain.CategoryParams) (*domain.Category, error) {
	s.nextID++
	c := &domain.Category{ID: s.nextID, Name: params.Name, Description: params.Description}
	s.categories[c.ID] = c
	cp := *c
	return &cp, nil
}

func (s *memProductStore) UpdateCategory(_ context.Context, id int64, params domain.CategoryParams) (*domain.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	c.Name = params.Name
	c.Description = params.Description
	cp := *c
	return &cp, nil
}

func (s *memProductStore) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := s.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

func coffeeCategory(t *testing.T, store *memProductStore) *domain.Category {
	t.Helper()
	c, err := store.CreateCategory(context.Background(), domain.CategoryParams{Name: "Coffee"})
	require.NoError(t, err)
	return c
}

func TestCreateProduct(t *testing.T) {
	store := newMemProductStore()
	category := coffeeCategory(t, store)
	svc := NewProductService(store)

	product, err := svc.CreateProduct(context.Background(), domain.ProductParams{
		Name:       "Espresso Blend",
		PriceCents: 675,
		Stock:      10,
		CategoryID: category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Espresso Blend", product.Name)
	assert.Equal(t, int64(675), product.PriceCents)
}

func TestCreateProduct_Validation(t *testing.T) {
	store := newMemProductStore()
	category := coffeeCategory(t, store)
	svc := NewProductService(store)
	ctx := context.Background()

	tests := []struct {
		name    string
		params  domain.ProductParams
		message string
	}{
		{
			name:    "missing name",
			params:  domain.ProductParams{PriceCents: 100, CategoryID: category.ID},
			message: "Product name is required.",
		},
		{
			name:    "non-positive price",
			params:  domain.ProductParams{Name: "Espresso", PriceCents: 0, CategoryID: category.ID},
			message: "Price must be greater than 0.",
		},
		{
			name:    "negative stock",
			params:  domain.ProductParams{Name: "Espresso", PriceCents: 100, Stock: -1, CategoryID: category.ID},
			message: "Stock must not be negative.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tt.params)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			assert.Equal(t, tt.message, domain.ErrorMessage(err))
		})
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	store := newMemProductStore()
	svc := NewProductService(store)

	_, err := svc.CreateProduct(context.Background(), domain.ProductParams{
		Name:       "Espresso Blend",
		PriceCents: 675,
		CategoryID: 99,
	})
	require.Error(t, err)
	assert.Equal(t, "Category not found.", domain.ErrorMessage(err))
}

func TestCreateCategory_RequiresName(t *testing.T) {
	store := newMemProductStore()
	svc := NewCategoryService(store)

	_, err := svc.CreateCategory(context.Background(), domain.CategoryParams{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, "Category name is required.", domain.ErrorMessage(err))
}
