package domain

import "context"

var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found."}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found."}
)

// Product is a catalog entry. Prices are stored in cents; stock is the
// number of units available for sale.
type Product struct {
	ID           int64
	Name         string
	Description  string
	Image        string
	PriceCents   int64
	Stock        int32
	CategoryID   int64
	CategoryName string
}

// Category groups products.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// ProductParams carries the writable fields of a product.
type ProductParams struct {
	Name        string
	Description string
	Image       string
	PriceCents  int64
	Stock       int32
	CategoryID  int64
}

// CategoryParams carries the writable fields of a category.
type CategoryParams struct {
	Name        string
	Description string
}

// ProductService provides catalog reads and administrative CRUD.
// The cart subsystem only consumes reads; it never creates or deletes
// products.
type ProductService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, params ProductParams) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, params ProductParams) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// CategoryService provides category CRUD.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	CreateCategory(ctx context.Context, params CategoryParams) (*Category, error)
	UpdateCategory(ctx context.Context, id int64, params CategoryParams) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ProductStore is the persistence boundary for the catalog.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, params ProductParams) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, params ProductParams) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	CreateCategory(ctx context.Context, params CategoryParams) (*Category, error)
	UpdateCategory(ctx context.Context, id int64, params CategoryParams) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}
