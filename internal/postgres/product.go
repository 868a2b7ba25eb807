package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/sif/internal/domain"
)

// ProductStore implements domain.ProductStore using PostgreSQL.
type ProductStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that ProductStore implements domain.ProductStore.
var _ domain.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a new PostgreSQL-backed product store.
func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

func (s *ProductStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "product.list"

	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.description, p.image, p.price_cents, p.stock, p.category_id, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.id`,
	)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list products")
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.PriceCents, &p.Stock, &p.CategoryID, &p.CategoryName); err != nil {
			return nil, domain.Internal(err, op, "failed to scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read products")
	}

	return products, nil
}

func (s *ProductStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "product.get"

	var p domain.Product
	err := s.pool.QueryRow(ctx, `
		SELECT p.id, p.name, p.description, p.image, p.price_cents, p.stock, p.category_id, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.PriceCents, &p.Stock, &p.CategoryID, &p.CategoryName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, op, "failed to get product")
	}

	return &p, nil
}

func (s *ProductStore) CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error) {
	const op = "product.create"

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, image, price_cents, stock, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		params.Name, params.Description, params.Image, params.PriceCents, params.Stock, params.CategoryID,
	).Scan(&id)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create product")
	}

	return s.GetProduct(ctx, id)
}

func (s *ProductStore) UpdateProduct(ctx context.Context, id int64, params domain.ProductParams) (*domain.Product, error) {
	const op = "product.update"

	tag, err := s.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, image = $4, price_cents = $5, stock = $6, category_id = $7
		WHERE id = $1`,
		id, params.Name, params.Description, params.Image, params.PriceCents, params.Stock, params.CategoryID,
	)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to update product")
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrProductNotFound
	}

	return s.GetProduct(ctx, id)
}

func (s *ProductStore) DeleteProduct(ctx context.Context, id int64) error {
	const op = "product.delete"

	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, op, "failed to delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (s *ProductStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "category.list"

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description
		FROM categories
		ORDER BY id`,
	)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list categories")
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, domain.Internal(err, op, "failed to scan category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read categories")
	}

	return categories, nil
}

func (s *ProductStore) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	const op = "category.get"

	var c domain.Category
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, description
		FROM categories
		WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, domain.Internal(err, op, "failed to get category")
	}

	return &c, nil
}

func (s *ProductStore) CreateCategory(ctx context.Context, params domain.CategoryParams) (*domain.Category, error) {
	const op = "category.create"

	var c domain.Category
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description`,
		params.Name, params.Description,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create category")
	}

	return &c, nil
}

func (s *ProductStore) UpdateCategory(ctx context.Context, id int64, params domain.CategoryParams) (*domain.Category, error) {
	const op = "category.update"

	var c domain.Category
	err := s.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $2, description = $3
		WHERE id = $1
		RETURNING id, name, description`,
		id, params.Name, params.Description,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, domain.Internal(err, op, "failed to update category")
	}

	return &c, nil
}

func (s *ProductStore) DeleteCategory(ctx context.Context, id int64) error {
	const op = "category.delete"

	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, op, "failed to delete category")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}
