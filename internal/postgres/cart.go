package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/sif/internal/domain"
)

// CartStore implements domain.CartStore using PostgreSQL.
//
// Mutations run through Update, which opens one transaction per operation.
// Row locks taken via SELECT ... FOR UPDATE (cart row first, product rows
// second, products in ascending id order) serialize concurrent mutations of
// the same cart or the same product's stock, so the stock check inside the
// transaction cannot be invalidated before commit.
type CartStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that CartStore implements domain.CartStore.
var _ domain.CartStore = (*CartStore)(nil)

// NewCartStore creates a new PostgreSQL-backed cart store.
func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// Update runs fn inside a single transaction. Serialization failures and
// deadlocks surface as domain.ErrTxSerialization so the service layer can
// retry.
func (s *CartStore) Update(ctx context.Context, fn func(tx domain.CartTx) error) error {
	const op = "cart.tx"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, op, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := fn(&cartTx{tx: tx}); err != nil {
		return translateTxError(err, op)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateTxError(domain.Internal(err, op, "failed to commit transaction"), op)
	}

	return nil
}

// LoadSummary reads the owner's priced cart in one statement, so concurrent
// checkout clears are observed either fully or not at all.
func (s *CartStore) LoadSummary(ctx context.Context, ownerID string) (*domain.CartSummary, error) {
	const op = "cart.load_summary"

	rows, err := s.pool.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.image, ci.quantity, p.price_cents
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		WHERE c.owner_id = $1
		ORDER BY ci.id`,
		ownerID,
	)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load cart items")
	}
	defer rows.Close()

	summary := &domain.CartSummary{Items: []domain.CartItem{}}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.ProductName, &item.Image, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, domain.Internal(err, op, "failed to scan cart item")
		}
		item.LineTotalCents = int64(item.Quantity) * item.UnitPriceCents
		summary.TotalCents += item.LineTotalCents
		summary.Items = append(summary.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read cart items")
	}

	return summary, nil
}

// cartTx implements domain.CartTx over a pgx transaction.
type cartTx struct {
	tx pgx.Tx
}

func (t *cartTx) ProductForUpdate(ctx context.Context, productID int64) (*domain.Product, error) {
	const op = "cart.product_for_update"

	var p domain.Product
	err := t.tx.QueryRow(ctx, `
		SELECT id, name, description, image, price_cents, stock, category_id
		FROM products
		WHERE id = $1
		FOR UPDATE`,
		productID,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.PriceCents, &p.Stock, &p.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, op, "failed to lock product")
	}

	return &p, nil
}

func (t *cartTx) CartForOwner(ctx context.Context, ownerID string) (*domain.Cart, error) {
	const op = "cart.for_owner"

	var cart domain.Cart
	err := t.tx.QueryRow(ctx, `
		SELECT id, owner_id
		FROM carts
		WHERE owner_id = $1
		FOR UPDATE`,
		ownerID,
	).Scan(&cart.ID, &cart.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, domain.Internal(err, op, "failed to lock cart")
	}

	return &cart, nil
}

// CreateCart inserts the owner's cart. The no-op DO UPDATE on conflict makes
// the statement return (and lock) the existing row when another transaction
// created the cart first, so two concurrent first adds converge on one cart.
func (t *cartTx) CreateCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	const op = "cart.create"

	var cart domain.Cart
	err := t.tx.QueryRow(ctx, `
		INSERT INTO carts (owner_id)
		VALUES ($1)
		ON CONFLICT (owner_id) DO UPDATE SET owner_id = EXCLUDED.owner_id
		RETURNING id, owner_id`,
		ownerID,
	).Scan(&cart.ID, &cart.OwnerID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create cart")
	}

	return &cart, nil
}

func (t *cartTx) ItemQuantity(ctx context.Context, cartID, productID int64) (int32, bool, error) {
	const op = "cart.item_quantity"

	var qty int32
	err := t.tx.QueryRow(ctx, `
		SELECT quantity
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, domain.Internal(err, op, "failed to read item quantity")
	}

	return qty, true, nil
}

// ItemByID joins the owning cart and locks its row, so an item-addressed
// mutation serializes with other mutations of the same cart.
func (t *cartTx) ItemByID(ctx context.Context, cartItemID int64) (*domain.CartItemRef, error) {
	const op = "cart.item_by_id"

	var ref domain.CartItemRef
	err := t.tx.QueryRow(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, c.owner_id
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE ci.id = $1
		FOR UPDATE OF c`,
		cartItemID,
	).Scan(&ref.ID, &ref.CartID, &ref.ProductID, &ref.Quantity, &ref.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, domain.Internal(err, op, "failed to load cart item")
	}

	return &ref, nil
}

// UpsertItem relies on the unique (cart_id, product_id) index: a concurrent
// insert for the same pair merges instead of creating a second row.
func (t *cartTx) UpsertItem(ctx context.Context, cartID, productID int64, quantity int32) error {
	const op = "cart.upsert_item"

	_, err := t.tx.Exec(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, productID, quantity,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to upsert cart item")
	}

	return nil
}

func (t *cartTx) SetItemQuantity(ctx context.Context, cartItemID int64, quantity int32) error {
	const op = "cart.set_item_quantity"

	_, err := t.tx.Exec(ctx, `
		UPDATE cart_items
		SET quantity = $2
		WHERE id = $1`,
		cartItemID, quantity,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to update item quantity")
	}

	return nil
}

func (t *cartTx) DeleteItemByProduct(ctx context.Context, cartID, productID int64) (bool, error) {
	const op = "cart.delete_item"

	tag, err := t.tx.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID,
	)
	if err != nil {
		return false, domain.Internal(err, op, "failed to delete cart item")
	}

	return tag.RowsAffected() > 0, nil
}

func (t *cartTx) Items(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	const op = "cart.items"

	rows, err := t.tx.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.image, ci.quantity, p.price_cents
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`,
		cartID,
	)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load cart items")
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.ProductName, &item.Image, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, domain.Internal(err, op, "failed to scan cart item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read cart items")
	}

	return items, nil
}

func (t *cartTx) ClearItems(ctx context.Context, cartID int64) error {
	const op = "cart.clear_items"

	_, err := t.tx.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1`,
		cartID,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to clear cart items")
	}

	return nil
}

func (t *cartTx) DecrementStock(ctx context.Context, productID int64, quantity int32) error {
	const op = "cart.decrement_stock"

	_, err := t.tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return domain.Internal(err, op, "failed to decrement stock")
	}

	return nil
}

// translateTxError converts PostgreSQL serialization failures (40001) and
// deadlocks (40P01) into the retryable sentinel. Domain errors pass through
// untouched.
func translateTxError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return &domain.Error{
				Code:    domain.ECONFLICT,
				Op:      op,
				Message: domain.ErrTxSerialization.Message,
				Err:     domain.ErrTxSerialization,
			}
		}
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	return domain.Internal(err, op, "transaction failed")
}
