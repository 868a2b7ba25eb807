package domain

import "context"

// Cart domain errors. ErrCartItemNotFound is returned both when an item does
// not exist and when it belongs to another principal, so existence cannot be
// probed across accounts.
var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found."}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found."}
	ErrItemNotInCart    = &Error{Code: ENOTFOUND, Message: "Item not found in your cart."}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0."}
)

// Cart is the cart row. A principal owns at most one cart; it is created
// lazily on first add and never deleted (checkout only clears its items).
type Cart struct {
	ID      int64
	OwnerID string
}

// CartItem is a cart line item joined with live product data.
// LineTotalCents is computed on read, never stored, so it always reflects
// the current catalog price.
type CartItem struct {
	ID             int64
	CartID         int64
	ProductID      int64
	ProductName    string
	Image          string
	Quantity       int32
	UnitPriceCents int64
	LineTotalCents int64
}

// CartSummary is a snapshot of a cart's items with the computed total.
type CartSummary struct {
	Items      []CartItem
	TotalCents int64
}

// CheckoutSummary reports the result of a confirmed checkout: the total as
// it existed immediately before the cart was cleared, and how many line
// items were cleared.
type CheckoutSummary struct {
	TotalPaidCents int64
	ItemsCount     int
}

// CartService provides business logic for shopping cart operations.
// Every method is scoped to the authenticated principal that owns the cart.
type CartService interface {
	// AddItem adds a product to the principal's cart, merging with an
	// existing line item for the same product. The merged quantity must not
	// exceed the product's available stock.
	AddItem(ctx context.Context, ownerID string, productID int64, quantity int32) (*CartSummary, error)

	// GetCart returns the principal's cart at current prices.
	// A missing or empty cart yields an empty summary, not an error.
	GetCart(ctx context.Context, ownerID string) (*CartSummary, error)

	// UpdateQuantity replaces a line item's quantity. Returns
	// ErrCartItemNotFound for missing items and for items owned by another
	// principal alike.
	UpdateQuantity(ctx context.Context, ownerID string, cartItemID int64, quantity int32) (*CartSummary, error)

	// RemoveItem deletes the line item for the given product.
	RemoveItem(ctx context.Context, ownerID string, productID int64) (*CartSummary, error)

	// CheckoutSummary returns the current items and total without mutating
	// anything. An empty cart yields total 0.
	CheckoutSummary(ctx context.Context, ownerID string) (*CartSummary, error)

	// ConfirmCheckout atomically snapshots the cart total, reserves stock,
	// and clears all line items. Confirming an already-empty cart succeeds
	// with a zero summary.
	ConfirmCheckout(ctx context.Context, ownerID string) (*CheckoutSummary, error)
}

// CartStore is the persistence boundary for cart aggregates.
//
// Update runs fn inside a single transaction; the CartTx passed to fn is
// only valid for the duration of the call. Implementations must guarantee
// that product reads via ProductForUpdate and cart reads via CartForOwner
// lock the underlying rows, so a read-check-write sequence inside fn cannot
// lose updates to a concurrent transaction.
type CartStore interface {
	Update(ctx context.Context, fn func(tx CartTx) error) error

	// LoadSummary reads the priced cart snapshot outside a mutation.
	// Returns an empty summary when the owner has no cart.
	LoadSummary(ctx context.Context, ownerID string) (*CartSummary, error)
}

// CartTx is the unit of work handed to CartStore.Update. It is scoped to a
// single operation and must never be retained across requests.
type CartTx interface {
	// ProductForUpdate loads a product and locks its row for the remainder
	// of the transaction. Returns ErrProductNotFound if absent.
	ProductForUpdate(ctx context.Context, productID int64) (*Product, error)

	// CartForOwner loads the owner's cart and locks it.
	// Returns ErrCartNotFound if the owner has no cart yet.
	CartForOwner(ctx context.Context, ownerID string) (*Cart, error)

	// CreateCart creates (or, under a race, adopts) the owner's cart and
	// locks it.
	CreateCart(ctx context.Context, ownerID string) (*Cart, error)

	// ItemQuantity returns the quantity of the cart's line item for a
	// product, with ok=false when no such row exists.
	ItemQuantity(ctx context.Context, cartID, productID int64) (qty int32, ok bool, err error)

	// ItemByID loads a line item together with its owning cart's owner id.
	// Returns ErrCartItemNotFound if absent.
	ItemByID(ctx context.Context, cartItemID int64) (*CartItemRef, error)

	// UpsertItem inserts a line item or increments the existing one for the
	// same (cart, product) pair. The unique index on that pair is what makes
	// merge-add race-free.
	UpsertItem(ctx context.Context, cartID, productID int64, quantity int32) error

	// SetItemQuantity replaces a line item's quantity.
	SetItemQuantity(ctx context.Context, cartItemID int64, quantity int32) error

	// DeleteItemByProduct removes the line item for a product.
	// Returns false when the cart held no such item.
	DeleteItemByProduct(ctx context.Context, cartID, productID int64) (bool, error)

	// Items returns the cart's line items joined with current product data.
	Items(ctx context.Context, cartID int64) ([]CartItem, error)

	// ClearItems deletes every line item of the cart.
	ClearItems(ctx context.Context, cartID int64) error

	// DecrementStock reduces a product's stock. Callers must have validated
	// the bound under a ProductForUpdate lock first.
	DecrementStock(ctx context.Context, productID int64, quantity int32) error
}

// CartItemRef is a line item plus the owner of its cart, used for the
// ownership check on item-addressed mutations.
type CartItemRef struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int32
	OwnerID   string
}
