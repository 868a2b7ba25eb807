package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/dukerupert/sif/internal/domain"
	"github.com/dukerupert/sif/internal/events"
	"github.com/dukerupert/sif/internal/telemetry"
)

// maxTxAttempts bounds retries of transactions that failed on a
// serialization conflict before surfacing ECONFLICT to the caller.
const maxTxAttempts = 3

// cartService implements domain.CartService on top of a transactional
// CartStore. Every mutation runs as a single unit of work against the pair
// (cart aggregate, touched product stock): the store locks the cart row
// first and product rows second, so the read-check-write stock validation
// cannot lose updates to a concurrent request.
type cartService struct {
	store     domain.CartStore
	publisher events.Publisher
	metrics   *telemetry.CartMetrics
	logger    *slog.Logger
}

// NewCartService creates a new CartService instance.
// publisher may be nil to disable event publishing; metrics may be nil to
// disable telemetry.
func NewCartService(store domain.CartStore, publisher events.Publisher, metrics *telemetry.CartMetrics, logger *slog.Logger) domain.CartService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cartService{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// AddItem adds a product to the owner's cart, merging with an existing line
// item. The merged quantity must satisfy the stock bound observed under the
// product row lock; on violation the cart is left untouched.
func (s *cartService) AddItem(ctx context.Context, ownerID string, productID int64, quantity int32) (*domain.CartSummary, error) {
	const op = "cart.add_item"

	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var summary *domain.CartSummary
	err := s.update(ctx, op, func(tx domain.CartTx) error {
		cart, err := tx.CartForOwner(ctx, ownerID)
		if err != nil {
			if !errors.Is(err, domain.ErrCartNotFound) {
				return err
			}
			// First add for this principal: create the cart lazily.
			cart, err = tx.CreateCart(ctx, ownerID)
			if err != nil {
				return err
			}
		}

		product, err := tx.ProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		existing, _, err := tx.ItemQuantity(ctx, cart.ID, productID)
		if err != nil {
			return err
		}

		if int64(existing)+int64(quantity) > int64(product.Stock) {
			return domain.OutOfStock(op, product.Stock-existing)
		}

		if err := tx.UpsertItem(ctx, cart.ID, productID, quantity); err != nil {
			return err
		}

		summary, err = s.snapshot(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		if domain.IsCode(err, domain.EOUTOFSTOCK) {
			s.metrics.StockRejected()
		}
		return nil, err
	}

	s.metrics.ItemAdded()
	return summary, nil
}

// GetCart returns the owner's cart at current prices. A missing or empty
// cart yields an empty summary, not an error.
func (s *cartService) GetCart(ctx context.Context, ownerID string) (*domain.CartSummary, error) {
	return s.store.LoadSummary(ctx, ownerID)
}

// UpdateQuantity replaces a line item's quantity after validating the
// absolute value against the product's stock. A missing item and an item
// owned by another principal produce the same not-found error.
func (s *cartService) UpdateQuantity(ctx context.Context, ownerID string, cartItemID int64, quantity int32) (*domain.CartSummary, error) {
	const op = "cart.update_quantity"

	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var summary *domain.CartSummary
	err := s.update(ctx, op, func(tx domain.CartTx) error {
		item, err := tx.ItemByID(ctx, cartItemID)
		if err != nil {
			return err
		}
		if item.OwnerID != ownerID {
			return domain.ErrCartItemNotFound
		}

		product, err := tx.ProductForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}

		// Absolute check: the new quantity replaces the old one.
		if quantity > product.Stock {
			return domain.OutOfStock(op, product.Stock)
		}

		if err := tx.SetItemQuantity(ctx, item.ID, quantity); err != nil {
			return err
		}

		summary, err = s.snapshot(ctx, tx, item.CartID)
		return err
	})
	if err != nil {
		if domain.IsCode(err, domain.EOUTOFSTOCK) {
			s.metrics.StockRejected()
		}
		return nil, err
	}

	return summary, nil
}

// RemoveItem deletes the line item for the given product and returns the
// remaining cart snapshot.
func (s *cartService) RemoveItem(ctx context.Context, ownerID string, productID int64) (*domain.CartSummary, error) {
	const op = "cart.remove_item"

	var summary *domain.CartSummary
	err := s.update(ctx, op, func(tx domain.CartTx) error {
		cart, err := tx.CartForOwner(ctx, ownerID)
		if err != nil {
			return err
		}

		removed, err := tx.DeleteItemByProduct(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		if !removed {
			return domain.ErrItemNotInCart
		}

		summary, err = s.snapshot(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// CheckoutSummary is a read-only projection of the cart with its total.
func (s *cartService) CheckoutSummary(ctx context.Context, ownerID string) (*domain.CartSummary, error) {
	return s.store.LoadSummary(ctx, ownerID)
}

// ConfirmCheckout snapshots the cart's line totals, decrements each
// product's stock, and clears all line items in one transaction. Confirming
// an empty (or absent) cart is an idempotent no-op returning a zero summary.
func (s *cartService) ConfirmCheckout(ctx context.Context, ownerID string) (*domain.CheckoutSummary, error) {
	const op = "cart.confirm_checkout"

	var result *domain.CheckoutSummary
	err := s.update(ctx, op, func(tx domain.CartTx) error {
		result = &domain.CheckoutSummary{}

		cart, err := tx.CartForOwner(ctx, ownerID)
		if err != nil {
			if errors.Is(err, domain.ErrCartNotFound) {
				return nil
			}
			return err
		}

		items, err := tx.Items(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		// Lock product rows in ascending id order so concurrent checkouts
		// touching the same products cannot deadlock.
		sort.Slice(items, func(i, j int) bool {
			return items[i].ProductID < items[j].ProductID
		})

		var total int64
		for _, item := range items {
			product, err := tx.ProductForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if item.Quantity > product.Stock {
				return domain.OutOfStock(op, product.Stock)
			}
			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			total += int64(item.Quantity) * item.UnitPriceCents
		}

		if err := tx.ClearItems(ctx, cart.ID); err != nil {
			return err
		}

		result = &domain.CheckoutSummary{
			TotalPaidCents: total,
			ItemsCount:     len(items),
		}
		return nil
	})
	if err != nil {
		if domain.IsCode(err, domain.EOUTOFSTOCK) {
			s.metrics.StockRejected()
		}
		return nil, err
	}

	if result.ItemsCount > 0 {
		s.metrics.CheckoutCompleted(result.TotalPaidCents)
		s.publishCheckout(ctx, ownerID, result)
	}

	return result, nil
}

// update runs fn in a store transaction, retrying bounded times on
// serialization conflicts before converting to ECONFLICT.
func (s *cartService) update(ctx context.Context, op string, fn func(tx domain.CartTx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.store.Update(ctx, fn)
		if err == nil || !domain.IsRetryable(err) {
			return err
		}
		s.metrics.TxRetried()
		s.logger.Debug("retrying cart transaction after conflict",
			"op", op,
			"attempt", attempt,
		)
	}

	return domain.Conflict(op, "The cart was modified concurrently. Please retry.")
}

// snapshot builds the priced cart summary from the transaction's view of
// the items, so the returned state matches exactly what was committed.
func (s *cartService) snapshot(ctx context.Context, tx domain.CartTx, cartID int64) (*domain.CartSummary, error) {
	items, err := tx.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return BuildCartSummary(items), nil
}

// publishCheckout emits the checkout-completed event. Failures are logged
// and swallowed: the checkout has already committed.
func (s *cartService) publishCheckout(ctx context.Context, ownerID string, summary *domain.CheckoutSummary) {
	err := s.publisher.PublishCheckoutCompleted(ctx, events.CheckoutCompleted{
		OwnerID:        ownerID,
		TotalPaidCents: summary.TotalPaidCents,
		ItemsCount:     summary.ItemsCount,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to publish checkout event",
			"error", err,
			"owner_id", ownerID,
		)
	}
}

// BuildCartSummary computes line totals and the cart total from items
// priced at the current catalog price. Line totals are derived, never
// stored.
func BuildCartSummary(items []domain.CartItem) *domain.CartSummary {
	summary := &domain.CartSummary{
		Items: make([]domain.CartItem, 0, len(items)),
	}

	for _, item := range items {
		item.LineTotalCents = int64(item.Quantity) * item.UnitPriceCents
		summary.TotalCents += item.LineTotalCents
		summary.Items = append(summary.Items, item)
	}

	return summary
}
