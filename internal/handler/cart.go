package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/sif/internal/domain"
)

// CartHandler serves the per-user cart and checkout endpoints. Every route
// here sits behind RequireAuth, so a principal is always on the context.
type CartHandler struct {
	carts    domain.CartService
	validate *validator.Validate
}

func NewCartHandler(carts domain.CartService) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: validator.New(),
	}
}

type addToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int32 `json:"quantity" validate:"required,gt=0"`
}

type updateQuantityRequest struct {
	Quantity int32 `json:"quantity" validate:"required,gt=0"`
}

// cartItemJSON is the wire shape of a single cart line.
type cartItemJSON struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Image       string  `json:"image"`
	Quantity    int32   `json:"quantity"`
	Price       float64 `json:"price"`
	TotalPrice  float64 `json:"totalPrice"`
}

type cartJSON struct {
	Items []cartItemJSON `json:"items"`
	Total float64        `json:"total"`
}

type checkoutJSON struct {
	TotalPaid  float64 `json:"totalPaid"`
	ItemsCount int     `json:"itemsCount"`
}

func cartItemsJSON(items []domain.CartItem) []cartItemJSON {
	out := make([]cartItemJSON, 0, len(items))
	for _, item := range items {
		out = append(out, cartItemJSON{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Image:       item.Image,
			Quantity:    item.Quantity,
			Price:       amount(item.UnitPriceCents),
			TotalPrice:  amount(item.LineTotalCents),
		})
	}
	return out
}

func cartSummaryJSON(summary *domain.CartSummary) cartJSON {
	return cartJSON{
		Items: cartItemsJSON(summary.Items),
		Total: amount(summary.TotalCents),
	}
}

// AddItem handles POST /api/cart/add.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "handler.cart.AddItem"

	var req addToCartRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.validateRequest(op, req); err != nil {
		RespondError(w, r, err)
		return
	}

	summary, err := h.carts.AddItem(r.Context(), domain.PrincipalFromContext(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Item added successfully!", cartSummaryJSON(summary))
}

// GetCart handles GET /api/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	summary, err := h.carts.GetCart(r.Context(), domain.PrincipalFromContext(r.Context()))
	if err != nil {
		RespondError(w, r, err)
		return
	}

	message := "Cart retrieved successfully."
	if len(summary.Items) == 0 {
		message = "Your cart is empty."
	}

	RespondOK(w, message, cartSummaryJSON(summary))
}

// UpdateQuantity handles PUT /api/cart/update/{cartItemId}.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "handler.cart.UpdateQuantity"

	cartItemID, err := strconv.ParseInt(r.PathValue("cartItemId"), 10, 64)
	if err != nil {
		RespondError(w, r, domain.Invalid(op, "A valid cart item id is required."))
		return
	}

	var req updateQuantityRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.validateRequest(op, req); err != nil {
		RespondError(w, r, err)
		return
	}

	summary, err := h.carts.UpdateQuantity(r.Context(), domain.PrincipalFromContext(r.Context()), cartItemID, req.Quantity)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Quantity updated successfully.", cartSummaryJSON(summary))
}

// RemoveItem handles DELETE /api/cart/remove/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "handler.cart.RemoveItem"

	productID, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		RespondError(w, r, domain.Invalid(op, "A valid product id is required."))
		return
	}

	summary, err := h.carts.RemoveItem(r.Context(), domain.PrincipalFromContext(r.Context()), productID)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Item removed successfully.", cartSummaryJSON(summary))
}

// CheckoutSummary handles GET /api/cart/checkout. It is a read-only preview
// of what ConfirmCheckout would charge.
func (h *CartHandler) CheckoutSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.carts.CheckoutSummary(r.Context(), domain.PrincipalFromContext(r.Context()))
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Checkout summary retrieved successfully.", cartSummaryJSON(summary))
}

// ConfirmCheckout handles POST /api/cart/checkout/confirm. Confirming an
// empty (or already checked out) cart succeeds with a zero summary.
func (h *CartHandler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	result, err := h.carts.ConfirmCheckout(r.Context(), domain.PrincipalFromContext(r.Context()))
	if err != nil {
		RespondError(w, r, err)
		return
	}

	message := "Checkout successful! Cart cleared."
	if result.ItemsCount == 0 {
		message = "Cart is empty."
	}

	RespondOK(w, message, checkoutJSON{
		TotalPaid:  amount(result.TotalPaidCents),
		ItemsCount: result.ItemsCount,
	})
}

// validateRequest runs struct validation and translates the first failure
// into a user-facing message.
func (h *CartHandler) validateRequest(op string, req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Quantity":
			return domain.Invalid(op, "Quantity must be greater than 0.")
		case "ProductID":
			return domain.Invalid(op, "A valid product id is required.")
		default:
			return domain.Invalid(op, fmt.Sprintf("Invalid value for %s.", verrs[0].Field()))
		}
	}

	return domain.Invalid(op, "Invalid request payload.")
}
