package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/sif/internal/domain"
)

// ProductHandler serves the public catalog reads and the authenticated
// catalog CRUD.
type ProductHandler struct {
	products domain.ProductService
	validate *validator.Validate
}

func NewProductHandler(products domain.ProductService) *ProductHandler {
	return &ProductHandler{
		products: products,
		validate: validator.New(),
	}
}

type productRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int32   `json:"stock" validate:"gte=0"`
	CategoryID  int64   `json:"categoryId" validate:"required,gt=0"`
}

type productJSON struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	Stock        int32   `json:"stock"`
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
}

func toProductJSON(p *domain.Product) productJSON {
	return productJSON{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Image:        p.Image,
		Price:        amount(p.PriceCents),
		Stock:        p.Stock,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
	}
}

func (req productRequest) params() domain.ProductParams {
	return domain.ProductParams{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		PriceCents:  int64(math.Round(req.Price * 100)),
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}

	out := make([]productJSON, 0, len(products))
	for i := range products {
		out = append(out, toProductJSON(&products[i]))
	}

	RespondOK(w, "Products retrieved successfully.", out)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handler.product.Get"

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondError(w, r, domain.Invalid(op, "A valid product id is required."))
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Product retrieved successfully.", toProductJSON(product))
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handler.product.Create"

	var req productRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.validateRequest(op, req); err != nil {
		RespondError(w, r, err)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), req.params())
	if err != nil {
		RespondError(w, r, err)
		return
	}

	Respond(w, http.StatusCreated, "Product created successfully.", toProductJSON(product))
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handler.product.Update"

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondError(w, r, domain.Invalid(op, "A valid product id is required."))
		return
	}

	var req productRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.validateRequest(op, req); err != nil {
		RespondError(w, r, err)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, req.params())
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Product updated successfully.", toProductJSON(product))
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handler.product.Delete"

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondError(w, r, domain.Invalid(op, "A valid product id is required."))
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Product deleted successfully.", nil)
}

func (h *ProductHandler) validateRequest(op string, req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Name":
			return domain.Invalid(op, "Product name is required.")
		case "Price":
			return domain.Invalid(op, "Price must be greater than 0.")
		case "Stock":
			return domain.Invalid(op, "Stock cannot be negative.")
		case "CategoryID":
			return domain.Invalid(op, "A valid category id is required.")
		default:
			return domain.Invalid(op, fmt.Sprintf("Invalid value for %s.", verrs[0].Field()))
		}
	}

	return domain.Invalid(op, "Invalid request payload.")
}
