package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/sif/internal/domain"
)

// CategoryHandler serves category reads and CRUD.
type CategoryHandler struct {
	categories domain.CategoryService
	validate   *validator.Validate
}

func NewCategoryHandler(categories domain.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		validate:   validator.New(),
	}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type categoryJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategoryJSON(c *domain.Category) categoryJSON {
	return categoryJSON{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}

	out := make([]categoryJSON, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryJSON(&categories[i]))
	}

	RespondOK(w, "Categories retrieved successfully.", out)
}

// Get handles GET /api/categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handler.category.Get"

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondError(w, r, domain.Invalid(op, "A valid category id is required."))
		return
	}

	category, err := h.categories.GetCategory(r.Context(), id)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Category retrieved successfully.", toCategoryJSON(category))
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handler.category.Create"

	var req categoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.validateRequest(op, req); err != nil {
		RespondError(w, r, err)
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), domain.CategoryParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}

	Respond(w, http.StatusCreated, "Category created successfully.", toCategoryJSON(category))
}

// Update handles PUT /api/categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handler.category.Update"

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondError(w, r, domain.Invalid(op, "A valid category id is required."))
		return
	}

	var req categoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.validateRequest(op, req); err != nil {
		RespondError(w, r, err)
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), id, domain.CategoryParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Category updated successfully.", toCategoryJSON(category))
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handler.category.Delete"

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondError(w, r, domain.Invalid(op, "A valid category id is required."))
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Category deleted successfully.", nil)
}

func (h *CategoryHandler) validateRequest(op string, req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Name" {
		return domain.Invalid(op, "Category name is required.")
	}

	return domain.Invalid(op, "Invalid request payload.")
}
