// Package routes wires handlers onto the router. All API routes live under
// /api; cart routes additionally require an authenticated principal.
package routes

import (
	"github.com/dukerupert/sif/internal/domain"
	"github.com/dukerupert/sif/internal/handler"
	"github.com/dukerupert/sif/internal/middleware"
	"github.com/dukerupert/sif/internal/router"
)

// Deps carries the services the API routes depend on.
type Deps struct {
	Carts      domain.CartService
	Products   domain.ProductService
	Categories domain.CategoryService
	Users      domain.UserService
}

// Register mounts every API route on r.
func Register(r *router.Router, deps Deps) {
	carts := handler.NewCartHandler(deps.Carts)
	products := handler.NewProductHandler(deps.Products)
	categories := handler.NewCategoryHandler(deps.Categories)
	users := handler.NewUserHandler(deps.Users)

	// Auth
	r.Post("/api/auth/register", users.Register)
	r.Post("/api/auth/login", users.Login)

	// Catalog reads are public
	r.Get("/api/products", products.List)
	r.Get("/api/products/{id}", products.Get)
	r.Get("/api/categories", categories.List)
	r.Get("/api/categories/{id}", categories.Get)

	// Catalog writes require auth
	admin := r.Group(middleware.RequireAuth)
	admin.Post("/api/products", products.Create)
	admin.Put("/api/products/{id}", products.Update)
	admin.Delete("/api/products/{id}", products.Delete)
	admin.Post("/api/categories", categories.Create)
	admin.Put("/api/categories/{id}", categories.Update)
	admin.Delete("/api/categories/{id}", categories.Delete)

	// Cart and checkout are strictly per-principal
	cart := r.Group(middleware.RequireAuth)
	cart.Get("/api/cart", carts.GetCart)
	cart.Post("/api/cart/add", carts.AddItem)
	cart.Put("/api/cart/update/{cartItemId}", carts.UpdateQuantity)
	cart.Delete("/api/cart/remove/{productId}", carts.RemoveItem)
	cart.Get("/api/cart/checkout", carts.CheckoutSummary)
	cart.Post("/api/cart/checkout/confirm", carts.ConfirmCheckout)
}
