package routes

import (
	"github.com/dukerupert/skald/internal/domain"
	"github.com/dukerupert/skald/internal/middleware"
	"github.com/dukerupert/skald/internal/router"
)

// RegisterAPIRoutes wires the bookstore API.
//
// Identity extraction happens in the server's global middleware chain, so
// route groups here only enforce authorization. Public routes need no token.
// Authenticated routes require a verified Bearer token; admin routes
// additionally require an admin role, and the user management surface is
// restricted further per-route inside the handlers (only rootAdmin can
// assign roles).
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// public catalog and registration
	r.Get("/api/books", deps.Books.List)
	r.Get("/api/books/{id}", deps.Books.Get)
	r.Post("/api/users", deps.Users.Register)

	// authenticated customer surface
	authed := r.Group(middleware.RequireAuth)

	authed.Get("/api/users/me", deps.Users.Me)
	authed.Patch("/api/users/me", deps.Users.UpdateMe)
	authed.Delete("/api/users/me", deps.Users.DeleteMe)
	authed.Post("/api/users/me/password", deps.Users.ChangePassword)

	authed.Get("/api/cart", deps.Cart.Get)
	authed.Post("/api/cart/items", deps.Cart.AddItem)
	authed.Put("/api/cart/items/{bookId}", deps.Cart.UpdateItem)
	authed.Delete("/api/cart/items/{bookId}", deps.Cart.RemoveItem)

	authed.Post("/api/purchases", deps.Purchases.Checkout)
	authed.Get("/api/purchases", deps.Purchases.ListMine)

	// admin surface
	admin := r.Group(middleware.RequireAdmin)

	admin.Post("/api/admin/books", deps.Books.Create)
	admin.Patch("/api/admin/books/{id}", deps.Books.Update)
	admin.Delete("/api/admin/books/{id}", deps.Books.Delete)

	admin.Get("/api/admin/purchases", deps.Purchases.ListAll)

	admin.Get("/api/admin/users", deps.Users.List)
	admin.Get("/api/admin/users/{id}", deps.Users.Get)
	admin.Post("/api/admin/users", deps.Users.Create)
	admin.Patch("/api/admin/users/{id}", deps.Users.Update)
	admin.Delete("/api/admin/users/{id}", deps.Users.Delete)

	// subAdmin management is reserved for the root account
	root := r.Group(middleware.RequireRole(domain.RoleRootAdmin))
	root.Get("/api/admin/subadmins", deps.Users.ListSubAdmins)
	root.Post("/api/admin/subadmins", deps.Users.CreateSubAdmin)
	root.Get("/api/admin/subadmins/{id}", deps.Users.GetSubAdmin)
	root.Put("/api/admin/subadmins/{id}", deps.Users.UpdateSubAdmin)
	root.Delete("/api/admin/subadmins/{id}", deps.Users.DeleteSubAdmin)
}
