package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every endpoint. Public reads live alongside a
// token-gated admin surface under the same /api/v1 prefix.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/", handlers.metaHandler.root())
	r.Get("/health", handlers.metaHandler.health())

	r.Route("/api/v1", func(r chi.Router) {
		// Authentication
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/register", handlers.authHandler.register())
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Get("/auth/me", handlers.authHandler.me())
		})

		// Public read surface
		r.Get("/projects", handlers.projectHandler.listPublished())
		r.Get("/projects/{slug}", handlers.projectHandler.getBySlug())
		r.Get("/skills/categories", handlers.skillHandler.listPublishedCategories())
		r.Get("/skills/categories/{slug}", handlers.skillHandler.getCategoryBySlug())
		r.Post("/contact", handlers.contactHandler.submit())

		// Admin surface
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Use(authMiddleware.requireAdmin)

			r.Get("/projects/admin/all", handlers.projectHandler.listAll())
			r.Post("/projects", handlers.projectHandler.create())
			r.Patch("/projects/{projectID}", handlers.projectHandler.update())
			r.Delete("/projects/{projectID}", handlers.projectHandler.delete())
			r.Post("/projects/{projectID}/reorder", handlers.projectHandler.reorder())
			r.Post("/projects/{projectID}/images", handlers.projectHandler.uploadImage())

			r.Get("/skills/admin/categories", handlers.skillHandler.listAllCategories())
			r.Post("/skills/categories", handlers.skillHandler.createCategory())
			r.Patch("/skills/categories/{categoryID}", handlers.skillHandler.updateCategory())
			r.Delete("/skills/categories/{categoryID}", handlers.skillHandler.deleteCategory())
			r.Post("/skills", handlers.skillHandler.createSkill())
			r.Patch("/skills/{skillID}", handlers.skillHandler.updateSkill())
			r.Delete("/skills/{skillID}", handlers.skillHandler.deleteSkill())

			r.Get("/contact", handlers.contactHandler.list())
			r.Get("/contact/stats", handlers.contactHandler.stats())
			r.Post("/contact/mark-all-read", handlers.contactHandler.markAllRead())
			r.Get("/contact/{submissionID}", handlers.contactHandler.get())
			r.Patch("/contact/{submissionID}", handlers.contactHandler.update())
			r.Delete("/contact/{submissionID}", handlers.contactHandler.delete())
		})
	})
}
