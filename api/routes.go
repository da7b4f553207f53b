package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public site API, login and the authenticated admin API
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.health())
		r.Post("/auth/login", handlers.authHandler.login())

		// Public site endpoints
		r.Route("/api", func(r chi.Router) {
			r.Get("/profile", handlers.profileHandler.get())
			r.Get("/cv", handlers.profileHandler.cv())
			r.Post("/contact", handlers.messageHandler.submit())
			r.Post("/track", handlers.analyticsHandler.track())
			r.Get("/{collection}", handlers.collectionHandler.publicList())
			r.Get("/{collection}/{id}", handlers.collectionHandler.publicGet())
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", handlers.messageHandler.list())
				r.Get("/counts", handlers.messageHandler.counts())
				r.Get("/{id}", handlers.messageHandler.show())
				r.Post("/{id}/read", handlers.messageHandler.markRead())
				r.Post("/{id}/reply", handlers.messageHandler.reply())
				r.Post("/{id}/archive", handlers.messageHandler.archive())
				r.Put("/{id}/notes", handlers.messageHandler.updateNotes())
				r.Delete("/{id}", handlers.messageHandler.delete())
			})

			r.Post("/bulk", handlers.bulkHandler.execute())
			r.Get("/bulk/capabilities", handlers.bulkHandler.capabilities())

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/overview", handlers.analyticsHandler.overview())
				r.Get("/timeline", handlers.analyticsHandler.timeline())
				r.Get("/top-pages", handlers.analyticsHandler.topPages())
				r.Get("/activity", handlers.analyticsHandler.activity())
			})

			r.Get("/profile", handlers.profileHandler.get())
			r.Put("/profile", handlers.profileHandler.update())
			r.Post("/profile/photo", handlers.profileHandler.uploadPhoto())
			r.Post("/profile/cv", handlers.profileHandler.uploadCV())

			// Content collections, resolved by name through their schemas
			r.Route("/{collection}", func(r chi.Router) {
				r.Get("/", handlers.collectionHandler.list())
				r.Post("/", handlers.collectionHandler.create())
				r.Post("/reorder", handlers.collectionHandler.reorder())
				r.Post("/compact", handlers.collectionHandler.compact())
				r.Get("/export", handlers.collectionHandler.export())
				r.Post("/import", handlers.collectionHandler.importData())
				r.Get("/{id}", handlers.collectionHandler.get())
				r.Put("/{id}", handlers.collectionHandler.update())
				r.Delete("/{id}", handlers.collectionHandler.delete())
				r.Patch("/{id}/featured", handlers.collectionHandler.toggleFeatured())
				r.Patch("/{id}/active", handlers.collectionHandler.toggleActive())
			})
		})
	})
}
