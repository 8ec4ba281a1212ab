package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// crudRoutes is the route set every record collection exposes
type crudRoutes interface {
	list(public bool) http.HandlerFunc
	get(public bool) http.HandlerFunc
	create() http.HandlerFunc
	update() http.HandlerFunc
	remove() http.HandlerFunc
}

// mountPublic registers the read-only routes, e.g. /notices and /notice/{id}
func mountPublic(r chi.Router, plural, singular string, h crudRoutes) {
	r.Get("/"+plural, h.list(true))
	if singular != "" {
		r.Get("/"+singular+"/{id}", h.get(true))
	}
}

// mountAdmin registers list, get, create, update and delete under /admin
func mountAdmin(r chi.Router, plural string, h crudRoutes) {
	r.Get("/"+plural, h.list(false))
	r.Post("/"+plural, h.create())
	r.Get("/"+plural+"/{id}", h.get(false))
	r.Put("/"+plural+"/{id}", h.update())
	r.Delete("/"+plural+"/{id}", h.remove())
}

// setupPublicRoutes sets up the routes anyone may call
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	mountPublic(r, "blog-posts", "blog-post", handlers.blogPosts)
	mountPublic(r, "notices", "notice", handlers.notices)
	mountPublic(r, "schemes", "scheme", handlers.schemes)
	mountPublic(r, "services", "service", handlers.services)
	mountPublic(r, "projects", "project", handlers.projects)
	mountPublic(r, "tenders", "tender", handlers.tenders)
	mountPublic(r, "meetings", "meeting", handlers.meetings)
	mountPublic(r, "officials", "official", handlers.officials)
	mountPublic(r, "gallery", "", handlers.gallery)

	r.Get("/settings", handlers.settings.getSettings())
	r.Get("/taxes/search", handlers.taxTools.search())
	r.Post("/contact", handlers.contact.sendEnquiry())

	r.Get("/auth/google/login", handlers.auth.googleLogin())
	r.Get("/auth/google/callback", handlers.auth.googleCallback())
	r.Post("/auth/descope", handlers.auth.descopeSignIn())
	r.Post("/auth/logout", handlers.auth.logout())
	r.Get("/auth/me", handlers.auth.me())
}

// setupAdminRoutes sets up the routes that need an admin session
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware.requireAdmin)

		mountAdmin(r, "blog-posts", handlers.blogPosts)
		mountAdmin(r, "notices", handlers.notices)
		mountAdmin(r, "schemes", handlers.schemes)
		mountAdmin(r, "services", handlers.services)
		mountAdmin(r, "projects", handlers.projects)
		mountAdmin(r, "tenders", handlers.tenders)
		mountAdmin(r, "meetings", handlers.meetings)
		mountAdmin(r, "officials", handlers.officials)
		mountAdmin(r, "taxes", handlers.taxes)
		mountAdmin(r, "gallery", handlers.gallery)
		mountAdmin(r, "roles", handlers.roles)

		r.Post("/blog-posts/{id}/thumbnail", handlers.blogMedia.uploadThumbnail())
		r.Post("/blog-posts/{id}/images", handlers.blogMedia.uploadImages())
		r.Post("/blog-posts/{id}/video", handlers.blogMedia.uploadVideo())

		r.Post("/tenders/{id}/applicants", handlers.tenderApps.addApplicant())
		r.Delete("/tenders/{id}/applicants/{applicantID}", handlers.tenderApps.removeApplicant())

		r.Post("/taxes/reminders", handlers.taxTools.sendReminders())

		r.Get("/settings", handlers.settings.getSettings())
		r.Put("/settings", handlers.settings.saveSettings())
		r.Post("/settings/logo", handlers.settings.uploadLogo())
		r.Post("/settings/slider", handlers.settings.addSliderImages())
		r.Delete("/settings/slider/{index}", handlers.settings.removeSliderImage())

		r.Post("/gallery/upload", handlers.uploads.uploadGallery())
		r.Post("/uploads", handlers.uploads.uploadFile())
		r.Get("/dashboard", handlers.dashboard.counts())
	})
}
