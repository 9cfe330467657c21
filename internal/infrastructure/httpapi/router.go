package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter creates and configures the application router.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsSettings(h.server.AllowedOrigins).Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", healthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/site", h.GetSite)

		r.Group(func(r chi.Router) {
			r.Use(h.visitorSession)

			r.Get("/stories", h.ListStories)
			if h.features.RandomSelectionEnabled() {
				r.Get("/stories/random", h.GetRandomStory)
			}
			r.Get("/stories/{id}", h.GetStory)

			if h.features.CommentsEnabled() {
				r.Get("/stories/{id}/comments", h.GetComments)
				r.Post("/stories/{id}/comments", h.CreateComment)
			}
		})

		if !h.features.AdminPanelEnabled() {
			return
		}

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/check", h.CheckAuth)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)

				r.Get("/stories", h.AdminListStories)
				r.Post("/stories", h.AdminCreateStory)
				r.Put("/stories", h.AdminUpdateStory)
				r.Patch("/stories/{id}/visibility", h.AdminSetVisibility)
				r.Delete("/stories/{id}", h.AdminDeleteStory)

				if h.features.CommentsEnabled() {
					r.Get("/comments", h.AdminPendingComments)
					r.Put("/comments", h.AdminModerateComment)
					r.Get("/moderation-events", h.AdminModerationEvents)
				}
				if h.features.AnalyticsEnabled() {
					r.Get("/analytics", h.AdminAnalytics)
				}
			})
		})
	})

	return r
}

func corsSettings(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
