package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jot/notes-backend/internal/api/handlers"
	"github.com/jot/notes-backend/internal/api/middleware"
	"github.com/jot/notes-backend/internal/config"
	"github.com/jot/notes-backend/internal/events"
	"github.com/jot/notes-backend/internal/service"
)

func NewRouter(services *service.Services, hub *events.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	accountHandler := handlers.NewAccountHandler(services.Auth, services.Lifecycle)
	documentHandler := handlers.NewDocumentHandler(services.Document, services.Trash)
	folderHandler := handlers.NewFolderHandler(services.Folder)
	eventsHandler := handlers.NewEventsHandler(hub)
	oauthHandler := handlers.NewOAuthHandler(services.Auth, cfg)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/google", oauthHandler.Login)
			r.Get("/google/callback", oauthHandler.Callback)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Reactivation is reachable without a session: the account being
		// restored has none.
		r.Route("/account", func(r chi.Router) {
			r.Get("/reactivation", accountHandler.ReactivationStatus)
			r.Post("/reactivate", accountHandler.Reactivate)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Post("/delete", accountHandler.Delete)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", documentHandler.Create)
				r.Get("/", documentHandler.List)
				r.Get("/{id}", documentHandler.Get)
				r.Put("/{id}", documentHandler.Update)
				r.Get("/{id}/html", documentHandler.RenderHTML)
				r.Post("/{id}/favorite", documentHandler.ToggleFavorite)
				r.Post("/{id}/trash", documentHandler.Trash)
			})

			r.Route("/trash", func(r chi.Router) {
				r.Get("/", documentHandler.ListTrash)
				r.Post("/bulk", documentHandler.TrashBulk)
				r.Post("/{id}/restore", documentHandler.RestoreTrashed)
			})

			r.Route("/folders", func(r chi.Router) {
				r.Post("/", folderHandler.Create)
				r.Get("/", folderHandler.List)
				r.Delete("/{id}", folderHandler.Delete)
				r.Get("/{id}/documents", folderHandler.ListDocuments)
				r.Put("/{id}/documents/{documentId}", folderHandler.AddDocument)
				r.Delete("/{id}/documents/{documentId}", folderHandler.RemoveDocument)
			})

			r.Get("/ws", eventsHandler.Subscribe)
		})
	})

	return r
}
