package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roshil-6/TONIO-SENORA/internal/auth"
	"github.com/roshil-6/TONIO-SENORA/internal/handler"
	"github.com/roshil-6/TONIO-SENORA/internal/metrics"
	mw "github.com/roshil-6/TONIO-SENORA/internal/middleware"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

// Handlers groups what the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Client  *handler.ClientHandler
	Admin   *handler.AdminHandler
	Contact *handler.ContactHandler
	Health  http.HandlerFunc
}

func New(jwtSecret string, gate *auth.Gate, m *metrics.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Get("/healthz", h.Health)
		if m != nil {
			r.Handle("/metrics", m.Handler())
		}
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/contact", h.Contact.Submit)
		r.Get("/catalog", h.Catalog.Countries)
		r.Get("/catalog/{country}", h.Catalog.Country)
		r.Get("/catalog/{country}/{visaType}", h.Catalog.VisaType)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			// Either role
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(gate, ""))
				r.Get("/auth/me", h.Auth.Me)
				r.Post("/auth/logout", h.Auth.Logout)
			})

			r.Route("/client", func(r chi.Router) {
				r.Use(auth.RequireRole(gate, models.RoleClient))

				r.Get("/dashboard", h.Client.Dashboard)
				r.Get("/activity", h.Client.Activity)
				r.Post("/application", h.Client.StartApplication)

				r.Get("/checklist/{country}", h.Client.Country)
				r.Get("/checklist/{country}/{visaType}", h.Client.Checklist)
				r.Put("/checklist/{country}/items", h.Client.ToggleItem)

				r.Get("/documents", h.Client.Documents)
				r.Get("/documents/{docId}", h.Client.Document)
				r.Post("/documents/{docId}", h.Client.Upload)
				r.Get("/documents/{docId}/download", h.Client.Download)
				r.Delete("/documents/{docId}", h.Client.Delete)

				r.Get("/files", h.Client.Files)
				r.Post("/files", h.Client.DropZone)
				r.Post("/files/{category}", h.Client.CategoryUpload)

				r.Get("/messages", h.Client.Messages)
				r.Post("/messages", h.Client.SendMessage)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRole(gate, models.RoleAdmin))

				r.Get("/dashboard", h.Admin.Dashboard)
				r.Get("/activity", h.Admin.Activity)
				r.Get("/clients", h.Admin.Clients)
				r.Post("/clients/{clientId}/messages", h.Admin.Reply)
				r.Get("/reviews", h.Admin.Reviews)
				r.Post("/reviews/{reviewId}/approve", h.Admin.Approve)
				r.Post("/reviews/{reviewId}/reject", h.Admin.Reject)
				r.Get("/applications", h.Admin.Applications)
				r.Put("/applications/{appId}", h.Admin.UpdateApplication)
				r.Get("/communications", h.Admin.Communications)
				r.Get("/reports", h.Admin.Reports)
				r.Get("/contact", h.Admin.Contacts)
			})
		})
	})

	return r
}
