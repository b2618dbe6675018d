// Package httpapi exposes the reader over a small JSON API, so a browser
// front-end can drive the same services as the terminal REPL.
package httpapi

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/techurbanist/duread/internal/client/services"
	"github.com/techurbanist/duread/internal/logging"
)

func NewRouter(creds services.CredentialService, docs services.DocumentService, logger logging.Logger, allowedOrigins ...string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(corsOptions(allowedOrigins)))

	h := &handler{creds: creds, docs: docs, logger: logger}

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.status)

		r.Put("/credential", h.saveCredential)
		r.Post("/credential/unlock", h.unlock)
		r.Delete("/credential", h.forget)

		r.Get("/documents", h.listDocuments)
		r.Post("/documents", h.submit)
		r.Get("/documents/current", h.current)
		r.Post("/documents/new", h.newDocument)
		r.Post("/documents/{id}/load", h.load)
		r.Delete("/documents/{id}", h.deleteDocument)

		r.Put("/direction", h.setDirection)
		r.Post("/visible", h.visible)
	})

	return r
}
