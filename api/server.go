/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions. This is
  the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/players/*    Player registration, updates, stats, dues
  /api/matches/*    Match logging and edits
  /api/payments/*   Payment recording and edits
  /api/expenses/*   Expense recording
  /api/ongoing      Live match singleton
  /api/role         Cosmetic role switch
  /api/reports/*    Period summaries, total dues, CSV export

SECURITY NOTE:
  No authentication middleware. The role label is cosmetic by design.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Post("/", h.CreatePlayer)
			r.Put("/{id}", h.UpdatePlayer)
			r.Get("/{id}/stats", h.GetPlayerStats)
			r.Get("/{id}/dues", h.GetPlayerDues)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", h.ListMatches)
			r.Post("/", h.CreateMatch)
			r.Put("/{id}", h.UpdateMatch)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/", h.CreatePayment)
			r.Put("/{id}", h.UpdatePayment)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.CreateExpense)
		})

		r.Route("/ongoing", func(r chi.Router) {
			r.Get("/", h.GetOngoing)
			r.Post("/", h.StartOngoing)
			r.Delete("/", h.ClearOngoing)
		})

		r.Post("/role", h.SwitchRole)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Get("/dues", h.GetTotalDues)
			r.Get("/export", h.ExportCSV)
		})
	})

	return r
}
