package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Chat
		r.Post("/sessions", apiHandler.CreateSessionHandler)
		r.Get("/sessions/{sessionID}", apiHandler.GetSessionHandler)
		r.Post("/sessions/{sessionID}/messages", apiHandler.PostMessageHandler)

		// Foods
		r.Get("/foods/search", apiHandler.SearchFoodsHandler)
		r.Post("/foods/extract", apiHandler.ExtractFoodsHandler)
		r.Post("/compose", apiHandler.ComposeHandler)

		// Ledger and goal
		r.Get("/ledger", apiHandler.GetLedgerHandler)
		r.Get("/ledger/today", apiHandler.GetTodayHandler)
		r.Post("/ledger/entries", apiHandler.AppendEntriesHandler)
		r.Get("/goal", apiHandler.GetGoalHandler)
		r.Put("/goal", apiHandler.SaveGoalHandler)
		r.Get("/dashboard", apiHandler.DashboardHandler)
	})

	return r
}
