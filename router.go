package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpSwagger "github.com/swaggo/http-swagger"
)

// routes wires middlewares and endpoints. Adjust CORS for your frontend hosts.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000", "https://*.run.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Write(openapiYAML)
	})

	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api", func(api chi.Router) {
		api.Route("/sessions", func(sr chi.Router) {
			sr.Post("/", a.handleStartSession)
			sr.Get("/{id}", a.handleGetSession)
			sr.Post("/{id}/points", a.handleAddPoint)
			sr.Post("/{id}/finish", a.handleFinishSession)
			sr.Post("/{id}/cancel", a.handleCancelSession)
		})

		api.Route("/aois", func(ar chi.Router) {
			ar.Get("/", a.handleListAOIs)
			ar.Post("/", a.handleCreateAOI)
			ar.Get("/{id}", a.handleGetAOI)
			ar.Put("/{id}", a.handleUpdateAOI)
			ar.Delete("/{id}", a.handleDeleteAOI)
			ar.Post("/{id}/analyze", a.handleAnalyzeAOI)
			ar.Get("/{id}/analyses", a.handleListAnalyses)
		})

		api.Get("/results/latest", a.handleLatestResult)
	})

	return r
}
