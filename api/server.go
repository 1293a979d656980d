/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind a proxy
  3. Access log: One zap line per request (method, path, status, duration)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the calendar front-end

ROUTE GROUPS:
  /api/profiles/*       Profiles, days, holidays, results, documents
  /api/health           Liveness

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured. An empty
// origins list allows the local development front-ends.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.ListProfiles)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetProfile)
				r.Put("/", h.SaveProfile)
				r.Delete("/", h.DeleteProfile)

				r.Get("/days", h.ListDays)
				r.Post("/days", h.AddDays)
				r.Delete("/days/{date}", h.RemoveDay)

				r.Route("/holidays", func(r chi.Router) {
					r.Get("/", h.ListHolidays)
					r.Post("/", h.CreateHoliday)
					r.Post("/defaults", h.AddDefaultHolidays)
					r.Put("/{hid}", h.UpdateHoliday)
					r.Delete("/{hid}", h.DeleteHoliday)
				})

				r.Get("/calendar", h.GetCalendar)
				r.Get("/ledgers", h.GetLedgers)
				r.Get("/summary", h.GetSummary)

				r.Get("/export", h.ExportPlan)
				r.Post("/import", h.ImportPlan)
			})
		})
	})

	return r
}

// accessLog writes one structured line per request.
func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
