package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/atinyakov/credstore/internal/metrics"
	"github.com/atinyakov/credstore/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the credstore
// API.
//
// Routes:
//
//	GET    /secrets           → secretHandler.List
//	GET    /secrets/{domain}  → secretHandler.Get
//	PUT    /secrets/{domain}  → secretHandler.Upsert
//	POST   /secrets/{domain}  → secretHandler.Upsert
//	DELETE /secrets/{domain}  → secretHandler.Delete
//	GET    /devices           → deviceHandler.List
//	GET    /metrics           → Prometheus exposition
//
// Middleware chain (applied in order):
//  1. RealIP                             — trusts proxy forwarding headers
//  2. AllowContentType("application/json") — rejects non-JSON request bodies
//  3. WithRequestLogging(logger)         — logs incoming requests
//  4. WithMetrics(m)                     — request counter and latency
//  5. Recoverer                          — turns panics into 500s
func NewRouter(
	secretHandler *SecretHandler,
	deviceHandler *DeviceHandler,
	m *metrics.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RealIP)

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithMetrics(m))
	r.Use(chiMiddleware.Recoverer)

	// Unknown API roots and bad methods still answer JSON.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "API not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/secrets", func(r chi.Router) {
		r.Get("/", secretHandler.List)
		r.Get("/{domain}", secretHandler.Get)
		r.Put("/{domain}", secretHandler.Upsert)
		r.Post("/{domain}", secretHandler.Upsert)
		r.Delete("/{domain}", secretHandler.Delete)
	})

	r.Get("/devices", deviceHandler.List)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	return r
}
