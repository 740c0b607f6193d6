package httpserver

import (
	"net/http"

	"evstations/backend/services/station-api/internal/http/handlers"
	"evstations/backend/services/station-api/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers     *handlers.AuthHandlers
	StationsHandlers *handlers.StationsHandlers
	EventsHandler    http.HandlerFunc
	HealthHandler    http.HandlerFunc
	MetricsHandler   http.Handler

	// Authenticate guards routes that need a session.
	Authenticate func(http.Handler) http.Handler
	// RateLimit guards credential endpoints. Nil disables limiting.
	RateLimit func(http.Handler) http.Handler

	EnableSeed bool
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	authenticated := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, deps.Authenticate)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		if deps.RateLimit == nil {
			return h
		}
		return middleware.Chain(h, deps.RateLimit)
	}

	mux.Handle("GET /health", deps.HealthHandler)
	if deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", deps.MetricsHandler)
	}

	auth := deps.AuthHandlers
	mux.Handle("POST /api/auth/register", limited(auth.Register))
	mux.Handle("POST /api/auth/login", limited(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.Handle("GET /api/auth/me", authenticated(auth.Me))

	stations := deps.StationsHandlers
	mux.Handle("GET /api/charging-stations", authenticated(stations.List))
	mux.Handle("POST /api/charging-stations", authenticated(stations.Create))
	mux.Handle("GET /api/charging-stations/events", authenticated(deps.EventsHandler))
	mux.Handle("GET /api/charging-stations/{id}", authenticated(stations.Get))
	mux.Handle("PUT /api/charging-stations/{id}", authenticated(stations.Update))
	mux.Handle("DELETE /api/charging-stations/{id}", authenticated(stations.Delete))
	if deps.EnableSeed {
		mux.Handle("POST /api/charging-stations/seed", authenticated(stations.Seed))
	}

	return mux
}
