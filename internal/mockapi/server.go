// Package mockapi is an in-memory stand-in for the BazaarKu REST backend.
// It serves the same routes, envelopes and status conventions, including
// 402 for tokens marked expired, so the client can be exercised end to end.
package mockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sync"
	"time"

	"bazaarku/internal/config"
	"bazaarku/internal/logging"
	"bazaarku/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg     config.MockConfig
	store   *Store
	tokens  *tokenIssuer
	expired sync.Map
	router  chi.Router
	server  *http.Server
	logger  zerolog.Logger

	// approveMu serialises booth approvals against the slot check.
	approveMu sync.Mutex
}

func NewServer(cfg config.MockConfig, store *Store, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		tokens: newTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		logger: logging.Component(logger, "mockapi"),
	}
	for _, tok := range cfg.ExpiredTokens {
		s.MarkExpired(tok)
	}
	s.router = s.routes()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// MarkExpired makes every later request with token answer 402.
func (s *Server) MarkExpired(token string) {
	if token != "" {
		s.expired.Store(token, struct{}{})
	}
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("mock backend listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.NotFound(htmlNotFound)
	r.MethodNotAllowed(htmlNotFound)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/login", s.handleLogin)
		r.Post("/signup", s.handleSignup)
		r.With(requireUser).Get("/profile", s.handleProfile)
		r.With(requireUser).Post("/logout", s.handleLogout)

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", s.list(Banners, nil))
			r.Get("/active", s.list(Banners, func(_ *http.Request, rec Record) bool { return rec.Bool("is_active") }))
			r.With(requireAdmin).Post("/", s.create(Banners, nil))
			r.With(requireAdmin).Put("/{id}", s.update(Banners, false))
			r.With(requireAdmin).Delete("/{id}", s.remove(Banners, false))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.list(Events, nil))
			r.With(requireUser).Get("/user", s.list(Events, ownedByCaller))
			r.Get("/{id}", s.handleGetEvent)
			r.With(requireUser).Post("/", s.create(Events, stampOwner))
			r.With(requireUser).Put("/{id}", s.update(Events, true))
			r.With(requireUser).Delete("/{id}", s.remove(Events, true))
		})

		for _, name := range []string{Categories, Areas, Rentals, RentalProducts} {
			r.Route("/"+name, func(r chi.Router) {
				r.Get("/", s.list(name, nil))
				if name == Rentals {
					r.Get("/with-products", s.handleRentalsWithProducts)
				}
				r.With(requireAdmin).Post("/", s.create(name, nil))
				r.With(requireAdmin).Put("/{id}", s.update(name, false))
				r.With(requireAdmin).Delete("/{id}", s.remove(name, false))
			})
		}

		r.Route("/booths", func(r chi.Router) {
			r.With(requireAdmin).Get("/", s.list(Booths, nil))
			r.With(requireUser).Get("/user/{userId}", s.handleUserBooths)
			r.With(requireUser).Post("/", s.handleCreateBooth)
			r.With(requireAdmin).Put("/{id}/status", s.handleBoothStatus)
			r.With(requireUser).Delete("/{id}", s.remove(Booths, true))
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", s.list(Vendors, nil))
			r.With(requireAdmin).Get("/users", s.handleVendorUsers)
			r.Get("/{id}", s.get(Vendors))
			r.With(requireUser).Post("/", s.create(Vendors, stampOwner))
			r.With(requireUser).Put("/{id}", s.update(Vendors, true))
			r.With(requireUser).Delete("/{id}", s.remove(Vendors, true))
		})

		r.Route("/rating", func(r chi.Router) {
			r.Get("/", s.list(Ratings, nil))
			r.Get("/event/{id}", s.handleEventRatings)
			r.With(requireUser).Post("/", s.handleCreateRating)
			r.With(requireUser).Put("/{id}", s.update(Ratings, true))
			r.With(requireUser).Delete("/{id}", s.remove(Ratings, true))
		})

		r.Route("/admin/users", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", s.handleListUsers)
			r.Put("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		var route string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		metrics.ObserveServerRequest(route, r.URL.Path, r.Method, recorder.status, time.Since(start))

		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{"success": false, "error": message})
}

func writeData(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{"success": true, "data": data})
}

// htmlNotFound mimics the framework error page of the real backend, which
// answers unknown routes with HTML rather than JSON.
func htmlNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>Error</title>\n</head>\n<body>\n<pre>Cannot %s %s</pre>\n</body>\n</html>\n",
		r.Method, html.EscapeString(r.URL.Path))
}
