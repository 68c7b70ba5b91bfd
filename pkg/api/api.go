// Package api exposes the toolkit over HTTP.
//
// The API wraps the same pipeline Runner the CLI uses. Routes:
//
//	GET    /healthz                 liveness and version
//	GET    /v1/lattice/{d}          lattice layout for distance d
//	GET    /v1/lattice/{d}/render   lattice diagram (dot, svg, png)
//	POST   /v1/decode               decode one shot string
//	POST   /v1/batches              run the full pipeline, store a batch
//	GET    /v1/batches              list stored batches
//	GET    /v1/batches/{id}         fetch one batch
//	DELETE /v1/batches/{id}         delete one batch
//
// All responses are JSON except renders, which return the artifact bytes
// with a matching content type.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hetenyib/qiskit-qec/pkg/observability"
	"github.com/hetenyib/qiskit-qec/pkg/pipeline"
	"github.com/hetenyib/qiskit-qec/pkg/store"
)

// Server bundles the HTTP handlers with their dependencies.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates a server. A nil store falls back to an in-memory
// store; a nil logger uses the package default.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/lattice/{d}", s.handleLattice)
		r.Get("/lattice/{d}/render", s.handleLatticeRender)
		r.Post("/decode", s.handleDecode)

		r.Route("/batches", func(r chi.Router) {
			r.Post("/", s.handleBatchCreate)
			r.Get("/", s.handleBatchList)
			r.Get("/{id}", s.handleBatchGet)
			r.Delete("/{id}", s.handleBatchDelete)
		})
	})

	return r
}

// observe emits request events through the observability hooks and logs
// completions.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}
