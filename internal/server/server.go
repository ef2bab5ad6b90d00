// Package server exposes the manufacturer dataset over a read-only HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/dkma-cli/internal/instructions"
)

// Options configures a Server.
type Options struct {
	AllowedOrigins []string
	// AppName replaces the app placeholder when a request has no app_name.
	AppName string
	Logger  *zap.Logger
}

// Server routes API requests to a Source.
type Server struct {
	source   Source
	renderer *instructions.Renderer
	appName  string
	log      *zap.Logger
	router   chi.Router
}

// New builds a Server and its routes.
func New(source Source, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.L()
	}
	appName := opts.AppName
	if appName == "" {
		appName = instructions.DefaultAppName
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		source:   source,
		renderer: instructions.NewRenderer(),
		appName:  appName,
		log:      log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/manufacturers", s.handleList)
	r.Get("/manufacturers/{id}", s.handleGet)
	r.Get("/instructions/{manufacturer}", s.handleInstructions)

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.source.ListManufacturers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"manufacturers": ids,
		"count":         len(ids),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.source.GetRecord(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "manufacturer not found", "id": id})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleInstructions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := instructions.ParseFormat(q.Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	appName := q.Get("app_name")
	if appName == "" {
		appName = s.appName
	}

	ds, err := s.source.LoadDataset(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out, err := s.renderer.Build(ds, chi.URLParam(r, "manufacturer"), instructions.Options{
		AppName: appName,
		Format:  format,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	status := http.StatusOK
	if !out.Found {
		status = http.StatusNotFound
	}
	writeJSON(w, status, out)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("server: request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
