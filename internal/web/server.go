// Package web serves the coffee roulette UI: upload a roster, draw the next
// round, view the groups and download the updated CSV.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dyluth/roulette/internal/auth"
	"github.com/dyluth/roulette/internal/grouping"
	"github.com/dyluth/roulette/internal/metrics"
	"github.com/dyluth/roulette/internal/store"
	"github.com/dyluth/roulette/pkg/roster"
)

//go:embed templates/*.html
var templatesFS embed.FS

// DefaultMaxUploadBytes caps the size of an uploaded roster.
const DefaultMaxUploadBytes = 1 << 20

// Options configures a Server. Store, Strategy and Gate are required.
type Options struct {
	Store     store.Store
	Strategy  grouping.Strategy
	GroupSize int
	Prefix    string
	Gate      *auth.Gate
	Metrics   *metrics.Collector
	Logger    *slog.Logger

	MaxUploadBytes int64
}

// Server is the web UI.
type Server struct {
	store     store.Store
	strategy  grouping.Strategy
	groupSize int
	prefix    string
	gate      *auth.Gate
	metrics   *metrics.Collector
	logger    *slog.Logger
	templates *template.Template
	maxUpload int64

	server *http.Server
	addr   string
}

// New validates opts and parses the page templates.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Strategy == nil {
		return nil, errors.New("grouping strategy is required")
	}
	if opts.Gate == nil {
		return nil, errors.New("credential gate is required")
	}
	if opts.GroupSize < 1 {
		return nil, fmt.Errorf("invalid group size %d: %w", opts.GroupSize, grouping.ErrInvalidGroupSize)
	}
	if opts.Prefix == "" {
		opts.Prefix = roster.DefaultRoundPrefix
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		store:     opts.Store,
		strategy:  opts.Strategy,
		groupSize: opts.GroupSize,
		prefix:    opts.Prefix,
		gate:      opts.Gate,
		metrics:   opts.Metrics,
		logger:    opts.Logger.With("component", "web"),
		templates: tmpl,
		maxUpload: opts.MaxUploadBytes,
	}, nil
}

// Handler returns the routed handler. Health and metrics skip auth.
func (s *Server) Handler() http.Handler {
	private := http.NewServeMux()
	private.HandleFunc("GET /{$}", s.handleIndex)
	private.HandleFunc("POST /draw", s.handleUploadDraw)
	private.HandleFunc("GET /rosters/{id}", s.handleRoster)
	private.HandleFunc("POST /rosters/{id}/draw", s.handleRedraw)
	private.HandleFunc("GET /rosters/{id}/csv", s.handleDownload)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.healthCheckHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("/", s.gate.Middleware(private))

	return s.logRequests(mux)
}

// Start binds addr and serves in the background. A listen failure, such
// as the port already being in use, is returned.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	s.addr = ln.Addr().String()

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server stopped", "error", err)
		}
	}()

	s.logger.Info("web server listening", "addr", s.addr)
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	return s.addr
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// statusRecorder captures the response status for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
