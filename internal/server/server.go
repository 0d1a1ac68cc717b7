// Package server exposes the Help Scout Docs tools over MCP, either on
// stdio or as a streamable HTTP endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"helpscout-mcp/internal/config"
	"helpscout-mcp/internal/helpscout"
	"helpscout-mcp/internal/metrics"
)

const (
	serverName      = "HelpScout Docs"
	mcpPath         = "/mcp"
	shutdownTimeout = 10 * time.Second
)

const instructions = "This server gives you access to the organisation's HelpScout " +
	"knowledge base. Use search_articles to find relevant articles, " +
	"get_article to read the full content of a specific article, " +
	"list_collections to browse top-level sections, and list_articles " +
	"to enumerate articles within a collection."

// Server wires the tool adapter into the selected MCP transport.
type Server struct {
	cfg      config.Config
	version  string
	log      logr.Logger
	registry *prometheus.Registry
	kb       KnowledgeBase
	adapter  *Adapter
	mcp      *mcp.Server
	router   *chi.Mux

	stdio  mcp.Transport
	listen func(network, addr string) (net.Listener, error)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log logr.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithVersion sets the version advertised to MCP clients.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithRegistry sets the Prometheus registry metrics are registered with
// and served from.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithKnowledgeBase replaces the Help Scout client built from the config.
func WithKnowledgeBase(kb KnowledgeBase) Option {
	return func(s *Server) { s.kb = kb }
}

// WithStdioTransport replaces the process stdin/stdout transport.
func WithStdioTransport(t mcp.Transport) Option {
	return func(s *Server) { s.stdio = t }
}

// New constructs a Server with the tools registered and routes configured.
func New(cfg config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		version: "dev",
		log:     logr.Discard(),
		stdio:   &mcp.StdioTransport{},
		listen:  net.Listen,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m := metrics.New(s.registry)

	if s.kb == nil {
		client, err := helpscout.New(helpscout.DefaultBaseURL, cfg.APIKey,
			&http.Client{Timeout: cfg.Timeout},
			helpscout.WithLogger(s.log.WithName("helpscout")),
			helpscout.WithRecorder(m),
		)
		if err != nil {
			return nil, fmt.Errorf("create help scout client: %w", err)
		}
		s.kb = client
	}

	adapter, err := NewAdapter(s.kb, s.log.WithName("tools"), m)
	if err != nil {
		return nil, err
	}
	s.adapter = adapter

	s.mcp = mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: s.version},
		&mcp.ServerOptions{Instructions: instructions},
	)
	adapter.Register(s.mcp)

	s.router = chi.NewRouter()
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log.WithName("http")))
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.router.Handle(mcpPath, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil))

	return s, nil
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

// Adapter returns the tool adapter.
func (s *Server) Adapter() *Adapter { return s.adapter }

// Start serves on the configured transport until ctx is cancelled or the
// stdio client disconnects.
func (s *Server) Start(ctx context.Context) error {
	switch s.cfg.Transport {
	case config.TransportStdio:
		s.log.Info("serving MCP over stdio")
		err := s.mcp.Run(ctx, s.stdio)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case config.TransportStreamableHTTP, "":
		ln, err := s.listen("tcp", s.cfg.Addr())
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
		}
		return s.Serve(ctx, ln)
	default:
		return fmt.Errorf("unsupported transport %q", s.cfg.Transport)
	}
}

// Serve runs the HTTP server on ln until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving MCP over streamable HTTP", "addr", ln.Addr().String(), "path", mcpPath)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func requestLogger(log logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"requestID", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
