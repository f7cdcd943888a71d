package mcp

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/honeycarbs/jobscout/internal/config"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

const (
	serverName    = "jobscout"
	serverVersion = "0.1.0"

	streamPath  = "/mcp/stream"
	healthPath  = "/healthz"
	metricsPath = "/metrics"
)

// Server exposes the job tools over MCP streamable HTTP next to health and
// metrics endpoints
type Server struct {
	logger *logging.Logger
	mcp    *sdkmcp.Server
	srv    *http.Server

	started atomic.Bool
}

// NewServer registers every tool backed by res and prepares the listener on cfg.Addr()
func NewServer(log *logging.Logger, cfg config.Config, res *Resources) *Server {
	log = log.Named("mcp")

	mcpServer := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)
	registerTools(mcpServer, res, log)

	s := &Server{logger: log, mcp: mcpServer}
	s.srv = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.routes(res),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

func (s *Server) routes(res *Resources) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(streamPath, sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.mcp
	}, nil))

	mux.HandleFunc(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if res != nil && res.Metrics != nil {
		mux.Handle(metricsPath, promhttp.HandlerFor(res.Metrics, promhttp.HandlerOpts{
			ErrorLog: promErrorLog{s.logger},
		}))
	}

	return s.logRequests(mux)
}

// logRequests logs non-stream requests at debug. Stream requests are long
// lived and already logged per tool call.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == streamPath {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type promErrorLog struct {
	logger *logging.Logger
}

func (l promErrorLog) Println(v ...any) {
	l.logger.Warn("metrics handler error", "detail", v)
}

// Handler exposes the HTTP routes, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("MCP HTTP server listening", "addr", s.srv.Addr, "stream", streamPath)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for MCP HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("MCP HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("MCP HTTP server shutdown complete")
	return nil
}
