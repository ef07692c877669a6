package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	"github.com/msto63/mathcfg/foundation/mathcfg"
	"github.com/msto63/mathcfg/internal/history"
	"github.com/msto63/mathcfg/pkg/core/config"
	"github.com/msto63/mathcfg/pkg/core/health"
	"github.com/msto63/mathcfg/pkg/core/version"
)

// healthProbe is parsed by the engine health check
const (
	healthProbe     = "1+2"
	healthProbeWant = "1 + 2"
)

// Server is the WebSocket parse service
type Server struct {
	httpServer *http.Server
	engine     *mathcfg.Engine
	history    history.Store
	health     *health.Registry
	logger     *mdwlog.Logger
	upgrader   websocket.Upgrader
	config     Config

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxMessageSize limits incoming WebSocket messages in bytes
	MaxMessageSize int64

	// AllowedOrigins lists accepted Origin headers. Empty or "*" accepts all.
	AllowedOrigins []string

	// RecordHistory stores every parse request in the history store
	RecordHistory bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return ConfigFrom(config.Default().Server)
}

// ConfigFrom converts the application server settings
func ConfigFrom(sc config.ServerConfig) Config {
	return Config{
		Host:           sc.Host,
		Port:           sc.Port,
		ReadTimeout:    sc.ReadTimeout.Duration,
		WriteTimeout:   sc.WriteTimeout.Duration,
		MaxMessageSize: sc.MaxMessageSize,
		AllowedOrigins: sc.AllowedOrigins,
		RecordHistory:  sc.RecordHistory,
	}
}

// Address returns the listen address
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// New creates a new server. store may be nil when history is disabled.
func New(cfg Config, engine *mathcfg.Engine, store history.Store, logger *mdwlog.Logger) (*Server, error) {
	if engine == nil {
		return nil, mdwerror.New("server requires an engine").WithCode(mdwerror.CodeInvalidConfig)
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 {
		return nil, mdwerror.Newf("server timeouts must be positive: read=%s write=%s", cfg.ReadTimeout, cfg.WriteTimeout).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	if cfg.RecordHistory && store == nil {
		logger.Warn("History recording requested without a store, disabled")
		cfg.RecordHistory = false
	}

	s := &Server{
		engine:  engine,
		history: store,
		logger:  logger.WithField("component", "mathcfg-server"),
		config:  cfg,
		conns:   make(map[*websocket.Conn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.health = health.NewRegistry("mathcfg", version.Version, version.Protocol)
	s.health.Register(health.ProbeCheck("engine", healthProbeWant, func() (string, error) {
		res, err := engine.Parse(healthProbe)
		if err != nil {
			return "", err
		}
		return res.Tree.Source(), nil
	}))
	if store != nil {
		s.health.Register(health.PingCheck("history", store))
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadTimeout,
	}
	return s, nil
}

// Handler returns the HTTP routes of the service
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWebSocket)
	mux.Handle("/healthz", s.health.Handler(s.config.WriteTimeout))
	return loggingMiddleware(s.logger, mux)
}

// Start listens on the configured address and blocks until Shutdown
func (s *Server) Start() error {
	s.logger.Info("Starting mathcfg parse service", mdwlog.Fields{
		"address":       s.config.Address(),
		"recordHistory": s.config.RecordHistory,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return mdwerror.Wrap(err, "parse service failed").WithCode(mdwerror.CodeNetworkError)
	}
	return nil
}

// Shutdown stops accepting connections and closes open WebSocket sessions
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping mathcfg parse service")
	err := s.httpServer.Shutdown(ctx)

	deadline := time.Now().Add(s.config.WriteTimeout)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")

	s.mu.Lock()
	for conn := range s.conns {
		conn.WriteControl(websocket.CloseMessage, msg, deadline)
		conn.Close()
	}
	s.conns = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()

	if err != nil {
		return mdwerror.Wrap(err, "parse service shutdown failed").WithCode(mdwerror.CodeNetworkError)
	}
	return nil
}

// Connections returns the number of open WebSocket sessions
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) track(conn *websocket.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// checkOrigin accepts requests without an Origin header (non-browser clients)
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.config.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	s.logger.Warn("WebSocket origin rejected", mdwlog.Fields{"origin": origin})
	return false
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *mdwlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request", mdwlog.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapper.statusCode,
			"duration": time.Since(start).String(),
		})
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}
