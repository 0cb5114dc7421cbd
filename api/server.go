package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/podcastr-pages/api/types"
)

// Settings tune the middleware stack and the HTTP server
type Settings struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxHeaderBytes  int
	EnableCORS      bool
	CORSOrigins     []string
	EnableRequestID bool
	MaxBodyBytes    int64
	RateLimit       RateLimitSettings
	JSONLogs        bool
}

// RateLimitSettings configure the per-client rate limit
type RateLimitSettings struct {
	Enabled bool
	RPS     int
	Burst   int
}

// Server represents the HTTP server
type Server struct {
	engine             *gin.Engine
	httpServer         *http.Server
	settings           Settings
	rateLimiters       *sync.Map
	cleanupInitialized sync.Once
	cleanupStop        chan struct{}
	stopOnce           sync.Once

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server
func NewServer(address string, settings Settings) *Server {
	// Create Gin engine with recovery middleware only
	engine := gin.New()
	engine.Use(gin.Recovery())

	if settings.ReadTimeout <= 0 {
		settings.ReadTimeout = 30 * time.Second
	}
	if settings.WriteTimeout <= 0 {
		settings.WriteTimeout = 30 * time.Second
	}
	if settings.MaxHeaderBytes <= 0 {
		settings.MaxHeaderBytes = 1 << 20 // 1 MB
	}

	return &Server{
		engine:       engine,
		settings:     settings,
		rateLimiters: &sync.Map{},
		cleanupStop:  make(chan struct{}),
		httpServer: &http.Server{
			Addr:           address,
			Handler:        engine,
			ReadTimeout:    settings.ReadTimeout,
			WriteTimeout:   settings.WriteTimeout,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: settings.MaxHeaderBytes,
		},
	}
}

// SetDependencies sets all handler dependencies
func (s *Server) SetDependencies(deps *types.Dependencies) {
	s.dependencies = deps
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	s.setupMiddleware()
	return s.setupRoutes()
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	if s.settings.EnableRequestID {
		s.engine.Use(RequestID())
	}

	s.engine.Use(Logger(s.settings.JSONLogs))

	if s.settings.EnableCORS {
		s.engine.Use(CORS(s.settings.CORSOrigins...))
	}

	s.engine.Use(RequestSizeLimitWithSize(s.settings.MaxBodyBytes))
}

// setupRoutes delegates to the main route registration
func (s *Server) setupRoutes() error {
	return RegisterRoutes(s.engine, s.dependencies, s.settings.RateLimit, s.rateLimiters, s.cleanupStop, &s.cleanupInitialized)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the rate limiter cleanup goroutine
	s.stopOnce.Do(func() { close(s.cleanupStop) })

	return s.httpServer.Shutdown(ctx)
}
