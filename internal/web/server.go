// Package web exposes encounters as a JSON API over gin. Each encounter
// runs on its own combat.Loop; handlers reach the scheduler only through
// Loop.Call.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/config"
	"github.com/cory-johannsen/encounter/internal/game/combat"
	"github.com/cory-johannsen/encounter/internal/game/encounter"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP presentation surface.
type Server struct {
	cfg      config.HTTPConfig
	enc      config.EncounterConfig
	source   encounter.StateSource
	sessions *MemoryStore[*session]
	logger   *zap.Logger
	engine   *gin.Engine

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// session is one running encounter.
type session struct {
	id    string
	loop  *combat.Loop
	sched *combat.Scheduler
	log   *LogBuffer
}

// NewServer creates a Server with its routes registered.
//
// Precondition: source and logger must be non-nil; cfg.Mode must be a gin mode.
func NewServer(cfg config.HTTPConfig, enc config.EncounterConfig, source encounter.StateSource, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Mode)
	s := &Server{
		cfg:      cfg,
		enc:      enc,
		source:   source,
		sessions: NewMemoryStore[*session](),
		logger:   logger.Named("http"),
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger(s.logger))

	s.engine.GET("/health", s.health)
	api := s.engine.Group("/api")
	{
		api.POST("/encounters", s.createEncounter)
		api.GET("/encounters/:id", s.getEncounter)
		api.POST("/encounters/:id/actions", s.submitAction)
		api.DELETE("/encounters/:id", s.deleteEncounter)
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Start listens on cfg.Addr and serves until Stop.
//
// Postcondition: Returns nil after Stop, or the listen/serve error.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	}
	srv := &http.Server{Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	s.mu.Lock()
	s.srv, s.listener = srv, ln
	s.mu.Unlock()

	s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Addr returns the bound address, or "" before Start binds.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the listener down and ends every live encounter.
func (s *Server) Stop() {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Warn("http shutdown", zap.Error(err))
		}
	}
	for _, sess := range s.sessions.Drain() {
		sess.loop.Stop()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
