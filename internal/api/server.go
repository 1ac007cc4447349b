package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hub-provision/hps/internal/auth"
	"github.com/hub-provision/hps/internal/signup"
)

// Server represents the HTTP API server.
type Server struct {
	httpServer     *http.Server
	provisioner    ProvisionerPort
	hubs           HubDirectoryPort
	eventStream    EventStreamPort
	generator      signup.SettingsGenerator
	authMiddleware *auth.Middleware
	startTime      time.Time
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
}

// NewServer creates a new API server without authentication.
func NewServer(provisioner ProvisionerPort, hubs HubDirectoryPort, eventStream EventStreamPort, generator signup.SettingsGenerator, readTimeout, writeTimeout, idleTimeout time.Duration) *Server {
	return &Server{
		provisioner:  provisioner,
		hubs:         hubs,
		eventStream:  eventStream,
		generator:    generator,
		startTime:    time.Now(),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		idleTimeout:  idleTimeout,
	}
}

// NewServerWithAuth creates a new API server with authentication middleware.
func NewServerWithAuth(provisioner ProvisionerPort, hubs HubDirectoryPort, eventStream EventStreamPort, generator signup.SettingsGenerator, authMiddleware *auth.Middleware, readTimeout, writeTimeout, idleTimeout time.Duration) *Server {
	server := NewServer(provisioner, hubs, eventStream, generator, readTimeout, writeTimeout, idleTimeout)
	server.authMiddleware = authMiddleware
	return server
}

// Start starts the HTTP server on addr and blocks until shutdown.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}
