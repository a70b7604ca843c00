package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server runs the API over HTTP
type Server struct {
	port    int
	handler *Handler
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a new API server
func NewServer(port int, handler *Handler, logger *zap.Logger) *Server {
	return &Server{
		port:    port,
		handler: handler,
		logger:  logger,
	}
}

// Start starts serving in the background
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("starting api server", zap.Int("port", s.port))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("api server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("stopping api server")
	return s.server.Shutdown(ctx)
}
