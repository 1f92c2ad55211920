// SPDX-License-Identifier: Apache-2.0

// Package server runs the daemon's HTTP transport: startup, signal handling,
// and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/acidburn0zzz/treesync/internal/config"
	"github.com/acidburn0zzz/treesync/internal/logger"
)

var errNoServerAddress = errors.New("no http address configured")

// Server is the lifecycle contract for a transport server: RunServer blocks
// until shutdown is requested, Shutdown releases resources.
type Server interface {
	RunServer()
	Shutdown()
}

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

func NewServer(router http.Handler, cfg config.Server, log *logger.Logger) (Server, error) {
	log.Info().Msg("creating new server...")

	if cfg.HTTPAddress == "" {
		return nil, errNoServerAddress
	}

	return &server{
		httpServer: newHTTPServer(router, cfg, log),
		logger:     log,
	}, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Error().Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}

func (s *server) run() error {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	go func() {
		<-ctx.Done()
		s.Shutdown()
		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("Launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
