package devserver

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ebarkhatov/kbkeeper/internal/config"
	"github.com/ebarkhatov/kbkeeper/internal/logger"
)

// Server runs the reference topic service until interrupted.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer wires the handler's routes into an HTTP server listening on the
// configured address.
func NewServer(handler *Handler, cfg config.ServerConfig, logger *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddress,
			Handler: handler.Init(),
		},
		logger: logger,
	}
}

// Run serves requests until SIGINT/SIGTERM/SIGQUIT, then shuts down
// gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.httpServer.Addr).Msg("launching topic service")
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.logger.Info().Msg("topic service shut down gracefully")
	return nil
}
