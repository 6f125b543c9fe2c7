package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// HTTPServer serves the timekeeper API.
type HTTPServer struct {
	addr    string
	handler http.Handler
	log     logging.Logger
	srv     *http.Server
}

func NewHTTPServer(addr string, handler http.Handler, log logging.Logger) *HTTPServer {
	return &HTTPServer{
		addr:    addr,
		handler: handler,
		log:     log,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.log.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.log.Info(ctx, "HTTP server listening", "address", listen.Addr().String())

	if err := s.srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

// RegisterOnShutdown registers f to run when shutdown starts. Long-lived
// streams use it to disconnect so shutdown doesn't wait on them.
func (s *HTTPServer) RegisterOnShutdown(f func()) {
	s.srv.RegisterOnShutdown(f)
}
