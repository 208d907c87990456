package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWriteTimeout    = 15 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	// writeTimeoutSlack lets the request timeout middleware answer before the connection is cut.
	writeTimeoutSlack = 5 * time.Second
)

// Server is the dispatch HTTP server.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	listening       chan struct{}
	addr            net.Addr
}

// NewServer creates a Server. The write timeout follows the configured
// request timeout so a 504 from the timeout middleware still reaches the client.
func NewServer(handler http.Handler, cfg config.ServerConfig) *Server {
	writeTimeout := defaultWriteTimeout
	if cfg.RequestTimeout > 0 {
		writeTimeout = cfg.RequestTimeout + writeTimeoutSlack
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		shutdownTimeout: shutdownTimeout,
		listening:       make(chan struct{}),
	}
}

// Listening is closed once the server accepts connections.
func (s *Server) Listening() <-chan struct{} {
	return s.listening
}

// Addr returns the bound address. It is nil until Listening is closed.
func (s *Server) Addr() net.Addr {
	select {
	case <-s.listening:
		return s.addr
	default:
		return nil
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout. A listen or serve failure is returned as is.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	s.addr = ln.Addr()
	close(s.listening)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("Server starting")
		if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			log.Info().Msg("Shutdown requested, draining requests")
		}
		return s.Shutdown()
	})
	return g.Wait()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server stopped gracefully")
	return nil
}
