// Package server implements the warpjar daemon: named cookie jars served
// over JSON-RPC 2.0 on HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/warpdl/warpjar/common"
	"github.com/warpdl/warpjar/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Server exposes an RPCServer over HTTP.
type Server struct {
	cfg  *RPCConfig
	log  logger.Logger
	rpc  *RPCServer
	mu   sync.Mutex
	http *http.Server
	addr net.Addr
	once sync.Once
}

// NewServer creates a Server. Jars live until Shutdown or until ctx is
// cancelled.
func NewServer(ctx context.Context, l logger.Logger, cfg *RPCConfig, jcfg JarConfig, fsys afero.Fs) *Server {
	if cfg.Port == 0 {
		cfg.Port = common.DefaultRPCPort
	}
	return &Server{
		cfg: cfg,
		log: l,
		rpc: NewRPCServer(ctx, cfg, jcfg, fsys, l),
	}
}

// Handler returns the HTTP routes of the daemon.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(s.cfg.Secret, s.rpc.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(s.cfg.Secret, http.HandlerFunc(s.rpc.handleWebSocket)))
	return mux
}

func (s *Server) listenAddr() string {
	host := common.TCPHost
	if s.cfg.ListenAll {
		host = "0.0.0.0"
	}
	return net.JoinHostPort(host, strconv.Itoa(s.cfg.Port))
}

// Start listens and serves until ctx is cancelled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	l, err := net.Listen("tcp", s.listenAddr())
	if err != nil {
		return fmt.Errorf("error: cannot listen on %s: %w", s.listenAddr(), err)
	}
	s.mu.Lock()
	s.http = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.addr = l.Addr()
	srv := s.http
	s.mu.Unlock()

	s.log.Info("JSON-RPC daemon listening on %s", l.Addr())

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	err = srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr returns the bound address once Start has begun listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Shutdown stops the HTTP server, the bridge and every jar.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	srv := s.http
	s.http = nil
	s.mu.Unlock()

	var err error
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
	}
	s.once.Do(func() {
		s.rpc.Close()
		s.log.Info("JSON-RPC daemon stopped")
	})
	return err
}
