package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// unixPrefix marks a listen address as a Unix socket path
const unixPrefix = "unix:"

// Server is an HTTP server around a mux router
type Server struct {
	name   string
	router *mux.Router
	logger *zap.Logger

	mu     sync.Mutex
	server *http.Server
}

func newServer(name string, router *mux.Router, logger *zap.Logger) *Server {
	return &Server{
		name:   name,
		router: router,
		logger: logger.With(zap.String("server", name)),
	}
}

// Handler returns the server's router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves until Stop. Addresses of the form
// "unix:/path/to.sock" listen on a Unix socket.
func (s *Server) Start(addr string) error {
	listener, err := s.listen(addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener until Stop
func (s *Server) Serve(listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.logger.Info("Starting HTTP server", zap.String("address", listener.Addr().String()))
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) listen(addr string) (net.Listener, error) {
	if !strings.HasPrefix(addr, unixPrefix) {
		return net.Listen("tcp", addr)
	}

	socketPath := strings.TrimPrefix(addr, unixPrefix)
	if err := os.RemoveAll(socketPath); err != nil {
		s.logger.Warn("Failed to remove existing socket file", zap.String("path", socketPath), zap.Error(err))
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, err
	}

	// Readable/writable by owner and group
	if err := os.Chmod(socketPath, 0660); err != nil {
		s.logger.Warn("Failed to set socket permissions", zap.String("path", socketPath), zap.Error(err))
	}
	return listener, nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	s.logger.Info("Stopping HTTP server")
	return server.Shutdown(ctx)
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeResponse(w, statusCode, &ErrorResponse{Success: false, Error: message})
}
