package kv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/net/netutil"

	"github.com/iotaledger/iota-trust/libs/log"
)

// Config is the HTTP server configuration.
type Config struct {
	// MaxOpenConnections bounds accepted connections. Zero means no bound.
	MaxOpenConnections int
	// ReadTimeout and WriteTimeout bound a request and its response.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxHeaderBytes bounds the size of request headers.
	MaxHeaderBytes int
	// MaxConcurrentStreams bounds the HTTP/2 streams per connection.
	MaxConcurrentStreams uint32
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxOpenConnections:   0,
		ReadTimeout:          10 * time.Second,
		WriteTimeout:         10 * time.Second,
		MaxHeaderBytes:       1 << 20,
		MaxConcurrentStreams: 1000,
	}
}

// Listen starts listening on addr, which must be of the form
// "tcp://host:port" or "unix:///path".
func Listen(addr string, maxOpenConnections int) (net.Listener, error) {
	parts := strings.SplitN(addr, "://", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid listening address %s (use fully formed addresses, including the tcp:// or unix:// prefix)", addr)
	}
	proto, addr := parts[0], parts[1]
	listener, err := net.Listen(proto, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %v: %v", addr, err)
	}
	if maxOpenConnections > 0 {
		listener = netutil.LimitListener(listener, maxOpenConnections)
	}
	return listener, nil
}

// Serve serves handler on listener until ctx is done. Plain-text HTTP/2
// (h2c) is accepted next to HTTP/1.1.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler, logger log.Logger, cfg *Config) error {
	logger.Info("Starting KV HTTP server", "listen_addr", listener.Addr())

	h2s := &http2.Server{MaxConcurrentStreams: cfg.MaxConcurrentStreams}
	s := &http.Server{
		Handler:        h2c.NewHandler(RecoverAndLogHandler(handler, logger), h2s),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	sig := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			sctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = s.Shutdown(sctx)
		case <-sig:
		}
	}()

	err := s.Serve(listener)
	close(sig)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	logger.Info("KV HTTP server stopped", "err", err)
	return err
}

// RecoverAndLogHandler wraps an HTTP handler, adding error logging. If the
// inner handler panics, the wrapper recovers, logs and sends an HTTP 500
// error response.
func RecoverAndLogHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rww := &responseWriterWrapper{Status: -1, ResponseWriter: w}
		begin := time.Now()

		rww.Header().Set("X-Server-Time", fmt.Sprintf("%v", begin.Unix()))

		defer func() {
			if e := recover(); e != nil {
				logger.Error("Panic in KV HTTP handler", "err", e, "stack", string(debug.Stack()))
				writeError(rww, http.StatusInternalServerError, "internal_error", fmt.Sprintf("%v", e))
			}

			if rww.Status == -1 {
				rww.Status = http.StatusOK
			}
			logger.Debug("served KV HTTP response",
				"method", r.Method, "url", r.URL,
				"status", rww.Status, "duration", time.Since(begin).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		}()

		handler.ServeHTTP(rww, r)
	})
}

// responseWriterWrapper remembers the status for logging.
type responseWriterWrapper struct {
	Status int
	http.ResponseWriter
}

func (w *responseWriterWrapper) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}
