package autorefresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"path/filepath"
	"syscall"
	"time"

	"github.com/stanleyz/autorefresh/internal/hub"
	"github.com/stanleyz/autorefresh/internal/server"
	"github.com/stanleyz/autorefresh/internal/trigger"
	"github.com/stanleyz/autorefresh/viewer"
)

const (
	defaultPort      = 8080
	defaultSignal    = syscall.SIGHUP
	defaultKeepAlive = 60 * time.Second

	// fallbackMIMEType is used when nothing can be inferred from the
	// file extension.
	fallbackMIMEType = "application/octet-stream"
)

// AutoRefresh is the main orchestrator for file serving and refresh
// notification.
//
// AutoRefresh owns the subscriber hub and shares it between the HTTP
// server (which registers one subscriber per open event stream) and the
// signal bridge (which broadcasts on each received signal). It is created
// with [New] using functional options and started with
// [AutoRefresh.Start].
//
// The caller controls the lifecycle via the context. Cancel the context
// to trigger graceful shutdown.
type AutoRefresh struct {
	filePath   string
	mimeType   string
	port       int
	refreshSig syscall.Signal
	keepAlive  time.Duration
	logger     *slog.Logger
}

// New creates a new [AutoRefresh] instance serving the given file.
//
// The file does not need to exist yet; build tools often signal before the
// first artifact lands, and a missing file surfaces as a 404 until it
// appears. Options have sensible defaults:
//   - Port: 8080 (0 asks the OS for an ephemeral port)
//   - Refresh signal: SIGHUP
//   - MIME type: guessed from the file extension
//   - Keepalive interval: 60 seconds
//
// Returns an error if the file path is empty or any option is invalid.
//
// Example:
//
//	ar, err := autorefresh.New("out/main.pdf",
//	    autorefresh.WithPort(9090),
//	)
func New(filePath string, opts ...Option) (*AutoRefresh, error) {
	if filePath == "" {
		return nil, errors.New("file path is required")
	}

	cfg := &arConfig{
		port:      defaultPort,
		signal:    defaultSignal,
		keepAlive: defaultKeepAlive,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	mimeType := cfg.mimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(filePath))
		if mimeType == "" {
			mimeType = fallbackMIMEType
		}
		logger.Info("mime type guessed from file extension",
			"path", filePath,
			"mime_type", mimeType,
		)
	}

	return &AutoRefresh{
		filePath:   filePath,
		mimeType:   mimeType,
		port:       cfg.port,
		refreshSig: cfg.signal,
		keepAlive:  cfg.keepAlive,
		logger:     logger,
	}, nil
}

// Start begins serving the file and listening for the refresh signal.
//
// Start is a blocking call that runs until the provided context is
// cancelled. During execution:
//
//   - The HTTP server starts on the configured port
//   - The refresh signal handler is installed
//   - Each signal receipt is broadcast to all open event streams
//
// The caller controls the lifecycle via context cancellation. For
// shutdown on SIGINT/SIGTERM, use [signal.NotifyContext]:
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//	ar.Start(ctx)
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server
// fails to start.
func (ar *AutoRefresh) Start(ctx context.Context) error {
	h := hub.New()

	bridge := trigger.New(h, ar.refreshSig, ar.logger)
	bridge.Start(ctx)

	srv := server.NewServer(h, ar.filePath, ar.mimeType, ar.port, ar.keepAlive, viewer.Assets, ar.logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	ar.logger.Info("autorefresh started",
		"file", ar.filePath,
		"mime_type", ar.mimeType,
		"addr", srv.Addr(),
		"signal", ar.refreshSig.String(),
	)
	if _, port, err := net.SplitHostPort(srv.Addr()); err == nil {
		ar.logger.Info("viewer available", "url", fmt.Sprintf("http://localhost:%s/view", port))
	}

	<-ctx.Done()
	ar.logger.Info("autorefresh stopped")
	return nil
}
