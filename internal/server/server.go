package server

import (
	"context"
	"fmt"
	"html"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/stanleyz/autorefresh/internal/hub"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write
	// operation. This prevents goroutine leaks when clients are slow or
	// disconnected. Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// titlePlaceholder is the marker in the viewer HTML that gets
	// replaced with the served file's name.
	titlePlaceholder = "{{.Title}}"
)

// Server handles HTTP requests for the served file and the refresh stream.
//
// Server provides three endpoints:
//   - GET /: Streams the configured file's contents
//   - GET /events: Server-Sent Events stream of refresh notifications
//   - GET /view: Serves the embedded auto-reloading viewer page
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	hub        *hub.Hub
	filePath   string
	mimeType   string
	port       int
	keepAlive  time.Duration
	assets     fs.FS
	httpServer *http.Server
	addr       string
	logger     *slog.Logger
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - h: Hub holding the refresh subscribers
//   - filePath: Path of the file to serve
//   - mimeType: Content type for file responses
//   - port: TCP port to listen on (0 for an OS-assigned port)
//   - keepAlive: Interval between SSE keepalive comments
//   - assets: Embedded filesystem containing the viewer page (may be nil)
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(h *hub.Hub, filePath, mimeType string, port int, keepAlive time.Duration, assets fs.FS, logger *slog.Logger) *Server {
	return &Server{
		hub:       h,
		filePath:  filePath,
		mimeType:  mimeType,
		port:      port,
		keepAlive: keepAlive,
		assets:    assets,
		logger:    logger,
	}
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the
// server is listening. The server will continue running until the context
// is cancelled, at which point it initiates a graceful shutdown with a
// 5-second timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleFile)
	mux.HandleFunc("/events", s.handleEvents)
	if s.assets != nil {
		mux.HandleFunc("/view", s.handleViewer)
	}

	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}
	s.addr = ln.Addr().String()

	s.httpServer = &http.Server{
		Handler: mux,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running SSE handlers.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Addr returns the address the server is listening on.
//
// Addr is only valid after [Server.Start] has returned successfully. It
// is mainly useful when the server was configured with port 0.
func (s *Server) Addr() string {
	return s.addr
}

// handleFile streams the configured file's contents.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	f, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "File not found", http.StatusNotFound)
		} else {
			http.Error(w, "Failed to read file", http.StatusInternalServerError)
		}
		s.logger.Error("failed to open file", "path", s.filePath, "error", err)
		return
	}
	defer f.Close()

	// no-store: the whole point is that the browser re-fetches on refresh
	w.Header().Set("Content-Type", s.mimeType)
	w.Header().Set("Cache-Control", "no-store")

	if _, err := io.Copy(w, f); err != nil {
		// client went away mid-transfer; nothing to recover
		s.logger.Debug("file write aborted", "error", err)
	}
}

// handleViewer serves the embedded auto-reloading viewer page.
func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Viewer not found", http.StatusInternalServerError)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	safeTitle := html.EscapeString(s.filePath)
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, safeTitle)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write viewer response", "error", err)
	}
}

// handleEvents streams refresh notifications via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients
// are slow or disconnected. Without deadlines, a blocked Fprintf call would
// prevent the handler from detecting context cancellation.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// check if flushing is supported
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// ResponseController provides deadline-aware write and flush operations.
	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some
	// ResponseWriter impls, httptest.ResponseRecorder among them)
	deadlinesSupported := true

	// writeFrame writes one SSE frame with a deadline to prevent blocking
	// forever. If the client is slow or disconnected, the write times out
	// rather than blocking indefinitely, allowing the handler to detect
	// shutdown signals.
	writeFrame := func(format string, args ...any) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				// deadline not supported by underlying connection, continue without
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, format, args...); err != nil {
			return err
		}

		// ResponseController.Flush respects the write deadline
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")

	sub := s.hub.Register()
	defer s.hub.Unregister(sub.ID())

	s.logger.Debug("subscriber connected",
		"id", sub.ID(),
		"subscribers", s.hub.Len(),
	)
	defer s.logger.Debug("subscriber disconnected", "id", sub.ID())

	// initial frame confirms the stream is up before any refresh occurs
	if err := writeFrame("data:\n\n"); err != nil {
		return
	}

	keepAlive := time.NewTicker(s.keepAlive)
	defer keepAlive.Stop()

	var lastSeq uint64
	for {
		select {
		case seq := <-sub.Events():
			lastSeq = seq
			if err := writeFrame("event: refresh\ndata: %d\n\n", seq); err != nil {
				return
			}
			keepAlive.Reset(s.keepAlive)

		case <-keepAlive.C:
			// comment frame; ignored by EventSource but keeps proxies
			// and idle-connection reapers from dropping the stream
			if err := writeFrame(": %d\n\n", lastSeq); err != nil {
				return
			}

		case <-r.Context().Done():
			// request context is derived from server context via
			// BaseContext, so this fires on both client disconnect AND
			// server shutdown
			return
		}
	}
}
