package autorefresh

import (
	"fmt"
	"log/slog"
	"syscall"
	"time"
)

// arConfig holds mutable state during AutoRefresh construction.
type arConfig struct {
	mimeType  string
	port      int
	signal    syscall.Signal
	keepAlive time.Duration
	logger    *slog.Logger
}

// Option is a function that configures an [AutoRefresh] instance during
// construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithPort], [WithMIMEType], [WithSignal],
// [WithKeepAlive], [WithLogger].
type Option func(*arConfig) error

// WithPort sets the TCP port the HTTP server listens on.
//
// Defaults to 8080. Port 0 asks the OS for an ephemeral port; the bound
// address is logged at startup.
//
// Returns an error if the port is out of range.
func WithPort(port int) Option {
	return func(cfg *arConfig) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("port must be between 0 and 65535, got %d", port)
		}
		cfg.port = port
		return nil
	}
}

// WithMIMEType overrides the content type used for file responses.
//
// By default the type is guessed from the file extension, falling back
// to application/octet-stream. Use this when the file has no extension
// or an uncommon one.
//
// Returns an error if the value is empty.
func WithMIMEType(mimeType string) Option {
	return func(cfg *arConfig) error {
		if mimeType == "" {
			return fmt.Errorf("mime type must not be empty")
		}
		cfg.mimeType = mimeType
		return nil
	}
}

// WithSignal sets the OS signal that triggers a refresh broadcast.
//
// Defaults to SIGHUP. Only SIGHUP, SIGUSR1, and SIGUSR2 are accepted:
// they are the signals a build tool can be told to send without
// colliding with process-control defaults.
//
// Example:
//
//	ar, err := autorefresh.New("out/main.pdf",
//	    autorefresh.WithSignal(syscall.SIGUSR1),
//	)
func WithSignal(sig syscall.Signal) Option {
	return func(cfg *arConfig) error {
		switch sig {
		case syscall.SIGHUP, syscall.SIGUSR1, syscall.SIGUSR2:
			cfg.signal = sig
			return nil
		default:
			return fmt.Errorf("refresh signal %v is not supported (use SIGHUP, SIGUSR1, or SIGUSR2)", sig)
		}
	}
}

// WithKeepAlive sets the interval between keepalive comments on the
// event stream.
//
// Keepalives stop idle-connection reapers (proxies, load balancers) from
// closing a stream that has simply seen no refresh for a while. Defaults
// to 60 seconds.
//
// Returns an error if the interval is below one second.
func WithKeepAlive(d time.Duration) Option {
	return func(cfg *arConfig) error {
		if d < time.Second {
			return fmt.Errorf("keepalive must be at least 1s, got %s", d)
		}
		cfg.keepAlive = d
		return nil
	}
}

// WithLogger sets the logger used by all components.
//
// Defaults to [slog.Default]. The CLI installs a JSON handler on stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *arConfig) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		cfg.logger = logger
		return nil
	}
}
