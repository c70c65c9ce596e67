package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stanleyz/autorefresh"
	"github.com/stanleyz/autorefresh/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// serveCmd starts the autorefresh server.
var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve a file with refresh-on-signal",
	Long: `Serve a file over HTTP with refresh-on-signal.

The server will:
  - Serve the file at / and the auto-reloading viewer at /view
  - Stream refresh events at /events
  - Broadcast a refresh to all connected browsers on each SIGHUP

The file can be given directly as an argument or through a YAML config
file; flags override config values. The server runs until interrupted
(Ctrl+C) or receives SIGTERM.

Example:
  autorefresh serve out/main.pdf
  autorefresh serve out/main.pdf --port 9090 --signal SIGUSR1
  autorefresh serve -c config.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file")
	serveCmd.Flags().IntP("port", "p", 0, "port to serve on (default 8080)")
	serveCmd.Flags().String("mime", "", "file MIME type; auto-detected if unset")
	serveCmd.Flags().String("signal", "", "refresh signal: SIGHUP, SIGUSR1, SIGUSR2 (default SIGHUP)")
	serveCmd.Flags().Duration("keepalive", 0, "event stream keepalive interval (default 60s)")
}

// resolveConfig merges the positional argument, config file, and flags
// into one effective configuration. Flags win over the config file.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		// defaults matching config.Parse
		cfg = &config.Config{
			Port:      8080,
			Signal:    "SIGHUP",
			KeepAlive: config.Duration(60 * time.Second),
		}
	}

	if len(args) == 1 {
		cfg.File = args[0]
	}
	if cfg.File == "" {
		return nil, fmt.Errorf("no file to serve: pass a file argument or set 'file' in the config")
	}

	if port, _ := cmd.Flags().GetInt("port"); cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if mime, _ := cmd.Flags().GetString("mime"); mime != "" {
		cfg.MIMEType = mime
	}
	if sig, _ := cmd.Flags().GetString("signal"); sig != "" {
		cfg.Signal = sig
	}
	if ka, _ := cmd.Flags().GetDuration("keepalive"); cmd.Flags().Changed("keepalive") {
		cfg.KeepAlive = config.Duration(ka)
	}

	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	refreshSig, err := config.ParseSignal(cfg.Signal)
	if err != nil {
		return err
	}

	opts := []autorefresh.Option{
		autorefresh.WithPort(cfg.Port),
		autorefresh.WithSignal(refreshSig),
		autorefresh.WithKeepAlive(cfg.KeepAlive.Duration()),
		autorefresh.WithLogger(logger),
	}
	if cfg.MIMEType != "" {
		opts = append(opts, autorefresh.WithMIMEType(cfg.MIMEType))
	}

	ar, err := autorefresh.New(cfg.File, opts...)
	if err != nil {
		return fmt.Errorf("failed to create autorefresh: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- ar.Start(ctx)
	}()

	// wait for server to finish
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
