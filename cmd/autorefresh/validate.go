package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stanleyz/autorefresh/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate an autorefresh configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  autorefresh validate -c config.yaml
  autorefresh validate --config /etc/autorefresh/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	mimeType := cfg.MIMEType
	if mimeType == "" {
		mimeType = "(guessed from extension)"
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  File:      %s\n", cfg.File)
	fmt.Printf("  MIME type: %s\n", mimeType)
	fmt.Printf("  Port:      %d\n", cfg.Port)
	fmt.Printf("  Signal:    %s\n", cfg.Signal)
	fmt.Printf("  Keepalive: %s\n", cfg.KeepAlive.Duration())

	return nil
}
