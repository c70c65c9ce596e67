// Package main is the entry point for the autorefresh CLI.
//
// autorefresh can be run either as a library (SDK) or as a standalone
// binary. This CLI provides the standalone binary approach.
//
// Usage:
//
//	autorefresh serve out/main.pdf     # Serve a file directly
//	autorefresh serve -c config.yaml   # Serve from a config file
//	autorefresh validate -c config.yaml
//	autorefresh version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "autorefresh",
	Short: "Serve a file and refresh browsers on signal",
	Long: `autorefresh serves a single file over HTTP and pushes a reload
notification to every connected browser whenever the process receives a
designated signal (SIGHUP by default).

It pairs with file-watching build tools running in continuous-preview
mode. For latexmk:

  $pdf_previewer = "autorefresh serve %S";
  $pdf_update_method = 2;     # via signal
  $pdf_update_signal = 1;     # SIGHUP

Quick start:
  1. Run: autorefresh serve out/main.pdf
  2. Open http://localhost:8080/view in your browser
  3. Send SIGHUP to the process whenever the file changes`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this autorefresh binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autorefresh %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
