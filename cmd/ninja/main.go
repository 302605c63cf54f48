package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/config"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "ninja",
	Short:         "Track and reconcile Japanese study progress",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogging installs the default structured logger at the configured level.
func setupLogging(cfg config.Config) {
	logLevel := slog.LevelInfo
	switch {
	case strings.EqualFold(cfg.Log.Level, "debug"):
		logLevel = slog.LevelDebug
	case strings.EqualFold(cfg.Log.Level, "warn"):
		logLevel = slog.LevelWarn
	case strings.EqualFold(cfg.Log.Level, "error"):
		logLevel = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
