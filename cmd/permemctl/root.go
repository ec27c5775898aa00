package main

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// envConfig is resolved once at startup from PERMEMCTL_* environment
// variables, following the same envconfig tagging style used elsewhere in
// this stack for process configuration.
type envConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`
}

var (
	verbose bool
	cfg     envConfig
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "permemctl",
	Short: "Inspect and dump permem region files",
	Long: `permemctl attaches to a permem region file read-only and reports on
its health and contents without requiring the process that wrote it to
still be running.`,
	Version:           "0.1.0",
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := envconfig.Process("permemctl", &cfg); err != nil {
		return fmt.Errorf("permemctl: reading environment: %w", err)
	}

	level := zap.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("permemctl: reading PERMEMCTL_LOG_LEVEL: %w", err)
	}
	if verbose {
		level = zap.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	if !cfg.LogJSON {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	l, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("permemctl: building logger: %w", err)
	}
	logger = l
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
