package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"galaxy/config"
	"galaxy/internal/logger"
	"galaxy/internal/metrics"
)

var (
	cfgFile     string
	cfg         *config.Config
	rootDir     string
	metricsAddr string

	metricsServer *metrics.Server
	appLogger     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "galaxy",
	Short: "Galaxy Search - find the file that best matches what you mean",
	Long: `Galaxy walks a directory, keeps the files whose name matches a pattern and
returns the one whose content is semantically closest to your query.

Run without a subcommand to open the interactive form.

Example usage:
  galaxy                                   # Open the search form in the current directory
  galaxy --dir ~/notes                     # Open the form on another directory
  galaxy find -q "how to bake a dessert"   # One-shot search on *.txt
  galaxy find -q "release checklist" -p md --json`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer func() { _ = appLogger.Sync() }()
		if metricsServer == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := metricsServer.Shutdown(ctx)
		metricsServer = nil
		return err
	},
	RunE: runTUI,
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	if rootDir == "" {
		rootDir = cwd
	}

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromDir(cwd)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, err = newLogger(cfg.Logging, cmd == rootCmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	if metricsAddr != "" {
		metrics.Register()
		srv := metrics.NewServer(metricsAddr, appLogger)
		if err := srv.Start(); err != nil {
			return err
		}
		metricsServer = srv
	}

	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = persistentPreRun
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is galaxy.yaml in the working directory)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "directory to search (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address (e.g. :9090)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

// GetLogger returns the logger built from the logging config.
func GetLogger() *zap.Logger {
	return appLogger
}

// newLogger builds the process logger. The interactive form owns the terminal,
// so it only logs when a file is configured.
func newLogger(cfg config.LoggingConfig, interactive bool) (*zap.Logger, error) {
	if interactive && cfg.File == "" {
		return zap.NewNop(), nil
	}
	return logger.NewLogger(cfg.Env, cfg.Level, cfg.File)
}
