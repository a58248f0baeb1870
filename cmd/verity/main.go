package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/verity/internal/advisors"
	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/interfaces"
	"github.com/ternarybob/verity/internal/metrics"
	"github.com/ternarybob/verity/internal/storage"
	"github.com/ternarybob/verity/internal/tracing"
)

// Config files picked up, in order, when no --config flag is given
const (
	defaultConfigFile    = "verity.toml"
	deploymentConfigFile = "deployments/local/verity.toml"
)

var (
	// Command-line flags
	configFiles []string

	// Global state, populated by loadRuntime
	config  *common.Config
	logger  arbor.ILogger
	meters  *metrics.Metrics
	storMgr interfaces.StorageManager
)

var rootCmd = &cobra.Command{
	Use:   "verity",
	Short: "Verify advisor claims against market data and compute a policy decision",
	Long: `Verity checks the quality of a ticker's data bundle, derives deterministic
feature signals, verifies every advisor claim against those signals and
aggregates the advisors into a single explainable recommendation.`,
	SilenceUsage:       true,
	PersistentPreRunE:  loadRuntime,
	PersistentPostRunE: closeRuntime,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&configFiles, "config", "c", nil,
		"Configuration file path (repeatable, later files override earlier ones)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRuntime runs before every command.
// Order: .env -> config (defaults -> files -> env) -> logger -> tracing -> metrics
func loadRuntime(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			configFiles = append(configFiles, defaultConfigFile)
		} else if _, err := os.Stat(deploymentConfigFile); err == nil {
			configFiles = append(configFiles, deploymentConfigFile)
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger = common.InitLogger(config)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Str("badger_path", config.Storage.Badger.Path).
		Bool("metrics_enabled", config.Metrics.Enabled).
		Bool("tracing_enabled", config.Tracing.Enabled).
		Msg("Resolved configuration")

	if err := tracing.Init(config.Tracing); err != nil {
		return fmt.Errorf("failed to initialise tracing: %w", err)
	}

	if config.Metrics.Enabled {
		meters = metrics.New(nil)
	}
	return nil
}

// closeRuntime flushes spans and metrics and closes the run store
func closeRuntime(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := tracing.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to flush traces")
	}

	if meters != nil && config.Metrics.TextfilePath != "" {
		if err := meters.WriteTextfile(config.Metrics.TextfilePath); err != nil {
			logger.Warn().Err(err).Str("path", config.Metrics.TextfilePath).Msg("Failed to write metrics textfile")
		}
	}

	if storMgr != nil {
		if err := storMgr.Close(); err != nil {
			return fmt.Errorf("failed to close run store: %w", err)
		}
		storMgr = nil
	}
	return nil
}

// openRunStorage opens the Badger run store once per process
func openRunStorage() (interfaces.RunStorage, error) {
	if storMgr == nil {
		mgr, err := storage.NewStorageManager(logger, config)
		if err != nil {
			return nil, fmt.Errorf("failed to open run store: %w", err)
		}
		storMgr = mgr
	}
	return storMgr.RunStorage(), nil
}

// loadRegistry overlays configured advisors onto the built-in personas
func loadRegistry() (*advisors.Registry, error) {
	registry, err := advisors.FromConfig(config.Advisors)
	if err != nil {
		return nil, fmt.Errorf("failed to load advisors: %w", err)
	}
	return registry, nil
}
