// Command alarmd serves and inspects the alarm collection.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alarm-clock-backend/config"
	"alarm-clock-backend/internal/logging"
)

const defaultConfigPath = "./config/config.yaml"

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "alarmd",
	Short: "Alarm clock daemon",
	Long: `alarmd keeps a collection of daily alarms, checks once a minute whether
one of them is due, and rings it for every connected client.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", envOr("CONFIG_PATH", defaultConfigPath), "path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, listCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadConfig reads path. A missing file at the default location yields the
// built-in defaults; an explicitly requested file must exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	c, err := config.Load(path)
	if err == nil {
		return c, nil
	}
	if !explicit && os.Getenv("CONFIG_PATH") == "" && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
