package commands

import (
	"fmt"
	"os"

	"bookit/internal/config"
	"bookit/internal/logger"

	"github.com/spf13/cobra"
)

// rootCmd runs the HTTP server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "bookit-api",
	Short: "BookIt REST API",
	Long: `BookIt REST API: users with JWT access/refresh tokens, theatres and shows.

Configuration is read from the environment and an optional .env file.
COMMON_ADDR, JWT_SECRET and DATABASE_URL are required.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig загружает конфигурацию и настраивает логгер
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Error("Invalid configuration", "error", err)
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}
