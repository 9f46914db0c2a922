package commands

import (
	"os"

	"bookit/internal/logger"
	"bookit/internal/validation"

	"github.com/spf13/cobra"
)

var (
	validateURL      string
	validateBasePath string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a running server against the API contract",
	Long: `Run a black-box contract check against a running server.

Examples:
  bookit-api validate --url http://localhost:8000 --base /api`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Get().Info("Starting API validation", "url", validateURL, "base_path", validateBasePath)

		v := validation.NewContractValidator(validateURL, validateBasePath)
		if err := v.ValidateAll(cmd.Context()); err != nil {
			logger.Get().Error("Валидация не пройдена", "error", err)
			return err
		}

		logger.Get().Info("Валидация успешно пройдена")
		return nil
	},
}

func init() {
	base := os.Getenv("COMMON_ADDR")
	if base == "" {
		base = "/api"
	}
	validateCmd.Flags().StringVar(&validateURL, "url", "http://localhost:8000", "Base URL of the running server")
	validateCmd.Flags().StringVar(&validateBasePath, "base", base, "COMMON_ADDR prefix the server uses")
	rootCmd.AddCommand(validateCmd)
}
