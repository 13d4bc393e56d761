// ABOUTME: Root command for the freelancehub CLI
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/freelancehub/freelancehub-cli/internal/config"
)

var (
	apiURL     string
	jsonOutput bool
	mockMode   bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "freelancehub",
	Short: "CLI for the FreelanceHub marketplace",
	Long: `freelancehub is a command-line and terminal client for the FreelanceHub
freelance marketplace. Browse and filter projects, post new ones and mark
your projects completed.

Exit codes:
  0 - Success
  1 - The operation failed
  2 - Error (connectivity, invalid input, authentication required)

Environment Variables:
  FREELANCEHUB_API_URL       Backend API URL (default: http://localhost:8000)
  FREELANCEHUB_MOCK          Serve built-in mock data instead of the API
  FREELANCEHUB_MOCK_DATA     JSON file replacing the built-in mock data
  FREELANCEHUB_MOCK_LATENCY  Simulated latency in mock mode (e.g. 400ms)
  FREELANCEHUB_CONFIG_DIR    Session and log directory (default: ~/.config/freelancehub)
  FREELANCEHUB_CONFIG_PATH   Optional YAML configuration file
  FREELANCEHUB_TIMEOUT       HTTP timeout (default: 30s)
  FREELANCEHUB_PAGE_LIMIT    Projects per page, 1-100 (default: 10)
  LOG_LEVEL, LOG_FORMAT      Logging (debug|info|warn|error, text|json)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides FREELANCEHUB_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "Use built-in mock data instead of the API")
}

// loadConfig resolves configuration with flags taking priority
func loadConfig() (*config.Config, error) {
	o := config.Overrides{APIURL: apiURL}
	if mockMode {
		o.Mock = &mockMode
	}
	return config.Load(o)
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
