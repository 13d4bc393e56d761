// ABOUTME: Health command for the freelancehub CLI
// ABOUTME: Checks backend connectivity and reports the active configuration

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/freelancehub/freelancehub-cli/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the FreelanceHub API and show which backend is in use.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	a, err := setup(w)
	if err != nil {
		return fail(w, err)
	}

	resp := &client.HealthResponse{Message: "Serving built-in mock data"}
	backend := "mock"
	if a.client != nil {
		backend = a.client.BaseURL()
		if resp, err = a.client.Health(ctx); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(backend, a.cfg.ConfigDir, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(backend, a.cfg.ConfigDir, resp))
	}
	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(backend, configDir string, resp *client.HealthResponse) string {
	return fmt.Sprintf(`Backend:    %s
Message:    %s
Config dir: %s`, backend, resp.Message, configDir)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(backend, configDir string, resp *client.HealthResponse) string {
	output := map[string]interface{}{
		"backend":    backend,
		"message":    resp.Message,
		"config_dir": configDir,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
