// Command teamctl talks to a running team builder API: it lists the roster,
// inspects and imports export keys, and seeds characters from a JSON file.
package main

import (
	"fmt"
	"os"

	"github.com/dom/haikyu-team-builder/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultAPIURL = "http://localhost:8080"

var (
	apiURL   string
	deviceID string
	verbose  bool

	logger = zap.NewNop()
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "teamctl",
		Short:         "Team builder command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			l, err := logging.New("development", "debug")
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&apiURL, "api-url", envOr("API_URL", defaultAPIURL), "Base URL of the API server")
	cmd.PersistentFlags().StringVar(&deviceID, "device", os.Getenv("DEVICE_ID"), "Device id used for saved teams")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")

	cmd.AddCommand(rosterCmd(), keyCmd(), importCmd(), savedCmd(), seedCmd())
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *APIClient {
	logger.Debug("api client", zap.String("url", apiURL), zap.String("device", deviceID))
	return NewAPIClient(apiURL, deviceID)
}
