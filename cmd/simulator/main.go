// Command simulator drives a running merchant API from the terminal:
// register a merchant, speak transactions, read the ledger and watch live events.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverURL string
	token     string
	verbose   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "simulator",
	Short: "Merchant OS API simulator",
	Long: `Exercises the merchant API the way the dashboard does.

Example Usage:
  simulator register --email ama@example.com --password secret123 --business "Ama Provisions"
  simulator speak "Sold 2 bags of rice to Musu for 1500" --confirm
  simulator ledger --date week --type sale
  simulator watch`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("MRU_SERVER", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("MRU_TOKEN"), "Access token (or MRU_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(registerCmd(), loginCmd(), speakCmd(), ledgerCmd(), watchCmd())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
