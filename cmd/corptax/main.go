package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sanri/eve-online-tools/internal/config"
	"github.com/sanri/eve-online-tools/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "corptax",
	Short: "Corporation wallet ledger and tax accrual tooling",
	Long: `corptax pulls a corporation's wallet journal from ESI into local
storage, resolves the parties behind each ledger line, and renders
classified journal and tax accrual reports.`,
	SilenceUsage: true,
}

func main() {
	// .env is a local development convenience; absence is fine
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates the environment configuration shared by
// every subcommand.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	return cfg, nil
}

// signalContext derives a context cancelled on SIGINT/SIGTERM from the
// cobra command context.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}
