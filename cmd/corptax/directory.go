package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanri/eve-online-tools/internal/esi"
	"github.com/sanri/eve-online-tools/internal/log"
	"github.com/sanri/eve-online-tools/internal/services"
	"github.com/sanri/eve-online-tools/internal/storage"
)

func init() {
	rootCmd.AddCommand(directoryCmd)
	directoryCmd.Flags().Int64("character-id", 0, "Refresh one character instead of scanning")
	directoryCmd.Flags().Int64("corporation-id", 0, "Refresh one corporation instead of scanning")
}

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Resolve ledger parties into the actor directory",
	Long: `Scans the stored journal for party ids the directory does not know yet
and resolves each against the public character and corporation records,
downloading portraits for characters. With --character-id or
--corporation-id it instead re-fetches that one record.`,
	RunE: runDirectory,
}

func runDirectory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	esiClient, err := esi.New(esi.Config{
		ProxyURL: cfg.ESIProxyURL,
		Token:    cfg.ESIToken,
	})
	if err != nil {
		return fmt.Errorf("esi client: %w", err)
	}

	svc := services.NewDirectoryService(esiClient, repo, cfg.ExcludedPartyIDs, log.New(log.DefaultConfig()))

	characterID, _ := cmd.Flags().GetInt64("character-id")
	corporationID, _ := cmd.Flags().GetInt64("corporation-id")

	switch {
	case characterID != 0:
		if err := svc.RefreshCharacter(ctx, characterID); err != nil {
			return fmt.Errorf("refresh character: %w", err)
		}
		fmt.Printf("Refreshed character %d\n", characterID)
	case corporationID != 0:
		if err := svc.RefreshCorporation(ctx, corporationID); err != nil {
			return fmt.Errorf("refresh corporation: %w", err)
		}
		fmt.Printf("Refreshed corporation %d\n", corporationID)
	default:
		resolved, err := svc.ResolveUnknown(ctx)
		if err != nil {
			return fmt.Errorf("resolve unknown parties: %w", err)
		}
		fmt.Printf("Resolved %d new parties\n", resolved)
	}
	return nil
}
