package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanri/eve-online-tools/internal/amqp"
	"github.com/sanri/eve-online-tools/internal/esi"
	"github.com/sanri/eve-online-tools/internal/log"
	"github.com/sanri/eve-online-tools/internal/services"
	"github.com/sanri/eve-online-tools/internal/storage"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the corporation wallet journal into local storage",
	Long: `Pages through the corporation wallet journal on ESI and stores every
entry not seen before. Party ids the local directory does not know yet
are queued for resolution when a message broker is configured.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
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

	var publisher services.ResolvePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("amqp client: %w", err)
		}
		defer amqpClient.Close()
		publisher = amqpClient
	}

	svc := services.NewIngestService(esiClient, repo, publisher, services.IngestConfig{
		CorporationID:  cfg.CorporationID,
		WalletDivision: cfg.WalletDivision,
		PageLimit:      cfg.PageLimit,
		ExcludedIDs:    cfg.ExcludedPartyIDs,
	}, log.New(log.DefaultConfig()))

	inserted, err := svc.SyncWalletJournal(ctx)
	if err != nil {
		return fmt.Errorf("sync wallet journal: %w", err)
	}

	fmt.Printf("Stored %d new journal entries\n", inserted)
	return nil
}
