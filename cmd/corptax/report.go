package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanri/eve-online-tools/internal/core"
	"github.com/sanri/eve-online-tools/internal/log"
	"github.com/sanri/eve-online-tools/internal/report"
	"github.com/sanri/eve-online-tools/internal/report/google"
	"github.com/sanri/eve-online-tools/internal/report/memory"
	"github.com/sanri/eve-online-tools/internal/services"
	"github.com/sanri/eve-online-tools/internal/storage"
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("from", "", "First period, YYYY-MM (required)")
	reportCmd.Flags().String("to", "", "Last period, YYYY-MM (required)")
	reportCmd.Flags().String("spreadsheet", "", "Spreadsheet id (defaults to GOOGLE_SPREADSHEET_ID)")
	reportCmd.Flags().Bool("dry-run", false, "Render in memory and print a summary instead of writing")
	_ = reportCmd.MarkFlagRequired("from")
	_ = reportCmd.MarkFlagRequired("to")
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the journal and tax reports for a period range",
	Long: `Classifies every stored journal entry in the range, assesses each
user's poll and participation taxes per month, and writes both views to
a spreadsheet. With --dry-run nothing leaves the process.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fromArg, _ := cmd.Flags().GetString("from")
	toArg, _ := cmd.Flags().GetString("to")
	from, err := core.ParsePeriod(fromArg)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := core.ParsePeriod(toArg)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	svc := services.NewReportService(repo, core.ClassifierConfig{
		CorporationID: cfg.CorporationID,
		ExcludedIDs:   cfg.ExcludedPartyIDs,
	}, log.New(log.DefaultConfig()))

	journal, err := svc.JournalRows(ctx, from, to)
	if err != nil {
		return fmt.Errorf("journal report: %w", err)
	}
	tax, err := svc.TaxSummary(ctx, from, to)
	if err != nil {
		return fmt.Errorf("tax report: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		sink := memory.New()
		if err := writeReports(ctx, sink, sink, from, to, journal, tax); err != nil {
			return err
		}
		fmt.Printf("Dry run: %d journal rows, %d tax rows for %s..%s\n",
			len(sink.Journal), len(sink.Tax), from, to)
		for _, row := range sink.Tax {
			fmt.Printf("  %-30s unpaid %s\n", row.MainCharacterName, row.Unpaid)
		}
		return nil
	}

	spreadsheetID, _ := cmd.Flags().GetString("spreadsheet")
	if spreadsheetID == "" {
		spreadsheetID = cfg.GoogleSpreadsheetID
	}
	if spreadsheetID == "" {
		return fmt.Errorf("no spreadsheet id: pass --spreadsheet or set GOOGLE_SPREADSHEET_ID")
	}

	renderer, err := google.New(ctx, spreadsheetID, cfg.JournalSheetName, cfg.TaxSheetName)
	if err != nil {
		return fmt.Errorf("sheets renderer: %w", err)
	}
	if err := writeReports(ctx, renderer, renderer, from, to, journal, tax); err != nil {
		return err
	}

	fmt.Printf("Wrote %d journal rows and %d tax rows to spreadsheet %s\n",
		len(journal), len(tax), spreadsheetID)
	return nil
}

func writeReports(ctx context.Context, jw report.JournalWriter, tw report.TaxWriter, from, to core.Period, journal []report.JournalRow, tax []report.TaxRow) error {
	if err := jw.WriteJournal(ctx, from, to, journal); err != nil {
		return fmt.Errorf("write journal sheet: %w", err)
	}
	if err := tw.WriteTaxSummary(ctx, from, to, tax); err != nil {
		return fmt.Errorf("write tax sheet: %w", err)
	}
	return nil
}
