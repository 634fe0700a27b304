package google

import (
	"errors"
	"testing"
	"time"

	"github.com/sanri/eve-online-tools/internal/core"
	"github.com/sanri/eve-online-tools/internal/report"
)

func TestJournalValues(t *testing.T) {
	rows := []report.JournalRow{
		{
			Date:        time.Date(2025, 7, 10, 12, 30, 0, 0, time.UTC),
			RefType:     core.RefPlayerDonation,
			Amount:      core.NewMoney(50_000_00),
			Balance:     core.NewMoney(1_000_000_00),
			PartyName:   "Test Pilot",
			Description: "donation",
		},
	}

	values := journalValues(rows)
	if len(values) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(values))
	}
	if values[0][0] != "Date" || values[0][4] != "Party" {
		t.Fatalf("header = %v", values[0])
	}
	got := values[1]
	if got[0] != "2025-07-10 12:30:00" {
		t.Errorf("date cell = %v", got[0])
	}
	if got[1] != "Player Donation" {
		t.Errorf("type cell = %v", got[1])
	}
	if got[2] != 50000.0 {
		t.Errorf("amount cell = %v, want 50000", got[2])
	}
	if got[4] != "Test Pilot" {
		t.Errorf("party cell = %v", got[4])
	}
}

func TestTaxValues(t *testing.T) {
	jul := core.Period{Year: 2025, Month: time.July}
	aug := core.Period{Year: 2025, Month: time.August}

	rows := []report.TaxRow{
		{
			MainCharacterName: "Test Pilot",
			Unpaid:            core.NewMoney(-30_00),
			Months: []core.PeriodCharge{
				{Period: jul, PollTax: core.NewMoney(50_00), PapTax: core.NewMoney(200_00), Paid: core.NewMoney(280_00)},
				{Period: aug, PollTax: core.NewMoney(50_00)},
			},
		},
	}

	values, err := taxValues(jul, aug, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d rows, want 2 headers + 1 data", len(values))
	}

	header1, header2 := values[0], values[1]
	// Two fixed columns plus three per month.
	if len(header1) != 8 || len(header2) != 8 {
		t.Fatalf("header widths = %d/%d, want 8", len(header1), len(header2))
	}
	if header1[2] != "2025-07" || header1[3] != "" || header1[5] != "2025-08" {
		t.Fatalf("month spans = %v", header1)
	}
	if header2[2] != "PAP Tax" || header2[3] != "Poll Tax" || header2[4] != "Paid" {
		t.Fatalf("subcolumns = %v", header2)
	}

	data := values[2]
	if data[0] != "Test Pilot" {
		t.Errorf("name cell = %v", data[0])
	}
	if data[1] != -30.0 {
		t.Errorf("unpaid cell = %v, want -30 (credit)", data[1])
	}
	if data[2] != 200.0 || data[3] != 50.0 || data[4] != 280.0 {
		t.Errorf("july cells = %v %v %v", data[2], data[3], data[4])
	}
}

func TestTaxValuesReversedRange(t *testing.T) {
	jul := core.Period{Year: 2025, Month: time.July}
	jun := core.Period{Year: 2025, Month: time.June}

	if _, err := taxValues(jul, jun, nil); !errors.Is(err, core.ErrInvalidRange) {
		t.Fatalf("error = %v, want ErrInvalidRange", err)
	}
}
