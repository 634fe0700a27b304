package report

import (
	"context"
	"time"

	"github.com/sanri/eve-online-tools/internal/core"
)

// JournalRow is one rendered ledger line: the raw entry plus the resolved
// party name. PartyName is empty for unattributed entries.
type JournalRow struct {
	Date        time.Time
	RefType     core.RefType
	Amount      core.Money
	Balance     core.Money
	PartyName   string
	Description string
}

// TaxRow is one user's assessment over a period range. Months are in
// ascending period order; Unpaid is Σ(owed) − Σ(paid) and may be negative.
type TaxRow struct {
	MainCharacterName string
	Unpaid            core.Money
	Months            []core.PeriodCharge
}

// Ports for outbound renderers.
type (
	JournalWriter interface {
		WriteJournal(ctx context.Context, start, end core.Period, rows []JournalRow) error
	}

	TaxWriter interface {
		WriteTaxSummary(ctx context.Context, start, end core.Period, rows []TaxRow) error
	}
)
