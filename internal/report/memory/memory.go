package memory

import (
	"context"
	"sync"

	"github.com/sanri/eve-online-tools/internal/core"
	"github.com/sanri/eve-online-tools/internal/report"
)

// Renderer captures rendered reports in memory. It backs dry runs and
// tests; nothing leaves the process.
type Renderer struct {
	mu sync.Mutex

	Journal      []report.JournalRow
	JournalStart core.Period
	JournalEnd   core.Period

	Tax      []report.TaxRow
	TaxStart core.Period
	TaxEnd   core.Period
}

var (
	_ report.JournalWriter = (*Renderer)(nil)
	_ report.TaxWriter     = (*Renderer)(nil)
)

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) WriteJournal(_ context.Context, start, end core.Period, rows []report.JournalRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.JournalStart, r.JournalEnd = start, end
	r.Journal = append([]report.JournalRow(nil), rows...)
	return nil
}

func (r *Renderer) WriteTaxSummary(_ context.Context, start, end core.Period, rows []report.TaxRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TaxStart, r.TaxEnd = start, end
	r.Tax = append([]report.TaxRow(nil), rows...)
	return nil
}
