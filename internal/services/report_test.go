package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sanri/eve-online-tools/internal/core"
)

type taxFixture struct {
	flags  core.TaxableFlags
	params *core.TaxParameters
	score  int64
	paid   core.Money
}

// fakeReportStore serves canned rows keyed the way the repository keys them.
type fakeReportStore struct {
	entries      map[core.Period][]core.JournalEntry
	characters   map[int64]string
	corporations map[int64]string
	users        []int32
	mainNames    map[int32]string
	tax          map[int32]map[core.Period]taxFixture
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{
		entries:      make(map[core.Period][]core.JournalEntry),
		characters:   make(map[int64]string),
		corporations: make(map[int64]string),
		mainNames:    make(map[int32]string),
		tax:          make(map[int32]map[core.Period]taxFixture),
	}
}

func (f *fakeReportStore) setTax(userID int32, period core.Period, fix taxFixture) {
	if f.tax[userID] == nil {
		f.tax[userID] = make(map[core.Period]taxFixture)
	}
	f.tax[userID][period] = fix
}

func (f *fakeReportStore) JournalEntriesInRange(_ context.Context, period core.Period) ([]core.JournalEntry, error) {
	return f.entries[period], nil
}

func (f *fakeReportStore) Resolve(_ context.Context, id int64) (core.ActorKind, error) {
	if _, ok := f.characters[id]; ok {
		return core.ActorCharacter, nil
	}
	if _, ok := f.corporations[id]; ok {
		return core.ActorCorporation, nil
	}
	return core.ActorUnknown, nil
}

func (f *fakeReportStore) CharacterName(_ context.Context, id int64) (string, error) {
	name, ok := f.characters[id]
	if !ok {
		return "", core.ErrNotFound
	}
	return name, nil
}

func (f *fakeReportStore) CorporationName(_ context.Context, id int64) (string, error) {
	name, ok := f.corporations[id]
	if !ok {
		return "", core.ErrNotFound
	}
	return name, nil
}

func (f *fakeReportStore) UserIDs(_ context.Context) ([]int32, error) {
	return f.users, nil
}

func (f *fakeReportStore) UserMainCharacterName(_ context.Context, userID int32) (string, error) {
	name, ok := f.mainNames[userID]
	if !ok {
		return "", core.ErrNotFound
	}
	return name, nil
}

func (f *fakeReportStore) TaxableFlags(_ context.Context, userID int32, period core.Period) (core.TaxableFlags, error) {
	return f.tax[userID][period].flags, nil
}

func (f *fakeReportStore) TaxParameters(_ context.Context, period core.Period) (core.TaxParameters, error) {
	for _, byPeriod := range f.tax {
		if fix, ok := byPeriod[period]; ok && fix.params != nil {
			return *fix.params, nil
		}
	}
	return core.TaxParameters{}, core.ErrNotFound
}

func (f *fakeReportStore) UserPapScore(_ context.Context, userID int32, period core.Period) (int64, error) {
	return f.tax[userID][period].score, nil
}

func (f *fakeReportStore) PaidAmount(_ context.Context, userID int32, period core.Period) (core.Money, error) {
	return f.tax[userID][period].paid, nil
}

func mustPeriod(t *testing.T, year, month int) core.Period {
	t.Helper()
	p, err := core.NewPeriod(year, month)
	if err != nil {
		t.Fatalf("NewPeriod(%d, %d): %v", year, month, err)
	}
	return p
}

func newReportService(store *fakeReportStore) *ReportService {
	return NewReportService(store, core.ClassifierConfig{
		CorporationID: 98000001,
		ExcludedIDs:   []int64{500016},
	}, testLogger())
}

func TestJournalRowsNamesAttributedParties(t *testing.T) {
	july := mustPeriod(t, 2025, 7)
	store := newFakeReportStore()
	store.characters[42] = "Test Pilot"
	store.corporations[98000001] = "Test Corp"

	donation := testEntry(1, core.RefPlayerDonation, 42, 98000001)
	balance := mustParseMoney(t, "1000.50")
	donation.Balance = &balance

	rent := testEntry(2, core.RefOfficeRentalFee, 98000001, 1000125)
	rentAmount := mustParseMoney(t, "250.00")
	rent.Amount = &rentAmount

	store.entries[july] = []core.JournalEntry{donation, rent}

	rows, err := newReportService(store).JournalRows(context.Background(), july, july)
	if err != nil {
		t.Fatalf("JournalRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	if rows[0].PartyName != "Test Pilot" {
		t.Errorf("donation party = %q, want %q", rows[0].PartyName, "Test Pilot")
	}
	if rows[0].Balance.Cents() != 1000_50 {
		t.Errorf("balance cents = %d, want 100050", rows[0].Balance.Cents())
	}
	if rows[1].PartyName != "Test Corp" {
		t.Errorf("rent party = %q, want %q", rows[1].PartyName, "Test Corp")
	}
	if rows[1].Amount.Cents() != 250_00 {
		t.Errorf("rent amount cents = %d, want 25000", rows[1].Amount.Cents())
	}
}

func TestJournalRowsUnattributedAndDefective(t *testing.T) {
	july := mustPeriod(t, 2025, 7)
	store := newFakeReportStore()

	// excluded party resolves to no actor; missing first party is a
	// classification defect but the row still renders
	excluded := testEntry(1, core.RefPlayerDonation, 500016, 98000001)
	broken := testEntry(2, core.RefPlayerDonation, 0, 98000001)
	broken.FirstPartyID = nil
	store.entries[july] = []core.JournalEntry{excluded, broken}

	rows, err := newReportService(store).JournalRows(context.Background(), july, july)
	if err != nil {
		t.Fatalf("JournalRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	for i, row := range rows {
		if row.PartyName != "" {
			t.Errorf("rows[%d].PartyName = %q, want empty", i, row.PartyName)
		}
	}
	if rows[1].Amount.Cents() != 100_00 {
		t.Errorf("defective row amount cents = %d, want 10000", rows[1].Amount.Cents())
	}
}

func TestJournalRowsNameGoneFromDirectory(t *testing.T) {
	july := mustPeriod(t, 2025, 7)
	store := newFakeReportStore()
	store.characters[42] = "Test Pilot"
	// the bounty rule attributes to the second party without resolving, so
	// the name lookup can miss
	store.entries[july] = []core.JournalEntry{testEntry(1, core.RefBountyPrizes, 1000125, 77)}

	rows, err := newReportService(store).JournalRows(context.Background(), july, july)
	if err != nil {
		t.Fatalf("JournalRows() error = %v", err)
	}
	if rows[0].PartyName != "" {
		t.Errorf("PartyName = %q, want empty for an id the directory lost", rows[0].PartyName)
	}
}

func TestJournalRowsReversedRange(t *testing.T) {
	store := newFakeReportStore()
	start := mustPeriod(t, 2025, 8)
	end := mustPeriod(t, 2025, 7)
	if _, err := newReportService(store).JournalRows(context.Background(), start, end); !errors.Is(err, core.ErrInvalidRange) {
		t.Errorf("JournalRows() error = %v, want ErrInvalidRange", err)
	}
}

func TestTaxRowAssessesEachPeriod(t *testing.T) {
	july := mustPeriod(t, 2025, 7)
	august := mustPeriod(t, 2025, 8)
	store := newFakeReportStore()
	store.mainNames[1] = "Test Pilot"

	params := core.TaxParameters{
		PollTax:     mustParseMoney(t, "50.00"),
		PapRate:     mustParseMoney(t, "5.00"),
		PapStandard: 100,
	}
	// july: both taxes, 40 points short of standard, partial payment
	store.setTax(1, july, taxFixture{
		flags:  core.TaxableFlags{PollTax: true, PapTax: true},
		params: &params,
		score:  60,
		paid:   mustParseMoney(t, "100.00"),
	})
	// august: untaxed, no parameters on file, payment still counts
	store.setTax(1, august, taxFixture{
		paid: mustParseMoney(t, "20.00"),
	})

	row, err := newReportService(store).TaxRow(context.Background(), 1, july, august)
	if err != nil {
		t.Fatalf("TaxRow() error = %v", err)
	}
	if row.MainCharacterName != "Test Pilot" {
		t.Errorf("name = %q, want %q", row.MainCharacterName, "Test Pilot")
	}
	if len(row.Months) != 2 {
		t.Fatalf("len(Months) = %d, want 2", len(row.Months))
	}

	julyCharge := row.Months[0]
	if julyCharge.PollTax.Cents() != 50_00 {
		t.Errorf("july poll tax cents = %d, want 5000", julyCharge.PollTax.Cents())
	}
	if julyCharge.PapTax.Cents() != 200_00 {
		t.Errorf("july pap tax cents = %d, want 20000 (40 points at 5.00)", julyCharge.PapTax.Cents())
	}
	augustCharge := row.Months[1]
	if !augustCharge.PollTax.IsZero() || !augustCharge.PapTax.IsZero() {
		t.Errorf("august charge = %v/%v, want zero for an untaxed month", augustCharge.PollTax, augustCharge.PapTax)
	}

	// owed 250.00, paid 120.00
	if row.Unpaid.Cents() != 130_00 {
		t.Errorf("unpaid cents = %d, want 13000", row.Unpaid.Cents())
	}
}

func TestTaxRowMissingParameters(t *testing.T) {
	july := mustPeriod(t, 2025, 7)
	store := newFakeReportStore()
	store.mainNames[1] = "Test Pilot"
	store.setTax(1, july, taxFixture{
		flags: core.TaxableFlags{PollTax: true},
	})

	_, err := newReportService(store).TaxRow(context.Background(), 1, july, july)
	if !errors.Is(err, core.ErrMissingTaxParameters) {
		t.Errorf("TaxRow() error = %v, want ErrMissingTaxParameters", err)
	}
}

func TestTaxRowOverpaymentIsCredit(t *testing.T) {
	july := mustPeriod(t, 2025, 7)
	store := newFakeReportStore()
	store.mainNames[1] = "Test Pilot"
	params := core.TaxParameters{PollTax: mustParseMoney(t, "50.00"), PapRate: mustParseMoney(t, "5.00"), PapStandard: 100}
	store.setTax(1, july, taxFixture{
		flags:  core.TaxableFlags{PollTax: true},
		params: &params,
		paid:   mustParseMoney(t, "80.00"),
	})

	row, err := newReportService(store).TaxRow(context.Background(), 1, july, july)
	if err != nil {
		t.Fatalf("TaxRow() error = %v", err)
	}
	if row.Unpaid.Cents() != -30_00 {
		t.Errorf("unpaid cents = %d, want -3000 (credit)", row.Unpaid.Cents())
	}
}

func TestTaxSummaryCoversAllUsers(t *testing.T) {
	july := mustPeriod(t, 2025, 7)
	store := newFakeReportStore()
	store.users = []int32{1, 2}
	store.mainNames[1] = "First Pilot"
	store.mainNames[2] = "Second Pilot"
	params := core.TaxParameters{PollTax: mustParseMoney(t, "50.00"), PapRate: mustParseMoney(t, "5.00"), PapStandard: 100}
	store.setTax(1, july, taxFixture{flags: core.TaxableFlags{PollTax: true}, params: &params})
	store.setTax(2, july, taxFixture{paid: mustParseMoney(t, "10.00")})

	rows, err := newReportService(store).TaxSummary(context.Background(), july, july)
	if err != nil {
		t.Fatalf("TaxSummary() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].MainCharacterName != "First Pilot" || rows[0].Unpaid.Cents() != 50_00 {
		t.Errorf("rows[0] = %q/%d, want First Pilot owing 5000", rows[0].MainCharacterName, rows[0].Unpaid.Cents())
	}
	if rows[1].Unpaid.Cents() != -10_00 {
		t.Errorf("rows[1] unpaid cents = %d, want -1000", rows[1].Unpaid.Cents())
	}
}
