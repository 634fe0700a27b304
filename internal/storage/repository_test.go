package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sanri/eve-online-tools/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustExec(t *testing.T, repo *Repository, query string, args ...any) {
	t.Helper()
	if _, err := repo.db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func donationEntry(id int64, date time.Time, cents int64, firstParty int64) core.JournalEntry {
	amount := core.NewMoney(cents)
	second := int64(98000001)
	return core.JournalEntry{
		ID:            id,
		Date:          date,
		RefType:       core.RefPlayerDonation,
		Description:   "donation",
		Amount:        &amount,
		FirstPartyID:  &firstParty,
		SecondPartyID: &second,
	}
}

func TestJournalInsertAndLookup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := donationEntry(9001, time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC), 50_000_00, 42)
	reason := "monthly tax"
	e.Reason = &reason

	ok, err := repo.HasJournalEntry(ctx, e.ID)
	if err != nil || ok {
		t.Fatalf("has before insert = (%v, %v), want (false, nil)", ok, err)
	}

	if err := repo.InsertJournalEntry(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ok, err = repo.HasJournalEntry(ctx, e.ID)
	if err != nil || !ok {
		t.Fatalf("has after insert = (%v, %v), want (true, nil)", ok, err)
	}

	// The id is immutable once written.
	if err := repo.InsertJournalEntry(ctx, e); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("reinsert error = %v, want ErrConflict", err)
	}
}

func TestJournalEntriesInRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	july := core.Period{Year: 2025, Month: time.July}
	inJuly := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	lastOfJuly := time.Date(2025, 7, 31, 23, 59, 59, 0, time.UTC)
	firstOfAugust := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	for _, e := range []core.JournalEntry{
		donationEntry(3, lastOfJuly, 100, 42),
		donationEntry(1, inJuly, 200, 42),
		donationEntry(2, firstOfAugust, 300, 42),
	} {
		if err := repo.InsertJournalEntry(ctx, e); err != nil {
			t.Fatalf("insert %d: %v", e.ID, err)
		}
	}

	entries, err := repo.JournalEntriesInRange(ctx, july)
	if err != nil {
		t.Fatalf("range query: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (august excluded)", len(entries))
	}
	if entries[0].ID != 1 || entries[1].ID != 3 {
		t.Fatalf("order = [%d, %d], want ascending by date", entries[0].ID, entries[1].ID)
	}
	if entries[0].Amount == nil || entries[0].Amount.Cents() != 200 {
		t.Fatalf("amount round trip failed: %+v", entries[0].Amount)
	}
	if !entries[0].Date.Equal(inJuly) {
		t.Fatalf("date round trip = %v, want %v", entries[0].Date, inJuly)
	}
}

func TestAllPartyIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	for i, first := range []int64{42, 42, 500016} {
		if err := repo.InsertJournalEntry(ctx, donationEntry(int64(i+1), date, 100, first)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	ids, err := repo.AllPartyIDs(ctx, []int64{500016})
	if err != nil {
		t.Fatalf("all party ids: %v", err)
	}
	want := []int64{42, 98000001}
	if len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestResolveAndNames(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	char := core.Character{
		CharacterID:   42,
		Name:          "Test Pilot",
		CorporationID: 98000001,
		Birthday:      time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.InsertCharacter(ctx, char); err != nil {
		t.Fatalf("insert character: %v", err)
	}
	corp := core.Corporation{CorporationID: 98000001, Name: "Test Corp", Ticker: "TEST"}
	if err := repo.InsertCorporation(ctx, corp); err != nil {
		t.Fatalf("insert corporation: %v", err)
	}

	tests := []struct {
		id   int64
		want core.ActorKind
	}{
		{42, core.ActorCharacter},
		{98000001, core.ActorCorporation},
		{555, core.ActorUnknown},
	}
	for _, tt := range tests {
		kind, err := repo.Resolve(ctx, tt.id)
		if err != nil {
			t.Fatalf("resolve %d: %v", tt.id, err)
		}
		if kind != tt.want {
			t.Errorf("resolve %d = %v, want %v", tt.id, kind, tt.want)
		}
	}

	if name, err := repo.CharacterName(ctx, 42); err != nil || name != "Test Pilot" {
		t.Fatalf("character name = (%q, %v)", name, err)
	}
	if name, err := repo.CorporationName(ctx, 98000001); err != nil || name != "Test Corp" {
		t.Fatalf("corporation name = (%q, %v)", name, err)
	}
	if _, err := repo.CharacterName(ctx, 555); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing character error = %v, want ErrNotFound", err)
	}
	if _, err := repo.CorporationName(ctx, 555); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing corporation error = %v, want ErrNotFound", err)
	}
}

func TestUpdateCharacterKeepsAssignment(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustExec(t, repo, `INSERT INTO users (id, chat_group_nickname) VALUES (1, 'pilot-one')`)
	mustExec(t, repo, `
		INSERT INTO characters (character_id, corporation_id, birthday, name, user_id, main)
		VALUES (42, 98000001, 0, 'Old Name', 1, 1)`)

	renamed := core.Character{
		CharacterID:   42,
		Name:          "New Name",
		CorporationID: 98000002,
		Birthday:      time.Unix(0, 0),
	}
	if err := repo.UpdateCharacter(ctx, renamed); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Name refreshes, the by-hand user assignment survives.
	name, err := repo.UserMainCharacterName(ctx, 1)
	if err != nil {
		t.Fatalf("main character name: %v", err)
	}
	if name != "New Name" {
		t.Fatalf("name = %q, want New Name", name)
	}
}

func TestUserMainCharacterNameFallback(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustExec(t, repo, `INSERT INTO users (id, chat_group_nickname) VALUES (1, 'group-nick')`)
	mustExec(t, repo, `INSERT INTO users (id) VALUES (2)`)
	mustExec(t, repo, `
		INSERT INTO characters (character_id, corporation_id, birthday, name, user_id, main)
		VALUES (7, 98000001, 0, 'Alt', 1, 0)`)

	// No main character marked: fall back to the group nickname.
	name, err := repo.UserMainCharacterName(ctx, 1)
	if err != nil || name != "group-nick" {
		t.Fatalf("fallback = (%q, %v), want group-nick", name, err)
	}

	// Neither main nor nickname.
	if _, err := repo.UserMainCharacterName(ctx, 2); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestTaxTables(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	july := core.Period{Year: 2025, Month: time.July}

	// Missing taxable row means neither component applies.
	flags, err := repo.TaxableFlags(ctx, 1, july)
	if err != nil || flags.PollTax || flags.PapTax {
		t.Fatalf("missing flags = (%+v, %v), want zero flags", flags, err)
	}

	mustExec(t, repo, `
		INSERT INTO taxable_list (user_id, year, month, poll_tax, pap_tax)
		VALUES (1, 2025, 7, 1, 0)`)
	flags, err = repo.TaxableFlags(ctx, 1, july)
	if err != nil || !flags.PollTax || flags.PapTax {
		t.Fatalf("flags = (%+v, %v), want poll only", flags, err)
	}

	// Missing parameters are an error, never a zero default.
	if _, err := repo.TaxParameters(ctx, july); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing parameters error = %v, want ErrNotFound", err)
	}

	mustExec(t, repo, `
		INSERT INTO tax_parameters (year, month, poll_tax, pap_tax, pap_standard)
		VALUES (2025, 7, 5000, 500, 100)`)
	params, err := repo.TaxParameters(ctx, july)
	if err != nil {
		t.Fatalf("tax parameters: %v", err)
	}
	if params.PollTax.Cents() != 5000 || params.PapRate.Cents() != 500 || params.PapStandard != 100 {
		t.Fatalf("params = %+v", params)
	}
}

func TestPapScores(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	july := core.Period{Year: 2025, Month: time.July}

	mustExec(t, repo, `INSERT INTO users (id) VALUES (1)`)
	mustExec(t, repo, `
		INSERT INTO characters (character_id, corporation_id, birthday, name, user_id, main)
		VALUES (42, 98000001, 0, 'Main', 1, 1), (43, 98000001, 0, 'Alt', 1, 0)`)
	mustExec(t, repo, `
		INSERT INTO pap_journal (character_id, year, month, pap)
		VALUES (42, 2025, 7, 40), (43, 2025, 7, 20), (42, 2025, 6, 99)`)

	score, err := repo.CharacterPapScore(ctx, 42, july)
	if err != nil || score != 40 {
		t.Fatalf("character score = (%d, %v), want 40", score, err)
	}
	// Missing row scores zero.
	score, err = repo.CharacterPapScore(ctx, 555, july)
	if err != nil || score != 0 {
		t.Fatalf("missing score = (%d, %v), want 0", score, err)
	}
	// The user's score sums over all owned characters for the month.
	score, err = repo.UserPapScore(ctx, 1, july)
	if err != nil || score != 60 {
		t.Fatalf("user score = (%d, %v), want 60", score, err)
	}
}

func TestPaidAmount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	july := core.Period{Year: 2025, Month: time.July}
	inJuly := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	inJune := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	mustExec(t, repo, `INSERT INTO users (id) VALUES (1)`)
	mustExec(t, repo, `
		INSERT INTO characters (character_id, corporation_id, birthday, name, user_id, main)
		VALUES (42, 98000001, 0, 'Main', 1, 1), (43, 98000001, 0, 'Alt', 1, 0)`)

	entries := []core.JournalEntry{
		donationEntry(1, inJuly, 30_000_00, 42),
		donationEntry(2, inJuly, 20_000_00, 43),
		donationEntry(3, inJune, 99_000_00, 42),  // outside the period
		donationEntry(4, inJuly, -5_000_00, 42),  // refunds do not count
		donationEntry(5, inJuly, 77_000_00, 555), // not this user's character
	}
	// Same month, same character, but not a donation.
	fee := donationEntry(6, inJuly, 10_000_00, 42)
	fee.RefType = core.RefBrokersFee
	entries = append(entries, fee)

	for _, e := range entries {
		if err := repo.InsertJournalEntry(ctx, e); err != nil {
			t.Fatalf("insert %d: %v", e.ID, err)
		}
	}

	paid, err := repo.PaidAmount(ctx, 1, july)
	if err != nil {
		t.Fatalf("paid amount: %v", err)
	}
	if paid.Cents() != 50_000_00 {
		t.Fatalf("paid = %v, want 50000.00", paid)
	}
}
