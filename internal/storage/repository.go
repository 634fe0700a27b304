package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sanri/eve-online-tools/internal/core"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite persistence layer for the wallet ledger, the
// actor directory, and the tax tables.
type Repository struct {
	db *sql.DB
}

// The repository doubles as the classifier's directory lookup.
var _ core.Resolver = (*Repository)(nil)

// NewRepository opens (creating if needed) the database at dbPath and
// applies migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// HasJournalEntry reports whether the ledger already holds the given id.
func (r *Repository) HasJournalEntry(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM corporation_wallet_journal WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has journal entry %d: %w", id, err)
	}
	return true, nil
}

// InsertJournalEntry stores one ledger line. Re-inserting an existing id
// returns ErrConflict; entries are immutable once written.
func (r *Repository) InsertJournalEntry(ctx context.Context, e core.JournalEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO corporation_wallet_journal
			(id, date, ref_type, description, amount, balance, context_id,
			 context_id_type, reason, first_party_id, second_party_id, tax,
			 tax_receiver_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.Unix(), int32(e.RefType), e.Description,
		moneyArg(e.Amount), moneyArg(e.Balance),
		int64Arg(e.ContextID), contextTypeArg(e.ContextIDType),
		stringArg(e.Reason), int64Arg(e.FirstPartyID), int64Arg(e.SecondPartyID),
		moneyArg(e.Tax), int64Arg(e.TaxReceiverID))
	if err != nil {
		return fmt.Errorf("insert journal entry %d: %w", e.ID, mapConflict(err))
	}
	return nil
}

// JournalEntriesInRange returns the ledger lines for one calendar month,
// ordered by date then id.
func (r *Repository) JournalEntriesInRange(ctx context.Context, period core.Period) ([]core.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, ref_type, description, amount, balance, context_id,
		       context_id_type, reason, first_party_id, second_party_id, tax,
		       tax_receiver_id
		FROM corporation_wallet_journal
		WHERE date >= ? AND date < ?
		ORDER BY date, id`,
		period.LowerBound().Unix(), period.UpperBound().Unix())
	if err != nil {
		return nil, fmt.Errorf("journal entries for %s: %w", period, err)
	}
	defer rows.Close()

	var entries []core.JournalEntry
	for rows.Next() {
		var (
			e         core.JournalEntry
			date      int64
			refType   int32
			amount    sql.NullInt64
			balance   sql.NullInt64
			contextID sql.NullInt64
			ctxType   sql.NullInt64
			reason    sql.NullString
			firstID   sql.NullInt64
			secondID  sql.NullInt64
			tax       sql.NullInt64
			taxRecvID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &date, &refType, &e.Description,
			&amount, &balance, &contextID, &ctxType, &reason,
			&firstID, &secondID, &tax, &taxRecvID); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Date = time.Unix(date, 0).UTC()
		e.RefType = core.RefType(refType)
		e.Amount = nullMoney(amount)
		e.Balance = nullMoney(balance)
		e.ContextID = nullInt64(contextID)
		e.ContextIDType = nullContextType(ctxType)
		e.Reason = nullString(reason)
		e.FirstPartyID = nullInt64(firstID)
		e.SecondPartyID = nullInt64(secondID)
		e.Tax = nullMoney(tax)
		e.TaxReceiverID = nullInt64(taxRecvID)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal entries for %s: %w", period, err)
	}
	return entries, nil
}

// AllPartyIDs returns every distinct party id the ledger mentions, sorted
// ascending, minus the excluded set.
func (r *Repository) AllPartyIDs(ctx context.Context, excluded []int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT first_party_id AS party_id
		FROM corporation_wallet_journal WHERE first_party_id IS NOT NULL
		UNION
		SELECT DISTINCT second_party_id
		FROM corporation_wallet_journal WHERE second_party_id IS NOT NULL
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("all party ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan party id: %w", err)
		}
		if slices.Contains(excluded, id) {
			continue
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("all party ids: %w", err)
	}
	return ids, nil
}

// Resolve implements core.Resolver: characters win over corporations, and
// an id in neither table is ActorUnknown without error.
func (r *Repository) Resolve(ctx context.Context, id int64) (core.ActorKind, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM characters WHERE character_id = ?`, id).Scan(&one)
	if err == nil {
		return core.ActorCharacter, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.ActorUnknown, fmt.Errorf("resolve %d: %w", id, err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT 1 FROM corporations WHERE corporation_id = ?`, id).Scan(&one)
	if err == nil {
		return core.ActorCorporation, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.ActorUnknown, fmt.Errorf("resolve %d: %w", id, err)
	}
	return core.ActorUnknown, nil
}

// CharacterName returns the stored name, or ErrNotFound.
func (r *Repository) CharacterName(ctx context.Context, characterID int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM characters WHERE character_id = ?`, characterID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("character %d: %w", characterID, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("character name %d: %w", characterID, err)
	}
	return name, nil
}

// CorporationName returns the stored name, or ErrNotFound.
func (r *Repository) CorporationName(ctx context.Context, corporationID int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM corporations WHERE corporation_id = ?`, corporationID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("corporation %d: %w", corporationID, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("corporation name %d: %w", corporationID, err)
	}
	return name, nil
}

// InsertCharacter creates a directory row. User assignment starts empty; it
// is managed by hand, not by the enrichment path.
func (r *Repository) InsertCharacter(ctx context.Context, c core.Character) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO characters
			(character_id, alliance_id, corporation_id, birthday, name,
			 user_id, main, portrait64, portrait128, portrait256, portrait512)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CharacterID, int64Arg(c.AllianceID), c.CorporationID,
		c.Birthday.Unix(), c.Name, int32Arg(c.UserID), c.Main,
		c.Portrait64, c.Portrait128, c.Portrait256, c.Portrait512)
	if err != nil {
		return fmt.Errorf("insert character %d: %w", c.CharacterID, mapConflict(err))
	}
	return nil
}

// UpdateCharacter refreshes the upstream-sourced columns. user_id and main
// are deliberately left alone: they are local bookkeeping.
func (r *Repository) UpdateCharacter(ctx context.Context, c core.Character) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE characters
		SET alliance_id = ?, corporation_id = ?, birthday = ?, name = ?,
		    portrait64 = ?, portrait128 = ?, portrait256 = ?, portrait512 = ?
		WHERE character_id = ?`,
		int64Arg(c.AllianceID), c.CorporationID, c.Birthday.Unix(), c.Name,
		c.Portrait64, c.Portrait128, c.Portrait256, c.Portrait512,
		c.CharacterID)
	if err != nil {
		return fmt.Errorf("update character %d: %w", c.CharacterID, err)
	}
	return nil
}

// InsertCorporation creates a directory row.
func (r *Repository) InsertCorporation(ctx context.Context, c core.Corporation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO corporations (corporation_id, name, ticker, date_founded, description)
		VALUES (?, ?, ?, ?, ?)`,
		c.CorporationID, c.Name, c.Ticker, timeArg(c.DateFounded), stringArg(c.Description))
	if err != nil {
		return fmt.Errorf("insert corporation %d: %w", c.CorporationID, mapConflict(err))
	}
	return nil
}

// UpdateCorporation refreshes a directory row.
func (r *Repository) UpdateCorporation(ctx context.Context, c core.Corporation) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE corporations
		SET name = ?, ticker = ?, date_founded = ?, description = ?
		WHERE corporation_id = ?`,
		c.Name, c.Ticker, timeArg(c.DateFounded), stringArg(c.Description),
		c.CorporationID)
	if err != nil {
		return fmt.Errorf("update corporation %d: %w", c.CorporationID, err)
	}
	return nil
}

// UserIDs lists every registered user.
func (r *Repository) UserIDs(ctx context.Context) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("user ids: %w", err)
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user ids: %w", err)
	}
	return ids, nil
}

// UserMainCharacterName returns the user's display name for reports: the
// main character's name, else the chat group nickname, else ErrNotFound.
func (r *Repository) UserMainCharacterName(ctx context.Context, userID int32) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM characters WHERE user_id = ? AND main = 1`, userID).Scan(&name)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("main character of user %d: %w", userID, err)
	}

	var nickname sql.NullString
	err = r.db.QueryRowContext(ctx,
		`SELECT chat_group_nickname FROM users WHERE id = ?`, userID).Scan(&nickname)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !nickname.Valid) {
		return "", fmt.Errorf("user %d has no display name: %w", userID, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("nickname of user %d: %w", userID, err)
	}
	return nickname.String, nil
}

// TaxableFlags returns the user's tax component flags for a period. A
// missing row means neither component applies.
func (r *Repository) TaxableFlags(ctx context.Context, userID int32, period core.Period) (core.TaxableFlags, error) {
	var flags core.TaxableFlags
	err := r.db.QueryRowContext(ctx, `
		SELECT poll_tax, pap_tax FROM taxable_list
		WHERE user_id = ? AND year = ? AND month = ?`,
		userID, period.Year, int(period.Month)).Scan(&flags.PollTax, &flags.PapTax)
	if errors.Is(err, sql.ErrNoRows) {
		return core.TaxableFlags{}, nil
	}
	if err != nil {
		return core.TaxableFlags{}, fmt.Errorf("taxable flags for user %d in %s: %w", userID, period, err)
	}
	return flags, nil
}

// TaxParameters returns the accrual inputs for a period. Absence is
// ErrNotFound: a period without parameters cannot be assessed.
func (r *Repository) TaxParameters(ctx context.Context, period core.Period) (core.TaxParameters, error) {
	var pollTax, papRate, papStandard int64
	err := r.db.QueryRowContext(ctx, `
		SELECT poll_tax, pap_tax, pap_standard FROM tax_parameters
		WHERE year = ? AND month = ?`,
		period.Year, int(period.Month)).Scan(&pollTax, &papRate, &papStandard)
	if errors.Is(err, sql.ErrNoRows) {
		return core.TaxParameters{}, fmt.Errorf("tax parameters for %s: %w", period, core.ErrNotFound)
	}
	if err != nil {
		return core.TaxParameters{}, fmt.Errorf("tax parameters for %s: %w", period, err)
	}
	return core.TaxParameters{
		PollTax:     core.NewMoney(pollTax),
		PapRate:     core.NewMoney(papRate),
		PapStandard: papStandard,
	}, nil
}

// CharacterPapScore returns a character's participation points for a
// period, zero when no row exists.
func (r *Repository) CharacterPapScore(ctx context.Context, characterID int64, period core.Period) (int64, error) {
	var pap int64
	err := r.db.QueryRowContext(ctx, `
		SELECT pap FROM pap_journal
		WHERE character_id = ? AND year = ? AND month = ?`,
		characterID, period.Year, int(period.Month)).Scan(&pap)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("pap of character %d in %s: %w", characterID, period, err)
	}
	return pap, nil
}

// UserPapScore sums participation points across all of a user's characters.
func (r *Repository) UserPapScore(ctx context.Context, userID int32, period core.Period) (int64, error) {
	var pap int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(p.pap), 0)
		FROM pap_journal p
		JOIN characters c ON c.character_id = p.character_id
		WHERE c.user_id = ? AND p.year = ? AND p.month = ?`,
		userID, period.Year, int(period.Month)).Scan(&pap)
	if err != nil {
		return 0, fmt.Errorf("pap of user %d in %s: %w", userID, period, err)
	}
	return pap, nil
}

// PaidAmount sums the donations a user's characters paid in during a
// period: donation-typed lines where the character is the first party and
// the amount is positive.
func (r *Repository) PaidAmount(ctx context.Context, userID int32, period core.Period) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(j.amount), 0)
		FROM corporation_wallet_journal j
		JOIN characters c ON c.character_id = j.first_party_id
		WHERE c.user_id = ? AND j.ref_type = ? AND j.amount > 0
		  AND j.date >= ? AND j.date < ?`,
		userID, int32(core.RefPlayerDonation),
		period.LowerBound().Unix(), period.UpperBound().Unix()).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("paid amount of user %d in %s: %w", userID, period, err)
	}
	return core.NewMoney(cents), nil
}

func mapConflict(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", core.ErrConflict, err)
	}
	return err
}

func moneyArg(m *core.Money) any {
	if m == nil {
		return nil
	}
	return m.Cents()
}

func int64Arg(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func int32Arg(v *int32) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringArg(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func contextTypeArg(t *core.ContextIDType) any {
	if t == nil {
		return nil
	}
	return int32(*t)
}

func nullMoney(v sql.NullInt64) *core.Money {
	if !v.Valid {
		return nil
	}
	m := core.NewMoney(v.Int64)
	return &m
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullContextType(v sql.NullInt64) *core.ContextIDType {
	if !v.Valid {
		return nil
	}
	t := core.ContextIDType(v.Int64)
	return &t
}
