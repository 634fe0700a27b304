package esi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sanri/eve-online-tools/internal/core"
)

// journalItem is the wire form of one wallet journal line. Monetary fields
// arrive as JSON numbers and are decoded through json.Number so the decimal
// value reaches Money without a float round trip.
type journalItem struct {
	ID            int64               `json:"id"`
	Date          time.Time           `json:"date"`
	RefType       core.RefType        `json:"ref_type"`
	Description   string              `json:"description"`
	Amount        *json.Number        `json:"amount"`
	Balance       *json.Number        `json:"balance"`
	ContextID     *int64              `json:"context_id"`
	ContextIDType *core.ContextIDType `json:"context_id_type"`
	Reason        *string             `json:"reason"`
	FirstPartyID  *int64              `json:"first_party_id"`
	SecondPartyID *int64              `json:"second_party_id"`
	Tax           *json.Number        `json:"tax"`
	TaxReceiverID *int64              `json:"tax_receiver_id"`
}

func (it journalItem) toEntry() (core.JournalEntry, error) {
	entry := core.JournalEntry{
		ID:            it.ID,
		Date:          it.Date,
		RefType:       it.RefType,
		Description:   it.Description,
		ContextID:     it.ContextID,
		ContextIDType: it.ContextIDType,
		Reason:        it.Reason,
		FirstPartyID:  it.FirstPartyID,
		SecondPartyID: it.SecondPartyID,
		TaxReceiverID: it.TaxReceiverID,
	}

	var err error
	if entry.Amount, err = moneyField(it.Amount, "amount"); err != nil {
		return core.JournalEntry{}, fmt.Errorf("entry %d: %w", it.ID, err)
	}
	if entry.Balance, err = moneyField(it.Balance, "balance"); err != nil {
		return core.JournalEntry{}, fmt.Errorf("entry %d: %w", it.ID, err)
	}
	if entry.Tax, err = moneyField(it.Tax, "tax"); err != nil {
		return core.JournalEntry{}, fmt.Errorf("entry %d: %w", it.ID, err)
	}
	return entry, nil
}

func moneyField(n *json.Number, field string) (*core.Money, error) {
	if n == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	m, err := core.MoneyFromDecimal(d)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", field, n.String(), err)
	}
	return &m, nil
}

// CharacterInfo is a character's public record.
type CharacterInfo struct {
	Name           string    `json:"name"`
	Birthday       time.Time `json:"birthday"`
	CorporationID  int64     `json:"corporation_id"`
	BloodlineID    int64     `json:"bloodline_id"`
	RaceID         int64     `json:"race_id"`
	Gender         string    `json:"gender"`
	AllianceID     *int64    `json:"alliance_id"`
	Description    *string   `json:"description"`
	SecurityStatus *float64  `json:"security_status"`
	Title          *string   `json:"title"`
}

// CorporationInfo is a corporation's public record.
type CorporationInfo struct {
	Name          string     `json:"name"`
	Ticker        string     `json:"ticker"`
	DateFounded   *time.Time `json:"date_founded"`
	Description   *string    `json:"description"`
	AllianceID    *int64     `json:"alliance_id"`
	CEOID         int64      `json:"ceo_id"`
	FactionID     *int64     `json:"faction_id"`
	HomeStationID *int64     `json:"home_station_id"`
	MemberCount   int64      `json:"member_count"`
	Shares        *int64     `json:"shares"`
	TaxRate       float64    `json:"tax_rate"`
	URL           *string    `json:"url"`
	WarEligible   *bool      `json:"war_eligible"`
}

// PortraitURLs are the image endpoints for a character, one per size.
type PortraitURLs struct {
	Px64  string `json:"px64x64"`
	Px128 string `json:"px128x128"`
	Px256 string `json:"px256x256"`
	Px512 string `json:"px512x512"`
}

// Portraits holds the downloaded JPEG data for all four sizes.
type Portraits struct {
	Px64  []byte
	Px128 []byte
	Px256 []byte
	Px512 []byte
}
