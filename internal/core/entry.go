package core

import "time"

// JournalEntry is one raw corporation wallet ledger line. Entries are
// immutable once ingested; re-ingesting an id that is already stored is a
// no-op. Optional fields are nil when the ledger source omitted them.
type JournalEntry struct {
	ID            int64
	Date          time.Time
	RefType       RefType
	Description   string
	Amount        *Money
	Balance       *Money
	ContextID     *int64
	ContextIDType *ContextIDType
	Reason        *string
	FirstPartyID  *int64
	SecondPartyID *int64
	Tax           *Money
	TaxReceiverID *int64
}

// SignedAmount returns the entry amount, or zero when the source omitted it.
func (e JournalEntry) SignedAmount() Money {
	if e.Amount == nil {
		return Money{}
	}
	return *e.Amount
}

// Character is an individual pilot in the actor directory. A character
// belongs to at most one User; Main marks it as that user's primary identity.
type Character struct {
	CharacterID   int64
	Name          string
	CorporationID int64
	AllianceID    *int64
	Birthday      time.Time
	UserID        *int32
	Main          bool
	Portrait64    []byte
	Portrait128   []byte
	Portrait256   []byte
	Portrait512   []byte
}

// Corporation is an organizational account in the actor directory.
type Corporation struct {
	CorporationID int64
	Name          string
	Ticker        string
	DateFounded   *time.Time
	Description   *string
}

// User is a real member owning one or more characters; it is the unit of
// tax liability.
type User struct {
	ID                int32
	ChatID            *string
	ChatNickname      *string
	ChatGroupNickname *string
}

// TaxParameters are the per-period accrual inputs. One row exists per
// period; absence is an error, never a zero default.
type TaxParameters struct {
	PollTax     Money // flat charge per taxable user per period
	PapRate     Money // charge per missing participation point
	PapStandard int64 // participation points required to owe no PAP tax
}

// TaxableFlags says which of the two tax components apply to a user in a
// period. A missing row means neither applies.
type TaxableFlags struct {
	PollTax bool
	PapTax  bool
}
