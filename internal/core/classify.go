package core

import (
	"context"
	"fmt"
	"slices"
)

// ActorKind tags the two directory variants plus the explicit "neither"
// result. Unknown is distinct from Corporation on purpose: an unresolved id
// degrades to an unattributed entry, not to an organizational one.
type ActorKind int

const (
	ActorUnknown ActorKind = iota
	ActorCharacter
	ActorCorporation
)

func (k ActorKind) String() string {
	switch k {
	case ActorCharacter:
		return "character"
	case ActorCorporation:
		return "corporation"
	default:
		return "unknown"
	}
}

// ActorRef identifies the actor a ledger entry is attributed to.
type ActorRef struct {
	Kind ActorKind
	ID   int64
}

// Resolver answers whether an id names a character or a corporation.
// Implementations return ActorUnknown (not an error) when the id is in
// neither registry.
type Resolver interface {
	Resolve(ctx context.Context, id int64) (ActorKind, error)
}

// ClassifierConfig carries the deployment-specific identifiers the rules
// need. They are configuration, not constants, so the classifier can run
// against any corporation and exclusion set.
type ClassifierConfig struct {
	// CorporationID is the corporation whose wallet is being classified.
	CorporationID int64
	// ExcludedIDs are party ids never considered for attribution (e.g. the
	// NPC concord account that shows up on every bounty split).
	ExcludedIDs []int64
}

// ruleKind enumerates the five classification rule shapes. The dispatch
// table below is the single place a transaction-type code is bound to a
// rule; unmapped codes take ruleResolveSecond.
type ruleKind int

const (
	// first party is the donating character, regardless of sign
	ruleFirstPartyCharacter ruleKind = iota
	// the corporation side is whichever party the sign points at
	ruleOrgBySign
	// second party is always the rewarded character
	ruleSecondPartyCharacter
	// sign-selected party, kind decided by directory lookup
	ruleResolveBySign
	// second party, kind decided by directory lookup
	ruleResolveSecond
)

var classificationRules = map[RefType]ruleKind{
	RefPlayerDonation:               ruleFirstPartyCharacter,
	RefOfficeRentalFee:              ruleOrgBySign,
	RefAgentMissionReward:           ruleSecondPartyCharacter,
	RefAgentMissionTimeBonusReward:  ruleSecondPartyCharacter,
	RefBountyPrizes:                 ruleSecondPartyCharacter,
	RefProjectDiscoveryReward:       ruleSecondPartyCharacter,
	RefEssEscrowTransfer:            ruleSecondPartyCharacter,
	RefDailyGoalPayouts:             ruleSecondPartyCharacter,
	RefCorporationAccountWithdrawal: ruleResolveBySign,
	RefCorporationDividendPayment:   ruleResolveSecond,
}

// Classifier attributes ledger entries to actors. It is read-only: the
// resolver is its only collaborator and is never written through.
type Classifier struct {
	resolver Resolver
	cfg      ClassifierConfig
}

func NewClassifier(resolver Resolver, cfg ClassifierConfig) *Classifier {
	return &Classifier{resolver: resolver, cfg: cfg}
}

// Classify maps an entry to its attributed actor and signed amount. A nil
// ActorRef means the entry is unattributed: either the rule resolved to an
// excluded id or the directory knows neither variant. Both are valid
// outcomes, not errors; the entry still counts toward the raw ledger.
//
// ErrMissingParty is returned when the rule requires a party id the entry
// does not carry, ErrMissingAmount when a sign-dependent rule has no amount
// to take the sign from.
func (c *Classifier) Classify(ctx context.Context, entry JournalEntry) (*ActorRef, Money, error) {
	amount := entry.SignedAmount()

	rule, ok := classificationRules[entry.RefType]
	if !ok {
		rule = ruleResolveSecond
	}

	switch rule {
	case ruleFirstPartyCharacter:
		id, err := requireParty(entry, entry.FirstPartyID, "first")
		if err != nil {
			return nil, amount, err
		}
		return c.attributed(ActorCharacter, id), amount, nil

	case ruleOrgBySign:
		id, err := c.signSelectedParty(entry)
		if err != nil {
			return nil, amount, err
		}
		return c.attributed(ActorCorporation, id), amount, nil

	case ruleSecondPartyCharacter:
		id, err := requireParty(entry, entry.SecondPartyID, "second")
		if err != nil {
			return nil, amount, err
		}
		return c.attributed(ActorCharacter, id), amount, nil

	case ruleResolveBySign:
		id, err := c.signSelectedParty(entry)
		if err != nil {
			return nil, amount, err
		}
		return c.resolve(ctx, id, amount)

	default: // ruleResolveSecond
		id, err := requireParty(entry, entry.SecondPartyID, "second")
		if err != nil {
			return nil, amount, err
		}
		return c.resolve(ctx, id, amount)
	}
}

// signSelectedParty picks first party for non-negative amounts and second
// party otherwise.
func (c *Classifier) signSelectedParty(entry JournalEntry) (int64, error) {
	if entry.Amount == nil {
		return 0, fmt.Errorf("%w: entry %d (%s)", ErrMissingAmount, entry.ID, entry.RefType)
	}
	if entry.Amount.IsNegative() {
		return requireParty(entry, entry.SecondPartyID, "second")
	}
	return requireParty(entry, entry.FirstPartyID, "first")
}

func (c *Classifier) resolve(ctx context.Context, id int64, amount Money) (*ActorRef, Money, error) {
	if c.excluded(id) {
		return nil, amount, nil
	}
	kind, err := c.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, amount, fmt.Errorf("resolve party %d: %w", id, err)
	}
	if kind == ActorUnknown {
		return nil, amount, nil
	}
	return &ActorRef{Kind: kind, ID: id}, amount, nil
}

func (c *Classifier) attributed(kind ActorKind, id int64) *ActorRef {
	if c.excluded(id) {
		return nil
	}
	return &ActorRef{Kind: kind, ID: id}
}

func (c *Classifier) excluded(id int64) bool {
	return slices.Contains(c.cfg.ExcludedIDs, id)
}

func requireParty(entry JournalEntry, id *int64, slot string) (int64, error) {
	if id == nil {
		return 0, fmt.Errorf("%w: entry %d (%s) has no %s party", ErrMissingParty, entry.ID, entry.RefType, slot)
	}
	return *id, nil
}
