package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sanri/eve-online-tools/internal/cache"
	"github.com/sanri/eve-online-tools/internal/core"
	"github.com/sanri/eve-online-tools/internal/log"
	"github.com/sanri/eve-online-tools/internal/report"
)

// ReportStore is the slice of the repository the report path needs.
type ReportStore interface {
	core.Resolver
	JournalEntriesInRange(ctx context.Context, period core.Period) ([]core.JournalEntry, error)
	CharacterName(ctx context.Context, characterID int64) (string, error)
	CorporationName(ctx context.Context, corporationID int64) (string, error)
	UserIDs(ctx context.Context) ([]int32, error)
	UserMainCharacterName(ctx context.Context, userID int32) (string, error)
	TaxableFlags(ctx context.Context, userID int32, period core.Period) (core.TaxableFlags, error)
	TaxParameters(ctx context.Context, period core.Period) (core.TaxParameters, error)
	UserPapScore(ctx context.Context, userID int32, period core.Period) (int64, error)
	PaidAmount(ctx context.Context, userID int32, period core.Period) (core.Money, error)
}

// ReportService assembles the journal and tax views from stored data. It is
// read-only and synchronous: every number in a report comes from the same
// storage snapshot the caller sees.
type ReportService struct {
	store      ReportStore
	classifier *core.Classifier
	names      *cache.LRU[core.ActorRef, string]
	logger     *log.Logger
}

func NewReportService(store ReportStore, cfg core.ClassifierConfig, logger *log.Logger) *ReportService {
	return &ReportService{
		store:      store,
		classifier: core.NewClassifier(store, cfg),
		names:      cache.NewLRU[core.ActorRef, string](10000, time.Hour),
		logger:     logger.WithComponent(log.ComponentReport),
	}
}

// JournalRows renders the ledger for [start, end] with each entry
// attributed to a named actor. Entries the classifier cannot attribute keep
// an empty party name; a per-entry classification defect is logged, never
// fatal to the report.
func (s *ReportService) JournalRows(ctx context.Context, start, end core.Period) ([]report.JournalRow, error) {
	periods, err := core.PeriodRange(start, end)
	if err != nil {
		return nil, err
	}

	var rows []report.JournalRow
	for period := range periods {
		entries, err := s.store.JournalEntriesInRange(ctx, period)
		if err != nil {
			return nil, fmt.Errorf("load entries for %s: %w", period, err)
		}

		for _, entry := range entries {
			row := report.JournalRow{
				Date:        entry.Date,
				RefType:     entry.RefType,
				Amount:      entry.SignedAmount(),
				Description: entry.Description,
			}
			if entry.Balance != nil {
				row.Balance = *entry.Balance
			}

			actor, _, err := s.classifier.Classify(ctx, entry)
			if err != nil {
				s.logger.WarnContext(ctx, "Entry could not be classified",
					log.FieldEntryID, entry.ID,
					log.FieldRefType, entry.RefType.String(),
					log.FieldError, err)
			} else if actor != nil {
				row.PartyName, err = s.actorName(ctx, *actor)
				if err != nil {
					return nil, err
				}
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// actorName looks up the display name, memoized per actor: the same few
// parties show up on most ledger lines. An actor the directory no longer
// knows renders as empty rather than failing the report.
func (s *ReportService) actorName(ctx context.Context, actor core.ActorRef) (string, error) {
	if name, ok := s.names.Get(actor); ok {
		return name, nil
	}

	var name string
	var err error
	switch actor.Kind {
	case core.ActorCharacter:
		name, err = s.store.CharacterName(ctx, actor.ID)
	case core.ActorCorporation:
		name, err = s.store.CorporationName(ctx, actor.ID)
	default:
		return "", nil
	}
	if errors.Is(err, core.ErrNotFound) {
		name = ""
	} else if err != nil {
		return "", fmt.Errorf("name of %s %d: %w", actor.Kind, actor.ID, err)
	}

	s.names.Set(actor, name)
	return name, nil
}

// TaxRow assesses one user over [start, end]: per-month charges plus the
// cumulative unpaid balance.
func (s *ReportService) TaxRow(ctx context.Context, userID int32, start, end core.Period) (report.TaxRow, error) {
	name, err := s.store.UserMainCharacterName(ctx, userID)
	if err != nil {
		return report.TaxRow{}, fmt.Errorf("display name of user %d: %w", userID, err)
	}

	periods, err := core.PeriodRange(start, end)
	if err != nil {
		return report.TaxRow{}, err
	}

	var charges []core.PeriodCharge
	for period := range periods {
		charge, err := s.periodCharge(ctx, userID, period)
		if err != nil {
			return report.TaxRow{}, err
		}
		charges = append(charges, charge)
	}

	unpaid, err := core.UnpaidTotal(charges)
	if err != nil {
		return report.TaxRow{}, fmt.Errorf("unpaid total of user %d: %w", userID, err)
	}

	return report.TaxRow{
		MainCharacterName: name,
		Unpaid:            unpaid,
		Months:            charges,
	}, nil
}

func (s *ReportService) periodCharge(ctx context.Context, userID int32, period core.Period) (core.PeriodCharge, error) {
	charge := core.PeriodCharge{Period: period}

	flags, err := s.store.TaxableFlags(ctx, userID, period)
	if err != nil {
		return charge, fmt.Errorf("flags of user %d in %s: %w", userID, period, err)
	}

	// Untaxed users skip the parameter lookup entirely, so periods without
	// parameters stay reportable as long as nobody is taxed in them.
	if flags.PollTax || flags.PapTax {
		params, err := s.store.TaxParameters(ctx, period)
		if errors.Is(err, core.ErrNotFound) {
			return charge, fmt.Errorf("assess user %d in %s: %w", userID, period, core.ErrMissingTaxParameters)
		}
		if err != nil {
			return charge, fmt.Errorf("parameters for %s: %w", period, err)
		}

		var score int64
		if flags.PapTax {
			score, err = s.store.UserPapScore(ctx, userID, period)
			if err != nil {
				return charge, fmt.Errorf("score of user %d in %s: %w", userID, period, err)
			}
		}

		liability, err := core.ComputeLiability(params, flags, score)
		if err != nil {
			return charge, fmt.Errorf("assess user %d in %s: %w", userID, period, err)
		}
		charge.PollTax = liability.PollTax
		charge.PapTax = liability.PapTax
	}

	paid, err := s.store.PaidAmount(ctx, userID, period)
	if err != nil {
		return charge, fmt.Errorf("paid amount of user %d in %s: %w", userID, period, err)
	}
	charge.Paid = paid
	return charge, nil
}

// TaxSummary assesses every registered user over [start, end], in user id
// order.
func (s *ReportService) TaxSummary(ctx context.Context, start, end core.Period) ([]report.TaxRow, error) {
	userIDs, err := s.store.UserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	rows := make([]report.TaxRow, 0, len(userIDs))
	for _, userID := range userIDs {
		row, err := s.TaxRow(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	s.logger.InfoContext(ctx, "Tax summary assembled",
		log.FieldPeriod, fmt.Sprintf("%s..%s", start, end),
		log.FieldCount, len(rows))
	return rows, nil
}
