package services

import (
	"context"
	"fmt"

	"github.com/sanri/eve-online-tools/internal/core"
	"github.com/sanri/eve-online-tools/internal/log"
)

// JournalSource is the upstream ledger feed, one page at a time. A nil
// page means past the end.
type JournalSource interface {
	WalletJournal(ctx context.Context, corporationID, division int64, page int) ([]core.JournalEntry, error)
}

// IngestStore is the slice of the repository the ingest path needs.
type IngestStore interface {
	HasJournalEntry(ctx context.Context, id int64) (bool, error)
	InsertJournalEntry(ctx context.Context, e core.JournalEntry) error
	Resolve(ctx context.Context, id int64) (core.ActorKind, error)
}

// ResolvePublisher enqueues party ids for the directory worker.
type ResolvePublisher interface {
	PublishPartyResolve(ctx context.Context, partyID int64) error
}

// IngestConfig identifies the wallet being synced.
type IngestConfig struct {
	CorporationID  int64
	WalletDivision int64
	PageLimit      int
	ExcludedIDs    []int64
}

// IngestService pulls the corporation wallet journal into local storage.
type IngestService struct {
	source    JournalSource
	store     IngestStore
	publisher ResolvePublisher // optional
	cfg       IngestConfig
	logger    *log.Logger
}

func NewIngestService(source JournalSource, store IngestStore, publisher ResolvePublisher, cfg IngestConfig, logger *log.Logger) *IngestService {
	return &IngestService{
		source:    source,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.WithComponent(log.ComponentIngest),
	}
}

// SyncWalletJournal pages through the upstream journal from page 1 until
// the feed reports the end (or the page limit trips). Entries already
// stored are skipped, so re-running is idempotent. Party ids of newly
// stored entries that the directory does not know yet are published for
// resolution, best effort.
func (s *IngestService) SyncWalletJournal(ctx context.Context) (int, error) {
	inserted := 0
	newParties := make(map[int64]struct{})

	for page := 1; page <= s.cfg.PageLimit; page++ {
		entries, err := s.source.WalletJournal(ctx, s.cfg.CorporationID, s.cfg.WalletDivision, page)
		if err != nil {
			return inserted, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if entries == nil {
			break
		}

		pageInserted := 0
		for _, entry := range entries {
			exists, err := s.store.HasJournalEntry(ctx, entry.ID)
			if err != nil {
				return inserted, fmt.Errorf("check entry %d: %w", entry.ID, err)
			}
			if exists {
				continue
			}
			if err := s.store.InsertJournalEntry(ctx, entry); err != nil {
				return inserted, fmt.Errorf("store entry %d: %w", entry.ID, err)
			}
			inserted++
			pageInserted++
			s.collectParties(entry, newParties)
		}

		s.logger.InfoContext(ctx, "Synced wallet journal page",
			log.FieldPage, page,
			log.FieldCount, pageInserted)
	}

	s.publishUnknownParties(ctx, newParties)

	s.logger.InfoContext(ctx, "Wallet journal sync complete",
		log.FieldCorporationID, s.cfg.CorporationID,
		log.FieldDivision, s.cfg.WalletDivision,
		log.FieldCount, inserted)
	return inserted, nil
}

func (s *IngestService) collectParties(entry core.JournalEntry, parties map[int64]struct{}) {
	for _, id := range []*int64{entry.FirstPartyID, entry.SecondPartyID} {
		if id == nil || s.excluded(*id) {
			continue
		}
		parties[*id] = struct{}{}
	}
}

// publishUnknownParties asks the worker to resolve directory gaps. Failures
// here never fail the sync; the worker's periodic scan catches stragglers.
func (s *IngestService) publishUnknownParties(ctx context.Context, parties map[int64]struct{}) {
	if s.publisher == nil || len(parties) == 0 {
		return
	}

	for id := range parties {
		kind, err := s.store.Resolve(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "Directory lookup failed",
				log.FieldPartyID, id, log.FieldError, err)
			continue
		}
		if kind != core.ActorUnknown {
			continue
		}
		if err := s.publisher.PublishPartyResolve(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish resolve request",
				log.FieldPartyID, id, log.FieldError, err)
		}
	}
}

func (s *IngestService) excluded(id int64) bool {
	for _, e := range s.cfg.ExcludedIDs {
		if e == id {
			return true
		}
	}
	return false
}
