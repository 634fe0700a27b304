package services

import (
	"context"
	"fmt"

	"github.com/sanri/eve-online-tools/internal/core"
	"github.com/sanri/eve-online-tools/internal/esi"
	"github.com/sanri/eve-online-tools/internal/log"
)

// DirectorySource is the upstream public-record feed: character and
// corporation lookups plus portrait downloads.
type DirectorySource interface {
	CharacterInfo(ctx context.Context, id int64) (*esi.CharacterInfo, error)
	CorporationInfo(ctx context.Context, id int64) (*esi.CorporationInfo, error)
	CharacterPortraits(ctx context.Context, id int64) (*esi.PortraitURLs, error)
	FetchPortraits(ctx context.Context, urls esi.PortraitURLs) (*esi.Portraits, error)
}

// DirectoryStore is the slice of the repository the directory path needs.
type DirectoryStore interface {
	AllPartyIDs(ctx context.Context, excluded []int64) ([]int64, error)
	Resolve(ctx context.Context, id int64) (core.ActorKind, error)
	InsertCharacter(ctx context.Context, c core.Character) error
	UpdateCharacter(ctx context.Context, c core.Character) error
	InsertCorporation(ctx context.Context, c core.Corporation) error
	UpdateCorporation(ctx context.Context, c core.Corporation) error
}

// DirectoryService fills the actor directory from upstream public records.
type DirectoryService struct {
	source   DirectorySource
	store    DirectoryStore
	excluded []int64
	logger   *log.Logger
}

func NewDirectoryService(source DirectorySource, store DirectoryStore, excluded []int64, logger *log.Logger) *DirectoryService {
	return &DirectoryService{
		source:   source,
		store:    store,
		excluded: excluded,
		logger:   logger.WithComponent(log.ComponentDirectory),
	}
}

// ResolveUnknown scans the ledger for party ids the directory does not know
// and resolves each one. Ids that are neither character nor corporation are
// reported and skipped, never fatal.
func (s *DirectoryService) ResolveUnknown(ctx context.Context) (int, error) {
	ids, err := s.store.AllPartyIDs(ctx, s.excluded)
	if err != nil {
		return 0, fmt.Errorf("list party ids: %w", err)
	}

	resolved := 0
	var unresolvable []int64
	for _, id := range ids {
		kind, err := s.store.Resolve(ctx, id)
		if err != nil {
			return resolved, fmt.Errorf("directory lookup %d: %w", id, err)
		}
		if kind != core.ActorUnknown {
			continue
		}

		ok, err := s.resolveNew(ctx, id)
		if err != nil {
			return resolved, err
		}
		if ok {
			resolved++
		} else {
			unresolvable = append(unresolvable, id)
		}
	}

	if len(unresolvable) > 0 {
		s.logger.WarnContext(ctx, "Some party ids resolve to neither registry",
			log.FieldCount, len(unresolvable), "ids", unresolvable)
	}
	s.logger.InfoContext(ctx, "Directory scan complete", log.FieldCount, resolved)
	return resolved, nil
}

// ResolveParty resolves one party id into the directory. An id the
// directory already knows is a no-op, so redelivered messages are harmless.
func (s *DirectoryService) ResolveParty(ctx context.Context, id int64) error {
	kind, err := s.store.Resolve(ctx, id)
	if err != nil {
		return fmt.Errorf("directory lookup %d: %w", id, err)
	}
	if kind != core.ActorUnknown {
		return nil
	}

	ok, err := s.resolveNew(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.WarnContext(ctx, "Party id resolves to neither registry", log.FieldPartyID, id)
	}
	return nil
}

// resolveNew tries character first, then corporation. It reports whether
// the id landed in either registry.
func (s *DirectoryService) resolveNew(ctx context.Context, id int64) (bool, error) {
	character, err := s.fetchCharacter(ctx, id)
	if err != nil {
		return false, err
	}
	if character != nil {
		if err := s.store.InsertCharacter(ctx, *character); err != nil {
			return false, fmt.Errorf("store character %d: %w", id, err)
		}
		s.logger.InfoContext(ctx, "Inserted character",
			log.FieldCharacterID, id, "name", character.Name)
		return true, nil
	}

	info, err := s.source.CorporationInfo(ctx, id)
	if err != nil {
		return false, fmt.Errorf("corporation info %d: %w", id, err)
	}
	if info != nil {
		corp := corporationFromInfo(id, info)
		if err := s.store.InsertCorporation(ctx, corp); err != nil {
			return false, fmt.Errorf("store corporation %d: %w", id, err)
		}
		s.logger.InfoContext(ctx, "Inserted corporation",
			log.FieldCorporationID, id, "name", corp.Name)
		return true, nil
	}

	return false, nil
}

// RefreshCharacter re-fetches one character's public record and portraits,
// updating the stored row (or inserting it when absent). Unlike ResolveParty
// this fails when the id is not a character.
func (s *DirectoryService) RefreshCharacter(ctx context.Context, id int64) error {
	character, err := s.fetchCharacter(ctx, id)
	if err != nil {
		return err
	}
	if character == nil {
		return fmt.Errorf("refresh character %d: %w", id, core.ErrNotFound)
	}

	kind, err := s.store.Resolve(ctx, id)
	if err != nil {
		return fmt.Errorf("directory lookup %d: %w", id, err)
	}
	if kind == core.ActorCharacter {
		if err := s.store.UpdateCharacter(ctx, *character); err != nil {
			return fmt.Errorf("update character %d: %w", id, err)
		}
		s.logger.InfoContext(ctx, "Updated character", log.FieldCharacterID, id, "name", character.Name)
		return nil
	}
	if err := s.store.InsertCharacter(ctx, *character); err != nil {
		return fmt.Errorf("store character %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Inserted character", log.FieldCharacterID, id, "name", character.Name)
	return nil
}

// RefreshCorporation re-fetches one corporation's public record. Fails when
// the id is not a corporation.
func (s *DirectoryService) RefreshCorporation(ctx context.Context, id int64) error {
	info, err := s.source.CorporationInfo(ctx, id)
	if err != nil {
		return fmt.Errorf("corporation info %d: %w", id, err)
	}
	if info == nil {
		return fmt.Errorf("refresh corporation %d: %w", id, core.ErrNotFound)
	}

	corp := corporationFromInfo(id, info)
	kind, err := s.store.Resolve(ctx, id)
	if err != nil {
		return fmt.Errorf("directory lookup %d: %w", id, err)
	}
	if kind == core.ActorCorporation {
		if err := s.store.UpdateCorporation(ctx, corp); err != nil {
			return fmt.Errorf("update corporation %d: %w", id, err)
		}
		s.logger.InfoContext(ctx, "Updated corporation", log.FieldCorporationID, id, "name", corp.Name)
		return nil
	}
	if err := s.store.InsertCorporation(ctx, corp); err != nil {
		return fmt.Errorf("store corporation %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Inserted corporation", log.FieldCorporationID, id, "name", corp.Name)
	return nil
}

// fetchCharacter returns nil when the id is not a character.
func (s *DirectoryService) fetchCharacter(ctx context.Context, id int64) (*core.Character, error) {
	info, err := s.source.CharacterInfo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("character info %d: %w", id, err)
	}
	if info == nil {
		return nil, nil
	}

	urls, err := s.source.CharacterPortraits(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("portrait urls %d: %w", id, err)
	}
	portraits, err := s.source.FetchPortraits(ctx, *urls)
	if err != nil {
		return nil, fmt.Errorf("fetch portraits %d: %w", id, err)
	}

	return &core.Character{
		CharacterID:   id,
		Name:          info.Name,
		CorporationID: info.CorporationID,
		AllianceID:    info.AllianceID,
		Birthday:      info.Birthday,
		Portrait64:    portraits.Px64,
		Portrait128:   portraits.Px128,
		Portrait256:   portraits.Px256,
		Portrait512:   portraits.Px512,
	}, nil
}

func corporationFromInfo(id int64, info *esi.CorporationInfo) core.Corporation {
	return core.Corporation{
		CorporationID: id,
		Name:          info.Name,
		Ticker:        info.Ticker,
		DateFounded:   info.DateFounded,
		Description:   info.Description,
	}
}
