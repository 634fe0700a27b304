package worker

import (
	"context"
	"fmt"

	"github.com/sanri/eve-online-tools/internal/amqp"
	"github.com/sanri/eve-online-tools/internal/log"
)

// PartyResolver is the directory service surface the worker drives.
type PartyResolver interface {
	ResolveParty(ctx context.Context, id int64) error
	ResolveUnknown(ctx context.Context) (int, error)
}

// DirectoryWorker consumes party resolve requests and runs the periodic
// backup scan that catches requests lost in transit.
type DirectoryWorker struct {
	resolver PartyResolver
	logger   *log.Logger
}

func NewDirectoryWorker(resolver PartyResolver, logger *log.Logger) *DirectoryWorker {
	return &DirectoryWorker{
		resolver: resolver,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleResolveMessage resolves the single party id a queue message names.
// Errors propagate so the consumer can requeue the delivery.
func (w *DirectoryWorker) HandleResolveMessage(ctx context.Context, msg *amqp.PartyResolveMessage) error {
	w.logger.InfoContext(ctx, "Processing resolve message",
		log.FieldPartyID, msg.PartyID,
		"timestamp", msg.Timestamp)

	if err := w.resolver.ResolveParty(ctx, msg.PartyID); err != nil {
		return fmt.Errorf("resolve party %d: %w", msg.PartyID, err)
	}
	return nil
}

// ProcessUnknownParties sweeps the ledger for unresolved party ids. This is
// the backup mechanism in case queue messages are lost.
func (w *DirectoryWorker) ProcessUnknownParties(ctx context.Context) error {
	resolved, err := w.resolver.ResolveUnknown(ctx)
	if err != nil {
		return fmt.Errorf("scan unknown parties: %w", err)
	}
	if resolved > 0 {
		w.logger.InfoContext(ctx, "Backup scan resolved parties", log.FieldCount, resolved)
	}
	return nil
}

// StartupCheck runs one sweep before consuming, so gaps accumulated during
// worker downtime are closed first.
func (w *DirectoryWorker) StartupCheck(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Running startup directory check", log.FieldOperation, log.OpStartup)
	if err := w.ProcessUnknownParties(ctx); err != nil {
		return fmt.Errorf("startup directory check: %w", err)
	}
	return nil
}
