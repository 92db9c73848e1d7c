package analytics

import (
	"context"

	"go.uber.org/zap"
)

// Archiver persists analytics events into a Store. Its handlers plug into
// messaging.Consumer instances, one per topic.
type Archiver struct {
	store  Store
	logger *zap.Logger
}

// NewArchiver creates a new event archiver.
func NewArchiver(store Store, logger *zap.Logger) *Archiver {
	return &Archiver{
		store:  store,
		logger: logger,
	}
}

// HandleURLCreated archives a creation event.
func (a *Archiver) HandleURLCreated(ctx context.Context, event *URLCreatedEvent) error {
	if err := a.store.SaveURLCreated(ctx, event); err != nil {
		return err
	}

	a.logger.Debug("archived url created event", zap.String("code", event.Code))

	return nil
}

// HandleURLVisited archives a visit event.
func (a *Archiver) HandleURLVisited(ctx context.Context, event *URLVisitedEvent) error {
	if err := a.store.SaveURLVisited(ctx, event); err != nil {
		return err
	}

	a.logger.Debug("archived url visited event", zap.String("code", event.Code))

	return nil
}
