package analytics

import "context"

// Store defines the interface for archiving analytics events.
type Store interface {
	SaveURLCreated(ctx context.Context, event *URLCreatedEvent) error
	SaveURLVisited(ctx context.Context, event *URLVisitedEvent) error
}
