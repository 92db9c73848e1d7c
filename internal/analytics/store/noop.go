package store

import (
	"context"

	"github.com/dvsilva/shortr/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs events. It backs the consumer
// when no Postgres archive is configured.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	n.logger.Info("url created event received",
		zap.String("code", event.Code),
		zap.String("originalUrl", event.OriginalURL),
		zap.Bool("customAlias", event.CustomAlias),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveURLVisited(_ context.Context, event *analytics.URLVisitedEvent) error {
	n.logger.Info("url visited event received",
		zap.String("code", event.Code),
		zap.Time("visitedAt", event.VisitedAt),
		zap.String("location", event.Location),
		zap.String("browser", event.Browser),
	)

	return nil
}
