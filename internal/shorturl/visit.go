package shorturl

import (
	"context"
	"time"

	"github.com/dvsilva/shortr/internal/enrich"
	"go.uber.org/zap"
)

// Locator resolves an IP address to a coarse location. An empty result means
// the lookup failed or was inconclusive; it never fails the caller.
type Locator interface {
	Locate(ctx context.Context, ip string) string
}

// UnknownLocation is recorded when the locator cannot resolve an address.
const UnknownLocation = "Unknown"

// Visit describes one inbound redirect request.
type Visit struct {
	ClientIP  string
	UserAgent string
}

// VisitResult carries the redirect target and the analytics entry that was
// appended for the visit.
type VisitResult struct {
	OriginalURL string
	Entry       AnalyticsEntry
}

// VisitRecorder performs the per-redirect record update: lazy expiration,
// hit increment, and analytics append.
//
// Fetch and update are separate store operations. The expiration check races
// with concurrent resolves of the same code; the update itself goes through
// Repository.Mutate, so hit counts and analytics appends are not lost between
// concurrent visitors.
type VisitRecorder struct {
	repo    Repository
	locator Locator
	now     func() time.Time
	logger  *zap.Logger
}

// NewVisitRecorder creates a visit recorder.
func NewVisitRecorder(repo Repository, locator Locator, logger *zap.Logger) *VisitRecorder {
	return &VisitRecorder{
		repo:    repo,
		locator: locator,
		now:     time.Now,
		logger:  logger,
	}
}

// Record resolves code for a visit: it returns the original URL and appends
// one analytics entry, incrementing the hit count in the same update.
//
// An absent code fails with ErrNotFound. An expired record is deleted and
// fails with ErrExpired; the next resolve of the same code sees ErrNotFound.
// Location lookup and user-agent classification are best effort and fall back
// to sentinel values.
func (r *VisitRecorder) Record(ctx context.Context, code Code, visit Visit) (*VisitResult, error) {
	record, err := r.repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	now := r.now()

	if record.Expired(now) {
		if err := r.repo.Delete(ctx, code); err != nil {
			r.logger.Error("failed to delete expired record",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}

		return nil, ErrExpired
	}

	entry := AnalyticsEntry{
		Timestamp: now.UTC().Format(time.RFC3339),
		Location:  r.locate(ctx, visit.ClientIP),
		Browser:   enrich.Browser(visit.UserAgent),
	}

	updated, err := r.repo.Mutate(ctx, code, func(rec *Record) error {
		rec.Hits++
		rec.Analytics = append(rec.Analytics, entry)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &VisitResult{
		OriginalURL: updated.OriginalURL,
		Entry:       entry,
	}, nil
}

func (r *VisitRecorder) locate(ctx context.Context, ip string) string {
	location := r.locator.Locate(ctx, ip)
	if location == "" {
		return UnknownLocation
	}

	return location
}
