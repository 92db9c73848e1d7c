package shorturl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvsilva/shortr/internal/ratelimit"
	"go.uber.org/zap"
)

// ShortenInput is everything a shorten request carries.
type ShortenInput struct {
	OriginalURL string
	CustomAlias string
	ExpiresAt   *time.Time
	ClientID    string
}

// ShortenResult is the outcome of a successful shorten.
type ShortenResult struct {
	Record   *Record
	ShortURL string
}

// Service orchestrates rate limiting, code allocation, and record storage for
// the shorten, resolve, and stats operations.
type Service struct {
	repo      Repository
	limiter   ratelimit.Limiter
	allocator *Allocator
	visits    *VisitRecorder
	baseURL   string
	now       func() time.Time
	logger    *zap.Logger
}

// NewService creates the shortening service. baseURL is the externally
// visible prefix full short URLs are built from.
func NewService(
	repo Repository,
	limiter ratelimit.Limiter,
	allocator *Allocator,
	visits *VisitRecorder,
	baseURL string,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		limiter:   limiter,
		allocator: allocator,
		visits:    visits,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
		logger:    logger,
	}
}

// Shorten creates a new short URL record for the client.
//
// The limiter runs first, so a rejected request's only side effect is its own
// counter increment. The original URL is scheme-normalized before any code is
// allocated. A generated code that loses the create race is redrawn; a custom
// alias that loses it surfaces ErrAliasTaken.
func (s *Service) Shorten(ctx context.Context, in ShortenInput) (*ShortenResult, error) {
	allowed, err := s.limiter.Allow(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	if !allowed {
		return nil, ratelimit.ErrLimitExceeded
	}

	originalURL, err := NormalizeOriginalURL(in.OriginalURL)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := s.allocator.Allocate(ctx, in.CustomAlias)
		if err != nil {
			return nil, err
		}

		record := NewRecord(code, originalURL, in.ExpiresAt, s.now())

		err = s.repo.Create(ctx, record)
		if err == nil {
			return &ShortenResult{
				Record:   record,
				ShortURL: fmt.Sprintf("%s/%s", s.baseURL, code),
			}, nil
		}

		if errors.Is(err, ErrAliasTaken) && in.CustomAlias == "" {
			s.logger.Debug("generated code collided, redrawing",
				zap.String("code", string(code)),
			)

			continue
		}

		return nil, err
	}

	return nil, ErrCodeExhausted
}

// Resolve returns the original URL for code and records the visit.
func (s *Service) Resolve(ctx context.Context, code Code, visit Visit) (*VisitResult, error) {
	return s.visits.Record(ctx, code, visit)
}

// Stats returns the full record for code.
//
// Expiration is honored the same way Resolve honors it: an expired record is
// deleted and reported as ErrNotFound rather than returned.
func (s *Service) Stats(ctx context.Context, code Code) (*Record, error) {
	record, err := s.repo.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if record.Expired(s.now()) {
		if err := s.repo.Delete(ctx, code); err != nil {
			s.logger.Error("failed to delete expired record",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}

		return nil, ErrNotFound
	}

	return record, nil
}
