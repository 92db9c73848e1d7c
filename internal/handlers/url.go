package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/dvsilva/shortr/internal/analytics"
	"github.com/dvsilva/shortr/internal/messaging"
	"github.com/dvsilva/shortr/internal/ratelimit"
	"github.com/dvsilva/shortr/internal/shorturl"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service        *shorturl.Service
	publishCreated messaging.Publish[analytics.URLCreatedEvent]
	publishVisited messaging.Publish[analytics.URLVisitedEvent]
	logger         *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	service *shorturl.Service,
	publishCreated messaging.Publish[analytics.URLCreatedEvent],
	publishVisited messaging.Publish[analytics.URLVisitedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:        service,
		publishCreated: publishCreated,
		publishVisited: publishVisited,
		logger:         logger,
	}
}

// Shorten creates a short URL for the request body's original URL.
func (h *URLHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	meta := RequestMetaFromContext(ctx)

	result, err := h.service.Shorten(ctx, shorturl.ShortenInput{
		OriginalURL: req.Body.OriginalURL,
		CustomAlias: req.Body.CustomAlias,
		ExpiresAt:   req.Body.Expiration,
		ClientID:    meta.ClientIP,
	})
	if err != nil {
		switch {
		case errors.Is(err, ratelimit.ErrLimitExceeded):
			return nil, huma.Error429TooManyRequests("rate limit exceeded, try again later")
		case errors.Is(err, shorturl.ErrAliasTaken):
			return nil, huma.Error409Conflict("custom alias already exists")
		case errors.Is(err, shorturl.ErrInvalidURL):
			return nil, huma.Error400BadRequest("originalUrl must be a valid URL")
		default:
			h.logger.Error("shorten failed", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to shorten url")
		}
	}

	record := result.Record

	event := &analytics.URLCreatedEvent{
		Code:        string(record.Code),
		OriginalURL: record.OriginalURL,
		CustomAlias: req.Body.CustomAlias != "",
		ExpiresAt:   record.ExpiresAt,
		CreatedAt:   record.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &ShortenResponse{}
	resp.Headers.Location = result.ShortURL
	resp.Body.ShortURL = result.ShortURL

	return resp, nil
}

// Redirect resolves a short code and redirects to the original URL, recording
// the visit.
func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)

	result, err := h.service.Resolve(ctx, shorturl.Code(req.Code), shorturl.Visit{
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	})
	if err != nil {
		return nil, mapLookupError(h.logger, req.Code, err)
	}

	event := &analytics.URLVisitedEvent{
		Code:      req.Code,
		VisitedAt: h.entryTime(result.Entry),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
		Location:  result.Entry.Location,
		Browser:   result.Entry.Browser,
	}

	if err := h.publishVisited(event); err != nil {
		h.logger.Error("failed to publish visit event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	// Temporary redirect: clients must come back through the service so
	// every visit is counted.
	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = result.OriginalURL

	return resp, nil
}

// Stats returns the full record for a short code.
func (h *URLHandler) Stats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	record, err := h.service.Stats(ctx, shorturl.Code(req.Code))
	if err != nil {
		return nil, mapLookupError(h.logger, req.Code, err)
	}

	resp := &StatsResponse{}
	resp.Body.ShortCode = string(record.Code)
	resp.Body.OriginalURL = record.OriginalURL
	resp.Body.HitCount = record.Hits
	resp.Body.ExpiresAt = record.ExpiresAt
	resp.Body.CreatedAt = record.CreatedAt
	resp.Body.Analytics = record.Analytics

	return resp, nil
}

func mapLookupError(logger *zap.Logger, code string, err error) error {
	switch {
	case errors.Is(err, shorturl.ErrNotFound), errors.Is(err, shorturl.ErrExpired):
		return huma.Error404NotFound("short url not found")
	default:
		logger.Error("lookup failed", zap.String("code", code), zap.Error(err))

		return huma.Error500InternalServerError("failed to get url")
	}
}

func (h *URLHandler) entryTime(entry shorturl.AnalyticsEntry) time.Time {
	t, err := time.Parse(time.RFC3339, entry.Timestamp)
	if err != nil {
		return time.Now()
	}

	return t
}
