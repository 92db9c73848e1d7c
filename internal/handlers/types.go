package handlers

import (
	"time"

	"github.com/dvsilva/shortr/internal/shorturl"
)

// ShortenRequest is the request body for creating a short URL.
type ShortenRequest struct {
	Body struct {
		OriginalURL string     `doc:"The URL to shorten; https:// is assumed when no scheme is given" example:"https://example.com/very/long/path" json:"originalUrl" required:"true"`
		CustomAlias string     `doc:"Optional custom short code"                                      example:"my-link"                              json:"customAlias,omitempty" required:"false"`
		Expiration  *time.Time `doc:"Optional expiration timestamp"                                   json:"expiration,omitempty"                    required:"false"`
	}
}

// ShortenResponse is the response for a successfully created short URL.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		ShortURL string `doc:"The full short URL" example:"http://localhost:8888/url/a1b2c3" json:"shortUrl"`
	}
}

// RedirectRequest is the request for resolving a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"a1b2c3" path:"code"`
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

// StatsRequest is the request for fetching a short URL's record.
type StatsRequest struct {
	Code string `doc:"The short code" example:"a1b2c3" path:"code"`
}

// StatsResponse returns the full record for a short code.
type StatsResponse struct {
	Body struct {
		ShortCode   string                    `json:"shortCode"`
		OriginalURL string                    `json:"originalUrl"`
		HitCount    int64                     `json:"hitCount"`
		ExpiresAt   *time.Time                `json:"expiresAt,omitempty"`
		CreatedAt   time.Time                 `json:"createdAt"`
		Analytics   []shorturl.AnalyticsEntry `json:"analytics"`
	}
}
