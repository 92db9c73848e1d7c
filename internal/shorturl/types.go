package shorturl

import "time"

// Code is a short URL code.
type Code string

// AnalyticsEntry records one successful resolve. Entries are immutable once
// appended and keep insertion order.
type AnalyticsEntry struct {
	Timestamp string `json:"timestamp"`
	Location  string `json:"location"`
	Browser   string `json:"browser"`
}

// Record is the persisted state for one short code.
//
// Hits and Analytics only move together: Hits == len(Analytics) after any
// completed resolve. ExpiresAt in the past means the record is logically
// deleted; it is removed when the next read detects that.
type Record struct {
	Code        Code             `json:"shortCode"`
	OriginalURL string           `json:"originalUrl"`
	Hits        int64            `json:"hitCount"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	Analytics   []AnalyticsEntry `json:"analytics"`
}

// NewRecord creates a fresh record with zero hits and empty analytics.
func NewRecord(code Code, originalURL string, expiresAt *time.Time, now time.Time) *Record {
	return &Record{
		Code:        code,
		OriginalURL: originalURL,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		Analytics:   []AnalyticsEntry{},
	}
}

// Expired reports whether the record's expiration is strictly before now.
func (r *Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cp := *r

	if r.ExpiresAt != nil {
		t := *r.ExpiresAt
		cp.ExpiresAt = &t
	}

	cp.Analytics = make([]AnalyticsEntry, len(r.Analytics))
	copy(cp.Analytics, r.Analytics)

	return &cp
}
