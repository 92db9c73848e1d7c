package analytics

import "time"

// Topics for the analytics event stream.
const (
	TopicURLCreated = "url.created"
	TopicURLVisited = "url.visited"
)

// URLCreatedEvent is emitted when a URL is shortened.
type URLCreatedEvent struct {
	Code        string     `json:"code"`
	OriginalURL string     `json:"originalUrl"`
	CustomAlias bool       `json:"customAlias"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	ClientIP    string     `json:"clientIp"`
	UserAgent   string     `json:"userAgent"`
}

// URLVisitedEvent is emitted for each successful resolve, carrying the same
// enrichment that was appended to the record's analytics list.
type URLVisitedEvent struct {
	Code      string    `json:"code"`
	VisitedAt time.Time `json:"visitedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer,omitempty"`
	Location  string    `json:"location"`
	Browser   string    `json:"browser"`
}
