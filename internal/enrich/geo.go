package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultGeoEndpoint is the ip-api.com JSON endpoint.
const DefaultGeoEndpoint = "http://ip-api.com/json"

const (
	lookupTimeout   = 2 * time.Second
	defaultCacheTTL = time.Hour
)

type geoCacheItem struct {
	location string
	expires  time.Time
}

// IPAPILocator resolves client IPs to "City, Region, Country" strings using
// the ip-api.com JSON API. Results are cached per IP for a fixed TTL, and the
// outbound call is bounded by a timeout so a slow upstream cannot stall a
// redirect. Any failure resolves to the empty string.
type IPAPILocator struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger

	mu    sync.Mutex
	cache map[string]geoCacheItem
	ttl   time.Duration
}

// NewIPAPILocator creates a locator against the given endpoint (the base URL,
// without a trailing slash or IP segment).
func NewIPAPILocator(endpoint string, logger *zap.Logger) *IPAPILocator {
	return &IPAPILocator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: lookupTimeout},
		logger:   logger,
		cache:    make(map[string]geoCacheItem),
		ttl:      defaultCacheTTL,
	}
}

type ipAPIResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	City       string `json:"city"`
	RegionName string `json:"regionName"`
	Country    string `json:"country"`
}

// Locate resolves ip to a location string. Loopback addresses resolve to
// "Localhost" without a network call. Lookup failures, non-success statuses,
// and timeouts all resolve to "".
func (l *IPAPILocator) Locate(ctx context.Context, ip string) string {
	if ip == "::1" || ip == "127.0.0.1" {
		return "Localhost"
	}

	if ip == "" {
		return ""
	}

	now := time.Now()

	l.mu.Lock()
	if item, ok := l.cache[ip]; ok && now.Before(item.expires) {
		l.mu.Unlock()

		return item.location
	}
	l.mu.Unlock()

	location := l.lookup(ctx, ip)
	if location == "" {
		return ""
	}

	l.mu.Lock()
	l.cache[ip] = geoCacheItem{location: location, expires: now.Add(l.ttl)}
	l.mu.Unlock()

	return location
}

func (l *IPAPILocator) lookup(ctx context.Context, ip string) string {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint+"/"+ip, nil)
	if err != nil {
		return ""
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Debug("geo lookup failed", zap.String("ip", ip), zap.Error(err))

		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var out ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ""
	}

	if out.Status != "success" {
		l.logger.Debug("geo lookup rejected",
			zap.String("ip", ip),
			zap.String("message", out.Message),
		)

		return ""
	}

	return fmt.Sprintf("%s, %s, %s", out.City, out.RegionName, out.Country)
}
