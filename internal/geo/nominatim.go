// Package geo looks up places for activities through a Nominatim search
// endpoint.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint  = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "itinera/1.0"
	searchLimit      = 5
)

// ErrLookupFailed indicates the geocoder could not be reached or answered
// with an error status.
var ErrLookupFailed = errors.New("place lookup failed")

// Config configures the Nominatim client.
type Config struct {
	Endpoint  string
	UserAgent string
	// Interval is the minimum spacing between requests. Nominatim's usage
	// policy allows one request per second.
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultConfig returns the public Nominatim settings.
func DefaultConfig() Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		UserAgent: DefaultUserAgent,
		Interval:  time.Second,
		Timeout:   10 * time.Second,
	}
}

// LoadConfig reads ITINERA_GEOCODE_* variables over the defaults.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("ITINERA_GEOCODE_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("ITINERA_GEOCODE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("ITINERA_GEOCODE_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Interval = time.Duration(n) * time.Millisecond
		}
	}
	return cfg
}

// Geocoder resolves free-text queries to place candidates.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]domain.Place, error)
}

// Client is a rate-limited Nominatim search client. It is safe for
// concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client. A zero Interval disables rate limiting.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// searchResult is one entry of a Nominatim format=json answer. Coordinates
// arrive as strings.
type searchResult struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns up to five candidates for query. An empty query returns no
// candidates without contacting the server. Entries with unusable
// coordinates are skipped.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Place{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for geocoder slot: %w", err)
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("q", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrLookupFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrLookupFailed, err)
	}
	return toPlaces(results), nil
}

func toPlaces(results []searchResult) []domain.Place {
	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		lat, err := strconv.ParseFloat(strings.TrimSpace(r.Lat), 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(r.Lon), 64)
		if err != nil {
			continue
		}
		p := domain.Place{
			Name:    placeName(r),
			Lat:     lat,
			Lng:     lng,
			Address: strings.TrimSpace(r.DisplayName),
		}
		if p.Validate() != nil {
			continue
		}
		places = append(places, p)
	}
	return places
}

// placeName prefers the short name and falls back to the first component of
// the display name.
func placeName(r searchResult) string {
	if n := strings.TrimSpace(r.Name); n != "" {
		return n
	}
	first, _, _ := strings.Cut(r.DisplayName, ",")
	return strings.TrimSpace(first)
}
