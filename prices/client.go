package prices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/manzoomehweb/bookingcal/calendar"
	"github.com/manzoomehweb/bookingcal/pkg/cache"
	"github.com/manzoomehweb/bookingcal/pkg/logger"
)

// dateIDEpoch anchors the upstream's sequential day index: date_id 1 is
// Jalali 1369-01-01.
var dateIDEpoch = calendar.NewJalali(1369, 1, 1).Time()

// ISOFromDateID converts the upstream day index to a Gregorian ISO date.
func ISOFromDateID(id int) string {
	return dateIDEpoch.AddDate(0, 0, id-1).Format("2006-01-02")
}

// LookupRequest is the outbound body of a day-price lookup.
type LookupRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DMNID       string `json:"dmnid"`
}

// MinPrice accepts both shapes the upstream emits: a bare number and an
// object {"parsedValue": n}.
type MinPrice struct {
	Value float64
}

func (p *MinPrice) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		p.Value = n
		return nil
	}
	var obj struct {
		ParsedValue float64 `json:"parsedValue"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("min_price: unrecognized shape %s", data)
	}
	p.Value = obj.ParsedValue
	return nil
}

type lookupRecord struct {
	DateID   int      `json:"date_id"`
	MinPrice MinPrice `json:"min_price"`
}

// Client fetches day prices for a route. When a cache manager is configured,
// routes already looked up recently are served from redis without touching
// the upstream.
type Client struct {
	url    string
	dmnid  string
	http   *retryablehttp.Client
	shared *cache.Manager
}

// NewClient builds a lookup client. shared may be nil to disable the redis
// layer.
func NewClient(url, dmnid string, shared *cache.Manager) *Client {
	hc := retryablehttp.NewClient()
	hc.RetryMax = 2
	hc.Logger = nil
	hc.HTTPClient.Timeout = 20 * time.Second
	return &Client{url: url, dmnid: dmnid, http: hc, shared: shared}
}

// FetcherFor returns the Fetcher an Overlay should run for a route.
func (c *Client) FetcherFor(origin, destination string) Fetcher {
	return func(ctx context.Context) (map[string]float64, error) {
		return c.Lookup(ctx, origin, destination)
	}
}

// Lookup returns the ISO-date -> min price map for a route.
func (c *Client) Lookup(ctx context.Context, origin, destination string) (map[string]float64, error) {
	cacheKey := cache.PriceLookupKey(origin, destination)
	if c.shared != nil {
		var cached map[string]float64
		if err := c.shared.GetJSON(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		} else if err != cache.ErrCacheMiss {
			logger.Debug("price lookup cache read failed", "key", cacheKey, "error", err)
		}
	}

	result, err := c.fetch(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	if c.shared != nil {
		if err := c.shared.SetJSON(ctx, cacheKey, result, cache.PriceLookupTTL); err != nil {
			logger.Debug("price lookup cache write failed", "key", cacheKey, "error", err)
		}
	}
	return result, nil
}

func (c *Client) fetch(ctx context.Context, origin, destination string) (map[string]float64, error) {
	body, err := json.Marshal(LookupRequest{Origin: origin, Destination: destination, DMNID: c.dmnid})
	if err != nil {
		return nil, fmt.Errorf("price lookup: marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("price lookup: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price lookup: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price lookup: unexpected status %d", res.StatusCode)
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("price lookup: read body: %w", err)
	}

	var records []lookupRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("price lookup: decode: %w", err)
	}

	result := make(map[string]float64, len(records))
	for _, rec := range records {
		if rec.DateID < 1 {
			continue
		}
		result[ISOFromDateID(rec.DateID)] = rec.MinPrice.Value
	}
	return result, nil
}
