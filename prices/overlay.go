// Package prices maintains the per-route day-price overlay shown inside the
// calendar, plus the client that fetches it.
package prices

import (
	"context"
	"sync"

	"github.com/manzoomehweb/bookingcal/pkg/logger"
)

// Fetcher loads the ISO-date -> price map for one lookup key.
type Fetcher func(ctx context.Context) (map[string]float64, error)

// Key builds an overlay key from the two location identifiers.
func Key(originID, destinationID string) string {
	return originID + "_" + destinationID
}

// Overlay holds day prices for at most one active route key. Changing the key
// discards the previous map immediately; a fetch that completes after its key
// was superseded is dropped at the continuation point, so rapid route
// switching can never paint stale prices.
type Overlay struct {
	mu      sync.Mutex
	active  string
	prices  map[string]float64
	loading bool
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Ensure makes the overlay track key. A populated map for the same key, or an
// in-flight fetch for it, makes this a no-op. Otherwise the previous map is
// discarded, the loading flag is raised and the fetch runs in the background;
// fetch errors clear the overlay and are only logged.
func (o *Overlay) Ensure(ctx context.Context, key string, fetch Fetcher) {
	o.mu.Lock()
	if key == o.active && (o.loading || len(o.prices) > 0) {
		o.mu.Unlock()
		return
	}
	o.active = key
	o.prices = nil
	o.loading = true
	o.mu.Unlock()

	go func() {
		result, err := fetch(ctx)

		o.mu.Lock()
		defer o.mu.Unlock()
		if o.active != key {
			logger.Debug("discarding superseded price lookup", "key", key, "active", o.active)
			return
		}
		o.loading = false
		if err != nil {
			logger.Warn("price lookup failed, overlay disabled for this route", "key", key, "error", err)
			o.prices = nil
			return
		}
		o.prices = result
	}()
}

// Get returns the price hint for a Gregorian ISO date, if known.
func (o *Overlay) Get(isoDate string) (float64, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.prices[isoDate]
	return p, ok
}

// Loading reports whether a fetch for the active key is still in flight. The
// presentation layer uses this to show a spinner instead of empty cells.
func (o *Overlay) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

// ActiveKey returns the key the overlay currently tracks.
func (o *Overlay) ActiveKey() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Clear drops the map, the active key and the loading flag.
func (o *Overlay) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = ""
	o.prices = nil
	o.loading = false
}
