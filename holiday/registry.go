// Package holiday annotates Jalali calendar days with holiday names. The
// dataset is fetched once per picker session; a failed fetch degrades to "no
// holidays known" and never blocks rendering or selection.
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/manzoomehweb/bookingcal/pkg/logger"
)

// Dataset is the wire format of the holiday feed. Fixed entries recur every
// Jalali year and are keyed "M-D"; lunar entries follow a year-specific
// pattern and are keyed per year.
type Dataset struct {
	FixedHolidays map[string]string            `json:"fixedHolidays"`
	LunarHolidays map[string]map[string]string `json:"lunarHolidays"`
}

// Result is the answer to a point query.
type Result struct {
	IsHoliday bool   `json:"is_holiday"`
	Name      string `json:"name,omitempty"`
}

// Registry answers "(year, month, day) -> holiday or none" for Jalali dates.
// The dataset is installed at most once per session but the load runs in the
// background, so lookups that race it are guarded by the mutex; they simply
// answer "no holiday" until the install lands.
type Registry struct {
	mu    sync.RWMutex
	fixed map[string]string
	lunar map[string]map[string]string
}

// NewRegistry returns an empty registry. Lookups answer "no holiday" until a
// dataset is installed via Load or Install.
func NewRegistry() *Registry {
	return &Registry{}
}

// Install populates the registry from an already-decoded dataset.
func (r *Registry) Install(ds Dataset) {
	r.mu.Lock()
	r.fixed = ds.FixedHolidays
	r.lunar = ds.LunarHolidays
	r.mu.Unlock()
}

// Load fetches the dataset from the source and installs it. It reports false
// and leaves the registry empty on any failure; the error is logged, never
// returned, because a calendar without holiday marks is still usable.
func (r *Registry) Load(ctx context.Context, src Source) bool {
	ds, err := src.Fetch(ctx)
	if err != nil {
		logger.Warn("holiday dataset unavailable, rendering without annotations", "error", err)
		return false
	}
	r.Install(ds)
	return true
}

// Lookup returns the holiday annotation for a Jalali date. Fixed entries are
// consulted first; a lunar entry for the same day is never reached when a
// fixed one matches.
func (r *Registry) Lookup(year, month, day int) Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	md := strconv.Itoa(month) + "-" + strconv.Itoa(day)
	if name, ok := r.fixed[md]; ok {
		return Result{IsHoliday: true, Name: name}
	}
	if byDay, ok := r.lunar[strconv.Itoa(year)]; ok {
		if name, ok := byDay[md]; ok {
			return Result{IsHoliday: true, Name: name}
		}
	}
	return Result{}
}

// Source supplies holiday datasets.
type Source interface {
	Fetch(ctx context.Context) (Dataset, error)
}

// HTTPSource fetches the dataset JSON from a fixed URL.
type HTTPSource struct {
	URL    string
	client *retryablehttp.Client
}

// NewHTTPSource builds a source with sane retry defaults.
func NewHTTPSource(url string) *HTTPSource {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	return &HTTPSource{URL: url, client: client}
}

// Fetch downloads and decodes the dataset.
func (s *HTTPSource) Fetch(ctx context.Context) (Dataset, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Dataset{}, fmt.Errorf("holiday request: %w", err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return Dataset{}, fmt.Errorf("holiday fetch: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Dataset{}, fmt.Errorf("holiday fetch: unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Dataset{}, fmt.Errorf("holiday fetch: read body: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(body, &ds); err != nil {
		return Dataset{}, fmt.Errorf("holiday fetch: decode: %w", err)
	}
	return ds, nil
}
