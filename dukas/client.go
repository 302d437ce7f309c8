package dukas

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rustyeddy/fxsignal/market"
)

// DefaultBaseURL is Dukascopy's public datafeed endpoint.
const DefaultBaseURL = "https://datafeed.dukascopy.com/datafeed"

const (
	defaultTimeout = 30 * time.Second
	defaultPause   = 500 * time.Millisecond
	defaultWorkers = 4
)

// HourStatus classifies the outcome of fetching one hour.
type HourStatus int

const (
	// HourOK means a candle was produced.
	HourOK HourStatus = iota
	// HourMissing means the provider has no usable data for the hour:
	// a 404, an empty body, a corrupt blob or zero complete records.
	HourMissing
	// HourFailed means a transient fetch error: network failure,
	// timeout, or an unexpected HTTP status.
	HourFailed
)

func (s HourStatus) String() string {
	switch s {
	case HourOK:
		return "ok"
	case HourMissing:
		return "missing"
	case HourFailed:
		return "failed"
	}
	return "unknown"
}

// Options configures a Client. Zero values take the defaults above.
type Options struct {
	BaseURL string
	Timeout time.Duration // per-request timeout
	Pause   time.Duration // aggregate spacing between requests
	Workers int           // concurrent hourly fetches
}

// Client fetches hourly tick archives over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pause      time.Duration
	workers    int
}

// NewClient creates a Dukascopy datafeed client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Pause == 0 {
		opts.Pause = defaultPause
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		pause:      opts.Pause,
		workers:    opts.Workers,
	}
}

// URL builds the archive URL for one hour. Dukascopy uses a zero-based
// month in the path: Jan=00 ... Dec=11.
func (c *Client) URL(symbol string, t time.Time) string {
	return fmt.Sprintf("%s/%s/%04d/%02d/%02d/%02dh_ticks.bi5",
		c.baseURL, symbol, t.Year(), int(t.Month())-1, t.Day(), t.Hour())
}

// FetchHour downloads and decodes a single hour. The hour is truncated
// to its start. Failures never return an error to the caller; they
// degrade to a missing-candle status so a range fetch can continue.
func (c *Client) FetchHour(ctx context.Context, in market.Instrument, t time.Time) (market.Candle, HourStatus) {
	hourStart := t.UTC().Truncate(time.Hour)
	url := c.URL(in.Symbol, hourStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return market.Candle{}, HourFailed
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("fetch hour", "symbol", in.Symbol, "hour", hourStart, "error", err)
		return market.Candle{}, HourFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return market.Candle{}, HourMissing
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("fetch hour", "symbol", in.Symbol, "hour", hourStart, "status", resp.StatusCode)
		return market.Candle{}, HourFailed
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("fetch hour", "symbol", in.Symbol, "hour", hourStart, "error", err)
		return market.Candle{}, HourFailed
	}

	candle, ok := ParseHour(raw, in, hourStart)
	if !ok {
		// Corrupt archives are expected from this provider; skip, not alarm.
		slog.Debug("no usable ticks", "symbol", in.Symbol, "hour", hourStart)
		return market.Candle{}, HourMissing
	}
	return candle, HourOK
}
