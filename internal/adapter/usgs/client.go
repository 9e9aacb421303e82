// Package usgs implements the feed source over the USGS FDSN event web
// service. It owns the wire exchange and payload decoding only; ordering and
// deduplication of the returned batch are the watcher's responsibility.
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-watch/internal/domain"
)

// RawSink receives a copy of each raw response body, append-only. Rotation
// and size bounds are the sink's concern, not the client's.
type RawSink interface {
	Append(p []byte) error
}

// Client fetches event batches from the feed.
type Client struct {
	endpoint   string
	httpClient *http.Client
	raw        RawSink
	logger     *slog.Logger
}

// NewClient creates a feed client. raw may be nil to disable the raw
// response side channel. The timeout bounds the whole request so a hung
// call cannot stall shutdown.
func NewClient(endpoint string, timeout time.Duration, raw RawSink, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		raw:    raw,
		logger: logger,
	}
}

// Fetch queries the feed for events in the window at or above minMagnitude.
// The returned batch is in feed order, which carries no time guarantee.
// Failures are classified as domain.TransportError, domain.ServerError, or
// domain.ParseError.
func (c *Client) Fetch(ctx context.Context, window domain.QueryWindow, minMagnitude float64) ([]domain.Event, error) {
	params := url.Values{
		"format":       {"geojson"},
		"starttime":    {window.StartDate()},
		"endtime":      {window.EndDate()},
		"minmagnitude": {strconv.FormatFloat(minMagnitude, 'f', -1, 64)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ServerError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	if c.raw != nil {
		if err := c.raw.Append(body); err != nil {
			c.logger.Warn("raw sink append failed", "error", err)
		}
	}

	return parseFeed(body)
}

func parseFeed(body []byte) ([]domain.Event, error) {
	var payload feedResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ParseError{Reason: err.Error()}
	}
	if payload.Features == nil {
		return nil, &domain.ParseError{Reason: "missing features"}
	}

	events := make([]domain.Event, 0, len(payload.Features))
	for i, f := range payload.Features {
		if f.Properties == nil {
			return nil, &domain.ParseError{Reason: fmt.Sprintf("feature %d: missing properties", i)}
		}
		if f.Properties.Mag == nil {
			return nil, &domain.ParseError{Reason: fmt.Sprintf("feature %d: missing properties.mag", i)}
		}
		if f.Properties.Place == nil {
			return nil, &domain.ParseError{Reason: fmt.Sprintf("feature %d: missing properties.place", i)}
		}
		if f.Properties.Time == nil {
			return nil, &domain.ParseError{Reason: fmt.Sprintf("feature %d: missing properties.time", i)}
		}
		if f.Geometry == nil || len(f.Geometry.Coordinates) < 3 {
			return nil, &domain.ParseError{Reason: fmt.Sprintf("feature %d: geometry.coordinates must be [lon, lat, depth]", i)}
		}

		coords := f.Geometry.Coordinates
		events = append(events, domain.NewEvent(
			*f.Properties.Mag,
			*f.Properties.Place,
			*f.Properties.Time,
			coords[1], // latitude
			coords[0], // longitude
			coords[2], // depth km
		))
	}

	return events, nil
}

// Feed GeoJSON response types. Pointer fields distinguish absent from zero.

type feedResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties *properties `json:"properties"`
	Geometry   *geometry   `json:"geometry"`
}

type properties struct {
	Mag   *float64 `json:"mag"`
	Place *string  `json:"place"`
	Time  *int64   `json:"time"` // epoch milliseconds
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}
