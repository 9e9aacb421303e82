package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// iso8601Milli renders an instant in UTC with up to millisecond precision.
// Trailing zeros in the fraction are trimmed (.250 renders as .25, whole
// seconds drop the fraction entirely).
const iso8601Milli = "2006-01-02T15:04:05.999Z07:00"

// Event is one seismic observation from the feed. Values are never mutated
// after construction; each poll cycle builds a fresh batch.
type Event struct {
	Magnitude  float64   `json:"magnitude"`
	Place      string    `json:"place"`
	OccurredAt time.Time `json:"occurred_at"` // millisecond resolution, UTC
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Depth      float64   `json:"depth"` // kilometers
}

// NewEvent builds an Event from raw feed fields. occurredAtMillis is the
// feed's epoch-millisecond timestamp.
func NewEvent(magnitude float64, place string, occurredAtMillis int64, latitude, longitude, depth float64) Event {
	return Event{
		Magnitude:  magnitude,
		Place:      place,
		OccurredAt: time.UnixMilli(occurredAtMillis).UTC(),
		Latitude:   latitude,
		Longitude:  longitude,
		Depth:      depth,
	}
}

// String renders the event as a single report line:
//
//	2024-04-26T15:10:00.25Z: Magnitude 5.2 at 12 km SSW of Julian, CA (33.0123, -116.6047)
func (e Event) String() string {
	return fmt.Sprintf("%s: Magnitude %.1f at %s (%.4f, %.4f)",
		e.OccurredAt.UTC().Format(iso8601Milli), e.Magnitude, e.Place, e.Latitude, e.Longitude)
}

// Fingerprint derives the dedup key for the event: a short SHA-256 of the
// rendered line. The feed exposes no stable identifier in the fields consumed
// here, so identity is rendered-text identity; see the package doc for the
// collision caveat.
func (e Event) Fingerprint() string {
	hash := sha256.Sum256([]byte(e.String()))
	return hex.EncodeToString(hash[:8])
}
