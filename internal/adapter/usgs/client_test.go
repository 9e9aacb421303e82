package usgs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-watch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
	"features": [
		{
			"properties": {"mag": 5.6, "place": "12 km SSW of Julian, CA", "time": 1714144200000},
			"geometry": {"coordinates": [-116.6047, 33.0123, 10.5]}
		},
		{
			"properties": {"mag": 6.1, "place": "south of the Fiji Islands", "time": 1714140600000},
			"geometry": {"coordinates": [179.9, -24.5, 500.0]}
		}
	]
}`

func testWindow() domain.QueryWindow {
	end := time.Date(2024, time.April, 28, 0, 0, 0, 0, time.UTC)
	return domain.QueryWindow{Start: end.AddDate(0, 0, -5), End: end}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memorySink struct {
	appended [][]byte
	err      error
}

func (m *memorySink) Append(p []byte) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, p)
	return nil
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "geojson", r.URL.Query().Get("format"))
		assert.Equal(t, "2024-04-23", r.URL.Query().Get("starttime"))
		assert.Equal(t, "2024-04-28", r.URL.Query().Get("endtime"))
		assert.Equal(t, "5", r.URL.Query().Get("minmagnitude"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil, testLogger())
	events, err := c.Fetch(context.Background(), testWindow(), 5.0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, 5.6, events[0].Magnitude)
	assert.Equal(t, "12 km SSW of Julian, CA", events[0].Place)
	assert.Equal(t, 33.0123, events[0].Latitude)
	assert.Equal(t, -116.6047, events[0].Longitude)
	assert.Equal(t, 10.5, events[0].Depth)
	assert.Equal(t, time.UnixMilli(1714144200000).UTC(), events[0].OccurredAt)
}

func TestClient_Fetch_TeesRawResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	sink := &memorySink{}
	c := NewClient(srv.URL, 5*time.Second, sink, testLogger())
	_, err := c.Fetch(context.Background(), testWindow(), 5.0)
	require.NoError(t, err)

	require.Len(t, sink.appended, 1)
	assert.JSONEq(t, sampleFeed, string(sink.appended[0]))
}

func TestClient_Fetch_SinkFailureDoesNotFailFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	sink := &memorySink{err: errors.New("disk full")}
	c := NewClient(srv.URL, 5*time.Second, sink, testLogger())
	events, err := c.Fetch(context.Background(), testWindow(), 5.0)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestClient_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil, testLogger())
	_, err := c.Fetch(context.Background(), testWindow(), 5.0)

	var serverErr *domain.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
}

func TestClient_Fetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second, nil, testLogger())
	_, err := c.Fetch(context.Background(), testWindow(), 5.0)

	var transportErr *domain.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, nil, testLogger())
	_, err := c.Fetch(context.Background(), testWindow(), 5.0)

	var transportErr *domain.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestParseFeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `not json`},
		{"missing features", `{"metadata": {}}`},
		{"missing properties", `{"features": [{"geometry": {"coordinates": [1, 2, 3]}}]}`},
		{"missing mag", `{"features": [{"properties": {"place": "x", "time": 1}, "geometry": {"coordinates": [1, 2, 3]}}]}`},
		{"missing place", `{"features": [{"properties": {"mag": 5.0, "time": 1}, "geometry": {"coordinates": [1, 2, 3]}}]}`},
		{"missing time", `{"features": [{"properties": {"mag": 5.0, "place": "x"}, "geometry": {"coordinates": [1, 2, 3]}}]}`},
		{"missing geometry", `{"features": [{"properties": {"mag": 5.0, "place": "x", "time": 1}}]}`},
		{"short coordinates", `{"features": [{"properties": {"mag": 5.0, "place": "x", "time": 1}, "geometry": {"coordinates": [1, 2]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFeed([]byte(tt.body))
			var parseErr *domain.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParseFeed_EmptyFeatures(t *testing.T) {
	events, err := parseFeed([]byte(`{"features": []}`))
	require.NoError(t, err)
	assert.Empty(t, events)
}
