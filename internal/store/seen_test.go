package store_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/quake-watch/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenIndex_FirstSightingIsNew(t *testing.T) {
	idx := store.NewSeenIndex(10, time.Hour)

	assert.True(t, idx.IsNew("fp-1"))
	idx.Record("fp-1", "rendered line")
	assert.False(t, idx.IsNew("fp-1"))
}

func TestSeenIndex_RecordOverwritesRendered(t *testing.T) {
	idx := store.NewSeenIndex(10, time.Hour)

	idx.Record("fp-1", "old")
	idx.Record("fp-1", "new")

	rendered, ok := idx.Rendered("fp-1")
	require.True(t, ok)
	assert.Equal(t, "new", rendered)
	assert.Equal(t, 1, idx.Len())
}

func TestSeenIndex_CapEvictsLeastRecentlySeen(t *testing.T) {
	idx := store.NewSeenIndex(2, time.Hour)

	idx.Record("fp-1", "a")
	idx.Record("fp-2", "b")
	// Touch fp-1 so fp-2 becomes least recently seen.
	idx.Record("fp-1", "a")
	idx.Record("fp-3", "c")

	assert.False(t, idx.IsNew("fp-1"))
	assert.True(t, idx.IsNew("fp-2"))
	assert.False(t, idx.IsNew("fp-3"))
	assert.Equal(t, 2, idx.Len())
}

func TestSeenIndex_TTLExpiry(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 12, 0, 0, 0, time.UTC))
	store.SetClock(fakeClock)
	t.Cleanup(func() {
		store.SetClock(nil)
	})

	idx := store.NewSeenIndex(10, time.Minute)
	idx.Record("fp-1", "a")
	assert.False(t, idx.IsNew("fp-1"))

	fakeClock.Advance(2 * time.Minute)
	assert.True(t, idx.IsNew("fp-1"))

	// Re-recording after expiry starts a fresh entry.
	idx.Record("fp-1", "a")
	assert.False(t, idx.IsNew("fp-1"))
}

func TestSeenIndex_DefaultsOnBadArgs(t *testing.T) {
	idx := store.NewSeenIndex(0, 0)
	for i := 0; i < 100; i++ {
		idx.Record(fmt.Sprintf("fp-%d", i), "x")
	}
	assert.Equal(t, 100, idx.Len())
}
