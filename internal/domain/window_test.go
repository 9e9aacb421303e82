package domain_test

import (
	"testing"
	"time"

	"github.com/couchcryptid/quake-watch/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestCurrentWindow(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() {
		domain.SetClock(nil)
	})

	w := domain.CurrentWindow(2, 5)

	assert.Equal(t, "2024-04-28", w.EndDate())
	assert.Equal(t, "2024-04-23", w.StartDate())
	assert.False(t, w.Start.After(w.End))
}

func TestCurrentWindow_ZeroSpan(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() {
		domain.SetClock(nil)
	})

	w := domain.CurrentWindow(0, 0)

	assert.Equal(t, w.StartDate(), w.EndDate())
	assert.Equal(t, "2024-12-31", w.EndDate())
}
