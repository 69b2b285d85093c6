package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomgrid/internal/week"
)

var defaultDurations = []int{15, 30, 45, 60, 75, 90, 105, 120}

func newNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := New("Europe/Paris", defaultDurations, 18)
	require.NoError(t, err)
	return n
}

func TestNew_UnknownZone(t *testing.T) {
	_, err := New("Mars/Olympus", defaultDurations, 18)
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	n := newNormalizer(t)
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	start, end, err := n.Window(monday, 2, week.Slot{Hour: 14, Minute: 15}, 45)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 5, 14, 15, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 5, 15, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 45*time.Minute, end.Sub(start))
}

func TestWindow_DurationInvariant(t *testing.T) {
	n := newNormalizer(t)
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	for _, d := range defaultDurations {
		start, end, err := n.Window(monday, 4, week.Slot{Hour: 9, Minute: 30}, d)
		require.NoError(t, err)
		assert.Equal(t, time.Duration(d)*time.Minute, end.Sub(start))
		assert.True(t, end.After(start))
	}
}

func TestWindow_RejectsBadDuration(t *testing.T) {
	n := newNormalizer(t)
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	for _, d := range []int{0, -15, 10, 20, 135} {
		_, _, err := n.Window(monday, 0, week.Slot{Hour: 9, Minute: 0}, d)
		assert.ErrorIs(t, err, ErrBadDuration)
	}
}

func TestWireTime_CarriesBackendZoneDigits(t *testing.T) {
	n := newNormalizer(t)

	// June: Paris is UTC+2, so the stored digits run two hours ahead of
	// the instant while still claiming Z.
	summer := time.Date(2024, 6, 5, 14, 15, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-05T16:15:00.000Z", n.WireTime(summer))

	// January: UTC+1.
	winter := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-10T10:00:00.000Z", n.WireTime(winter))
}

func TestWireTime_WindowStaysConsistent(t *testing.T) {
	n := newNormalizer(t)
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	start, end, err := n.Window(monday, 0, week.Slot{Hour: 9, Minute: 0}, 30)
	require.NoError(t, err)

	// both endpoints shift by the same offset, so the wire window keeps
	// the requested duration
	ws, err := time.Parse(time.RFC3339, n.WireTime(start))
	require.NoError(t, err)
	we, err := time.Parse(time.RFC3339, n.WireTime(end))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, we.Sub(ws))
}

func TestCheckWindow(t *testing.T) {
	n := newNormalizer(t)
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	assert.NoError(t, n.CheckWindow(start, end, now, false))

	// slot already passed
	assert.ErrorIs(t, n.CheckWindow(start, end, start.Add(time.Hour), false), ErrSlotExpired)

	// ends after 18:00
	lateStart := time.Date(2024, 6, 3, 17, 30, 0, 0, time.UTC)
	assert.ErrorIs(t, n.CheckWindow(lateStart, lateStart.Add(time.Hour), now, false), ErrEndsAfterClose)

	// ending exactly at closing is fine
	assert.NoError(t, n.CheckWindow(lateStart, lateStart.Add(30*time.Minute), now, false))

	// overlap reported by the caller
	assert.ErrorIs(t, n.CheckWindow(start, end, now, true), ErrSlotOverlaps)
}
