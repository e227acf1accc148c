package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockNeverGoesBackwards(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{
		base,
		base.Add(-time.Second),
		base.Add(1500 * time.Nanosecond),
		base.Add(time.Millisecond),
	}
	i := 0
	c := NewClock(func() time.Time {
		t := ticks[i]
		i++
		return t
	})

	first := c.Now()
	second := c.Now()
	third := c.Now()
	fourth := c.Now()

	require.Equal(t, base, first)
	require.Equal(t, first, second)
	require.Equal(t, base.Add(time.Microsecond), third)
	require.True(t, fourth.After(third))
	require.Equal(t, time.UTC, fourth.Location())
}
