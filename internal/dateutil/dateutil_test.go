package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOnly_TruncatesToUTCMidnight(t *testing.T) {
	in := time.Date(2024, 3, 15, 23, 45, 12, 999, time.FixedZone("MST", -7*3600))
	got := DateOnly(in)
	require.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), got)
}

func TestAddDays(t *testing.T) {
	start := Date(2024, 1, 1)
	assert.Equal(t, Date(2024, 1, 31), AddDays(start, 30))
	assert.Equal(t, Date(2024, 3, 31), AddDays(start, 90))
	assert.Equal(t, Date(2023, 12, 31), AddDays(start, -1))
	assert.Equal(t, Date(2024, 6, 29), AddDays(start, 180))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 9, DaysBetween(Date(2024, 1, 1), Date(2024, 1, 10)))
	assert.Equal(t, -12, DaysBetween(Date(2024, 1, 1), Date(2023, 12, 20)))
	assert.Equal(t, 0, DaysBetween(Date(2024, 1, 1), Date(2024, 1, 1)))
	// Across the Feb 29 leap boundary.
	assert.Equal(t, 60, DaysBetween(Date(2024, 2, 1), Date(2024, 4, 1)))
}

func TestDaysUntil(t *testing.T) {
	today := Date(2024, 1, 1)
	assert.Equal(t, 9, DaysUntil(today, Date(2024, 1, 10)))
	assert.Equal(t, -1, DaysUntil(today, Date(2023, 12, 31)))
}

func TestFixedClock(t *testing.T) {
	c := FixedClock{Date: time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)}
	assert.Equal(t, Date(2024, 1, 1), c.Today())
}

func TestSystemClock_IsMidnight(t *testing.T) {
	today := SystemClock{}.Today()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
	assert.Equal(t, time.UTC, today.Location())
}
