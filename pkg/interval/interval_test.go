package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInterval(t *testing.T) {
	got, err := GetInterval("5m")
	require.NoError(t, err)
	assert.Equal(t, Interval5m, got)

	_, err = GetInterval("7m")
	assert.Error(t, err)
}

func TestInterval_Buckets(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 34, 56, 0, time.UTC)

	testCases := []struct {
		interval Interval
		start    time.Time
	}{
		{interval: Interval1m, start: time.Date(2026, 3, 1, 12, 34, 0, 0, time.UTC)},
		{interval: Interval5m, start: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)},
		{interval: Interval15m, start: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)},
		{interval: Interval1h, start: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.interval.Name, func(t *testing.T) {
			assert.Equal(t, tc.start, tc.interval.CalculateBucketTime(ts))
			assert.True(t, tc.interval.IsInBucket(ts, tc.start))
			assert.False(t, tc.interval.IsInBucket(ts, tc.start.Add(tc.interval.Duration)))
			assert.False(t, tc.interval.IsInBucket(ts, tc.start.Add(-time.Nanosecond)))
		})
	}
}
