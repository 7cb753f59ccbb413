package interval

import (
	"time"

	"github.com/thetanav/trading-system/pkg/errors"
)

// Interval represents a candle bucket width.
type Interval struct {
	Name     string
	Duration time.Duration
}

// Supported intervals
var (
	Interval1m  = Interval{Name: "1m", Duration: time.Minute}
	Interval5m  = Interval{Name: "5m", Duration: 5 * time.Minute}
	Interval15m = Interval{Name: "15m", Duration: 15 * time.Minute}
	Interval1h  = Interval{Name: "1h", Duration: time.Hour}
)

var intervalRegistry = map[string]Interval{
	Interval1m.Name:  Interval1m,
	Interval5m.Name:  Interval5m,
	Interval15m.Name: Interval15m,
	Interval1h.Name:  Interval1h,
}

// GetInterval returns an interval by name
func GetInterval(name string) (Interval, error) {
	interval, exists := intervalRegistry[name]
	if !exists {
		return Interval{}, errors.NewErrorDetails("unsupported interval: "+name, string(errors.GeneralBadRequestError), "interval")
	}
	return interval, nil
}

// CalculateBucketTime returns the start of the bucket containing timestamp.
func (i Interval) CalculateBucketTime(timestamp time.Time) time.Time {
	return timestamp.Truncate(i.Duration)
}

// IsInBucket checks if two timestamps fall within the same bucket
func (i Interval) IsInBucket(timestamp1, timestamp2 time.Time) bool {
	return i.CalculateBucketTime(timestamp1).Equal(i.CalculateBucketTime(timestamp2))
}
