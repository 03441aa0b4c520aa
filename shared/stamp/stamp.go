package stamp

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan marks the interval during which an observation was taken.
type TimeSpan = timespan.TimeSpan

// Between returns the span covering the two instants.
func Between(from, to time.Time) TimeSpan {
	return timespan.BetweenTimes(from, to)
}
