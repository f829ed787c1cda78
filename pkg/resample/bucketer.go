package resample

import (
	"time"

	"github.com/tickworks/minbar/pkg/common"
)

// Bucket is one minute's worth of ticks. Ticks is a sub-slice of the ordered
// batch, never a copy.
type Bucket struct {
	Minute time.Time
	Ticks  []common.Tick
}

// GroupByMinute partitions an already time-ordered tick sequence into
// contiguous groups keyed by the timestamp truncated to the minute. Single
// linear pass, boundaries fall exactly where the truncated minute changes.
// Minutes with no ticks produce no group, bars stay sparse.
func GroupByMinute(ticks []common.Tick) []Bucket {
	var buckets []Bucket

	for i := 0; i < len(ticks); {
		minute := ticks[i].TimeStamp.Truncate(time.Minute)
		j := i + 1
		for j < len(ticks) && ticks[j].TimeStamp.Truncate(time.Minute).Equal(minute) {
			j++
		}
		buckets = append(buckets, Bucket{Minute: minute, Ticks: ticks[i:j]})
		i = j
	}

	return buckets
}
