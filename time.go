package fieldmap

import (
	"fmt"
	"time"
)

// Time is the opaque time composite carried by the Time variant.
// It is never decomposed into a Map.
type Time struct {
	Seconds int64
	Nanos   int32
}

// TimeFrom converts a time.Time into a Time. Location is not preserved.
func TimeFrom(t time.Time) Time {
	return Time{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()),
	}
}

// Std returns t as a UTC time.Time.
func (t Time) Std() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

func (t Time) String() string {
	return fmt.Sprintf("time(%d,%d)", t.Seconds, t.Nanos)
}
