package civil

import (
	"fmt"
	"time"
)

// MaxOffsetSeconds is the largest offset magnitude a timezone can carry.
// Offsets must be strictly less than one day.
const MaxOffsetSeconds = 24*60*60 - 1

// FixedOffset is a constant offset from UTC in whole seconds.
type FixedOffset struct {
	seconds int32
}

// UTC is the zero offset.
var UTC = FixedOffset{}

// NewFixedOffset validates the offset bound.
func NewFixedOffset(seconds int32) (FixedOffset, error) {
	if err := checkRange("offset", int64(seconds), -MaxOffsetSeconds, MaxOffsetSeconds); err != nil {
		return FixedOffset{}, err
	}
	return FixedOffset{seconds: seconds}, nil
}

// Seconds returns the offset east of UTC.
func (o FixedOffset) Seconds() int32 { return o.seconds }

// Location returns a fixed time.Location carrying the offset.
func (o FixedOffset) Location() *time.Location {
	if o.seconds == 0 {
		return time.UTC
	}
	return time.FixedZone(o.String(), int(o.seconds))
}

// String formats o as ±HH:MM, appending :SS when needed.
func (o FixedOffset) String() string {
	sign := '+'
	s := o.seconds
	if s < 0 {
		sign = '-'
		s = -s
	}
	if s%60 != 0 {
		return fmt.Sprintf("%c%02d:%02d:%02d", sign, s/3600, s/60%60, s%60)
	}
	return fmt.Sprintf("%c%02d:%02d", sign, s/3600, s/60%60)
}

// Zoned is a DateTime read as wall-clock time at a FixedOffset.
type Zoned struct {
	dateTime DateTime
	offset   FixedOffset
}

var (
	minUTC = time.Date(MinYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxUTC = time.Date(MaxYear, time.December, 31, 23, 59, 59, 999_999_999, time.UTC)
)

// NewZoned combines a date-time with an offset. The UTC projection of the
// result must itself be a supported DateTime.
func NewZoned(dt DateTime, offset FixedOffset) (Zoned, error) {
	if dt.IsZero() {
		return Zoned{}, &RangeError{Field: "year", Value: 0, Min: MinYear, Max: MaxYear}
	}
	utc := dt.In(offset.Location()).UTC()
	if utc.Before(minUTC) || utc.After(maxUTC) {
		return Zoned{}, &RangeError{Field: "utc year", Value: int64(utc.Year()), Min: MinYear, Max: MaxYear}
	}
	return Zoned{dateTime: dt, offset: offset}, nil
}

// DateTime returns the wall-clock part.
func (z Zoned) DateTime() DateTime { return z.dateTime }

// Offset returns the offset part.
func (z Zoned) Offset() FixedOffset { return z.offset }

// Time returns z as a time.Time in a fixed zone.
func (z Zoned) Time() time.Time {
	return z.dateTime.In(z.offset.Location())
}

// Instant projects z onto the UTC timeline.
func (z Zoned) Instant() Instant {
	t := z.Time()
	return Instant{seconds: t.Unix(), nanos: int32(t.Nanosecond())}
}

// String formats z as an RFC 3339 timestamp.
func (z Zoned) String() string {
	return z.dateTime.String() + z.offset.String()
}

// Instant is an absolute point on the UTC timeline.
type Instant struct {
	seconds int64
	nanos   int32
}

// Unix returns seconds since the Unix epoch.
func (i Instant) Unix() int64 { return i.seconds }

// Nanos returns the sub-second part.
func (i Instant) Nanos() int32 { return i.nanos }

// Time returns i in UTC.
func (i Instant) Time() time.Time {
	return time.Unix(i.seconds, int64(i.nanos)).UTC()
}

// In returns the wall-clock reading of i at offset.
func (i Instant) In(offset FixedOffset) (Zoned, error) {
	dt, err := DateTimeOf(i.Time().In(offset.Location()))
	if err != nil {
		return Zoned{}, err
	}
	return NewZoned(dt, offset)
}

// String formats i as a UTC RFC 3339 timestamp.
func (i Instant) String() string {
	return i.Time().Format(time.RFC3339Nano)
}
