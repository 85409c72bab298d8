package civil

import (
	"fmt"
	"time"
)

// DateTime is a Date with a wall-clock time and no offset.
type DateTime struct {
	Date
	hour       uint8
	minute     uint8
	second     uint8
	nanosecond int32
}

// NewDateTime validates the clock fields and combines them with date.
func NewDateTime(date Date, hour, minute, second uint8, nanosecond int32) (DateTime, error) {
	if date.IsZero() {
		return DateTime{}, &RangeError{Field: "year", Value: 0, Min: MinYear, Max: MaxYear}
	}
	if err := checkRange("hour", int64(hour), 0, 23); err != nil {
		return DateTime{}, err
	}
	if err := checkRange("minute", int64(minute), 0, 59); err != nil {
		return DateTime{}, err
	}
	if err := checkRange("second", int64(second), 0, 59); err != nil {
		return DateTime{}, err
	}
	if err := checkRange("nanosecond", int64(nanosecond), 0, 999_999_999); err != nil {
		return DateTime{}, err
	}
	return DateTime{Date: date, hour: hour, minute: minute, second: second, nanosecond: nanosecond}, nil
}

// DateTimeOf returns the wall-clock date-time of t in t's location.
func DateTimeOf(t time.Time) (DateTime, error) {
	date, err := DateOf(t)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{
		Date:       date,
		hour:       uint8(t.Hour()),
		minute:     uint8(t.Minute()),
		second:     uint8(t.Second()),
		nanosecond: int32(t.Nanosecond()),
	}, nil
}

// Hour returns the hour, 0 through 23.
func (dt DateTime) Hour() uint8 { return dt.hour }

// Minute returns the minute, 0 through 59.
func (dt DateTime) Minute() uint8 { return dt.minute }

// Second returns the second, 0 through 59.
func (dt DateTime) Second() uint8 { return dt.second }

// Nanosecond returns the sub-second part in nanoseconds.
func (dt DateTime) Nanosecond() int32 { return dt.nanosecond }

// In interprets dt as wall-clock time in loc.
func (dt DateTime) In(loc *time.Location) time.Time {
	return time.Date(int(dt.year), time.Month(dt.month), int(dt.day),
		int(dt.hour), int(dt.minute), int(dt.second), int(dt.nanosecond), loc)
}

// String formats dt as YYYY-MM-DDTHH:MM:SS with a fractional part only
// when the nanosecond field is non-zero.
func (dt DateTime) String() string {
	s := fmt.Sprintf("%sT%02d:%02d:%02d", dt.Date, dt.hour, dt.minute, dt.second)
	if dt.nanosecond != 0 {
		s += fmt.Sprintf(".%09d", dt.nanosecond)
	}
	return s
}
