package civil

import (
	"fmt"
	"time"
)

const (
	// MinYear is the earliest supported year.
	MinYear = 1
	// MaxYear is the latest supported year.
	MaxYear = 9999
)

// Date is a calendar date with no time of day and no offset.
type Date struct {
	year  int32
	month uint8
	day   uint8
}

// NewDate validates the fields against the Gregorian calendar and returns
// the date they name.
func NewDate(year int32, month, day uint8) (Date, error) {
	if err := checkRange("year", int64(year), MinYear, MaxYear); err != nil {
		return Date{}, err
	}
	if err := checkRange("month", int64(month), 1, 12); err != nil {
		return Date{}, err
	}
	if err := checkRange("day", int64(day), 1, int64(DaysIn(year, time.Month(month)))); err != nil {
		return Date{}, err
	}
	return Date{year: year, month: month, day: day}, nil
}

// MustDate is NewDate for literals known to be valid.
func MustDate(year int32, month, day uint8) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the date of t in t's location.
func DateOf(t time.Time) (Date, error) {
	y, m, d := t.Date()
	if err := checkRange("year", int64(y), MinYear, MaxYear); err != nil {
		return Date{}, err
	}
	return Date{year: int32(y), month: uint8(m), day: uint8(d)}, nil
}

// IsLeap reports whether year has a February 29th.
func IsLeap(year int32) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int32, month time.Month) int {
	switch month {
	case time.February:
		if IsLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// Year returns the year, 1 through 9999.
func (d Date) Year() int32 { return d.year }

// Month returns the month, 1 through 12.
func (d Date) Month() uint8 { return d.month }

// Day returns the day of the month.
func (d Date) Day() uint8 { return d.day }

// IsZero reports whether d is the zero value, which is not a valid date.
func (d Date) IsZero() bool { return d == Date{} }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) (Date, error) {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.year != other.year {
		return d.year < other.year
	}
	if d.month != other.month {
		return d.month < other.month
	}
	return d.day < other.day
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

func (d Date) midnight() time.Time {
	return time.Date(int(d.year), time.Month(d.month), int(d.day), 0, 0, 0, 0, time.UTC)
}
