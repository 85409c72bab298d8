package luadt

import (
	"errors"
	"fmt"

	"github.com/Shopify/go-lua"
)

const (
	// MinYear is the earliest year a date may carry.
	MinYear = 1
	// MaxYear is the latest year a date may carry.
	MaxYear = 9999

	maxDeltaDays      = 999_999_999
	secondsPerDay     = 24 * 60 * 60
	microsPerSecond   = 1_000_000
	microsPerDay      = secondsPerDay * microsPerSecond
	maxTimezoneMicros = microsPerDay - 1
)

// DateAccess reads calendar fields.
type DateAccess interface {
	GetYear() int
	GetMonth() int
	GetDay() int
}

// TimeAccess reads clock fields.
type TimeAccess interface {
	GetHour() int
	GetMinute() int
	GetSecond() int
	GetMicrosecond() int
}

// TZInfoAccess reads the attached timezone of a datetime; nil means naive.
type TZInfoAccess interface {
	GetTZInfo() TZInfo
}

// DeltaAccess reads the normalized fields of a timedelta.
type DeltaAccess interface {
	GetDays() int
	GetSeconds() int
	GetMicroseconds() int
}

// TZInfo answers offset queries. A nil *DateTime asks for the offset that
// holds regardless of the moment; a nil *Delta result means the zone has no
// such answer.
type TZInfo interface {
	UTCOffset(l *lua.State, dt *DateTime) (*Delta, error)
	TZName() string
}

// Date is the host date value.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate validates fields with the host's own calendar rules.
func NewDate(year, month, day int) (*Date, error) {
	if year < MinYear || year > MaxYear {
		return nil, fmt.Errorf("year %d is out of range", year)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be in 1..12")
	}
	if day < 1 || day > daysInMonth(year, month) {
		return nil, fmt.Errorf("day is out of range for month")
	}
	return &Date{Year: year, Month: month, Day: day}, nil
}

func (d *Date) GetYear() int  { return d.Year }
func (d *Date) GetMonth() int { return d.Month }
func (d *Date) GetDay() int   { return d.Day }

func (d *Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func daysInMonth(year, month int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// DateTime is the host datetime value. TZ is nil for naive values.
type DateTime struct {
	Date
	Hour        int
	Minute      int
	Second      int
	Microsecond int
	TZ          TZInfo
}

// NewDateTime validates fields with the host's own rules.
func NewDateTime(year, month, day, hour, minute, second, microsecond int, tz TZInfo) (*DateTime, error) {
	date, err := NewDate(year, month, day)
	if err != nil {
		return nil, err
	}
	switch {
	case hour < 0 || hour > 23:
		return nil, fmt.Errorf("hour must be in 0..23")
	case minute < 0 || minute > 59:
		return nil, fmt.Errorf("minute must be in 0..59")
	case second < 0 || second > 59:
		return nil, fmt.Errorf("second must be in 0..59")
	case microsecond < 0 || microsecond > 999_999:
		return nil, fmt.Errorf("microsecond must be in 0..999999")
	}
	return &DateTime{
		Date:        *date,
		Hour:        hour,
		Minute:      minute,
		Second:      second,
		Microsecond: microsecond,
		TZ:          tz,
	}, nil
}

func (dt *DateTime) GetHour() int        { return dt.Hour }
func (dt *DateTime) GetMinute() int      { return dt.Minute }
func (dt *DateTime) GetSecond() int      { return dt.Second }
func (dt *DateTime) GetMicrosecond() int { return dt.Microsecond }
func (dt *DateTime) GetTZInfo() TZInfo   { return dt.TZ }

func (dt *DateTime) String() string {
	s := fmt.Sprintf("%sT%02d:%02d:%02d", dt.Date.String(), dt.Hour, dt.Minute, dt.Second)
	if dt.Microsecond != 0 {
		s += fmt.Sprintf(".%06d", dt.Microsecond)
	}
	return s
}

// Delta is the host timedelta, normalized so that 0 <= Seconds < 86400 and
// 0 <= Microseconds < 1000000; only Days carries the sign.
type Delta struct {
	Days         int
	Seconds      int
	Microseconds int
}

// NewDelta normalizes the three components into a Delta.
func NewDelta(days, seconds, microseconds int64) (*Delta, error) {
	if days < -2*maxDeltaDays || days > 2*maxDeltaDays {
		return nil, fmt.Errorf("days=%d; must have magnitude <= %d", days, maxDeltaDays)
	}
	carry := floorDiv(microseconds, microsPerSecond)
	microseconds -= carry * microsPerSecond
	seconds += carry
	carry = floorDiv(seconds, secondsPerDay)
	seconds -= carry * secondsPerDay
	days += carry
	if days < -maxDeltaDays || days > maxDeltaDays {
		return nil, fmt.Errorf("days=%d; must have magnitude <= %d", days, maxDeltaDays)
	}
	return &Delta{
		Days:         int(days),
		Seconds:      int(seconds),
		Microseconds: int(microseconds),
	}, nil
}

func (d *Delta) GetDays() int         { return d.Days }
func (d *Delta) GetSeconds() int      { return d.Seconds }
func (d *Delta) GetMicroseconds() int { return d.Microseconds }

// TotalMicroseconds returns the signed length of d. It overflows for
// deltas longer than about 106751 days.
func (d *Delta) TotalMicroseconds() int64 {
	return int64(d.Days)*microsPerDay + int64(d.Seconds)*microsPerSecond + int64(d.Microseconds)
}

func (d *Delta) String() string {
	return fmt.Sprintf("timedelta(days=%d, seconds=%d, microseconds=%d)", d.Days, d.Seconds, d.Microseconds)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Timezone is a fixed offset zone.
type Timezone struct {
	Offset Delta
	Name   string
}

// UTC is the zero offset timezone.
var UTC = &Timezone{Name: "UTC"}

// NewTimezone validates that the offset is strictly within one day.
func NewTimezone(offset *Delta, name string) (*Timezone, error) {
	if offset == nil {
		return nil, fmt.Errorf("offset is required")
	}
	if offset.Days < -1 || offset.Days > 0 {
		return nil, errTimezoneBound
	}
	if total := offset.TotalMicroseconds(); total < -maxTimezoneMicros || total > maxTimezoneMicros {
		return nil, errTimezoneBound
	}
	return &Timezone{Offset: *offset, Name: name}, nil
}

var errTimezoneBound = errors.New("offset must be a timedelta strictly between -timedelta(hours=24) and timedelta(hours=24)")

// UTCOffset returns the fixed offset for any moment.
func (tz *Timezone) UTCOffset(*lua.State, *DateTime) (*Delta, error) {
	offset := tz.Offset
	return &offset, nil
}

// TZName returns the zone name, or a UTC±HH:MM label when unnamed.
func (tz *Timezone) TZName() string {
	if tz.Name != "" {
		return tz.Name
	}
	total := tz.Offset.TotalMicroseconds() / microsPerSecond
	sign := '+'
	if total < 0 {
		sign = '-'
		total = -total
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, total/3600, total/60%60)
}

// ScriptZone is a zone whose offsets are computed by a Lua function kept in
// the registry of the state that created it.
type ScriptZone struct {
	Name string
	key  string
}

// UTCOffset calls the zone function with dt, or nil for a naive query.
func (z *ScriptZone) UTCOffset(l *lua.State, dt *DateTime) (*Delta, error) {
	l.Field(lua.RegistryIndex, z.key)
	if !l.IsFunction(-1) {
		l.Pop(1)
		return nil, fmt.Errorf("tzinfo %q has no offset function in this state", z.Name)
	}
	if dt == nil {
		l.PushNil()
	} else if err := PushDateTime(l, dt); err != nil {
		l.Pop(1)
		return nil, err
	}
	if err := l.ProtectedCall(1, 1, 0); err != nil {
		l.Pop(1)
		return nil, err
	}
	defer l.Pop(1)
	if l.IsNil(-1) {
		return nil, nil
	}
	delta, ok := l.ToUserData(-1).(*Delta)
	if !ok {
		return nil, fmt.Errorf("tzinfo %q: utcoffset() must return a timedelta or nil, not %s", z.Name, lua.TypeNameOf(l, -1))
	}
	return delta, nil
}

// TZName returns the zone name.
func (z *ScriptZone) TZName() string { return z.Name }
