package bridge

import (
	"github.com/Shopify/go-lua"

	"github.com/louisbranch/luatime/internal/bridge/access"
	"github.com/louisbranch/luatime/internal/civil"
)

const (
	nanosPerMicro  = 1_000
	maxMicrosecond = 999_999
)

// DateFromLua reads the date at index. Datetimes are accepted and read as
// their date part.
func (c *Converter) DateFromLua(l *lua.State, index int) (civil.Date, error) {
	f, err := c.access.Date(l, index)
	if err != nil {
		return civil.Date{}, c.fail("date from lua", err)
	}
	d, err := civil.NewDate(f.Year, f.Month, f.Day)
	if err != nil {
		return civil.Date{}, c.fail("date from lua", CalendarOverflow(err))
	}
	return d, nil
}

// PushDate pushes d as a host date.
func (c *Converter) PushDate(l *lua.State, d civil.Date) error {
	return c.fail("push date", c.access.NewDate(l, dateFields(d)))
}

// DateTimeFromLua reads the naive fields of the datetime at index; any
// attached timezone is ignored. Microseconds become nanoseconds.
func (c *Converter) DateTimeFromLua(l *lua.State, index int) (civil.DateTime, error) {
	f, err := c.access.DateTime(l, index)
	if err != nil {
		return civil.DateTime{}, c.fail("datetime from lua", err)
	}
	dt, err := dateTimeOf(f)
	if err != nil {
		return civil.DateTime{}, c.fail("datetime from lua", CalendarOverflow(err))
	}
	return dt, nil
}

// PushDateTime pushes dt as a naive host datetime. Nanoseconds are
// truncated to whole microseconds.
func (c *Converter) PushDateTime(l *lua.State, dt civil.DateTime) error {
	return c.fail("push datetime", c.access.NewDateTime(l, dateTimeFields(dt), 0))
}

func dateTimeOf(f access.DateTimeFields) (civil.DateTime, error) {
	d, err := civil.NewDate(f.Year, f.Month, f.Day)
	if err != nil {
		return civil.DateTime{}, err
	}
	if f.Microsecond > maxMicrosecond {
		return civil.DateTime{}, &civil.RangeError{Field: "microsecond", Value: int64(f.Microsecond), Min: 0, Max: maxMicrosecond}
	}
	return civil.NewDateTime(d, f.Hour, f.Minute, f.Second, int32(f.Microsecond)*nanosPerMicro)
}

func dateFields(d civil.Date) access.DateFields {
	return access.DateFields{Year: d.Year(), Month: d.Month(), Day: d.Day()}
}

func dateTimeFields(dt civil.DateTime) access.DateTimeFields {
	return access.DateTimeFields{
		DateFields:  dateFields(dt.Date),
		Hour:        dt.Hour(),
		Minute:      dt.Minute(),
		Second:      dt.Second(),
		Microsecond: uint32(dt.Nanosecond() / nanosPerMicro),
	}
}
