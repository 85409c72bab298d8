package access

import (
	"github.com/Shopify/go-lua"

	"github.com/louisbranch/luatime/internal/bridge/typecache"
	"github.com/louisbranch/luatime/internal/host/luadt"
)

// Rich reads host values through their Go accessor interfaces.
type Rich struct{}

var _ FieldAccess = Rich{}

func (Rich) Mode() Mode { return ModeRich }

func (Rich) Date(l *lua.State, index int) (DateFields, error) {
	d, ok := l.ToUserData(index).(luadt.DateAccess)
	if !ok {
		return DateFields{}, Mismatch(l, index, typecache.KindDate)
	}
	var e extractor
	f := richDate(&e, d)
	return f, e.err
}

func (Rich) DateTime(l *lua.State, index int) (DateTimeFields, error) {
	v := l.ToUserData(index)
	d, ok := v.(luadt.DateAccess)
	t, hasTime := v.(luadt.TimeAccess)
	if !ok || !hasTime {
		return DateTimeFields{}, Mismatch(l, index, typecache.KindDateTime)
	}
	var e extractor
	f := DateTimeFields{
		DateFields:  richDate(&e, d),
		Hour:        e.uint8("hour", float64(t.GetHour())),
		Minute:      e.uint8("minute", float64(t.GetMinute())),
		Second:      e.uint8("second", float64(t.GetSecond())),
		Microsecond: e.uint32("microsecond", float64(t.GetMicrosecond())),
	}
	return f, e.err
}

func richDate(e *extractor, d luadt.DateAccess) DateFields {
	return DateFields{
		Year:  e.int32("year", float64(d.GetYear())),
		Month: e.uint8("month", float64(d.GetMonth())),
		Day:   e.uint8("day", float64(d.GetDay())),
	}
}

func (Rich) Delta(l *lua.State, index int) (DeltaFields, error) {
	d, ok := l.ToUserData(index).(luadt.DeltaAccess)
	if !ok {
		return DeltaFields{}, Mismatch(l, index, typecache.KindDelta)
	}
	return richDelta(d)
}

func richDelta(d luadt.DeltaAccess) (DeltaFields, error) {
	var e extractor
	f := DeltaFields{
		Days:         e.int32("days", float64(d.GetDays())),
		Seconds:      e.int32("seconds", float64(d.GetSeconds())),
		Microseconds: e.int32("microseconds", float64(d.GetMicroseconds())),
	}
	return f, e.err
}

func (Rich) TZInfo(l *lua.State, index int) (bool, error) {
	v := l.ToUserData(index)
	z, ok := v.(luadt.TZInfoAccess)
	if _, isDate := v.(luadt.DateAccess); !ok || !isDate {
		return false, Mismatch(l, index, typecache.KindDateTime)
	}
	tz := z.GetTZInfo()
	if tz == nil {
		return false, nil
	}
	if err := luadt.PushTZInfo(l, tz); err != nil {
		return false, err
	}
	return true, nil
}

func (Rich) UTCOffset(l *lua.State, index int) (DeltaFields, bool, error) {
	tz, ok := l.ToUserData(index).(luadt.TZInfo)
	if !ok {
		return DeltaFields{}, false, Mismatch(l, index, typecache.KindTZInfo)
	}
	offset, err := tz.UTCOffset(l, nil)
	if err != nil {
		return DeltaFields{}, false, err
	}
	if offset == nil {
		return DeltaFields{}, false, nil
	}
	f, err := richDelta(offset)
	if err != nil {
		return DeltaFields{}, false, err
	}
	return f, true, nil
}

func (Rich) NewDate(l *lua.State, f DateFields) error {
	d, err := luadt.NewDate(int(f.Year), int(f.Month), int(f.Day))
	if err != nil {
		return err
	}
	return luadt.PushDate(l, d)
}

func (Rich) NewDateTime(l *lua.State, f DateTimeFields, tzIndex int) error {
	var tz luadt.TZInfo
	if tzIndex != 0 {
		var ok bool
		if tz, ok = l.ToUserData(tzIndex).(luadt.TZInfo); !ok {
			return Mismatch(l, tzIndex, typecache.KindTZInfo)
		}
	}
	dt, err := luadt.NewDateTime(
		int(f.Year), int(f.Month), int(f.Day),
		int(f.Hour), int(f.Minute), int(f.Second), int(f.Microsecond),
		tz,
	)
	if err != nil {
		return err
	}
	return luadt.PushDateTime(l, dt)
}

func (Rich) NewDelta(l *lua.State, f DeltaFields) error {
	d, err := luadt.NewDelta(int64(f.Days), int64(f.Seconds), int64(f.Microseconds))
	if err != nil {
		return err
	}
	return luadt.PushDelta(l, d)
}

func (Rich) NewTimezone(l *lua.State, deltaIndex int) error {
	d, ok := l.ToUserData(deltaIndex).(*luadt.Delta)
	if !ok {
		return Mismatch(l, deltaIndex, typecache.KindDelta)
	}
	tz, err := luadt.NewTimezone(d, "")
	if err != nil {
		return err
	}
	return luadt.PushTZInfo(l, tz)
}
