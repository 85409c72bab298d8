package luadt

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/Shopify/go-lua"
)

var instanceMethods = []lua.RegistryFunction{
	{Name: "__index", Function: instanceIndex},
	{Name: "__tostring", Function: instanceToString},
	{Name: "__eq", Function: instanceEqual},
}

var zoneCounter atomic.Uint64

// PushDate pushes d as a datetime.date instance.
func PushDate(l *lua.State, d *Date) error {
	return Push(l, d, DateClass)
}

// PushDateTime pushes dt as a datetime.datetime instance.
func PushDateTime(l *lua.State, dt *DateTime) error {
	return Push(l, dt, DateTimeClass)
}

// PushDelta pushes d as a datetime.timedelta instance.
func PushDelta(l *lua.State, d *Delta) error {
	return Push(l, d, DeltaClass)
}

// PushTZInfo pushes tz with the class matching its concrete type.
func PushTZInfo(l *lua.State, tz TZInfo) error {
	cls := ClassOf(tz)
	if cls == nil {
		cls = TZInfoClass
	}
	return Push(l, tz, cls)
}

// Push pushes v as an instance of cls. Any Go value may be pushed; its
// attributes are served through the access interfaces it implements.
func Push(l *lua.State, v any, cls *Class) error {
	l.PushUserData(v)
	l.Field(lua.RegistryIndex, cls.metaName())
	if !l.IsTable(-1) {
		l.Pop(2)
		return ErrNotOpen
	}
	l.SetMetaTable(-2)
	return nil
}

func instanceIndex(l *lua.State) int {
	v := l.ToUserData(1)
	key, _ := l.ToString(2)
	if pushAttribute(l, v, key) {
		return 1
	}
	if fn := methodFor(v, key); fn != nil {
		l.PushGoFunction(fn)
		return 1
	}
	l.PushNil()
	return 1
}

func pushAttribute(l *lua.State, v any, key string) bool {
	if d, ok := v.(DateAccess); ok {
		switch key {
		case "year":
			l.PushInteger(d.GetYear())
			return true
		case "month":
			l.PushInteger(d.GetMonth())
			return true
		case "day":
			l.PushInteger(d.GetDay())
			return true
		}
	}
	if t, ok := v.(TimeAccess); ok {
		switch key {
		case "hour":
			l.PushInteger(t.GetHour())
			return true
		case "minute":
			l.PushInteger(t.GetMinute())
			return true
		case "second":
			l.PushInteger(t.GetSecond())
			return true
		case "microsecond":
			l.PushInteger(t.GetMicrosecond())
			return true
		}
	}
	if z, ok := v.(TZInfoAccess); ok && key == "tzinfo" {
		tz := z.GetTZInfo()
		if tz == nil {
			l.PushNil()
			return true
		}
		if err := PushTZInfo(l, tz); err != nil {
			lua.Errorf(l, "%s", err.Error())
		}
		return true
	}
	if d, ok := v.(DeltaAccess); ok {
		switch key {
		case "days":
			l.PushInteger(d.GetDays())
			return true
		case "seconds":
			l.PushInteger(d.GetSeconds())
			return true
		case "microseconds":
			l.PushInteger(d.GetMicroseconds())
			return true
		}
	}
	return false
}

func methodFor(v any, key string) lua.Function {
	switch key {
	case "isoformat":
		if _, ok := v.(fmt.Stringer); ok {
			return instanceToString
		}
	case "date":
		if _, ok := v.(*DateTime); ok {
			return dateTimeDate
		}
	case "utcoffset":
		switch v.(type) {
		case *DateTime:
			return dateTimeUTCOffset
		case TZInfo:
			return tzinfoUTCOffset
		}
	case "tzname":
		switch v.(type) {
		case *DateTime:
			return dateTimeTZName
		case TZInfo:
			return tzinfoTZName
		}
	case "total_seconds":
		if _, ok := v.(*Delta); ok {
			return deltaTotalSeconds
		}
	}
	return nil
}

func instanceToString(l *lua.State) int {
	switch v := l.ToUserData(1).(type) {
	case TZInfo:
		l.PushString(v.TZName())
	case fmt.Stringer:
		l.PushString(v.String())
	default:
		l.PushString(lua.TypeNameOf(l, 1))
	}
	return 1
}

func instanceEqual(l *lua.State) int {
	a, b := l.ToUserData(1), l.ToUserData(2)
	var eq bool
	switch x := a.(type) {
	case *Date:
		y, ok := b.(*Date)
		eq = ok && *x == *y
	case *DateTime:
		y, ok := b.(*DateTime)
		eq = ok && *x == *y
	case *Delta:
		y, ok := b.(*Delta)
		eq = ok && *x == *y
	case *Timezone:
		y, ok := b.(*Timezone)
		eq = ok && x.Offset == y.Offset
	default:
		eq = a == b
	}
	l.PushBoolean(eq)
	return 1
}

func checkDateTime(l *lua.State, index int) *DateTime {
	dt, ok := l.ToUserData(index).(*DateTime)
	if !ok {
		lua.ArgumentError(l, index, "datetime expected")
	}
	return dt
}

func dateTimeDate(l *lua.State) int {
	dt := checkDateTime(l, 1)
	d := dt.Date
	if err := PushDate(l, &d); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 1
}

func dateTimeUTCOffset(l *lua.State) int {
	dt := checkDateTime(l, 1)
	if dt.TZ == nil {
		l.PushNil()
		return 1
	}
	return pushOffset(l, dt.TZ, dt)
}

func dateTimeTZName(l *lua.State) int {
	dt := checkDateTime(l, 1)
	if dt.TZ == nil {
		l.PushNil()
		return 1
	}
	l.PushString(dt.TZ.TZName())
	return 1
}

func tzinfoUTCOffset(l *lua.State) int {
	tz, ok := l.ToUserData(1).(TZInfo)
	if !ok {
		lua.ArgumentError(l, 1, "tzinfo expected")
	}
	var dt *DateTime
	if !l.IsNoneOrNil(2) {
		dt = checkDateTime(l, 2)
	}
	return pushOffset(l, tz, dt)
}

func tzinfoTZName(l *lua.State) int {
	tz, ok := l.ToUserData(1).(TZInfo)
	if !ok {
		lua.ArgumentError(l, 1, "tzinfo expected")
	}
	l.PushString(tz.TZName())
	return 1
}

func pushOffset(l *lua.State, tz TZInfo, dt *DateTime) int {
	offset, err := tz.UTCOffset(l, dt)
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	if offset == nil {
		l.PushNil()
		return 1
	}
	if err := PushDelta(l, offset); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 1
}

func deltaTotalSeconds(l *lua.State) int {
	d, ok := l.ToUserData(1).(*Delta)
	if !ok {
		lua.ArgumentError(l, 1, "timedelta expected")
	}
	l.PushNumber(float64(d.Days)*secondsPerDay + float64(d.Seconds) + float64(d.Microseconds)/microsPerSecond)
	return 1
}

// checkInt reads an integral number argument. Fractional values are
// rejected rather than truncated.
func checkInt(l *lua.State, index int) int64 {
	n := lua.CheckNumber(l, index)
	if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
		lua.ArgumentError(l, index, "integer expected")
	}
	return int64(n)
}

func optInt(l *lua.State, index int, def int64) int64 {
	if l.IsNoneOrNil(index) {
		return def
	}
	return checkInt(l, index)
}

// Class constructors receive the class object at index 1.

func newDate(l *lua.State) int {
	d, err := NewDate(int(checkInt(l, 2)), int(checkInt(l, 3)), int(checkInt(l, 4)))
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	if err := PushDate(l, d); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 1
}

func newDateTime(l *lua.State) int {
	var tz TZInfo
	if !l.IsNoneOrNil(9) {
		var ok bool
		if tz, ok = l.ToUserData(9).(TZInfo); !ok {
			lua.ArgumentError(l, 9, "tzinfo expected")
		}
	}
	dt, err := NewDateTime(
		int(checkInt(l, 2)), int(checkInt(l, 3)), int(checkInt(l, 4)),
		int(optInt(l, 5, 0)), int(optInt(l, 6, 0)), int(optInt(l, 7, 0)), int(optInt(l, 8, 0)),
		tz,
	)
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	if err := PushDateTime(l, dt); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 1
}

// newDelta accepts positional days, seconds, microseconds or a single
// table with any of weeks, days, hours, minutes, seconds, microseconds.
func newDelta(l *lua.State) int {
	var days, seconds, micros int64
	if l.IsTable(2) {
		field := func(name string) int64 {
			l.Field(2, name)
			defer l.Pop(1)
			return optInt(l, -1, 0)
		}
		days = field("weeks")*7 + field("days")
		seconds = field("hours")*3600 + field("minutes")*60 + field("seconds")
		micros = field("microseconds")
	} else {
		days, seconds, micros = optInt(l, 2, 0), optInt(l, 3, 0), optInt(l, 4, 0)
	}
	d, err := NewDelta(days, seconds, micros)
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	if err := PushDelta(l, d); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 1
}

func newTimezone(l *lua.State) int {
	offset, ok := l.ToUserData(2).(*Delta)
	if !ok {
		lua.ArgumentError(l, 2, "timedelta expected")
	}
	tz, err := NewTimezone(offset, lua.OptString(l, 3, ""))
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	if err := PushTZInfo(l, tz); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 1
}

// newScriptZone stores the offset function in the registry and returns a
// tzinfo that calls it.
func newScriptZone(l *lua.State) int {
	name := lua.CheckString(l, 2)
	lua.CheckType(l, 3, lua.TypeFunction)
	key := fmt.Sprintf("%s.tzinfo.%d", ModuleName, zoneCounter.Add(1))
	l.PushValue(3)
	l.SetField(lua.RegistryIndex, key)
	if err := PushTZInfo(l, &ScriptZone{Name: name, key: key}); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 1
}
