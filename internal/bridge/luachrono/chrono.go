// Package luachrono exposes the converter to Lua scripts as the "chrono"
// module. Conversion failures are raised as Lua errors of the form
// "<Kind> [<CODE>]: <localized message>"; errors raised by the host are
// re-raised unchanged.
package luachrono

import (
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/luatime/internal/bridge"
	apperrors "github.com/louisbranch/luatime/internal/platform/errors"
)

// ModuleName is the name scripts require.
const ModuleName = "chrono"

// Library binds a converter and a message locale to the chrono module.
type Library struct {
	conv   *bridge.Converter
	locale string
}

// New returns a library using conv, or a default converter when nil.
func New(conv *bridge.Converter, locale string) *Library {
	if conv == nil {
		conv = bridge.New()
	}
	if locale == "" {
		locale = apperrors.DefaultLocale
	}
	return &Library{conv: conv, locale: locale}
}

// Open installs the chrono module into l. The datetime module must be
// opened separately.
func (lib *Library) Open(l *lua.State) {
	lua.Require(l, ModuleName, lib.open, true)
	l.Pop(1)
}

func (lib *Library) open(l *lua.State) int {
	lua.NewLibrary(l, []lua.RegistryFunction{
		{Name: "check_date", Function: lib.checkDate},
		{Name: "check_datetime", Function: lib.checkDateTime},
		{Name: "offset", Function: lib.offset},
		{Name: "instant", Function: lib.instant},
		{Name: "to_utc", Function: lib.toUTC},
		{Name: "add_days", Function: lib.addDays},
		{Name: "mode", Function: lib.mode},
	})
	return 1
}

// raise converts err into a Lua error. It does not return.
func (lib *Library) raise(l *lua.State, err error) {
	lua.Errorf(l, "%s", lib.message(err))
}

// message renders err as "<Kind> [<CODE>]: <localized message>", or as its
// own text when it carries no conversion code. go-lua formats only plain
// strings, so the text is built here.
func (lib *Library) message(err error) string {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown {
		return err.Error()
	}
	return fmt.Sprintf("%s [%s]: %s", code.HostKind(), code, apperrors.UserMessage(err, lib.locale))
}

// chrono.check_date(value) -> "YYYY-MM-DD"
func (lib *Library) checkDate(l *lua.State) int {
	d, err := lib.conv.DateFromLua(l, 1)
	if err != nil {
		lib.raise(l, err)
	}
	l.PushString(d.String())
	return 1
}

// chrono.check_datetime(value) -> ISO date-time, offset included when aware
func (lib *Library) checkDateTime(l *lua.State) int {
	if z, err := lib.conv.ZonedFromLua(l, 1); err == nil {
		l.PushString(z.String())
		return 1
	} else if !apperrors.IsCode(err, apperrors.CodeMissingTimezone) {
		lib.raise(l, err)
	}
	dt, err := lib.conv.DateTimeFromLua(l, 1)
	if err != nil {
		lib.raise(l, err)
	}
	l.PushString(dt.String())
	return 1
}

// chrono.offset(tzinfo) -> seconds east of UTC
func (lib *Library) offset(l *lua.State) int {
	off, err := lib.conv.OffsetFromLua(l, 1)
	if err != nil {
		lib.raise(l, err)
	}
	l.PushInteger(int(off.Seconds()))
	return 1
}

// chrono.instant(datetime) -> unix seconds, nanoseconds
func (lib *Library) instant(l *lua.State) int {
	i, err := lib.conv.InstantFromLua(l, 1)
	if err != nil {
		lib.raise(l, err)
	}
	l.PushNumber(float64(i.Unix()))
	l.PushInteger(int(i.Nanos()))
	return 2
}

// chrono.to_utc(datetime) -> the same instant as a UTC datetime
func (lib *Library) toUTC(l *lua.State) int {
	i, err := lib.conv.InstantFromLua(l, 1)
	if err != nil {
		lib.raise(l, err)
	}
	if err := lib.conv.PushInstant(l, i); err != nil {
		lib.raise(l, err)
	}
	return 1
}

// chrono.add_days(date, n) -> date
func (lib *Library) addDays(l *lua.State) int {
	d, err := lib.conv.DateFromLua(l, 1)
	if err != nil {
		lib.raise(l, err)
	}
	n := lua.CheckInteger(l, 2)
	next, err := d.AddDays(n)
	if err != nil {
		lib.raise(l, bridge.CalendarOverflow(err))
	}
	if err := lib.conv.PushDate(l, next); err != nil {
		lib.raise(l, err)
	}
	return 1
}

// chrono.mode() -> "rich" | "restricted"
func (lib *Library) mode(l *lua.State) int {
	l.PushString(string(lib.conv.Mode()))
	return 1
}
