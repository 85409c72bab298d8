package luadt

import (
	"strings"
	"testing"

	"github.com/Shopify/go-lua"
)

func newState(t *testing.T) *lua.State {
	t.Helper()
	l := lua.NewState()
	lua.OpenLibraries(l)
	Open(l)
	return l
}

func run(t *testing.T, l *lua.State, script string) {
	t.Helper()
	if err := lua.DoString(l, script); err != nil {
		t.Fatalf("run script: %v", err)
	}
}

func TestNewDateValidates(t *testing.T) {
	if _, err := NewDate(2012, 2, 29); err != nil {
		t.Fatalf("leap day: %v", err)
	}
	for _, tc := range [][3]int{{2021, 2, 29}, {0, 1, 1}, {10000, 1, 1}, {2021, 13, 1}, {2021, 4, 31}} {
		if _, err := NewDate(tc[0], tc[1], tc[2]); err == nil {
			t.Errorf("NewDate(%v) expected error", tc)
		}
	}
}

func TestNewDeltaNormalizes(t *testing.T) {
	tests := []struct {
		name                  string
		days, seconds, micros int64
		want                  Delta
	}{
		{name: "zero", want: Delta{}},
		{name: "negative seconds", seconds: -1, want: Delta{Days: -1, Seconds: 86399}},
		{name: "micro carry", micros: 1_500_000, want: Delta{Seconds: 1, Microseconds: 500_000}},
		{name: "negative micro", micros: -1, want: Delta{Days: -1, Seconds: 86399, Microseconds: 999_999}},
		{name: "day carry", seconds: 86400 * 2, want: Delta{Days: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDelta(tt.days, tt.seconds, tt.micros)
			if err != nil {
				t.Fatalf("NewDelta() error = %v", err)
			}
			if *got != tt.want {
				t.Fatalf("NewDelta() = %+v, want %+v", *got, tt.want)
			}
		})
	}
	if _, err := NewDelta(maxDeltaDays+1, 0, 0); err == nil {
		t.Fatal("expected days overflow")
	}
}

func TestNewTimezoneBounds(t *testing.T) {
	almostDay, _ := NewDelta(0, 86399, 0)
	if _, err := NewTimezone(almostDay, ""); err != nil {
		t.Fatalf("86399s: %v", err)
	}
	day, _ := NewDelta(1, 0, 0)
	if _, err := NewTimezone(day, ""); err == nil {
		t.Fatal("expected one day offset to fail")
	}
	minusDay, _ := NewDelta(-1, 0, 0)
	if _, err := NewTimezone(minusDay, ""); err == nil {
		t.Fatal("expected minus one day offset to fail")
	}
	west, _ := NewDelta(0, -(3*3600 + 30*60), 0)
	tz, err := NewTimezone(west, "")
	if err != nil {
		t.Fatalf("west: %v", err)
	}
	if tz.TZName() != "UTC-03:30" {
		t.Fatalf("TZName() = %q", tz.TZName())
	}
}

func TestClassHierarchy(t *testing.T) {
	if !DateTimeClass.IsSubclassOf(DateClass) {
		t.Fatal("datetime should derive from date")
	}
	if DateClass.IsSubclassOf(DateTimeClass) {
		t.Fatal("date should not derive from datetime")
	}
	if !TimezoneClass.IsSubclassOf(TZInfoClass) {
		t.Fatal("timezone should derive from tzinfo")
	}
	if DeltaClass.IsSubclassOf(DateClass) {
		t.Fatal("timedelta should not derive from date")
	}
}

func TestOpenRegistersModule(t *testing.T) {
	l := newState(t)
	for _, cls := range Classes() {
		got, err := LoadedClass(l, cls.Name)
		if err != nil {
			t.Fatalf("LoadedClass(%s): %v", cls.Name, err)
		}
		if got != cls {
			t.Fatalf("LoadedClass(%s) = %p, want %p", cls.Name, got, cls)
		}
	}
	if l.Top() != 0 {
		t.Fatalf("stack top = %d, want 0", l.Top())
	}
	run(t, l, `
		local dt = require("datetime")
		assert(dt == datetime)
		assert(dt.MINYEAR == 1 and dt.MAXYEAR == 9999)
		assert(tostring(dt.date) == "<class 'datetime.date'>")
	`)
}

func TestLoadedClassWithoutModule(t *testing.T) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	if _, err := LoadedClass(l, "date"); err != ErrNotOpen {
		t.Fatalf("LoadedClass() error = %v, want ErrNotOpen", err)
	}
	if err := PushDate(l, &Date{Year: 2021, Month: 1, Day: 1}); err != ErrNotOpen {
		t.Fatalf("PushDate() error = %v, want ErrNotOpen", err)
	}
	if l.Top() != 0 {
		t.Fatalf("stack top = %d, want 0", l.Top())
	}
}

func TestScriptConstructsAndReadsValues(t *testing.T) {
	l := newState(t)
	run(t, l, `
		local tz = datetime.timezone(datetime.timedelta(0, -3 * 3600), "BRT")
		local dt = datetime.datetime(2021, 3, 14, 1, 30, 0, 250, tz)
		assert(dt.year == 2021 and dt.month == 3 and dt.day == 14)
		assert(dt.hour == 1 and dt.minute == 30 and dt.microsecond == 250)
		assert(dt.tzinfo == tz)
		assert(dt:tzname() == "BRT")
		local off = dt:utcoffset()
		assert(off.days == -1 and off.seconds == 75600)
		assert(off:total_seconds() == -10800)
		assert(dt:date() == datetime.date(2021, 3, 14))
		assert(dt:isoformat() == "2021-03-14T01:30:00.000250")
		assert(dt.unknown == nil)
		local naive = datetime.datetime(2021, 1, 1)
		assert(naive.tzinfo == nil and naive:utcoffset() == nil)
		local week = datetime.timedelta{weeks = 1, hours = 1}
		assert(week.days == 7 and week.seconds == 3600)
	`)
}

func TestScriptConstructorRejectsInvalidFields(t *testing.T) {
	l := newState(t)
	for _, script := range []string{
		"datetime.date(2021, 2, 30)",
		"datetime.date(2021, 2.5, 1)",
		"datetime.datetime(2021, 1, 1, 24)",
		"datetime.timezone(datetime.timedelta(1))",
	} {
		if err := lua.DoString(l, script); err == nil {
			t.Errorf("%s: expected error", script)
		}
		l.SetTop(0)
	}
}

func TestScriptZoneCallsFunction(t *testing.T) {
	l := newState(t)
	run(t, l, `
		zone = datetime.tzinfo("Scripted", function(dt)
			if dt == nil then return datetime.timedelta(0, 3600) end
			return datetime.timedelta(0, 7200)
		end)
		silent = datetime.tzinfo("Silent", function() return nil end)
	`)
	l.Global("zone")
	zone, ok := l.ToUserData(-1).(*ScriptZone)
	l.Pop(1)
	if !ok {
		t.Fatal("zone is not a *ScriptZone")
	}
	offset, err := zone.UTCOffset(l, nil)
	if err != nil {
		t.Fatalf("UTCOffset(nil): %v", err)
	}
	if offset == nil || offset.Seconds != 3600 {
		t.Fatalf("UTCOffset(nil) = %v, want 3600s", offset)
	}
	dt, _ := NewDateTime(2021, 1, 1, 0, 0, 0, 0, zone)
	offset, err = zone.UTCOffset(l, dt)
	if err != nil || offset.Seconds != 7200 {
		t.Fatalf("UTCOffset(dt) = %v, %v", offset, err)
	}

	l.Global("silent")
	silent := l.ToUserData(-1).(*ScriptZone)
	l.Pop(1)
	if offset, err := silent.UTCOffset(l, nil); err != nil || offset != nil {
		t.Fatalf("silent UTCOffset = %v, %v", offset, err)
	}
	if l.Top() != 0 {
		t.Fatalf("stack top = %d, want 0", l.Top())
	}
}

func TestScriptZoneErrorIsReturned(t *testing.T) {
	l := newState(t)
	run(t, l, `broken = datetime.tzinfo("Broken", function() error("no offset today") end)`)
	l.Global("broken")
	zone := l.ToUserData(-1).(*ScriptZone)
	l.Pop(1)
	_, err := zone.UTCOffset(l, nil)
	if err == nil || !strings.Contains(err.Error(), "no offset today") {
		t.Fatalf("UTCOffset() error = %v", err)
	}
	if l.Top() != 0 {
		t.Fatalf("stack top = %d, want 0", l.Top())
	}
}

type fakeDate struct{ y, m, d int }

func (f fakeDate) GetYear() int  { return f.y }
func (f fakeDate) GetMonth() int { return f.m }
func (f fakeDate) GetDay() int   { return f.d }

func TestPushServesForeignAccessors(t *testing.T) {
	l := newState(t)
	if err := Push(l, fakeDate{2021, 2, 30}, DateClass); err != nil {
		t.Fatalf("Push(): %v", err)
	}
	l.SetGlobal("odd")
	run(t, l, `assert(odd.year == 2021 and odd.month == 2 and odd.day == 30)`)
	l.Global("odd")
	if got := ClassAt(l, -1); got != DateClass {
		t.Fatalf("ClassAt() = %v, want date", got)
	}
	l.Pop(1)
}
