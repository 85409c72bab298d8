package civil

import (
	"errors"
	"testing"
	"time"
)

func TestNewDate(t *testing.T) {
	tests := []struct {
		name      string
		year      int32
		month     uint8
		day       uint8
		wantField string
	}{
		{name: "min", year: 1, month: 1, day: 1},
		{name: "max", year: 9999, month: 12, day: 31},
		{name: "leap day", year: 2012, month: 2, day: 29},
		{name: "leap century", year: 2000, month: 2, day: 29},
		{name: "not leap", year: 2013, month: 2, day: 29, wantField: "day"},
		{name: "not leap century", year: 1900, month: 2, day: 29, wantField: "day"},
		{name: "february 30", year: 2021, month: 2, day: 30, wantField: "day"},
		{name: "april 31", year: 2021, month: 4, day: 31, wantField: "day"},
		{name: "year zero", year: 0, month: 1, day: 1, wantField: "year"},
		{name: "year 10000", year: 10000, month: 1, day: 1, wantField: "year"},
		{name: "month 13", year: 2021, month: 13, day: 1, wantField: "month"},
		{name: "day zero", year: 2021, month: 1, day: 0, wantField: "day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDate(tt.year, tt.month, tt.day)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("NewDate() error = %v", err)
				}
				if d.Year() != tt.year || d.Month() != tt.month || d.Day() != tt.day {
					t.Fatalf("NewDate() = %v", d)
				}
				return
			}
			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("NewDate() error = %v, want *RangeError", err)
			}
			if rangeErr.Field != tt.wantField {
				t.Fatalf("field = %q, want %q", rangeErr.Field, tt.wantField)
			}
		})
	}
}

func TestDateAddDays(t *testing.T) {
	d := MustDate(2012, 2, 28)
	next, err := d.AddDays(1)
	if err != nil {
		t.Fatalf("add days: %v", err)
	}
	if next.String() != "2012-02-29" {
		t.Fatalf("next = %s, want 2012-02-29", next)
	}
	if !d.Before(next) {
		t.Fatal("expected date before next day")
	}

	if _, err := MustDate(9999, 12, 31).AddDays(1); err == nil {
		t.Fatal("expected overflow past max year")
	}
}

func TestNewDateTime(t *testing.T) {
	date := MustDate(2021, 6, 1)
	dt, err := NewDateTime(date, 23, 59, 59, 999_999_999)
	if err != nil {
		t.Fatalf("new datetime: %v", err)
	}
	if got := dt.String(); got != "2021-06-01T23:59:59.999999999" {
		t.Fatalf("String() = %q", got)
	}

	if _, err := NewDateTime(date, 24, 0, 0, 0); err == nil {
		t.Fatal("expected hour 24 to fail")
	}
	if _, err := NewDateTime(date, 0, 0, 0, 1_000_000_000); err == nil {
		t.Fatal("expected nanosecond overflow to fail")
	}
	if _, err := NewDateTime(Date{}, 0, 0, 0, 0); err == nil {
		t.Fatal("expected zero date to fail")
	}
}

func TestFixedOffsetBounds(t *testing.T) {
	if _, err := NewFixedOffset(MaxOffsetSeconds); err != nil {
		t.Fatalf("max offset: %v", err)
	}
	if _, err := NewFixedOffset(-MaxOffsetSeconds); err != nil {
		t.Fatalf("min offset: %v", err)
	}
	if _, err := NewFixedOffset(MaxOffsetSeconds + 1); err == nil {
		t.Fatal("expected offset beyond max to fail")
	}

	off, _ := NewFixedOffset(-(5*3600 + 30*60))
	if off.String() != "-05:30" {
		t.Fatalf("String() = %q", off.String())
	}
	odd, _ := NewFixedOffset(3661)
	if odd.String() != "+01:01:01" {
		t.Fatalf("String() = %q", odd.String())
	}
}

func TestZonedInstant(t *testing.T) {
	dt, _ := NewDateTime(MustDate(2021, 3, 14), 1, 30, 0, 500)
	off, _ := NewFixedOffset(-3 * 3600)
	z, err := NewZoned(dt, off)
	if err != nil {
		t.Fatalf("new zoned: %v", err)
	}

	want := time.Date(2021, 3, 14, 4, 30, 0, 500, time.UTC)
	inst := z.Instant()
	if !inst.Time().Equal(want) {
		t.Fatalf("instant = %v, want %v", inst.Time(), want)
	}
	if inst.Nanos() != 500 {
		t.Fatalf("nanos = %d, want 500", inst.Nanos())
	}

	back, err := inst.In(off)
	if err != nil {
		t.Fatalf("instant in offset: %v", err)
	}
	if back != z {
		t.Fatalf("round trip = %v, want %v", back, z)
	}
}

func TestNewZonedRejectsUTCProjectionOutOfRange(t *testing.T) {
	east, _ := NewFixedOffset(3600)
	west, _ := NewFixedOffset(-3600)

	first, _ := NewDateTime(MustDate(1, 1, 1), 0, 0, 0, 0)
	if _, err := NewZoned(first, east); err == nil {
		t.Fatal("expected projection before year 1 to fail")
	}
	if _, err := NewZoned(first, west); err != nil {
		t.Fatalf("west of first instant: %v", err)
	}

	last, _ := NewDateTime(MustDate(9999, 12, 31), 23, 30, 0, 0)
	if _, err := NewZoned(last, west); err == nil {
		t.Fatal("expected projection after year 9999 to fail")
	}
}
