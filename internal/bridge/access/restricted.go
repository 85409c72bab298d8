package access

import (
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/luatime/internal/bridge/typecache"
	"github.com/louisbranch/luatime/internal/host/luadt"
	apperrors "github.com/louisbranch/luatime/internal/platform/errors"
)

// Restricted reads host values through the generic Lua surface only.
// Attribute reads and calls run in protected mode so a failing
// metamethod surfaces as an error instead of unwinding the caller.
type Restricted struct {
	types *typecache.Cache
}

var _ FieldAccess = Restricted{}

// NewRestricted returns a Restricted access checking classes against types.
func NewRestricted(types *typecache.Cache) Restricted {
	if types == nil {
		types = typecache.Default()
	}
	return Restricted{types: types}
}

func (Restricted) Mode() Mode { return ModeRestricted }

// Warm resolves every host class through l ahead of the first conversion.
func (r Restricted) Warm(l *lua.State) error {
	return r.types.Warm(l)
}

// IsInstance reports whether the value at index is an instance of kind,
// subclasses included.
func (r Restricted) IsInstance(l *lua.State, index int, kind typecache.Kind) (bool, error) {
	want, err := r.cache().Resolve(l, kind)
	if err != nil {
		return false, err
	}
	cls := luadt.ClassAt(l, index)
	return cls != nil && cls.IsSubclassOf(want), nil
}

func (r Restricted) cache() *typecache.Cache {
	if r.types == nil {
		return typecache.Default()
	}
	return r.types
}

func (r Restricted) check(l *lua.State, index int, kind typecache.Kind) error {
	ok, err := r.IsInstance(l, index, kind)
	if err != nil {
		return err
	}
	if !ok {
		return Mismatch(l, index, kind)
	}
	return nil
}

func (r Restricted) Date(l *lua.State, index int) (DateFields, error) {
	index = l.AbsIndex(index)
	if err := r.check(l, index, typecache.KindDate); err != nil {
		return DateFields{}, err
	}
	var e extractor
	f := restrictedDate(&e, l, index)
	return f, e.err
}

func (r Restricted) DateTime(l *lua.State, index int) (DateTimeFields, error) {
	index = l.AbsIndex(index)
	if err := r.check(l, index, typecache.KindDateTime); err != nil {
		return DateTimeFields{}, err
	}
	var e extractor
	f := DateTimeFields{DateFields: restrictedDate(&e, l, index)}
	f.Hour = e.uint8("hour", e.field(l, index, "hour"))
	f.Minute = e.uint8("minute", e.field(l, index, "minute"))
	f.Second = e.uint8("second", e.field(l, index, "second"))
	f.Microsecond = e.uint32("microsecond", e.field(l, index, "microsecond"))
	return f, e.err
}

func restrictedDate(e *extractor, l *lua.State, index int) DateFields {
	var f DateFields
	f.Year = e.int32("year", e.field(l, index, "year"))
	f.Month = e.uint8("month", e.field(l, index, "month"))
	f.Day = e.uint8("day", e.field(l, index, "day"))
	return f
}

func (r Restricted) Delta(l *lua.State, index int) (DeltaFields, error) {
	index = l.AbsIndex(index)
	if err := r.check(l, index, typecache.KindDelta); err != nil {
		return DeltaFields{}, err
	}
	var e extractor
	var f DeltaFields
	f.Days = e.int32("days", e.field(l, index, "days"))
	f.Seconds = e.int32("seconds", e.field(l, index, "seconds"))
	f.Microseconds = e.int32("microseconds", e.field(l, index, "microseconds"))
	return f, e.err
}

func (r Restricted) TZInfo(l *lua.State, index int) (bool, error) {
	index = l.AbsIndex(index)
	if err := r.check(l, index, typecache.KindDateTime); err != nil {
		return false, err
	}
	if err := protectedField(l, index, "tzinfo"); err != nil {
		return false, err
	}
	if l.IsNil(-1) {
		l.Pop(1)
		return false, nil
	}
	return true, nil
}

func (r Restricted) UTCOffset(l *lua.State, index int) (DeltaFields, bool, error) {
	index = l.AbsIndex(index)
	if err := r.check(l, index, typecache.KindTZInfo); err != nil {
		return DeltaFields{}, false, err
	}
	if err := protectedField(l, index, "utcoffset"); err != nil {
		return DeltaFields{}, false, err
	}
	if !l.IsFunction(-1) {
		actual := lua.TypeNameOf(l, -1)
		l.Pop(1)
		return DeltaFields{}, false, apperrors.WithMetadata(
			apperrors.CodeTypeMismatch,
			fmt.Sprintf("utcoffset of %s is %s, not a function", Describe(l, index), actual),
			map[string]string{"Expected": "function", "Actual": actual},
		)
	}
	l.PushValue(index)
	l.PushNil()
	if err := l.ProtectedCall(2, 1, 0); err != nil {
		l.Pop(1)
		return DeltaFields{}, false, err
	}
	defer l.Pop(1)
	if l.IsNil(-1) {
		return DeltaFields{}, false, nil
	}
	f, err := r.Delta(l, -1)
	if err != nil {
		return DeltaFields{}, false, err
	}
	return f, true, nil
}

func (r Restricted) NewDate(l *lua.State, f DateFields) error {
	return r.construct(l, typecache.KindDate, func() int {
		l.PushInteger(int(f.Year))
		l.PushInteger(int(f.Month))
		l.PushInteger(int(f.Day))
		return 3
	})
}

func (r Restricted) NewDateTime(l *lua.State, f DateTimeFields, tzIndex int) error {
	if tzIndex != 0 {
		tzIndex = l.AbsIndex(tzIndex)
	}
	return r.construct(l, typecache.KindDateTime, func() int {
		l.PushInteger(int(f.Year))
		l.PushInteger(int(f.Month))
		l.PushInteger(int(f.Day))
		l.PushInteger(int(f.Hour))
		l.PushInteger(int(f.Minute))
		l.PushInteger(int(f.Second))
		l.PushInteger(int(f.Microsecond))
		if tzIndex != 0 {
			l.PushValue(tzIndex)
		} else {
			l.PushNil()
		}
		return 8
	})
}

func (r Restricted) NewDelta(l *lua.State, f DeltaFields) error {
	return r.construct(l, typecache.KindDelta, func() int {
		l.PushInteger(int(f.Days))
		l.PushInteger(int(f.Seconds))
		l.PushInteger(int(f.Microseconds))
		return 3
	})
}

func (r Restricted) NewTimezone(l *lua.State, deltaIndex int) error {
	deltaIndex = l.AbsIndex(deltaIndex)
	return r.construct(l, typecache.KindTimezone, func() int {
		l.PushValue(deltaIndex)
		return 1
	})
}

// construct calls the class of kind with the arguments pushed by args.
func (r Restricted) construct(l *lua.State, kind typecache.Kind, args func() int) error {
	cls, err := r.cache().Resolve(l, kind)
	if err != nil {
		return err
	}
	if err := luadt.PushClass(l, cls); err != nil {
		return err
	}
	if err := l.ProtectedCall(args(), 1, 0); err != nil {
		l.Pop(1)
		return err
	}
	return nil
}

// field reads a numeric attribute. A missing or non-numeric attribute is
// a type mismatch.
func (e *extractor) field(l *lua.State, index int, name string) float64 {
	if e.err != nil {
		return 0
	}
	if err := protectedField(l, index, name); err != nil {
		e.err = err
		return 0
	}
	defer l.Pop(1)
	if l.TypeOf(-1) != lua.TypeNumber {
		actual := lua.TypeNameOf(l, -1)
		e.err = apperrors.WithMetadata(
			apperrors.CodeTypeMismatch,
			fmt.Sprintf("attribute %s is %s, not a number", name, actual),
			map[string]string{"Expected": "number", "Actual": actual, "Field": name},
		)
		return 0
	}
	n, _ := l.ToNumber(-1)
	return n
}

// protectedField pushes index[name], running any __index metamethod in
// protected mode. On failure the stack is left unchanged.
func protectedField(l *lua.State, index int, name string) error {
	index = l.AbsIndex(index)
	l.PushGoFunction(func(l *lua.State) int {
		l.Field(1, name)
		return 1
	})
	l.PushValue(index)
	if err := l.ProtectedCall(1, 1, 0); err != nil {
		l.Pop(1)
		return err
	}
	return nil
}
