// Package access reads fields from, and constructs, host temporal objects.
//
// Two implementations exist. Rich reads the Go payload of a host value
// through the typed accessor interfaces of package luadt. Restricted only
// uses the generic surface any Lua value offers: metatable class checks,
// attribute lookups and calls, all run through protected calls. The build
// tag luarestricted selects which one Default returns.
package access

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/luatime/internal/bridge/typecache"
	"github.com/louisbranch/luatime/internal/host/luadt"
	apperrors "github.com/louisbranch/luatime/internal/platform/errors"
)

// Mode names an access implementation.
type Mode string

const (
	ModeRich       Mode = "rich"
	ModeRestricted Mode = "restricted"
)

// DateFields are the calendar fields of a host date.
type DateFields struct {
	Year  int32
	Month uint8
	Day   uint8
}

// DateTimeFields are the fields of a naive host datetime.
type DateTimeFields struct {
	DateFields
	Hour        uint8
	Minute      uint8
	Second      uint8
	Microsecond uint32
}

// DeltaFields are the normalized fields of a host timedelta.
type DeltaFields struct {
	Days         int32
	Seconds      int32
	Microseconds int32
}

// FieldAccess is the capability set the converter needs from the host.
// Every index refers to the stack of l; operations that push leave exactly
// one new value on success and leave the stack unchanged on failure.
type FieldAccess interface {
	Mode() Mode

	// Date reads a date, or any value whose class derives from date.
	Date(l *lua.State, index int) (DateFields, error)
	// DateTime reads the naive fields of a datetime.
	DateTime(l *lua.State, index int) (DateTimeFields, error)
	// Delta reads a timedelta.
	Delta(l *lua.State, index int) (DeltaFields, error)
	// TZInfo pushes the timezone attached to a datetime. It reports false,
	// pushing nothing, when the datetime is naive.
	TZInfo(l *lua.State, index int) (bool, error)
	// UTCOffset asks a tzinfo for its offset without a reference datetime.
	// It reports false when the tzinfo has no such answer.
	UTCOffset(l *lua.State, index int) (DeltaFields, bool, error)

	NewDate(l *lua.State, f DateFields) error
	// NewDateTime pushes a datetime; tzIndex 0 builds a naive value.
	NewDateTime(l *lua.State, f DateTimeFields, tzIndex int) error
	NewDelta(l *lua.State, f DeltaFields) error
	// NewTimezone pushes a fixed offset timezone built from the timedelta
	// at deltaIndex.
	NewTimezone(l *lua.State, deltaIndex int) error
}

type width struct {
	name     string
	min, max float64
}

var (
	widthInt32  = width{name: "int32", min: math.MinInt32, max: math.MaxInt32}
	widthUint8  = width{name: "uint8", min: 0, max: math.MaxUint8}
	widthUint32 = width{name: "uint32", min: 0, max: math.MaxUint32}
)

// extractor narrows field values, keeping the first failure.
type extractor struct {
	err error
}

func (e *extractor) narrow(field string, n float64, w width) int64 {
	if e.err != nil {
		return 0
	}
	if math.IsNaN(n) || n != math.Trunc(n) || n < w.min || n > w.max {
		value := strconv.FormatFloat(n, 'g', -1, 64)
		e.err = apperrors.WithMetadata(
			apperrors.CodeFieldExtraction,
			fmt.Sprintf("field %s = %s does not fit %s", field, value, w.name),
			map[string]string{"Field": field, "Width": w.name, "Value": value},
		)
		return 0
	}
	return int64(n)
}

func (e *extractor) int32(field string, n float64) int32 {
	return int32(e.narrow(field, n, widthInt32))
}

func (e *extractor) uint8(field string, n float64) uint8 {
	return uint8(e.narrow(field, n, widthUint8))
}

func (e *extractor) uint32(field string, n float64) uint32 {
	return uint32(e.narrow(field, n, widthUint32))
}

// Mismatch reports that the value at index is not an instance of kind.
func Mismatch(l *lua.State, index int, kind typecache.Kind) error {
	actual := Describe(l, index)
	return apperrors.WithMetadata(
		apperrors.CodeTypeMismatch,
		fmt.Sprintf("expected %s, got %s", kind, actual),
		map[string]string{"Expected": kind.String(), "Actual": actual},
	)
}

// Describe names the value at index by class when it has one, and by Lua
// type otherwise.
func Describe(l *lua.State, index int) string {
	if cls := luadt.ClassAt(l, index); cls != nil {
		return cls.QualifiedName()
	}
	return lua.TypeNameOf(l, index)
}
