package bridge

import (
	"fmt"
	"math"
	"time"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/luatime/internal/bridge/access"
	apperrors "github.com/louisbranch/luatime/internal/platform/errors"
)

const day = 24 * time.Hour

// DurationFromLua reads the timedelta at index as a time.Duration. Deltas
// longer than time.Duration can hold fail rather than saturate.
func (c *Converter) DurationFromLua(l *lua.State, index int) (time.Duration, error) {
	f, err := c.access.Delta(l, index)
	if err != nil {
		return 0, c.fail("duration from lua", err)
	}
	d, err := durationOf(f)
	if err != nil {
		return 0, c.fail("duration from lua", err)
	}
	return d, nil
}

func durationOf(f access.DeltaFields) (time.Duration, error) {
	seconds := int64(f.Days)*secondsPerDay + int64(f.Seconds)
	if seconds > math.MaxInt64/int64(time.Second) || seconds < math.MinInt64/int64(time.Second) {
		return 0, durationOverflow(f)
	}
	d := time.Duration(seconds) * time.Second
	micros := time.Duration(f.Microseconds) * time.Microsecond
	sum := d + micros
	if (micros > 0 && sum < d) || (micros < 0 && sum > d) {
		return 0, durationOverflow(f)
	}
	return sum, nil
}

func durationOverflow(f access.DeltaFields) error {
	value := fmt.Sprintf("%dd%ds%dus", f.Days, f.Seconds, f.Microseconds)
	return apperrors.WithMetadata(
		apperrors.CodeFieldExtraction,
		fmt.Sprintf("timedelta %s does not fit time.Duration", value),
		map[string]string{"Field": "days", "Width": "time.Duration", "Value": value},
	)
}

// PushDuration pushes d as a host timedelta. Sub-microsecond precision is
// truncated toward zero.
func (c *Converter) PushDuration(l *lua.State, d time.Duration) error {
	f := access.DeltaFields{
		Days:         int32(d / day),
		Seconds:      int32(d % day / time.Second),
		Microseconds: int32(d % time.Second / time.Microsecond),
	}
	return c.fail("push duration", c.access.NewDelta(l, f))
}
