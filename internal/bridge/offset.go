package bridge

import (
	"fmt"
	"strconv"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/luatime/internal/bridge/access"
	"github.com/louisbranch/luatime/internal/civil"
)

const secondsPerDay = 24 * 60 * 60

// OffsetFromLua asks the tzinfo at index for its offset with no reference
// datetime. A tzinfo that cannot answer without one is a missing timezone.
func (c *Converter) OffsetFromLua(l *lua.State, index int) (civil.FixedOffset, error) {
	f, ok, err := c.access.UTCOffset(l, index)
	if err != nil {
		return civil.FixedOffset{}, c.fail("offset from lua", err)
	}
	if !ok {
		return civil.FixedOffset{}, c.fail("offset from lua", missingTimezone(access.Describe(l, index)))
	}
	off, err := offsetOf(f)
	if err != nil {
		return civil.FixedOffset{}, c.fail("offset from lua", err)
	}
	return off, nil
}

func offsetOf(f access.DeltaFields) (civil.FixedOffset, error) {
	seconds := int64(f.Days)*secondsPerDay + int64(f.Seconds)
	if f.Microseconds != 0 {
		micros := seconds*1_000_000 + int64(f.Microseconds)
		sign := ""
		if micros < 0 {
			sign, micros = "-", -micros
		}
		return civil.FixedOffset{}, offsetOutOfRange(fmt.Sprintf("%s%d.%06d", sign, micros/1_000_000, micros%1_000_000))
	}
	if seconds < -civil.MaxOffsetSeconds || seconds > civil.MaxOffsetSeconds {
		return civil.FixedOffset{}, offsetOutOfRange(strconv.FormatInt(seconds, 10))
	}
	return civil.NewFixedOffset(int32(seconds))
}

// PushOffset pushes off as a fixed offset host timezone.
func (c *Converter) PushOffset(l *lua.State, off civil.FixedOffset) error {
	if err := c.access.NewDelta(l, access.DeltaFields{Seconds: off.Seconds()}); err != nil {
		return c.fail("push offset", err)
	}
	if err := c.access.NewTimezone(l, -1); err != nil {
		l.Pop(1)
		return c.fail("push offset", err)
	}
	l.Remove(-2)
	return nil
}
