package bridge

import (
	"github.com/Shopify/go-lua"

	"github.com/louisbranch/luatime/internal/bridge/access"
	"github.com/louisbranch/luatime/internal/civil"
)

// ZonedFromLua reads an aware datetime. The attached tzinfo must resolve
// to a fixed offset without a reference datetime, and the UTC reading of
// the result must stay within the supported years.
func (c *Converter) ZonedFromLua(l *lua.State, index int) (civil.Zoned, error) {
	index = l.AbsIndex(index)
	ok, err := c.access.TZInfo(l, index)
	if err != nil {
		return civil.Zoned{}, c.fail("zoned from lua", err)
	}
	if !ok {
		return civil.Zoned{}, c.fail("zoned from lua", missingTimezone("naive "+access.Describe(l, index)))
	}
	off, err := c.OffsetFromLua(l, -1)
	l.Pop(1)
	if err != nil {
		return civil.Zoned{}, err
	}
	dt, err := c.DateTimeFromLua(l, index)
	if err != nil {
		return civil.Zoned{}, err
	}
	z, err := civil.NewZoned(dt, off)
	if err != nil {
		return civil.Zoned{}, c.fail("zoned from lua", CalendarOverflow(err))
	}
	return z, nil
}

// PushZoned pushes z as a datetime carrying a fixed offset timezone.
func (c *Converter) PushZoned(l *lua.State, z civil.Zoned) error {
	if err := c.PushOffset(l, z.Offset()); err != nil {
		return err
	}
	if err := c.access.NewDateTime(l, dateTimeFields(z.DateTime()), l.Top()); err != nil {
		l.Pop(1)
		return c.fail("push zoned", err)
	}
	l.Remove(-2)
	return nil
}

// InstantFromLua reads an aware datetime as a point on the UTC timeline.
func (c *Converter) InstantFromLua(l *lua.State, index int) (civil.Instant, error) {
	z, err := c.ZonedFromLua(l, index)
	if err != nil {
		return civil.Instant{}, err
	}
	return z.Instant(), nil
}

// PushInstant pushes i as a UTC datetime.
func (c *Converter) PushInstant(l *lua.State, i civil.Instant) error {
	z, err := i.In(civil.UTC)
	if err != nil {
		return c.fail("push instant", CalendarOverflow(err))
	}
	return c.PushZoned(l, z)
}
