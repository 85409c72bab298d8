// Package bridge converts between civil values and the temporal objects of
// an embedded Lua state.
//
// Conversions from Lua take a borrowed stack slot and never retain it.
// Conversions to Lua push exactly one value on success and leave the stack
// unchanged on failure. Failures detected here are *errors.Error values
// carrying one of the conversion codes; errors raised by the host itself
// (a refused construction, a failing utcoffset) are returned as they are.
package bridge

import (
	"io"
	"log"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/luatime/internal/bridge/access"
	apperrors "github.com/louisbranch/luatime/internal/platform/errors"
)

// Option configures a Converter.
type Option func(*Converter)

// WithAccess overrides the build-selected field access.
func WithAccess(fa access.FieldAccess) Option {
	return func(c *Converter) { c.access = fa }
}

// WithLogger logs conversion failures to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// Converter holds no per-call state and is safe to share between
// goroutines, each driving its own *lua.State.
type Converter struct {
	access access.FieldAccess
	logger *log.Logger
}

// New returns a Converter configured by opts.
func New(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	if c.access == nil {
		c.access = access.Default()
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	return c
}

// Mode reports the field access mode in use.
func (c *Converter) Mode() access.Mode {
	return c.access.Mode()
}

// Warm prepares l for conversions. Restricted access resolves every host
// class up front; rich access has nothing to resolve.
func (c *Converter) Warm(l *lua.State) error {
	w, ok := c.access.(interface{ Warm(*lua.State) error })
	if !ok {
		return nil
	}
	return c.fail("warm", w.Warm(l))
}

// fail logs err under op and returns it unchanged.
func (c *Converter) fail(op string, err error) error {
	if err != nil {
		c.logger.Printf("%s: %s: %v", op, apperrors.GetCode(err), err)
	}
	return err
}
