// Package typecache resolves the host classes the converter checks values
// against. Each kind is resolved at most once per cache; concurrent first
// lookups share a single resolution and later lookups are lock-free.
package typecache

import (
	"fmt"
	"sync/atomic"

	"github.com/Shopify/go-lua"
	"golang.org/x/sync/singleflight"

	"github.com/louisbranch/luatime/internal/host/luadt"
	apperrors "github.com/louisbranch/luatime/internal/platform/errors"
)

// Kind names a host temporal type.
type Kind int

const (
	KindDate Kind = iota
	KindDateTime
	KindDelta
	KindTZInfo
	KindTimezone

	kindCount
)

var kindNames = [kindCount]string{
	KindDate:     "date",
	KindDateTime: "datetime",
	KindDelta:    "timedelta",
	KindTZInfo:   "tzinfo",
	KindTimezone: "timezone",
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindDate, KindDateTime, KindDelta, KindTZInfo, KindTimezone}
}

// Name returns the attribute name of the class in the host module.
func (k Kind) Name() string {
	if !k.valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// String returns the qualified host name, for example "datetime.date".
func (k Kind) String() string {
	return luadt.ModuleName + "." + k.Name()
}

func (k Kind) valid() bool {
	return k >= 0 && k < kindCount
}

// Resolver looks up the class of kind through l.
type Resolver func(l *lua.State, kind Kind) (*luadt.Class, error)

// Cache holds one resolved class per kind. The zero value is not usable;
// construct with New.
type Cache struct {
	resolve Resolver
	slots   [kindCount]atomic.Pointer[luadt.Class]
	group   singleflight.Group
}

// New returns an empty cache backed by resolve.
func New(resolve Resolver) *Cache {
	if resolve == nil {
		resolve = LoadedModule
	}
	return &Cache{resolve: resolve}
}

var defaultCache = New(LoadedModule)

// Default returns the process-wide cache.
func Default() *Cache {
	return defaultCache
}

// Resolve returns the class for kind, resolving it through l on first use.
// Failures are reported as type mismatches and are not remembered, so a
// later call with a state that has the module loaded succeeds.
//
// Concurrent first uses of a kind share one resolution. A caller whose
// shared resolution failed tries once more against its own state, since
// the failure may belong to another caller's state.
func (c *Cache) Resolve(l *lua.State, kind Kind) (*luadt.Class, error) {
	if !kind.valid() {
		return nil, unresolved(kind, fmt.Errorf("unknown kind %d", int(kind)))
	}
	if cls := c.slots[kind].Load(); cls != nil {
		return cls, nil
	}

	v, err, shared := c.group.Do(kind.Name(), func() (any, error) {
		return c.load(l, kind)
	})
	if err != nil && shared {
		v, err = c.load(l, kind)
	}
	if err != nil {
		return nil, unresolved(kind, err)
	}
	return v.(*luadt.Class), nil
}

// load resolves kind through l and stores the result.
func (c *Cache) load(l *lua.State, kind Kind) (*luadt.Class, error) {
	if cls := c.slots[kind].Load(); cls != nil {
		return cls, nil
	}
	cls, err := c.resolve(l, kind)
	if err != nil {
		return nil, err
	}
	if cls == nil {
		return nil, fmt.Errorf("resolver returned no class")
	}
	c.slots[kind].Store(cls)
	return cls, nil
}

func (c *Cache) cached(kind Kind) bool {
	return kind.valid() && c.slots[kind].Load() != nil
}

// Warm resolves every kind not yet cached, stopping at the first failure.
func (c *Cache) Warm(l *lua.State) error {
	for _, kind := range Kinds() {
		if c.cached(kind) {
			continue
		}
		if _, err := c.Resolve(l, kind); err != nil {
			return err
		}
	}
	return nil
}

func unresolved(kind Kind, cause error) error {
	return apperrors.WrapWithMetadata(
		apperrors.CodeTypeMismatch,
		fmt.Sprintf("resolve %s: %v", kind, cause),
		map[string]string{"Expected": kind.String(), "Actual": "an unloaded type"},
		cause,
	)
}

// LoadedModule reads the class from package.loaded of l.
func LoadedModule(l *lua.State, kind Kind) (*luadt.Class, error) {
	cls, err := luadt.LoadedClass(l, kind.Name())
	if err != nil {
		return nil, err
	}
	if cls.Name != kind.Name() {
		return nil, fmt.Errorf("%s is bound to class %s", kind, cls.QualifiedName())
	}
	return cls, nil
}
