//go:build luarestricted

package access

import "github.com/louisbranch/luatime/internal/bridge/typecache"

// CurrentMode is the access mode this binary was built with.
const CurrentMode = ModeRestricted

// Default returns the access implementation selected at build time.
func Default() FieldAccess {
	return NewRestricted(typecache.Default())
}
