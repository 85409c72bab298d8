//go:build !luarestricted

package access

// CurrentMode is the access mode this binary was built with.
const CurrentMode = ModeRich

// Default returns the access implementation selected at build time.
func Default() FieldAccess {
	return Rich{}
}
