package luadt

import (
	"errors"
	"fmt"

	"github.com/Shopify/go-lua"
)

// ModuleName is the name scripts require.
const ModuleName = "datetime"

const classMetaName = "datetime.class"

// ErrNotOpen is returned when pushing a value into a state that never
// opened the datetime module.
var ErrNotOpen = errors.New("datetime module is not open in this state")

// Class identifies a host temporal type. Class values are process-wide:
// the same *Class backs the class object of every state.
type Class struct {
	Name string
	Base *Class
}

// Host classes, in the order they are installed.
var (
	DateClass     = &Class{Name: "date"}
	DateTimeClass = &Class{Name: "datetime", Base: DateClass}
	DeltaClass    = &Class{Name: "timedelta"}
	TZInfoClass   = &Class{Name: "tzinfo"}
	TimezoneClass = &Class{Name: "timezone", Base: TZInfoClass}
)

// Classes lists every host class.
func Classes() []*Class {
	return []*Class{DateClass, DateTimeClass, DeltaClass, TZInfoClass, TimezoneClass}
}

// IsSubclassOf reports whether c is other or derives from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cls := c; cls != nil; cls = cls.Base {
		if cls == other {
			return true
		}
	}
	return false
}

// QualifiedName returns the dotted name scripts see.
func (c *Class) QualifiedName() string {
	return ModuleName + "." + c.Name
}

func (c *Class) String() string {
	return fmt.Sprintf("<class '%s'>", c.QualifiedName())
}

func (c *Class) metaName() string {
	return c.QualifiedName()
}

// ClassOf returns the class of a host value, or nil for foreign values.
func ClassOf(v any) *Class {
	switch v.(type) {
	case *DateTime:
		return DateTimeClass
	case *Date:
		return DateClass
	case *Delta:
		return DeltaClass
	case *Timezone:
		return TimezoneClass
	case TZInfo:
		return TZInfoClass
	default:
		return nil
	}
}

// Open installs the datetime module into l: it is registered in
// package.loaded and as a global.
func Open(l *lua.State) {
	lua.Require(l, ModuleName, openModule, true)
	l.Pop(1)
}

func openModule(l *lua.State) int {
	lua.NewMetaTable(l, classMetaName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "__call", Function: classCall},
		{Name: "__tostring", Function: classToString},
		{Name: "__index", Function: classIndex},
	}, 0)
	l.Pop(1)

	l.NewTable()
	for _, cls := range Classes() {
		if err := PushClass(l, cls); err != nil {
			lua.Errorf(l, "%s", err.Error())
		}

		lua.NewMetaTable(l, cls.metaName())
		lua.SetFunctions(l, instanceMethods, 0)
		l.PushValue(-2)
		l.SetField(-2, "__class")
		l.PushString(cls.QualifiedName())
		l.SetField(-2, "__name")
		l.Pop(1)

		l.SetField(-2, cls.Name)
	}

	l.PushInteger(MinYear)
	l.SetField(-2, "MINYEAR")
	l.PushInteger(MaxYear)
	l.SetField(-2, "MAXYEAR")
	if err := PushTZInfo(l, UTC); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	l.SetField(-2, "utc")
	return 1
}

// PushClass pushes the callable class object of cls.
func PushClass(l *lua.State, cls *Class) error {
	l.PushUserData(cls)
	l.Field(lua.RegistryIndex, classMetaName)
	if !l.IsTable(-1) {
		l.Pop(2)
		return ErrNotOpen
	}
	l.SetMetaTable(-2)
	return nil
}

// LoadedClass reads the class object registered under name in the loaded
// datetime module of l, without going through globals.
func LoadedClass(l *lua.State, name string) (*Class, error) {
	l.Field(lua.RegistryIndex, "_LOADED")
	defer l.Pop(1)
	if !l.IsTable(-1) {
		return nil, ErrNotOpen
	}
	l.Field(-1, ModuleName)
	defer l.Pop(1)
	if !l.IsTable(-1) {
		return nil, ErrNotOpen
	}
	l.Field(-1, name)
	defer l.Pop(1)
	cls, ok := l.ToUserData(-1).(*Class)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not a class", ModuleName, name)
	}
	return cls, nil
}

// ClassAt returns the class recorded in the metatable of the value at
// index, or nil when the value carries none.
func ClassAt(l *lua.State, index int) *Class {
	if !lua.MetaField(l, index, "__class") {
		return nil
	}
	cls, _ := l.ToUserData(-1).(*Class)
	l.Pop(1)
	return cls
}

func classCall(l *lua.State) int {
	cls, ok := l.ToUserData(1).(*Class)
	if !ok {
		lua.Errorf(l, "not a datetime class")
	}
	switch cls {
	case DateClass:
		return newDate(l)
	case DateTimeClass:
		return newDateTime(l)
	case DeltaClass:
		return newDelta(l)
	case TZInfoClass:
		return newScriptZone(l)
	case TimezoneClass:
		return newTimezone(l)
	}
	lua.Errorf(l, "cannot create '%s' instances", cls.QualifiedName())
	return 0
}

func classToString(l *lua.State) int {
	cls, _ := l.ToUserData(1).(*Class)
	l.PushString(cls.String())
	return 1
}

func classIndex(l *lua.State) int {
	cls, _ := l.ToUserData(1).(*Class)
	switch lua.CheckString(l, 2) {
	case "__name":
		l.PushString(cls.QualifiedName())
	case "name":
		l.PushString(cls.Name)
	default:
		l.PushNil()
	}
	return 1
}
