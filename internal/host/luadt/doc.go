// Package luadt installs a "datetime" module into a go-lua state.
//
// The module gives scripts a temporal object model with the same shape as
// the familiar date/datetime/timedelta/tzinfo family:
//
//	local datetime = require("datetime")
//	local d = datetime.date(2012, 2, 29)
//	local tz = datetime.timezone(datetime.timedelta(0, -3 * 3600), "BRT")
//	local dt = datetime.datetime(2021, 3, 14, 1, 30, 0, 0, tz)
//	print(dt.year, dt.tzinfo:utcoffset(nil).seconds)
//
// Instances are userdata carrying the Go values defined here. Each value
// type implements the typed accessor interfaces (DateAccess, TimeAccess,
// TZInfoAccess, DeltaAccess) so Go code can read fields directly, while
// scripts and dynamic callers see the same fields as attributes through the
// instance metatable's __index.
//
// # Classes
//
// Every instance metatable carries a __class field holding the class
// object, a userdata wrapping one of the process-wide *Class values. Class
// objects are callable and construct instances. Subclassing follows the
// Base chain: a datetime is also a date, and a timezone is also a tzinfo.
//
// Scripted zones (datetime.tzinfo(name, fn)) wrap a Lua function that
// answers utcoffset queries. The function receives the datetime being
// resolved, or nil for a naive query, and returns a timedelta or nil.
package luadt
