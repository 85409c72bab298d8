// Package civil defines validated proleptic Gregorian calendar values.
//
// Every value in this package is immutable and calendar-valid by
// construction: the only way to obtain a Date, DateTime, FixedOffset or
// Zoned other than the zero value is through the New* constructors, which
// reject out-of-range fields with a *RangeError.
//
// # Range
//
// Years span 1 through 9999. Offsets are whole seconds strictly within one
// day of UTC. A Zoned value is additionally required to project onto a UTC
// date-time inside the same year range, so every Instant derived from it is
// representable back as a DateTime.
//
// # Zero values
//
// The zero Date is not a valid calendar date; use IsZero to detect it.
package civil
