// Package errors provides structured conversion errors with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error that did not originate in the conversion layer.
	CodeUnknown Code = "UNKNOWN"

	// CodeTypeMismatch means the host value is not of the expected temporal kind.
	CodeTypeMismatch Code = "TYPE_MISMATCH"
	// CodeFieldExtraction means a field could not be read or did not fit its width.
	CodeFieldExtraction Code = "FIELD_EXTRACTION_FAILURE"
	// CodeCalendarOverflow means the fields do not form a valid date or time.
	CodeCalendarOverflow Code = "CALENDAR_OVERFLOW"
	// CodeMissingTimezone means no fixed offset could be obtained from the value.
	CodeMissingTimezone Code = "MISSING_TIMEZONE"
	// CodeOffsetOutOfRange means a resolved offset is not representable.
	CodeOffsetOutOfRange Code = "OFFSET_OUT_OF_RANGE"
)

// Host error kinds a script sees when a conversion fails.
const (
	HostTypeError  = "TypeError"
	HostValueError = "ValueError"
)

// HostKind maps a code onto the host's error convention.
func (c Code) HostKind() string {
	switch c {
	case CodeTypeMismatch:
		return HostTypeError
	case CodeFieldExtraction,
		CodeCalendarOverflow,
		CodeMissingTimezone,
		CodeOffsetOutOfRange:
		return HostValueError
	default:
		return "RuntimeError"
	}
}
