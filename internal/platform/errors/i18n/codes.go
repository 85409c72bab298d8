package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown          = "UNKNOWN"
	CodeTypeMismatch     = "TYPE_MISMATCH"
	CodeFieldExtraction  = "FIELD_EXTRACTION_FAILURE"
	CodeCalendarOverflow = "CALENDAR_OVERFLOW"
	CodeMissingTimezone  = "MISSING_TIMEZONE"
	CodeOffsetOutOfRange = "OFFSET_OUT_OF_RANGE"
)

// knownCodes lists every code a catalog is expected to translate.
var knownCodes = []Code{
	CodeUnknown,
	CodeTypeMismatch,
	CodeFieldExtraction,
	CodeCalendarOverflow,
	CodeMissingTimezone,
	CodeOffsetOutOfRange,
}

// Missing returns the known codes this catalog has no template for.
func (c *Catalog) Missing() []Code {
	var missing []Code
	for _, code := range knownCodes {
		if _, ok := c.raw[code]; !ok {
			missing = append(missing, code)
		}
	}
	return missing
}
