package civil

import "fmt"

// RangeError reports a field outside the supported calendar range.
type RangeError struct {
	Field string
	Value int64
	Min   int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func checkRange(field string, value, min, max int64) error {
	if value < min || value > max {
		return &RangeError{Field: field, Value: value, Min: min, Max: max}
	}
	return nil
}
