package bridge

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/louisbranch/luatime/internal/civil"
	apperrors "github.com/louisbranch/luatime/internal/platform/errors"
)

// CalendarOverflow converts a civil range error into a coded failure.
func CalendarOverflow(err error) error {
	meta := map[string]string{"Field": "value", "Value": "?"}
	var rangeErr *civil.RangeError
	if errors.As(err, &rangeErr) {
		meta = map[string]string{
			"Field": rangeErr.Field,
			"Value": strconv.FormatInt(rangeErr.Value, 10),
			"Min":   strconv.FormatInt(rangeErr.Min, 10),
			"Max":   strconv.FormatInt(rangeErr.Max, 10),
		}
	}
	return apperrors.WrapWithMetadata(
		apperrors.CodeCalendarOverflow,
		fmt.Sprintf("calendar overflow: %v", err),
		meta,
		err,
	)
}

func missingTimezone(what string) error {
	return apperrors.WithMetadata(
		apperrors.CodeMissingTimezone,
		fmt.Sprintf("%s has no fixed UTC offset", what),
		map[string]string{"Value": what},
	)
}

func offsetOutOfRange(seconds string) error {
	return apperrors.WithMetadata(
		apperrors.CodeOffsetOutOfRange,
		fmt.Sprintf("offset %ss is outside ±%ds or not whole seconds", seconds, civil.MaxOffsetSeconds),
		map[string]string{"Seconds": seconds},
	)
}
