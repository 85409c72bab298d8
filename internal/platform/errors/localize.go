package errors

import (
	stderrors "errors"

	"github.com/louisbranch/luatime/internal/platform/errors/i18n"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = "en-US"

// UserMessage renders the user-facing message for err in locale.
// Errors that did not originate in the conversion layer keep their own text.
func UserMessage(err error, locale string) string {
	if err == nil {
		return ""
	}
	if locale == "" {
		locale = DefaultLocale
	}

	var convErr *Error
	if !stderrors.As(err, &convErr) {
		return err.Error()
	}
	return i18n.GetCatalog(locale).Format(string(convErr.Code), convErr.Metadata)
}
