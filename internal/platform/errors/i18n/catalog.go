// Package i18n renders localized messages for conversion error codes.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/luatime/internal/platform/i18n/catalog"
)

// Code is an error code string. The errors package cannot be imported
// here without a cycle.
type Code = string

// Catalog holds the parsed message templates of one locale.
type Catalog struct {
	locale    string
	raw       map[Code]string
	templates map[Code]*template.Template
}

// catalogs caches one Catalog per resolved locale.
var catalogs sync.Map

// GetCatalog returns the catalog closest to locale, falling back to the
// base locale.
func GetCatalog(locale string) *Catalog {
	resolved, messages := i18ncatalog.Default().Messages(strings.TrimSpace(locale), "errors")
	if c, ok := catalogs.Load(resolved); ok {
		return c.(*Catalog)
	}
	c, _ := catalogs.LoadOrStore(resolved, NewCatalog(resolved, messages))
	return c.(*Catalog)
}

// NewCatalog parses messages for locale. A message that is not a valid
// template is kept and rendered verbatim.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	c := &Catalog{
		locale:    locale,
		raw:       make(map[Code]string, len(messages)),
		templates: make(map[Code]*template.Template, len(messages)),
	}
	for code, text := range messages {
		c.raw[code] = text
		if tmpl, err := template.New(code).Parse(text); err == nil {
			c.templates[code] = tmpl
		}
	}
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with metadata. Unknown codes render
// as the code itself; missing metadata keys render as "<no value>".
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.templates[code]
	if !ok {
		if text, ok := c.raw[code]; ok {
			return text
		}
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return c.raw[code]
	}
	return b.String()
}
