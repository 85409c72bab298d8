// Package catalog loads the localized message catalogs embedded in the
// binary and registers them with x/text/message.
//
// Catalog files live at locales/<locale>/<namespace>.yaml and use a flat
// YAML subset:
//
//	locale: "en-US"
//	namespace: "errors"
//	messages:
//	  "KEY": "text"
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the locale every other catalog is translated from.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

var defaultBundle = mustLoadAndRegisterEmbedded()

// Bundle holds every loaded locale, keyed by locale then namespace.
type Bundle struct {
	locales map[string]map[string]map[string]string
	names   []string
	tags    []language.Tag
	matcher language.Matcher
}

// Default returns the embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs compiled into this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads locales/*/*.yaml from catalogFS. The base locale must be
// present and a key may appear only once per locale.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]map[string]string{}}
	seen := map[string]string{}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		locale, namespace, messages, err := parseCatalogFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if want := path.Base(path.Dir(p)); locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q does not match directory %q", p, locale, want)
		}
		if want := strings.TrimSuffix(path.Base(p), ".yaml"); namespace != want {
			return nil, fmt.Errorf("catalog %s: namespace %q does not match file %q", p, namespace, want)
		}
		for key := range messages {
			id := locale + "/" + key
			if other, dup := seen[id]; dup {
				return nil, fmt.Errorf("catalog %s: key %q already defined in %s", p, key, other)
			}
			seen[id] = p
		}
		if b.locales[locale] == nil {
			b.locales[locale] = map[string]map[string]string{}
		}
		b.locales[locale][namespace] = messages
	}

	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	// The base locale goes first so the matcher falls back to it.
	b.names = []string{BaseLocale}
	for _, locale := range b.Locales() {
		if locale != BaseLocale {
			b.names = append(b.names, locale)
		}
	}
	for _, locale := range b.names {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		b.tags = append(b.tags, tag)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Register makes every message resolvable by printers from Printer.
func (b *Bundle) Register() error {
	for i, tag := range b.tags {
		locale := b.names[i]
		for _, messages := range b.locales[locale] {
			for key, text := range messages {
				if err := message.SetString(tag, key, text); err != nil {
					return fmt.Errorf("register %s/%s: %w", locale, key, err)
				}
			}
		}
	}
	return nil
}

// Match returns the loaded locale closest to locale, or BaseLocale.
func (b *Bundle) Match(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return BaseLocale
	}
	_, i, confidence := b.matcher.Match(tag)
	if confidence == language.No {
		return BaseLocale
	}
	return b.names[i]
}

// Printer returns a printer for the catalog locale closest to locale.
func Printer(locale string) *message.Printer {
	matched := defaultBundle.Match(locale)
	return message.NewPrinter(language.MustParse(matched))
}

// HasLocale reports whether locale was loaded.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[locale]
	return ok
}

// Locales returns the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Messages returns a copy of one namespace for the locale closest to
// locale, along with the locale actually used.
func (b *Bundle) Messages(locale, namespace string) (string, map[string]string) {
	matched := b.Match(locale)
	out := map[string]string{}
	for key, text := range b.locales[matched][namespace] {
		out[key] = text
	}
	return matched, out
}

func mustLoadAndRegisterEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}

func parseCatalogFile(data []byte) (locale, namespace string, messages map[string]string, err error) {
	messages = map[string]string{}
	inMessages := false
	for n, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "messages:" {
			inMessages = true
			continue
		}
		if !inMessages {
			name, value, ok := strings.Cut(line, ":")
			if !ok {
				return "", "", nil, fmt.Errorf("line %d: unexpected %q", n+1, line)
			}
			unquoted, err := strconv.Unquote(strings.TrimSpace(value))
			if err != nil {
				return "", "", nil, fmt.Errorf("line %d: %s: %w", n+1, name, err)
			}
			switch name {
			case "locale":
				locale = unquoted
			case "namespace":
				namespace = unquoted
			default:
				return "", "", nil, fmt.Errorf("line %d: unknown field %q", n+1, name)
			}
			continue
		}
		key, text, err := parseEntry(line)
		if err != nil {
			return "", "", nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		messages[key] = text
	}
	switch {
	case locale == "":
		return "", "", nil, fmt.Errorf("missing locale")
	case namespace == "":
		return "", "", nil, fmt.Errorf("missing namespace")
	case len(messages) == 0:
		return "", "", nil, fmt.Errorf("missing messages")
	}
	return locale, namespace, messages, nil
}

func parseEntry(line string) (string, string, error) {
	quotedKey, err := strconv.QuotedPrefix(line)
	if err != nil {
		return "", "", fmt.Errorf("message key: %w", err)
	}
	key, _ := strconv.Unquote(quotedKey)
	if strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("message key cannot be blank")
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(line[len(quotedKey):]), ":")
	if !ok {
		return "", "", fmt.Errorf("missing ':' after %s", quotedKey)
	}
	text, err := strconv.Unquote(strings.TrimSpace(rest))
	if err != nil {
		return "", "", fmt.Errorf("message %s: %w", quotedKey, err)
	}
	return key, text, nil
}
