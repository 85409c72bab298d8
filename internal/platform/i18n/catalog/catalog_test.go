package catalog

import (
	"testing"
	"testing/fstest"
)

func catalogFS(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range files {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{BaseLocale, "pt-BR"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
	if _, messages := bundle.Messages("pt-BR", "cli"); len(messages) == 0 {
		t.Fatal("expected pt-BR cli messages")
	}
}

func TestLocalesShareKeys(t *testing.T) {
	bundle := Default()
	for _, namespace := range []string{"errors", "cli"} {
		_, base := bundle.Messages(BaseLocale, namespace)
		for _, locale := range bundle.Locales() {
			_, messages := bundle.Messages(locale, namespace)
			for key := range base {
				if _, ok := messages[key]; !ok {
					t.Errorf("locale %s missing %s key %q", locale, namespace, key)
				}
			}
		}
	}
}

func TestMatch(t *testing.T) {
	bundle := Default()
	tests := map[string]string{
		"pt-BR":      "pt-BR",
		"pt":         "pt-BR",
		"en":         BaseLocale,
		"fr-FR":      BaseLocale,
		"":           BaseLocale,
		"not a tag!": BaseLocale,
	}
	for in, want := range tests {
		if got := bundle.Match(in); got != want {
			t.Errorf("Match(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadFromFSRejectsBadCatalogs(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"duplicate key across namespaces": catalogFS(map[string]string{
			"locales/en-US/errors.yaml": "locale: \"en-US\"\nnamespace: \"errors\"\nmessages:\n  \"a.key\": \"a\"\n",
			"locales/en-US/cli.yaml":    "locale: \"en-US\"\nnamespace: \"cli\"\nmessages:\n  \"a.key\": \"b\"\n",
		}),
		"namespace mismatch": catalogFS(map[string]string{
			"locales/en-US/errors.yaml": "locale: \"en-US\"\nnamespace: \"cli\"\nmessages:\n  \"a.key\": \"a\"\n",
		}),
		"locale mismatch": catalogFS(map[string]string{
			"locales/en-US/errors.yaml": "locale: \"pt-BR\"\nnamespace: \"errors\"\nmessages:\n  \"a.key\": \"a\"\n",
		}),
		"missing base locale": catalogFS(map[string]string{
			"locales/pt-BR/errors.yaml": "locale: \"pt-BR\"\nnamespace: \"errors\"\nmessages:\n  \"a.key\": \"a\"\n",
		}),
		"empty": catalogFS(nil),
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFromFS(fsys); err == nil {
				t.Fatal("expected load error")
			}
		})
	}
}

func TestParseCatalogFile(t *testing.T) {
	locale, namespace, messages, err := parseCatalogFile([]byte(`# comment
locale: "en-US"
namespace: "cli"
messages:
  "cli.result": "%s: %s"
  "quoted \"key\"": "a: b"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if locale != "en-US" || namespace != "cli" {
		t.Fatalf("header = %q/%q", locale, namespace)
	}
	if messages["cli.result"] != "%s: %s" || messages[`quoted "key"`] != "a: b" {
		t.Fatalf("messages = %v", messages)
	}
}

func TestParseCatalogFileRejectsMalformedInput(t *testing.T) {
	for _, data := range []string{
		"locale: \"en-US\"\nnope\n",
		"locale: \"en-US\"\nnamespace: \"x\"\nmessages:\n  \"k\" \"v\"\n",
		"locale: \"en-US\"\nnamespace: \"x\"\nmessages:\n  \"\": \"v\"\n",
		"locale: \"en-US\"\nnamespace: \"x\"\nmessages:\n",
		"locale: en-US\n",
	} {
		if _, _, _, err := parseCatalogFile([]byte(data)); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestPrinterUsesRegisteredMessages(t *testing.T) {
	got := Printer("pt-BR").Sprintf("cli.failure", "ValueError", "CALENDAR_OVERFLOW", "x")
	if got != "falha na conversão [ValueError CALENDAR_OVERFLOW]: x" {
		t.Fatalf("pt-BR printer = %q", got)
	}
	got = Printer("not a tag!").Sprintf("cli.result", "date", "2021-01-01")
	if got != "date: 2021-01-01" {
		t.Fatalf("fallback printer = %q", got)
	}
}
