// Package luatime runs a Lua script and converts the value it returns.
package luatime

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Shopify/go-lua"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/louisbranch/luatime/internal/bridge"
	"github.com/louisbranch/luatime/internal/bridge/luachrono"
	"github.com/louisbranch/luatime/internal/host/luadt"
	entrypoint "github.com/louisbranch/luatime/internal/platform/cmd"
	apperrors "github.com/louisbranch/luatime/internal/platform/errors"
	"github.com/louisbranch/luatime/internal/platform/i18n/catalog"
	"github.com/louisbranch/luatime/internal/platform/otel"
)

// Expected result kinds.
const (
	ExpectDate     = "date"
	ExpectDateTime = "datetime"
	ExpectOffset   = "offset"
	ExpectZoned    = "zoned"
	ExpectInstant  = "instant"
	ExpectDuration = "duration"
)

var expectations = []string{ExpectDate, ExpectDateTime, ExpectOffset, ExpectZoned, ExpectInstant, ExpectDuration}

// Config holds luatime command configuration.
type Config struct {
	Script  string `env:"SCRIPT"`
	Expect  string `env:"EXPECT"  envDefault:"date"`
	Locale  string `env:"LOCALE"  envDefault:"en-US"`
	Verbose bool   `env:"VERBOSE"`
}

// ParseConfig parses env and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Script, "script", cfg.Script, "path to lua script returning the value to convert")
	fs.StringVar(&cfg.Expect, "expect", cfg.Expect, "expected value: "+strings.Join(expectations, "|"))
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for error messages")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log conversion failures")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Script == "" && fs.NArg() > 0 {
		cfg.Script = fs.Arg(0)
	}
	return cfg, nil
}

// Run executes the luatime command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Script == "" {
		return errors.New("script path is required")
	}
	if !validExpect(cfg.Expect) {
		return fmt.Errorf("unknown expectation %q", cfg.Expect)
	}

	logger := log.New(errOut, "", 0)
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLuatime, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		opts := []bridge.Option{}
		if cfg.Verbose {
			opts = append(opts, bridge.WithLogger(logger))
		}
		value, err := convertScript(ctx, bridge.New(opts...), cfg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, catalog.Printer(cfg.Locale).Sprintf("cli.result", cfg.Expect, value))
		return err
	})
}

// Describe renders err for the terminal in locale. Conversion failures
// carry their kind and code.
func Describe(err error, locale string) string {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown {
		return "Error: " + err.Error()
	}
	return catalog.Printer(locale).Sprintf("cli.failure", code.HostKind(), code, apperrors.UserMessage(err, locale))
}

func convertScript(ctx context.Context, conv *bridge.Converter, cfg Config) (string, error) {
	_, span := otel.Tracer("luatime").Start(ctx, "convert")
	defer span.End()
	span.SetAttributes(
		attribute.String("luatime.script", cfg.Script),
		attribute.String("luatime.expect", cfg.Expect),
		attribute.String("luatime.mode", string(conv.Mode())),
	)

	value, err := evaluate(conv, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.GetCode(err)))
		return "", err
	}
	return value, nil
}

func evaluate(conv *bridge.Converter, cfg Config) (string, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	luadt.Open(l)
	if err := conv.Warm(l); err != nil {
		return "", err
	}
	luachrono.New(conv, cfg.Locale).Open(l)

	if err := lua.LoadFile(l, cfg.Script, ""); err != nil {
		return "", fmt.Errorf("load lua: %w", err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return "", fmt.Errorf("run lua: %w", err)
	}
	defer l.Pop(1)
	return convert(conv, l, cfg.Expect)
}

func convert(conv *bridge.Converter, l *lua.State, expect string) (string, error) {
	switch expect {
	case ExpectDate:
		d, err := conv.DateFromLua(l, -1)
		return d.String(), err
	case ExpectDateTime:
		dt, err := conv.DateTimeFromLua(l, -1)
		return dt.String(), err
	case ExpectOffset:
		off, err := conv.OffsetFromLua(l, -1)
		return off.String(), err
	case ExpectZoned:
		z, err := conv.ZonedFromLua(l, -1)
		return z.String(), err
	case ExpectInstant:
		i, err := conv.InstantFromLua(l, -1)
		return i.String(), err
	case ExpectDuration:
		d, err := conv.DurationFromLua(l, -1)
		return d.String(), err
	}
	return "", fmt.Errorf("unknown expectation %q", expect)
}

func validExpect(expect string) bool {
	for _, e := range expectations {
		if e == expect {
			return true
		}
	}
	return false
}
