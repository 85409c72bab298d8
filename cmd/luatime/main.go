// Package main provides a CLI for converting values returned by Lua scripts.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/luatime/internal/platform/config"

	luatimecmd "github.com/louisbranch/luatime/internal/cmd/luatime"
)

func main() {
	cfg, err := luatimecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exit(config.ExitUsage, "Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := luatimecmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		stop()
		config.Exitf("%s", luatimecmd.Describe(err, cfg.Locale))
	}
}
