package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dpaula-bank/bank/internal/address"
	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/config"
	"github.com/dpaula-bank/bank/internal/console"
	"github.com/dpaula-bank/bank/internal/infra"
	"github.com/dpaula-bank/bank/internal/logging"
	"github.com/dpaula-bank/bank/internal/notification"
	"github.com/dpaula-bank/bank/internal/teller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Prompts own stdout; diagnostics go to stderr, quiet unless LOG_LEVEL asks otherwise.
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	logger := logging.New(level, "text", os.Stderr)

	ctx := context.Background()

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		logger.Warn("redis unavailable, continuing without it", "error", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	var notifier notification.Notifier = notification.NewLoggerNotifier(logger)
	if cache != nil {
		notifier = notification.Fanout{notifier, notification.NewStreamNotifier(cache, notification.DefaultStream, 0)}
	}
	svc := teller.NewService(bank.New(cfg.Policy), notifier, logger)
	lookup := address.NewCached(address.NewViaCEP(cfg.AddressURL, cfg.AddressTimeout), cache, cfg.AddressCacheTTL, logger)

	c := console.New(os.Stdin, os.Stdout, svc, cfg.Policy, logger,
		console.WithAppName(cfg.AppName),
		console.WithColor(console.ColorEnabled(os.Stdout)),
		console.WithAddressLookup(lookup),
	)
	if err := c.Run(ctx); err != nil {
		logger.Error("console stopped", "error", err)
		os.Exit(1)
	}
}
