package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dpaula-bank/bank/internal/address"
	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/config"
	"github.com/dpaula-bank/bank/internal/infra"
	"github.com/dpaula-bank/bank/internal/logging"
	"github.com/dpaula-bank/bank/internal/notification"
	"github.com/dpaula-bank/bank/internal/server"
	"github.com/dpaula-bank/bank/internal/teller"
)

const eventStreamMaxLen = 10000

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx := context.Background()

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		logger.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	notifiers := notification.Fanout{notification.NewLoggerNotifier(logger)}
	if cache != nil {
		notifiers = append(notifiers, notification.NewStreamNotifier(cache, notification.DefaultStream, eventStreamMaxLen))
	}
	svc := teller.NewService(bank.New(cfg.Policy), notifiers, logger)
	lookup := address.NewCached(address.NewViaCEP(cfg.AddressURL, cfg.AddressTimeout), cache, cfg.AddressCacheTTL, logger)

	srv, err := server.New(cfg, cache, svc, lookup, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Address(), "env", cfg.AppEnv, "agency", cfg.Policy.Agency)
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
