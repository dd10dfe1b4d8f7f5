package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/money"
)

const (
	defaultAppName         = "Banco D'Paula"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultAddressURL      = "https://viacep.com.br/ws"
	defaultAddressTimeout  = 5 * time.Second
	defaultAddressCacheTTL = 24 * time.Hour
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	LogLevel        string
	LogFormat       string
	RedisURL        string
	AddressURL      string
	AddressTimeout  time.Duration
	AddressCacheTTL time.Duration
	ShutdownPeriod  time.Duration
	IdempotencyTTL  time.Duration
	Policy          bank.Policy
}

// Load reads configuration values from the environment and populates a Config instance.
// A .env file in the working directory, when present, seeds variables that are not already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		AppEnv:          getEnv("APP_ENV", defaultAppEnv),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:       strings.ToLower(os.Getenv("LOG_FORMAT")),
		RedisURL:        os.Getenv("REDIS_URL"),
		AddressURL:      strings.TrimRight(getEnv("ADDRESS_LOOKUP_URL", defaultAddressURL), "/"),
		AddressTimeout:  defaultAddressTimeout,
		AddressCacheTTL: defaultAddressCacheTTL,
		ShutdownPeriod:  defaultShutdownDelay,
		IdempotencyTTL:  defaultIdempotencyTTL,
		Policy:          bank.DefaultPolicy(),
	}

	var err error
	if cfg.ShutdownPeriod, err = secondsOrDuration(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = secondsOrDuration(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.AddressTimeout, err = getDuration("ADDRESS_LOOKUP_TIMEOUT", cfg.AddressTimeout); err != nil {
		return Config{}, err
	}
	if cfg.AddressCacheTTL, err = getDuration("ADDRESS_CACHE_TTL", cfg.AddressCacheTTL); err != nil {
		return Config{}, err
	}

	cfg.Policy.Agency = getEnv("BANK_AGENCY", cfg.Policy.Agency)
	if cfg.Policy.WithdrawLimit, err = getAmount("CHECKING_WITHDRAW_LIMIT", cfg.Policy.WithdrawLimit); err != nil {
		return Config{}, err
	}
	if cfg.Policy.MinimumDeposit, err = getAmount("SAVINGS_MIN_DEPOSIT", cfg.Policy.MinimumDeposit); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("CHECKING_MAX_WITHDRAWALS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid CHECKING_MAX_WITHDRAWALS: %q", v)
		}
		cfg.Policy.MaxWithdrawals = n
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func secondsOrDuration(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	return getDuration(durationKey, fallback)
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getAmount(key string, fallback money.Amount) (money.Amount, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	a, err := money.Parse(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if !a.IsPositive() {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return a, nil
}
