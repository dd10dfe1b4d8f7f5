package config

import (
	"testing"
	"time"

	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/money"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Policy != bank.DefaultPolicy() {
		t.Fatalf("expected default policy, got %+v", cfg.Policy)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
	if cfg.RedisURL != "" {
		t.Fatalf("redis should be optional")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("BANK_AGENCY", "0042")
	t.Setenv("CHECKING_WITHDRAW_LIMIT", "750.50")
	t.Setenv("CHECKING_MAX_WITHDRAWALS", "5")
	t.Setenv("SAVINGS_MIN_DEPOSIT", "50")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("ADDRESS_LOOKUP_URL", "http://localhost:1234/ws/")
	t.Setenv("ADDRESS_CACHE_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := bank.Policy{Agency: "0042", WithdrawLimit: money.MustParse("750.50"), MaxWithdrawals: 5, MinimumDeposit: money.FromUnits(50)}
	if cfg.Policy != want {
		t.Fatalf("expected %+v got %+v", want, cfg.Policy)
	}
	if cfg.Address() != ":9000" || cfg.ShutdownPeriod != 3*time.Second || cfg.AddressCacheTTL != time.Hour {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.AddressURL != "http://localhost:1234/ws" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.AddressURL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	for key, value := range map[string]string{
		"CHECKING_WITHDRAW_LIMIT":  "-1",
		"CHECKING_MAX_WITHDRAWALS": "zero",
		"SAVINGS_MIN_DEPOSIT":      "1.001",
		"IDEMPOTENCY_TTL":          "forever",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
