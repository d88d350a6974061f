package credguard

import (
	"context"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := validateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero skew",
			mutate:  func(c *Config) { c.TOTP.Skew = 0 },
			wantErr: "skew",
		},
		{
			name:    "too few digits",
			mutate:  func(c *Config) { c.TOTP.Digits = 5 },
			wantErr: "digits",
		},
		{
			name:    "bad algorithm",
			mutate:  func(c *Config) { c.TOTP.Algorithm = "MD5" },
			wantErr: "algorithm",
		},
		{
			name:    "zero recovery ttl",
			mutate:  func(c *Config) { c.Recovery.TokenTTL = 0 },
			wantErr: "recovery",
		},
		{
			name:    "limit without window",
			mutate:  func(c *Config) { c.RateLimit.Window = 0 },
			wantErr: "window",
		},
		{
			name:    "short session secret",
			mutate:  func(c *Config) { c.SessionToken.Secret = []byte("short") },
			wantErr: "secret",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := validateConfig(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestBuilderRequiresStore(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected error without a credential store")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(testConfig()).WithStore(newFakeStore())
	if _, err := b.Build(); err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second build")
	}
}

func TestBuilderDisablesLimiterAtZeroLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Limit = 0

	svc, err := New().WithConfig(cfg).WithStore(newFakeStore()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if svc.RateLimiter() != nil {
		t.Fatal("limiter must be nil when disabled")
	}
	allowed, err := svc.Allow(context.Background(), "c")
	if err != nil || !allowed {
		t.Fatalf("Allow with disabled limiter: allowed=%v err=%v", allowed, err)
	}
}
