package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leadflow")
	t.Setenv("RATE_LIMIT_ENRICH", "")
	t.Setenv("PAPPERS_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default ttl, got %s", cfg.TokenTTL)
	}
	if cfg.RateLimitEnrich.Requests != 10 || cfg.RateLimitEnrich.Interval != time.Minute {
		t.Fatalf("unexpected rate limit: %+v", cfg.RateLimitEnrich)
	}
	if cfg.PappersAPIKey != "" {
		t.Fatalf("expected empty pappers key")
	}
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENRICH", "lots")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed rate limit")
	}
}

func TestParseRateLimit(t *testing.T) {
	cases := []struct {
		input    string
		requests int
		interval time.Duration
		wantErr  bool
	}{
		{"5/min", 5, time.Minute, false},
		{"100/hour", 100, time.Hour, false},
		{"1/s", 1, time.Second, false},
		{"0/min", 0, 0, true},
		{"ten/min", 0, 0, true},
		{"5/fortnight", 0, 0, true},
	}

	for _, tc := range cases {
		got, err := parseRateLimit(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseRateLimit(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseRateLimit(%q): unexpected error %v", tc.input, err)
		}
		if got.Requests != tc.requests || got.Interval != tc.interval {
			t.Fatalf("parseRateLimit(%q)=%+v", tc.input, got)
		}
	}
}

func TestParseDuration_Fallback(t *testing.T) {
	if d := parseDuration("bogus", 3*time.Second); d != 3*time.Second {
		t.Fatalf("expected fallback, got %s", d)
	}
	if d := parseDuration("90s", time.Second); d != 90*time.Second {
		t.Fatalf("expected parsed value, got %s", d)
	}
}
