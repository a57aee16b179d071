package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_TTL_MIN", "15")
	t.Setenv("DATE_LOCALE", "en-US")
	t.Setenv("EVENTS_ENABLED", "yes")
	t.Setenv("RABBITMQ_URL", "amqp://u:p@broker:5672/")

	cfg := Load()
	if cfg.JWTSecret != "s3cret" || cfg.Port != "9090" || cfg.Env != "dev" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SessionTTL != 15*time.Minute || cfg.SweepInterval != time.Minute {
		t.Fatalf("unexpected durations %v / %v", cfg.SessionTTL, cfg.SweepInterval)
	}
	if cfg.DateLocale.String() != "en-US" {
		t.Fatalf("locale = %s", cfg.DateLocale)
	}
	if !cfg.EventsEnabled || cfg.AMQPURL != "amqp://u:p@broker:5672/" {
		t.Fatalf("unexpected events config %+v", cfg)
	}
}

func TestLoadFallsBackOnBadLocale(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DATE_LOCALE", "not a locale!")
	if got := Load().DateLocale.String(); got != "es-ES" {
		t.Fatalf("locale = %s, want es-ES", got)
	}
}

func TestRateLimitNormalized(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_WRITE_CAPACITY", "50")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 || cfg.WriteCapacity != 1 {
		t.Fatalf("capacities = %d/%d, want 1/1", cfg.Capacity, cfg.WriteCapacity)
	}
	if cfg.TTL != 50*time.Second {
		t.Fatalf("TTL = %v, want 50s", cfg.TTL)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "Off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "3m")
	if envBool("X_BOOL", true) {
		t.Error("envBool(Off) = true")
	}
	if envInt("X_INT", 7) != 7 {
		t.Error("envInt should fall back on parse errors")
	}
	if envDur("X_DUR", 0) != 3*time.Minute {
		t.Error("envDur(3m) mismatch")
	}
	if envStr("X_UNSET_FOR_TEST", "d") != "d" {
		t.Error("envStr default mismatch")
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] || len(cfg.Methods) != 2 {
		t.Fatalf("methods = %v", cfg.Methods)
	}
	if cfg.KeyStrategy != "session_route_query" || !cfg.Enabled {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestValidateRejectsNonPositiveDurations(t *testing.T) {
	ok := Config{SessionTTL: time.Minute, SweepInterval: time.Minute}
	if err := ok.validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	cases := map[string]Config{
		"zero ttl":       {SessionTTL: 0, SweepInterval: time.Minute},
		"negative ttl":   {SessionTTL: -time.Minute, SweepInterval: time.Minute},
		"zero sweep":     {SessionTTL: time.Minute, SweepInterval: 0},
		"negative sweep": {SessionTTL: time.Minute, SweepInterval: -time.Second},
	}
	for name, cfg := range cases {
		if err := cfg.validate(); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}
