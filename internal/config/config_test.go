package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PAGE_LIMIT_DEFAULT", "")
	t.Setenv("PAGE_LIMIT_MAX", "")
	t.Setenv("LOG_RETENTION", "")

	cfg := Load()
	if cfg.PageLimitDefault != 10 {
		t.Errorf("PageLimitDefault = %d, want 10", cfg.PageLimitDefault)
	}
	if cfg.PageLimitMax != 50 {
		t.Errorf("PageLimitMax = %d, want 50", cfg.PageLimitMax)
	}
	if cfg.LogRetention != 30*24*time.Hour {
		t.Errorf("LogRetention = %v, want 720h", cfg.LogRetention)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PAGE_LIMIT_DEFAULT", "abc")
	t.Setenv("PAGE_LIMIT_MAX", "-5")
	t.Setenv("LOG_RETENTION", "soon")

	cfg := Load()
	if cfg.PageLimitDefault != 10 || cfg.PageLimitMax != 50 {
		t.Errorf("limits = %d/%d, want 10/50", cfg.PageLimitDefault, cfg.PageLimitMax)
	}
	if cfg.LogRetention != 30*24*time.Hour {
		t.Errorf("LogRetention = %v, want fallback", cfg.LogRetention)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "require"}
	want := "host=db user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
