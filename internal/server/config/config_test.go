package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.EndpointAddr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.EndpointAddr)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected default session TTL: %v", cfg.SessionTTL)
	}
	if cfg.PageSize != 20 {
		t.Fatalf("unexpected default page size: %d", cfg.PageSize)
	}
	if cfg.SessionStore != "memory" || cfg.StorageDriver != "fs" {
		t.Fatalf("unexpected default backends: %s/%s", cfg.SessionStore, cfg.StorageDriver)
	}
	if cfg.FolderPath != "/tmp/files_manager" {
		t.Fatalf("unexpected default folder path: %s", cfg.FolderPath)
	}
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("DATABASE_DSN", "postgres://test")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("PAGE_SIZE", "5")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "other")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.EndpointAddr != ":9090" {
		t.Fatalf("ADDRESS not applied: %s", cfg.EndpointAddr)
	}
	if cfg.DatabaseDSN != "postgres://test" {
		t.Fatalf("DATABASE_DSN not applied: %s", cfg.DatabaseDSN)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("SESSION_TTL not applied: %v", cfg.SessionTTL)
	}
	if cfg.PageSize != 5 {
		t.Fatalf("PAGE_SIZE not applied: %d", cfg.PageSize)
	}
	if cfg.StorageDriver != "s3" || cfg.S3Bucket != "other" {
		t.Fatalf("storage settings not applied: %s/%s", cfg.StorageDriver, cfg.S3Bucket)
	}
}

func TestParseEnv_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("PAGE_SIZE", "many")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("invalid SESSION_TTL should keep default, got %v", cfg.SessionTTL)
	}
	if cfg.PageSize != 20 {
		t.Fatalf("invalid PAGE_SIZE should keep default, got %d", cfg.PageSize)
	}
}
