package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != "memory" {
		t.Fatalf("backend 默认值错误: %s", cfg.Storage.Backend)
	}
	if cfg.Scheduler.SampleInterval != 10*time.Second {
		t.Fatalf("sample_interval 默认值错误: %s", cfg.Scheduler.SampleInterval)
	}
	if cfg.Chart.MaxPoints != 400 {
		t.Fatalf("chart.max_points 默认值错误: %d", cfg.Chart.MaxPoints)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
storage:
  backend: redis
  redis:
    addr: redis.internal:6380
    db: 3
scheduler:
  sample_interval: 30s
chzzk:
  channels:
    - abc123
    - def456
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != "redis" {
		t.Fatalf("backend = %s", cfg.Storage.Backend)
	}
	if cfg.Storage.Redis.Addr != "redis.internal:6380" {
		t.Fatalf("redis addr = %s", cfg.Storage.Redis.Addr)
	}
	if cfg.Storage.Redis.DB != 3 {
		t.Fatalf("redis db = %d", cfg.Storage.Redis.DB)
	}
	if cfg.Scheduler.SampleInterval != 30*time.Second {
		t.Fatalf("sample_interval = %s", cfg.Scheduler.SampleInterval)
	}
	if len(cfg.Chzzk.Channels) != 2 || cfg.Chzzk.Channels[1] != "def456" {
		t.Fatalf("channels = %v", cfg.Chzzk.Channels)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Storage.Backend = "etcd"
	if err := cfg.Validate(); err == nil {
		t.Fatal("期望 backend 校验失败")
	}
}

func TestValidatePostgresNeedsDSN(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Storage.Backend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("期望 dsn 校验失败")
	}
}

func TestResolveMaxPoints(t *testing.T) {
	cfg := &Config{Export: ExportConfig{MaxDataPoints: 500}}
	if got := cfg.ResolveMaxPoints(0); got != 500 {
		t.Fatalf("ResolveMaxPoints(0) = %d", got)
	}
	if got := cfg.ResolveMaxPoints(25); got != 25 {
		t.Fatalf("ResolveMaxPoints(25) = %d", got)
	}
}
