package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Verify defaults
	if cfg.Verify.Workers != 20 {
		t.Errorf("expected 20 workers, got %d", cfg.Verify.Workers)
	}
	if cfg.Verify.Sender != "test@example.com" {
		t.Errorf("expected sender test@example.com, got %s", cfg.Verify.Sender)
	}
	if cfg.Verify.SMTPPort != 25 {
		t.Errorf("expected SMTP port 25, got %d", cfg.Verify.SMTPPort)
	}
	if cfg.Verify.SMTPTimeout != 10*time.Second {
		t.Errorf("expected SMTP timeout 10s, got %v", cfg.Verify.SMTPTimeout)
	}
	if cfg.Verify.DNSMaxAttempts != 3 {
		t.Errorf("expected 3 DNS attempts, got %d", cfg.Verify.DNSMaxAttempts)
	}
	if cfg.Verify.DNSRetryDelay != 1*time.Second {
		t.Errorf("expected DNS retry delay 1s, got %v", cfg.Verify.DNSRetryDelay)
	}
	if cfg.Verify.DNSQueryTimeout != 5*time.Second {
		t.Errorf("expected DNS query timeout 5s, got %v", cfg.Verify.DNSQueryTimeout)
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("expected API host 0.0.0.0, got %s", cfg.API.Host)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("expected API port 8080, got %d", cfg.API.Port)
	}

	// Jobs defaults
	if cfg.Jobs.Backend != "memory" {
		t.Errorf("expected jobs backend memory, got %s", cfg.Jobs.Backend)
	}
	if cfg.Jobs.TTL != 24*time.Hour {
		t.Errorf("expected jobs TTL 24h, got %v", cfg.Jobs.TTL)
	}

	// Reports defaults
	if cfg.Reports.Type != "local" {
		t.Errorf("expected reports type local, got %s", cfg.Reports.Type)
	}
	if cfg.Reports.S3Region != "us-east-1" {
		t.Errorf("expected reports s3_region us-east-1, got %s", cfg.Reports.S3Region)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("expected log output stdout, got %s", cfg.Logging.Output)
	}

	// Auth defaults
	if len(cfg.Auth.KeyHashes) != 0 {
		t.Errorf("expected no key hashes by default, got %d", len(cfg.Auth.KeyHashes))
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
verify:
  workers: 5
  sender: probe@mailvet.example
  dns_retry_delay: 250ms
api:
  port: 9090
auth:
  key_hashes:
    - "$2a$10$abcdefghijklmnopqrstuv"
reports:
  type: s3
  s3_bucket: mailvet-reports
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Verify.Workers != 5 {
		t.Errorf("expected 5 workers, got %d", cfg.Verify.Workers)
	}
	if cfg.Verify.Sender != "probe@mailvet.example" {
		t.Errorf("expected overridden sender, got %s", cfg.Verify.Sender)
	}
	if cfg.Verify.DNSRetryDelay != 250*time.Millisecond {
		t.Errorf("expected DNS retry delay 250ms, got %v", cfg.Verify.DNSRetryDelay)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("expected API port 9090, got %d", cfg.API.Port)
	}
	if len(cfg.Auth.KeyHashes) != 1 {
		t.Errorf("expected 1 key hash, got %d", len(cfg.Auth.KeyHashes))
	}
	if cfg.Reports.Type != "s3" || cfg.Reports.S3Bucket != "mailvet-reports" {
		t.Errorf("unexpected reports config: %+v", cfg.Reports)
	}

	// Unset fields keep defaults
	if cfg.Verify.SMTPTimeout != 10*time.Second {
		t.Errorf("expected default SMTP timeout, got %v", cfg.Verify.SMTPTimeout)
	}
	if cfg.Jobs.Backend != "memory" {
		t.Errorf("expected default jobs backend, got %s", cfg.Jobs.Backend)
	}
}

func TestLoad_EnvironmentVariableOverride(t *testing.T) {
	t.Setenv("MAILVET_VERIFY_WORKERS", "40")
	t.Setenv("MAILVET_JOBS_BACKEND", "redis")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Verify.Workers != 40 {
		t.Errorf("expected 40 workers from env override, got %d", cfg.Verify.Workers)
	}
	if cfg.Jobs.Backend != "redis" {
		t.Errorf("expected jobs backend redis from env override, got %s", cfg.Jobs.Backend)
	}
}

func TestLoad_MissingConfigFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/path")
	if err != nil {
		t.Fatalf("missing config file should not error, got %v", err)
	}
	if cfg.Verify.Workers != 20 {
		t.Errorf("expected default workers, got %d", cfg.Verify.Workers)
	}
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("verify: [not a map"), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("expected error for malformed config file, got nil")
	}
}
