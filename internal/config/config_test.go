package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
log:
  level: debug
receiver:
  queue_capacity: 64
  datagram_buffer: 4096
broker:
  write_timeout: 2s
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Receiver.QueueCapacity != 64 {
		t.Errorf("Receiver.QueueCapacity = %d, want 64", cfg.Receiver.QueueCapacity)
	}
	if cfg.Receiver.DatagramBuffer != 4096 {
		t.Errorf("Receiver.DatagramBuffer = %d, want 4096", cfg.Receiver.DatagramBuffer)
	}
	if cfg.Broker.WriteTimeout != 2*time.Second {
		t.Errorf("Broker.WriteTimeout = %v, want 2s", cfg.Broker.WriteTimeout)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_LOG_LEVEL", "warn")

	yaml := `
log:
  level: ${TEST_LOG_LEVEL}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
receiver:
  queue_capacity: 16
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Explicit value kept, everything else defaulted
	if cfg.Receiver.QueueCapacity != 16 {
		t.Errorf("Receiver.QueueCapacity = %d, want 16", cfg.Receiver.QueueCapacity)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Receiver.DatagramBuffer != DefaultDatagramBuffer {
		t.Errorf("Receiver.DatagramBuffer = %d, want default %d", cfg.Receiver.DatagramBuffer, DefaultDatagramBuffer)
	}
	if cfg.Receiver.HandshakeTimeout != DefaultHandshakeTimeout {
		t.Errorf("Receiver.HandshakeTimeout = %v, want default %v", cfg.Receiver.HandshakeTimeout, DefaultHandshakeTimeout)
	}
	if cfg.Broker.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("Broker.WriteTimeout = %v, want default %v", cfg.Broker.WriteTimeout, DefaultWriteTimeout)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() config failed validation: %v", err)
	}
	if cfg.Receiver.DatagramBuffer != DefaultDatagramBuffer {
		t.Errorf("Receiver.DatagramBuffer = %d, want %d", cfg.Receiver.DatagramBuffer, DefaultDatagramBuffer)
	}
}

func TestValidate(t *testing.T) {
	valid := *Default()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: `log.level must be one of debug, info, warn, error, got "loud"`,
		},
		{
			name:    "zero queue capacity",
			mutate:  func(c *Config) { c.Receiver.QueueCapacity = 0 },
			wantErr: "receiver.queue_capacity must be >= 1, got 0",
		},
		{
			name:    "negative datagram buffer",
			mutate:  func(c *Config) { c.Receiver.DatagramBuffer = -1 },
			wantErr: "receiver.datagram_buffer must be >= 1, got -1",
		},
		{
			name:    "zero write timeout",
			mutate:  func(c *Config) { c.Broker.WriteTimeout = 0 },
			wantErr: "broker.write_timeout must be positive, got 0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(\"verbose\") expected error, got nil")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
