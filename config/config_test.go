package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.SeedBalance != 1000 {
		t.Fatalf("expected seed balance 1000, got %d", cfg.SeedBalance)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentalbet.toml")
	content := `
name = "alice"
discovery_port = 6000
announce_interval = "500ms"
seed_balance = 250
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MENTALBET_NAME", "bob")
	t.Setenv("MENTALBET_SEND_QUEUE", "8")
	t.Setenv("MENTALBET_HANDSHAKE_TIMEOUT", "3s")
	t.Setenv("MENTALBET_DISCOVERY_PORT", "not a number")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "bob" {
		t.Fatalf("environment did not override the name: %q", cfg.Name)
	}
	if cfg.DiscoveryPort != 6000 {
		t.Fatalf("invalid environment value replaced the port: %d", cfg.DiscoveryPort)
	}
	if cfg.AnnounceInterval.Duration != 500*time.Millisecond {
		t.Fatalf("unexpected announce interval %v", cfg.AnnounceInterval)
	}
	if cfg.HandshakeTimeout.Duration != 3*time.Second {
		t.Fatalf("unexpected handshake timeout %v", cfg.HandshakeTimeout)
	}
	if cfg.SendQueue != 8 || cfg.SeedBalance != 250 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Topic = "abcd"
	cfg.DiscoveryPort = 70000
	cfg.SendQueue = 0
	cfg.LogLevel = "loud"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	for _, field := range []string{"topic", "discovery_port", "send_queue", "log_level"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error does not mention %s: %v", field, err)
		}
	}
}

func TestEnsureTopic(t *testing.T) {
	cfg := Defaults()
	created, err := cfg.EnsureTopic()
	if err != nil {
		t.Fatal(err)
	}
	if !created || len(cfg.Topic) != 2*TopicLen {
		t.Fatalf("unexpected topic %q", cfg.Topic)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	topic := cfg.Topic
	if created, _ := cfg.EnsureTopic(); created || cfg.Topic != topic {
		t.Fatal("existing topic was replaced")
	}
}
