// Package config holds the settings of a peer. Values come from the built-in
// defaults, an optional TOML file and MENTALBET_* environment variables, in
// that order of precedence.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// TopicLen is the length in bytes of a room topic.
const TopicLen = 32

type Config struct {
	// Name is the display name of the local participant. When empty the
	// client asks for one.
	Name string `toml:"name"`
	// Topic identifies the room, hex encoded. Empty means a new room.
	Topic            string   `toml:"topic"`
	ListenAddress    string   `toml:"listen_address"`
	AdvertiseAddress string   `toml:"advertise_address"`
	DiscoveryPort    int      `toml:"discovery_port"`
	AnnounceInterval duration `toml:"announce_interval"`
	HandshakeTimeout duration `toml:"handshake_timeout"`
	SendQueue        int      `toml:"send_queue"`
	SeedBalance      int64    `toml:"seed_balance"`
	// MetricsAddress enables the /metrics and /healthz server when set.
	MetricsAddress string `toml:"metrics_address"`
	LogLevel       string `toml:"log_level"`
}

// duration is a time.Duration decoded from strings like "5s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Defaults() Config {
	return Config{
		ListenAddress:    "0.0.0.0:0",
		DiscoveryPort:    53550,
		AnnounceInterval: duration{2 * time.Second},
		HandshakeTimeout: duration{10 * time.Second},
		SendQueue:        64,
		SeedBalance:      1000,
		LogLevel:         "info",
	}
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Topic != "" {
		raw, err := hex.DecodeString(c.Topic)
		if err != nil || len(raw) != TopicLen {
			errs = append(errs, fmt.Sprintf("topic must be %d hex encoded bytes", TopicLen))
		}
	}
	if c.ListenAddress == "" {
		errs = append(errs, "listen_address must not be empty")
	}
	if c.DiscoveryPort <= 0 || c.DiscoveryPort > 65535 {
		errs = append(errs, fmt.Sprintf("discovery_port %d out of range", c.DiscoveryPort))
	}
	if c.AnnounceInterval.Duration <= 0 {
		errs = append(errs, "announce_interval must be positive")
	}
	if c.HandshakeTimeout.Duration <= 0 {
		errs = append(errs, "handshake_timeout must be positive")
	}
	if c.SendQueue <= 0 {
		errs = append(errs, "send_queue must be positive")
	}
	if c.SeedBalance < 0 {
		errs = append(errs, "seed_balance must not be negative")
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// EnsureTopic fills an empty topic with a new random room and reports whether
// it did so.
func (c *Config) EnsureTopic() (bool, error) {
	if c.Topic != "" {
		return false, nil
	}
	raw := make([]byte, TopicLen)
	if _, err := rand.Read(raw); err != nil {
		return false, fmt.Errorf("cannot create topic: %w", err)
	}
	c.Topic = hex.EncodeToString(raw)
	return true, nil
}

// Level returns the slog level of LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	if l, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}
