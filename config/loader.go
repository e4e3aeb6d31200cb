package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const envPrefix = "MENTALBET_"

// Load merges the TOML file at path, when path is not empty, and the
// environment on top of Defaults. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Name, envPrefix+"NAME")
	setStr(&cfg.Topic, envPrefix+"TOPIC")
	setStr(&cfg.ListenAddress, envPrefix+"LISTEN_ADDRESS")
	setStr(&cfg.AdvertiseAddress, envPrefix+"ADVERTISE_ADDRESS")
	setInt(&cfg.DiscoveryPort, envPrefix+"DISCOVERY_PORT")
	setDuration(&cfg.AnnounceInterval, envPrefix+"ANNOUNCE_INTERVAL")
	setDuration(&cfg.HandshakeTimeout, envPrefix+"HANDSHAKE_TIMEOUT")
	setInt(&cfg.SendQueue, envPrefix+"SEND_QUEUE")
	setInt64(&cfg.SeedBalance, envPrefix+"SEED_BALANCE")
	setStr(&cfg.MetricsAddress, envPrefix+"METRICS_ADDRESS")
	setStr(&cfg.LogLevel, envPrefix+"LOG_LEVEL")
}

// Each helper only mutates dst when the variable is set and parses.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
