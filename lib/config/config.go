// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the QA2 configuration from a single file named
// by the QA_CONFIG environment variable or the --config flag. There is
// no search path and no automatic discovery — configuration is
// deterministic and auditable. Files ending in .jsonc are accepted as
// commented JSON; everything else parses as YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that selects the config file.
const EnvVar = "QA_CONFIG"

// Config is the full QA2 configuration.
type Config struct {
	// Database is the path to the SQLite database file.
	Database string `yaml:"database"`

	// Server configures the review HTTP service.
	Server ServerConfig `yaml:"server"`

	// Monitor configures the live ingestion monitor and its
	// supervision.
	Monitor MonitorConfig `yaml:"monitor"`
}

// ServerConfig configures the review HTTP service.
type ServerConfig struct {
	// Listen is the address the service binds (host:port).
	Listen string `yaml:"listen"`
	// BaseURL is where clients (the review TUI, the check command)
	// reach the service. Defaults to http://<Listen>.
	BaseURL string `yaml:"base_url"`
}

// MonitorConfig configures monitor supervision and ingestion limits.
type MonitorConfig struct {
	// Session is the tmux session name for the detached monitor.
	Session string `yaml:"session"`
	// SocketPath is the dedicated tmux server socket.
	SocketPath string `yaml:"socket_path"`
	// LogFile is where the monitor writes its log. "monitor log"
	// tails it when there is no session to capture from.
	LogFile string `yaml:"log_file"`
	// Command is the monitor command line to supervise.
	Command []string `yaml:"command"`
	// BackfillLimit caps how many history messages a backfill run
	// fetches.
	BackfillLimit int `yaml:"backfill_limit"`
}

// Default returns the built-in configuration used when no file is
// given.
func Default() Config {
	return Config{
		Database: "qa_pairs.db",
		Server: ServerConfig{
			Listen: "127.0.0.1:5000",
		},
		Monitor: MonitorConfig{
			Session:       "qa-monitor",
			SocketPath:    "/tmp/qa-monitor.sock",
			LogFile:       "tg_monitor.log",
			BackfillLimit: 1000,
		},
	}
}

// Load reads the configuration. Resolution order: the explicit path
// (from --config), then QA_CONFIG, then built-in defaults. Values
// missing from the file keep their defaults.
func Load(explicitPath string) (Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".jsonc") || strings.HasSuffix(path, ".json") {
		// YAML is a JSON superset, so stripped JSONC parses with the
		// same unmarshaller.
		raw = jsonc.ToJSON(raw)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// ResolvedBaseURL returns the explicit base URL or one derived from
// the listen address.
func (c Config) ResolvedBaseURL() string {
	if c.Server.BaseURL != "" {
		return strings.TrimRight(c.Server.BaseURL, "/")
	}
	return "http://" + c.Server.Listen
}

func (c Config) validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	if c.Monitor.Session == "" {
		return fmt.Errorf("monitor.session must not be empty")
	}
	if c.Monitor.BackfillLimit < 0 {
		return fmt.Errorf("monitor.backfill_limit must not be negative")
	}
	return nil
}
