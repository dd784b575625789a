// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database != "qa_pairs.db" {
		t.Errorf("Database = %q, want default", cfg.Database)
	}
	if cfg.ResolvedBaseURL() != "http://127.0.0.1:5000" {
		t.Errorf("ResolvedBaseURL = %q", cfg.ResolvedBaseURL())
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "qa.yaml", `
database: /data/qa.db
server:
  listen: 0.0.0.0:8080
  base_url: https://qa.example.com/
monitor:
  backfill_limit: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database != "/data/qa.db" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.ResolvedBaseURL() != "https://qa.example.com" {
		t.Errorf("ResolvedBaseURL = %q", cfg.ResolvedBaseURL())
	}
	if cfg.Monitor.BackfillLimit != 50 {
		t.Errorf("BackfillLimit = %d", cfg.Monitor.BackfillLimit)
	}
	// Unset fields keep defaults.
	if cfg.Monitor.Session != "qa-monitor" {
		t.Errorf("Session = %q, want default", cfg.Monitor.Session)
	}
}

func TestLoadJSONCStripsComments(t *testing.T) {
	path := writeConfig(t, "qa.jsonc", `{
  // review database
  "database": "review.db",
  "server": {"listen": "127.0.0.1:9000"}
}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database != "review.db" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "qa.yaml", `database: ""`)
	if _, err := Load(path); err == nil {
		t.Fatal("empty database path was accepted")
	}
	path = writeConfig(t, "bad.yaml", "{not yaml::")
	if _, err := Load(path); err == nil {
		t.Fatal("malformed file was accepted")
	}
}
