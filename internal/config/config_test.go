package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// writeConfigFile marshals the given document to a temp YAML file and
// returns its path.
func writeConfigFile(t *testing.T, doc map[string]any) string {
	t.Helper()

	raw, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal config fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}
	return path
}

func validDoc() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"port":        9090,
			"environment": "test",
		},
		"database": map[string]any{
			"postgres": map[string]any{
				"host":     "localhost",
				"port":     5432,
				"database": "gamerlink",
				"user":     "gamerlink",
				"password": "secret",
			},
			"redis": map[string]any{
				"host": "localhost",
			},
		},
	}
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfigFile(t, validDoc())

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Postgres.Database != "gamerlink" {
		t.Errorf("Postgres.Database = %q, want gamerlink", cfg.Database.Postgres.Database)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, validDoc())

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Matchmaking.PoolLimit != 100 {
		t.Errorf("Matchmaking.PoolLimit = %d, want default 100", cfg.Matchmaking.PoolLimit)
	}
	if cfg.Insights.JobTimeout != 30*time.Second {
		t.Errorf("Insights.JobTimeout = %v, want default 30s", cfg.Insights.JobTimeout)
	}
	if cfg.Scheduler.Timezone != "UTC" {
		t.Errorf("Scheduler.Timezone = %q, want default UTC", cfg.Scheduler.Timezone)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
	if len(cfg.Badges) == 0 {
		t.Error("badge catalog should fall back to the built-in defaults")
	}
}

func TestLoadMissingRequiredFields(t *testing.T) {
	doc := validDoc()
	delete(doc["database"].(map[string]any), "postgres")
	path := writeConfigFile(t, doc)

	if _, err := Load(path); err == nil {
		t.Fatal("Load should reject a config without postgres settings")
	}
}

func TestLoadTextGenRequiresAPIKey(t *testing.T) {
	doc := validDoc()
	doc["insights"] = map[string]any{
		"textgen": map[string]any{
			"enabled":  true,
			"base_url": "https://api.openai.com/v1",
		},
	}
	path := writeConfigFile(t, doc)

	if _, err := Load(path); err == nil {
		t.Fatal("Load should reject enabled textgen without an api key")
	}
}

func TestLoadRejectsBadBadgeType(t *testing.T) {
	doc := validDoc()
	doc["badges"] = []map[string]any{
		{"key": "weird", "name": "Weird", "type": "mystery"},
	}
	path := writeConfigFile(t, doc)

	if _, err := Load(path); err == nil {
		t.Fatal("Load should reject an unknown badge type")
	}
}

func TestLoadBadgeCatalogOverride(t *testing.T) {
	doc := validDoc()
	doc["badges"] = []map[string]any{
		{"key": "streak_7", "name": "Week Warrior", "type": "streak"},
	}
	path := writeConfigFile(t, doc)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Badges) != 1 || cfg.Badges[0].Key != "streak_7" {
		t.Errorf("Badges = %+v, want the single configured entry", cfg.Badges)
	}
}
