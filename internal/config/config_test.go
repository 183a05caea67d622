package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/bytenews"}
	setDefaults(cfg)

	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"Database.Path", cfg.Database.Path, filepath.Join("/tmp/bytenews", "bytenews.db")},
		{"News.CacheBackend", cfg.News.CacheBackend, "sqlite"},
		{"News.CacheTTLMinutes", cfg.News.CacheTTLMinutes, 30},
		{"News.MaxItemsPerFeed", cfg.News.MaxItemsPerFeed, 15},
		{"News.FetchTimeoutSeconds", cfg.News.FetchTimeoutSeconds, 10},
		{"News.MaxConcurrentFeeds", cfg.News.MaxConcurrentFeeds, 6},
		{"News.RelayURL", cfg.News.RelayURL, "https://api.allorigins.win/raw"},
		{"News.DefaultImage", cfg.News.DefaultImage, "assets/default-news.jpg"},
		{"News.SourceLabel", cfg.News.SourceLabel, "Google News"},
	}

	for _, c := range checks {
		switch want := c.want.(type) {
		case int:
			if c.got.(int) != want {
				t.Errorf("%s: got %v, want %v", c.name, c.got, want)
			}
		case string:
			if c.got.(string) != want {
				t.Errorf("%s: got %v, want %v", c.name, c.got, want)
			}
		}
	}
}

func TestSetDefaults_DoesNotOverride(t *testing.T) {
	cfg := &Config{
		DataDir:  "/data",
		Log:      LogConfig{Level: "debug", Format: "json"},
		Database: DatabaseConfig{Path: "/db/news.db"},
		News: NewsConfig{
			CacheBackend:    "file",
			CacheTTLMinutes: 5,
			MaxItemsPerFeed: 20,
			RelayURL:        "https://relay.example.com/raw",
		},
	}
	setDefaults(cfg)

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level should not be overridden: got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format should not be overridden: got %s", cfg.Log.Format)
	}
	if cfg.Database.Path != "/db/news.db" {
		t.Errorf("Database.Path should not be overridden: got %s", cfg.Database.Path)
	}
	if cfg.News.CacheBackend != "file" {
		t.Errorf("CacheBackend should not be overridden: got %s", cfg.News.CacheBackend)
	}
	if cfg.News.CacheTTLMinutes != 5 {
		t.Errorf("CacheTTLMinutes should not be overridden: got %d", cfg.News.CacheTTLMinutes)
	}
	if cfg.News.MaxItemsPerFeed != 20 {
		t.Errorf("MaxItemsPerFeed should not be overridden: got %d", cfg.News.MaxItemsPerFeed)
	}
	if cfg.News.RelayURL != "https://relay.example.com/raw" {
		t.Errorf("RelayURL should not be overridden: got %s", cfg.News.RelayURL)
	}
}

func TestSetDefaults_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("no home directory")
	}
	cfg := &Config{DataDir: "~/news"}
	setDefaults(cfg)
	if cfg.DataDir != home+"/news" {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, home+"/news")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	yamlContent := `
data_dir: /var/lib/bytenews
log:
  level: debug
news:
  cache_backend: file
  cache_ttl_minutes: 10
  feeds:
    - url: https://example.com/tech.xml
      category: tech
    - url: https://example.com/ai.xml
      category: ai
      source: Example AI
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.News.CacheBackend != "file" {
		t.Errorf("CacheBackend: got %q, want file", cfg.News.CacheBackend)
	}
	if cfg.News.CacheTTLMinutes != 10 {
		t.Errorf("CacheTTLMinutes: got %d, want 10", cfg.News.CacheTTLMinutes)
	}
	if len(cfg.News.Feeds) != 2 {
		t.Fatalf("Feeds: got %d, want 2", len(cfg.News.Feeds))
	}
	if cfg.News.Feeds[1].Source != "Example AI" {
		t.Errorf("Feeds[1].Source: got %q", cfg.News.Feeds[1].Source)
	}
	if cfg.Database.Path != "/var/lib/bytenews/bytenews.db" {
		t.Errorf("Database.Path should default under data_dir, got %q", cfg.Database.Path)
	}
	// 未设置的字段应使用默认值
	if cfg.News.MaxItemsPerFeed != 15 {
		t.Errorf("MaxItemsPerFeed should default to 15, got %d", cfg.News.MaxItemsPerFeed)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_RELAY_URL", "https://relay.internal/raw")

	yamlContent := `
news:
  relay_url: "${TEST_RELAY_URL}"
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.News.RelayURL != "https://relay.internal/raw" {
		t.Errorf("expected env var expansion, got %q", cfg.News.RelayURL)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte("news:\n  cache_backend: redis\n"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if _, err := Load(tmpFile); err == nil {
		t.Fatal("expected error for unsupported cache backend")
	}
}

func TestValidate_FeedWithoutURL(t *testing.T) {
	cfg := Default()
	cfg.News.Feeds = []FeedConfig{{Category: "tech"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for feed without url")
	}
}
