package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 是 bytenews 的顶层配置结构。
type Config struct {
	DataDir  string         `yaml:"data_dir"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	News     NewsConfig     `yaml:"news"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// DatabaseConfig SQLite 数据库配置。
type DatabaseConfig struct {
	// Path 为空时使用 <data_dir>/bytenews.db。
	Path string `yaml:"path"`
}

// NewsConfig RSS 抓取与缓存配置。
type NewsConfig struct {
	// CacheBackend 缓存存储: sqlite 或 file。
	CacheBackend        string       `yaml:"cache_backend"`
	CacheTTLMinutes     int          `yaml:"cache_ttl_minutes"`
	MaxItemsPerFeed     int          `yaml:"max_items_per_feed"`
	FetchTimeoutSeconds int          `yaml:"fetch_timeout_seconds"`
	MaxConcurrentFeeds  int          `yaml:"max_concurrent_feeds"`
	RelayURL            string       `yaml:"relay_url"`
	UserAgent           string       `yaml:"user_agent"`
	DefaultImage        string       `yaml:"default_image"`
	SourceLabel         string       `yaml:"source_label"`
	Feeds               []FeedConfig `yaml:"feeds"`
}

// FeedConfig 覆盖内置订阅源列表时使用的单条配置。
type FeedConfig struct {
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Source   string `yaml:"source"`
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 返回全部使用默认值的配置，配置文件缺失时使用。
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Validate 检查无法通过默认值修正的配置项。
func (c *Config) Validate() error {
	switch c.News.CacheBackend {
	case "sqlite", "file":
	default:
		return fmt.Errorf("不支持的缓存存储: %s", c.News.CacheBackend)
	}
	for i, f := range c.News.Feeds {
		if strings.TrimSpace(f.URL) == "" {
			return fmt.Errorf("news.feeds[%d] 缺少 url", i)
		}
	}
	return nil
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}

	if cfg.News.CacheBackend == "" {
		cfg.News.CacheBackend = "sqlite"
	}
	if cfg.News.CacheTTLMinutes == 0 {
		cfg.News.CacheTTLMinutes = 30
	}
	if cfg.News.MaxItemsPerFeed == 0 {
		cfg.News.MaxItemsPerFeed = 15
	}
	if cfg.News.FetchTimeoutSeconds == 0 {
		cfg.News.FetchTimeoutSeconds = 10
	}
	if cfg.News.MaxConcurrentFeeds == 0 {
		cfg.News.MaxConcurrentFeeds = 6
	}
	if cfg.News.RelayURL == "" {
		cfg.News.RelayURL = "https://api.allorigins.win/raw"
	}
	if cfg.News.UserAgent == "" {
		cfg.News.UserAgent = "Bytebyphilip/1.0 RSS Reader"
	}
	if cfg.News.DefaultImage == "" {
		cfg.News.DefaultImage = "assets/default-news.jpg"
	}
	if cfg.News.SourceLabel == "" {
		cfg.News.SourceLabel = "Google News"
	}

	if cfg.DataDir == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.DataDir = filepath.Join(home, ".bytenews")
		} else {
			cfg.DataDir = "./.bytenews-data"
		}
	} else if strings.HasPrefix(cfg.DataDir, "~/") {
		// Go 不会自动展开 ~
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.DataDir = home + cfg.DataDir[1:]
		}
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(cfg.DataDir, "bytenews.db")
	}

	cfg.News.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.News.CacheBackend))
	cfg.News.RelayURL = strings.TrimSpace(cfg.News.RelayURL)
}
