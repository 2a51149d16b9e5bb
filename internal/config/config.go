// Package config loads the service configuration from a YAML or TOML file
// and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrConfigParse       = errors.New("failed to parse config")
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrInvalid           = errors.New("invalid config")
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Duration decodes "10s"-style strings from both YAML and TOML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds all service configuration.
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Fonts  FontsConfig  `yaml:"fonts" toml:"fonts"`
	Assets AssetsConfig `yaml:"assets" toml:"assets"`
	Cache  CacheConfig  `yaml:"cache" toml:"cache"`
	Render RenderConfig `yaml:"render" toml:"render"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

type ServerConfig struct {
	Addr            string   `yaml:"addr" toml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout" toml:"shutdown_timeout"`
	MaxBodyBytes    int64    `yaml:"maxBodyBytes" toml:"max_body_bytes"`
}

type FontsConfig struct {
	Dir string `yaml:"dir" toml:"dir"` // 字体文件目录；为空时只使用内置字体
}

type AssetsConfig struct {
	BaseDir  string   `yaml:"baseDir" toml:"base_dir"` // 本地图片根目录；为空时禁止本地路径
	Timeout  Duration `yaml:"timeout" toml:"timeout"`
	MaxBytes int64    `yaml:"maxBytes" toml:"max_bytes"`
	Attempts int      `yaml:"attempts" toml:"attempts"`
}

type CacheConfig struct {
	Backend  string   `yaml:"backend" toml:"backend"`
	Dir      string   `yaml:"dir" toml:"dir"`
	RedisURL string   `yaml:"redisUrl" toml:"redis_url"`
	TTL      Duration `yaml:"ttl" toml:"ttl"`
}

type RenderConfig struct {
	Format      string `yaml:"format" toml:"format"`
	Width       int    `yaml:"width" toml:"width"`
	Concurrency int    `yaml:"concurrency" toml:"concurrency"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
			MaxBodyBytes:    1 << 20,
		},
		Fonts: FontsConfig{Dir: "fonts"},
		Assets: AssetsConfig{
			Timeout:  Duration{10 * time.Second},
			MaxBytes: 10 << 20,
			Attempts: 3,
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     Duration{24 * time.Hour},
		},
		Render: RenderConfig{Format: "png", Width: 1080, Concurrency: 4},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path (YAML or TOML by extension) over the defaults, then applies
// environment overrides. An empty path yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("%w: unknown keys %v", ErrConfigParse, undecoded)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// ApplyEnv overrides fields from CAROUSEL_* variables and REDIS_URL.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}

	str("CAROUSEL_ADDR", &c.Server.Addr)
	if port, ok := lookup("PORT"); ok && port != "" && c.Server.Addr == ":8080" {
		c.Server.Addr = ":" + port
	}
	str("CAROUSEL_FONTS_DIR", &c.Fonts.Dir)
	str("CAROUSEL_ASSETS_DIR", &c.Assets.BaseDir)
	str("CAROUSEL_CACHE", &c.Cache.Backend)
	str("CAROUSEL_CACHE_DIR", &c.Cache.Dir)
	str("CAROUSEL_LOG_LEVEL", &c.Log.Level)
	str("CAROUSEL_FORMAT", &c.Render.Format)
	num("CAROUSEL_CONCURRENCY", &c.Render.Concurrency)
	if v, ok := lookup("REDIS_URL"); ok && v != "" {
		c.Cache.RedisURL = v
		if c.Cache.Backend == CacheNone {
			c.Cache.Backend = CacheRedis
		}
	}
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheNone
	}
	switch c.Cache.Backend {
	case CacheNone:
	case CacheFile:
		if c.Cache.Dir == "" {
			return fmt.Errorf("%w: cache.dir is required for the file backend", ErrInvalid)
		}
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("%w: cache.redisUrl is required for the redis backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalid, c.Cache.Backend)
	}
	if c.Render.Concurrency < 1 {
		return fmt.Errorf("%w: render.concurrency must be at least 1", ErrInvalid)
	}
	if c.Render.Width < 0 {
		return fmt.Errorf("%w: render.width must not be negative", ErrInvalid)
	}
	if c.Assets.Attempts < 1 {
		return fmt.Errorf("%w: assets.attempts must be at least 1", ErrInvalid)
	}
	return nil
}
