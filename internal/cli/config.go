package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/raggedblocks/pkg/pipeline"
)

// Config is the on-disk CLI configuration, loaded from
// ~/.config/raggedblocks/config.toml. Flags override config values; config
// values override built-in defaults.
type Config struct {
	// Algorithm is the default layout algorithm.
	Algorithm string `toml:"algorithm"`

	// Margin is the whitespace around rendered SVG content.
	Margin float64 `toml:"margin"`

	Cache CacheConfig `toml:"cache"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig controls the local stage cache.
type CacheConfig struct {
	// Dir overrides the cache directory; empty uses the user cache dir.
	Dir string `toml:"dir"`

	// Disable turns stage caching off entirely.
	Disable bool `toml:"disable"`
}

// ServeConfig controls the serve command.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// Store selects the document store backend: memory, redis, or mongo.
	Store string `toml:"store"`

	// Redis configures the redis backend.
	Redis RedisConfig `toml:"redis"`

	// Mongo configures the mongo backend.
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig mirrors store.RedisConfig in TOML form.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig mirrors store.MongoConfig in TOML form.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Store backend names.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Algorithm: pipeline.DefaultAlgorithm,
		Margin:    pipeline.DefaultMargin,
		Serve: ServeConfig{
			Addr:  ":8382",
			Store: StoreMemory,
			Redis: RedisConfig{Addr: "localhost:6379"},
			Mongo: MongoConfig{URI: "mongodb://localhost:27017"},
		},
	}
}

// LoadConfig reads the TOML config at path, layered over the defaults. A
// missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = pipeline.DefaultAlgorithm
	}
	if cfg.Margin <= 0 {
		cfg.Margin = pipeline.DefaultMargin
	}
	return cfg, nil
}

// defaultConfigPath resolves ~/.config/raggedblocks/config.toml.
func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, appName, "config.toml")
}
