package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rpattn/bookmarks/internal/cache"
	"github.com/rpattn/bookmarks/internal/db"
)

// EnvPrefix namespaces environment overrides, e.g. BOOKMARKS_DATABASE_HOST.
const EnvPrefix = "BOOKMARKS"

type Config struct {
	Server   ServerConfig  `mapstructure:"server"`
	Database db.Config     `mapstructure:"database"`
	Storage  StorageConfig `mapstructure:"storage"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Log      LogConfig     `mapstructure:"log"`
	Query    QueryConfig   `mapstructure:"query"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	// Driver is "postgres" or "memory".
	Driver string `mapstructure:"driver"`
	// SeedFile is loaded into the memory store at startup; the collection is
	// taken from the file's base name.
	SeedFile    string   `mapstructure:"seed_file"`
	Collections []string `mapstructure:"collections"`
}

type CacheConfig struct {
	Driver string             `mapstructure:"driver"`
	TTL    time.Duration      `mapstructure:"ttl"`
	Redis  cache.RedisOptions `mapstructure:"redis"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type QueryConfig struct {
	CategoryField string `mapstructure:"category_field"`
}

func setDefaults(v *viper.Viper) {
	dbDefaults := db.DefaultConfig()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.host", dbDefaults.Host)
	v.SetDefault("database.port", dbDefaults.Port)
	v.SetDefault("database.user", dbDefaults.User)
	v.SetDefault("database.password", dbDefaults.Password)
	v.SetDefault("database.dbname", dbDefaults.DBName)
	v.SetDefault("database.sslmode", dbDefaults.SSLMode)
	v.SetDefault("database.max_conns", dbDefaults.MaxConns)
	v.SetDefault("database.min_conns", dbDefaults.MinConns)
	v.SetDefault("database.connect_tries", dbDefaults.ConnectTries)

	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("storage.seed_file", "")
	v.SetDefault("storage.collections", []string{"bookmarks"})

	v.SetDefault("cache.driver", "none")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("query.category_field", "Category")
}

// Load reads config.yaml from configPath when present, then applies
// BOOKMARKS_* environment overrides on top of the defaults.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be postgres or memory, got %q", c.Storage.Driver))
	}
	switch c.Cache.Driver {
	case "none", "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.driver must be none, memory or redis, got %q", c.Cache.Driver))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// Options converts the cache section for cache.New.
func (c CacheConfig) Options() cache.Options {
	return cache.Options{Driver: c.Driver, TTL: c.TTL, Redis: c.Redis}
}
