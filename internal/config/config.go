package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/klaro/internal/common"
	"github.com/Veraticus/klaro/internal/engine"
	"github.com/Veraticus/klaro/internal/paydown"
	"github.com/Veraticus/klaro/internal/storage"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the typed application configuration.
type Config struct {
	Storage  StorageConfig
	Redis    RedisConfig
	Logging  LoggingConfig
	Paydown  PaydownConfig
	Debounce time.Duration
}

// StorageConfig selects where the ledger snapshot lives.
type StorageConfig struct {
	Backend      string
	DatabasePath string
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	Key      string
	DB       int
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string
	Format string
}

// PaydownConfig holds defaults for the paydown command.
type PaydownConfig struct {
	Strategy paydown.Strategy
	Extra    float64
}

// DefaultDatabasePath returns $HOME/.local/share/klaro/klaro.db.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "klaro.db")
	}
	return filepath.Join(home, ".local", "share", "klaro", "klaro.db")
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", storage.DefaultRedisKey)
	v.SetDefault("persist.debounce", engine.DefaultDebounce)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("paydown.strategy", string(paydown.Avalanche))
	v.SetDefault("paydown.extra", 0.0)
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v. It follows this precedence:
// 1. Viper configuration (config file, KLARO_ env vars, bound flags)
// 2. Direct environment variables (REDIS_ADDR, REDIS_PASSWORD)
// 3. Default values
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Storage: StorageConfig{
			Backend:      v.GetString("storage.backend"),
			DatabasePath: ExpandPath(v.GetString("database.path")),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			Key:      v.GetString("redis.key"),
			DB:       v.GetInt("redis.db"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Paydown: PaydownConfig{
			Strategy: paydown.Strategy(v.GetString("paydown.strategy")),
			Extra:    v.GetFloat64("paydown.extra"),
		},
		Debounce: v.GetDuration("persist.debounce"),
	}

	if cfg.Redis.Addr == "localhost:6379" {
		if addr := os.Getenv("REDIS_ADDR"); addr != "" {
			cfg.Redis.Addr = addr
		}
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DatabasePath == "" {
			return fmt.Errorf("%w: database.path is required for the sqlite backend", common.ErrMissingConfig)
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for the redis backend", common.ErrMissingConfig)
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("%w: redis.db must not be negative", common.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, c.Storage.Backend)
	}

	if c.Debounce < 0 {
		return fmt.Errorf("%w: persist.debounce must not be negative", common.ErrInvalidConfig)
	}
	if !c.Paydown.Strategy.Valid() {
		return fmt.Errorf("%w: unknown paydown strategy %q", common.ErrInvalidConfig, c.Paydown.Strategy)
	}
	if c.Paydown.Extra < 0 {
		return fmt.Errorf("%w: paydown.extra must not be negative", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "console", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}
