package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

var (
	ErrMissingDatabaseURL      = errors.New("DB_URL is required")
	ErrAutoMigrateInProduction = errors.New("DB_AUTO_MIGRATE must be disabled in production-equivalent environments")
	ErrInvalidSetting          = errors.New("invalid configuration setting")
)

const DefaultEnvironment = "development"

// Config is centralized process configuration.
// It is built once by Load and passed by value into builders; nothing reads
// the environment after boot.
type Config struct {
	Environment string
	ServiceName string `env:"SERVICE_NAME,default=timecapsule"`
	APIVersion  string `env:"API_VERSION,default=1"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	HTTP      HTTPConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Boot      BootConfig
	RateLimit RateLimitConfig
	Activity  ActivityConfig
}

type HTTPConfig struct {
	Port            string        `env:"HTTP_PORT,default=8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT,default=10s"`
}

type DatabaseConfig struct {
	URL             string        `env:"DB_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=20"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	// AutoMigrate is resolved from DB_AUTO_MIGRATE and the profile in Load.
	AutoMigrate bool
}

type CacheConfig struct {
	Addr       string        `env:"CACHE_ADDR,default=localhost:6379"`
	Password   string        `env:"CACHE_PASSWORD"`
	DB         int           `env:"CACHE_DB,default=0"`
	DefaultTTL time.Duration `env:"CACHE_TTL,default=600s"`
}

type BootConfig struct {
	ConnectAttempts int           `env:"BOOT_CONNECT_ATTEMPTS,default=5"`
	ConnectBackoff  time.Duration `env:"BOOT_CONNECT_BACKOFF,default=500ms"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS,default=0"`
	Burst             int     `env:"RATE_LIMIT_BURST,default=20"`
}

type ActivityConfig struct {
	Retention     time.Duration `env:"ACTIVITY_LOG_RETENTION,default=2160h"`
	SweepInterval time.Duration `env:"ACTIVITY_SWEEP_INTERVAL,default=1h"`
}

// Load selects the profile from APP_ENV, overlays .env.<profile> when the file
// exists and decodes the environment into Config.
func Load() (Config, error) {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "" {
		env = DefaultEnvironment
	}

	if err := loadProfileFile(env); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	cfg.Environment = env

	autoMigrate, err := resolveAutoMigrate(env, os.Getenv("DB_AUTO_MIGRATE"))
	if err != nil {
		return Config{}, err
	}
	cfg.Database.AutoMigrate = autoMigrate

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that would leave the process partially
// configured.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return ErrMissingDatabaseURL
	}
	if c.Database.AutoMigrate && IsProductionLike(c.Environment) {
		return ErrAutoMigrateInProduction
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("%w: CACHE_TTL must be positive", ErrInvalidSetting)
	}
	if c.Boot.ConnectAttempts <= 0 {
		return fmt.Errorf("%w: BOOT_CONNECT_ATTEMPTS must be positive", ErrInvalidSetting)
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: RATE_LIMIT_RPS must not be negative", ErrInvalidSetting)
	}
	if c.Activity.Retention <= 0 || c.Activity.SweepInterval <= 0 {
		return fmt.Errorf("%w: activity retention and sweep interval must be positive", ErrInvalidSetting)
	}
	return nil
}

// HTTPAddr normalizes HTTP_PORT into a listen address.
func (c Config) HTTPAddr() string {
	value := strings.TrimSpace(c.HTTP.Port)
	if value == "" {
		return ":8080"
	}
	if strings.Contains(value, ":") {
		return value
	}
	return ":" + value
}

func IsProductionLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging":
		return true
	default:
		return false
	}
}

func loadProfileFile(env string) error {
	path := ".env." + env
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	// godotenv.Load never overrides variables already present in the process.
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolveAutoMigrate(env string, raw string) (bool, error) {
	fallback := !IsProductionLike(env)
	value := strings.TrimSpace(strings.ToLower(raw))
	if value == "" {
		return fallback, nil
	}
	switch value {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%w: DB_AUTO_MIGRATE=%q", ErrInvalidSetting, raw)
	}
}
