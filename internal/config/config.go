package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	LockMemory   = "memory"
	LockRedis    = "redis"
	LockPostgres = "postgres"
)

type Config struct {
	Server                  ServerConfig    `mapstructure:"server"`
	Database                DatabaseConfig  `mapstructure:"database"`
	Storage                 StorageConfig   `mapstructure:"storage"`
	Logging                 LoggingConfig   `mapstructure:"logging"`
	Auth                    AuthConfig      `mapstructure:"auth"`
	Metrics                 MetricsConfig   `mapstructure:"metrics"`
	Redis                   RedisConfig     `mapstructure:"redis"`
	RabbitMQ                RabbitMQConfig  `mapstructure:"rabbitmq"`
	Admission               AdmissionConfig `mapstructure:"admission"`
	Intake                  IntakeConfig    `mapstructure:"intake"`
	GracefulShutdownTimeout time.Duration   `mapstructure:"graceful_shutdown_timeout"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// CORSOrigins lists the sites allowed to call the API from a browser.
	// Empty allows every origin.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig sizes the pgx pool. Each held advisory chalet lock pins one
// connection, so max_conns needs headroom above the concurrent admissions.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UserConfig is a staff account allowed to log in. PasswordHash is a bcrypt hash.
type UserConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	Role         string `mapstructure:"role"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenExpiry   time.Duration `mapstructure:"token_expiry"`
	RefreshExpiry time.Duration `mapstructure:"refresh_expiry"`
	RequireAuth   bool          `mapstructure:"require_auth"`
	Users         []UserConfig  `mapstructure:"users"`
}

type MetricsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Path           string        `mapstructure:"path"`
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RabbitMQConfig struct {
	URL string `mapstructure:"url"`
}

type AdmissionConfig struct {
	LockBackend       string        `mapstructure:"lock_backend"`
	LockPrefix        string        `mapstructure:"lock_prefix"`
	LockTTL           time.Duration `mapstructure:"lock_ttl"`
	LockRetryInterval time.Duration `mapstructure:"lock_retry_interval"`
	// Timezone decides which calendar day counts as "today".
	Timezone string `mapstructure:"timezone"`
}

type IntakeConfig struct {
	Enabled        bool             `mapstructure:"enabled"`
	Async          bool             `mapstructure:"async"`
	Queue          string           `mapstructure:"queue"`
	Workers        int              `mapstructure:"workers"`
	PublicTenantID int64            `mapstructure:"public_tenant_id"`
	Chalets        map[string]int64 `mapstructure:"chalets"`
}

// Location resolves Admission.Timezone.
func (c AdmissionConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("graceful_shutdown_timeout", "30s")

	v.SetDefault("database.url", "")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("database.max_conns", 30)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("storage.driver", StorageMemory)

	v.SetDefault("auth.jwt_secret", "your-256-bit-secret-key-for-development-only-change-in-production")
	v.SetDefault("auth.token_expiry", "24h")
	v.SetDefault("auth.refresh_expiry", "168h") // 7 days
	v.SetDefault("auth.require_auth", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.update_interval", "10s")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("rabbitmq.url", "")

	v.SetDefault("admission.lock_backend", LockMemory)
	v.SetDefault("admission.lock_prefix", "chalet-lock")
	v.SetDefault("admission.lock_ttl", "10s")
	v.SetDefault("admission.lock_retry_interval", "50ms")
	v.SetDefault("admission.timezone", "UTC")

	v.SetDefault("intake.enabled", true)
	v.SetDefault("intake.async", false)
	v.SetDefault("intake.queue", "public_reservations")
	v.SetDefault("intake.workers", 3)
	v.SetDefault("intake.public_tenant_id", 999)
	v.SetDefault("intake.chalets", map[string]int64{
		"romantico": 13,
		"familiar":  14,
		"premium":   26,
	})
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch cfg.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.Database.URL == "" {
			return fmt.Errorf("database.url is required when storage.driver is %s", StoragePostgres)
		}
		if cfg.Database.MaxConns <= 0 {
			return fmt.Errorf("database.max_conns must be positive")
		}
		if cfg.Database.MinConns < 0 || cfg.Database.MinConns > cfg.Database.MaxConns {
			return fmt.Errorf("database.min_conns must be between 0 and database.max_conns")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q", StorageMemory, StoragePostgres)
	}

	switch cfg.Admission.LockBackend {
	case LockMemory:
	case LockRedis:
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when admission.lock_backend is %s", LockRedis)
		}
		if cfg.Admission.LockTTL <= 0 || cfg.Admission.LockRetryInterval <= 0 {
			return fmt.Errorf("admission.lock_ttl and admission.lock_retry_interval must be positive")
		}
	case LockPostgres:
		if cfg.Storage.Driver != StoragePostgres {
			return fmt.Errorf("admission.lock_backend %s requires storage.driver %s", LockPostgres, StoragePostgres)
		}
	default:
		return fmt.Errorf("admission.lock_backend must be one of %s, %s, %s", LockMemory, LockRedis, LockPostgres)
	}

	if _, err := cfg.Admission.Location(); err != nil {
		return fmt.Errorf("admission.timezone: %w", err)
	}

	if cfg.Intake.Enabled {
		if cfg.Intake.PublicTenantID <= 0 {
			return fmt.Errorf("intake.public_tenant_id must be greater than 0")
		}
		if len(cfg.Intake.Chalets) == 0 {
			return fmt.Errorf("intake.chalets must map at least one site code")
		}
		if cfg.Intake.Async {
			if cfg.RabbitMQ.URL == "" {
				return fmt.Errorf("rabbitmq.url is required when intake.async is enabled")
			}
			if cfg.Intake.Workers <= 0 {
				return fmt.Errorf("intake.workers must be greater than 0")
			}
		}
	}

	if cfg.Auth.RequireAuth && len(cfg.Auth.Users) == 0 {
		return fmt.Errorf("auth.users must list at least one account when auth.require_auth is set")
	}

	return nil
}
