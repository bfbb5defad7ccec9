package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LockDriverMemory   = "memory"
	LockDriverPostgres = "postgres"
	LockDriverRedis    = "redis"

	SessionProviderLiveKit = "livekit"
	SessionProviderMemory  = "memory"
)

type Config struct {
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	Port       string `env:"PORT" envDefault:"3000"`
	MetricPort string `env:"METRIC_PORT" envDefault:"9090"`
	Domain     string `env:"DOMAIN" envDefault:"http://localhost:3000"`
	JWTSecret  string `env:"JWT_SECRET,required,notEmpty"`

	StorageDriver   string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	SessionProvider string `env:"SESSION_PROVIDER" envDefault:"livekit"`

	Postgres PostgresConfig
	LiveKit  LiveKitConfig
	Lock     LockConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name     string `env:"POSTGRES_NAME" envDefault:"roommeet"`
	SSL      string `env:"POSTGRES_SSL" envDefault:"disable"`
}

func (p *PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
		p.SSL,
	)
}

// LiveKitConfig - параметры подключения к LiveKit, который выдает медиа-сессии
type LiveKitConfig struct {
	URL       string `env:"LIVEKIT_URL" envDefault:"ws://localhost:7880"`
	APIKey    string `env:"LIVEKIT_API_KEY"`
	APISecret string `env:"LIVEKIT_API_SECRET"`

	TokenTTL time.Duration `env:"LIVEKIT_TOKEN_TTL" envDefault:"6h"`

	// EmptyTimeout - через сколько LiveKit сам закроет пустую сессию
	EmptyTimeout    time.Duration `env:"LIVEKIT_EMPTY_TIMEOUT" envDefault:"10m"`
	MaxParticipants uint32        `env:"LIVEKIT_MAX_PARTICIPANTS" envDefault:"0"`
}

// LockConfig - блокировка комнаты на время первой активации сессии
type LockConfig struct {
	Driver string        `env:"LOCK_DRIVER" envDefault:"memory"`
	TTL    time.Duration `env:"LOCK_TTL" envDefault:"30s"`
}

type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

func New() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err = c.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.Lock.Driver {
	case LockDriverMemory:
	case LockDriverPostgres:
		if c.StorageDriver != StorageDriverPostgres {
			return errors.New("LOCK_DRIVER=postgres requires STORAGE_DRIVER=postgres")
		}
	case LockDriverRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL is required when LOCK_DRIVER=redis")
		}
	default:
		return fmt.Errorf("unknown LOCK_DRIVER %q", c.Lock.Driver)
	}

	switch c.SessionProvider {
	case SessionProviderMemory:
	case SessionProviderLiveKit:
		if c.LiveKit.APIKey == "" || c.LiveKit.APISecret == "" {
			return errors.New("LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required")
		}
	default:
		return fmt.Errorf("unknown SESSION_PROVIDER %q", c.SessionProvider)
	}

	return nil
}
