package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // containers often ship without zoneinfo

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendLocal    = "local"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Session   SessionConfig
	Bootstrap BootstrapConfig
	Scheduler SchedulerConfig
	Timezone  string
}

type ServerConfig struct {
	Port      string
	WebOrigin string
}

// StorageConfig selects the persistence backend once at startup.
type StorageConfig struct {
	Backend   string
	Postgres  PostgresConfig
	LocalPath string
	SeedData  bool
}

type PostgresConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// RedisConfig 为空地址时会话保存在进程内
type RedisConfig struct {
	Addr     string
	Password string
}

type SessionConfig struct {
	TTL time.Duration
}

// BootstrapConfig creates the first admin account when no user exists.
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

type SchedulerConfig struct {
	LateReconcileCron string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// missing .env is fine, values may come straight from the environment
		_ = godotenv.Load()
	}

	ttl, err := parseSeconds(getenvWithDefault("SESSION_TTL_SECONDS", "86400"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL_SECONDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:      getenvWithDefault("PORT", "3001"),
			WebOrigin: getenvWithDefault("WEB_ORIGIN", "http://localhost:5173"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getenvWithDefault("STORAGE_BACKEND", BackendLocal)),
			Postgres: PostgresConfig{
				Host:     os.Getenv("DB_HOST"),
				User:     os.Getenv("DB_USER"),
				Password: os.Getenv("DB_PASSWORD"),
				Name:     os.Getenv("DB_NAME"),
				Port:     getenvWithDefault("DB_PORT", "5432"),
				SSLMode:  getenvWithDefault("DB_SSLMODE", "disable"),
			},
			LocalPath: getenvWithDefault("LOCAL_DATA_PATH", "./data/dkv.json"),
			SeedData:  getenvWithDefault("SEED_SAMPLE_DATA", "true") == "true",
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Session: SessionConfig{TTL: ttl},
		Bootstrap: BootstrapConfig{
			AdminUsername: getenvWithDefault("BOOTSTRAP_ADMIN_USERNAME", "admin"),
			AdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},
		Scheduler: SchedulerConfig{
			LateReconcileCron: getenvWithDefault("LATE_RECONCILE_CRON", "5 0 * * *"),
		},
		Timezone: getenvWithDefault("TIMEZONE", "Asia/Jakarta"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("PORT must be provided")
	}

	switch c.Storage.Backend {
	case BackendPostgres:
		pg := c.Storage.Postgres
		switch {
		case pg.Host == "":
			return errors.New("DB_HOST must be provided for the postgres backend")
		case pg.User == "":
			return errors.New("DB_USER must be provided for the postgres backend")
		case pg.Name == "":
			return errors.New("DB_NAME must be provided for the postgres backend")
		}
	case BackendLocal:
		if c.Storage.LocalPath == "" {
			return errors.New("LOCAL_DATA_PATH must not be empty")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendLocal, c.Storage.Backend)
	}

	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL_SECONDS must be positive")
	}
	if c.Scheduler.LateReconcileCron == "" {
		return errors.New("LATE_RECONCILE_CRON must be provided")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the configured time zone; Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func parseSeconds(v string) (time.Duration, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
