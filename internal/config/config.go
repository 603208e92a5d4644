package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/local.yaml"

type Config struct {
	App      AppConfig      `yaml:"app"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type AppConfig struct {
	Name            string        `yaml:"name" env:"APP_NAME"`
	Env             string        `yaml:"env" env:"APP_ENV"`
	Port            string        `yaml:"port" env:"APP_PORT"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"APP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"APP_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"APP_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"APP_SHUTDOWN_TIMEOUT"`
}

type PostgresConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST"`
	Port            string        `yaml:"port" env:"DB_PORT"`
	User            string        `yaml:"user" env:"DB_USER"`
	Password        string        `yaml:"password" env:"DB_PASSWORD"`
	DBName          string        `yaml:"dbname" env:"DB_NAME"`
	SSLMode         string        `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxConns        int32         `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns        int32         `yaml:"min_conns" env:"DB_MIN_CONNS"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME"`
	MigrateOnStart  bool          `yaml:"migrate_on_start" env:"DB_MIGRATE_ON_START"`
}

// ConnString is the postgres:// URL understood by pgx. Every part is escaped, so an
// empty password or one with spaces does not swallow the fields after it.
func (c PostgresConfig) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host,
		Path:   "/" + c.DBName,
	}
	if c.Port != "" {
		u.Host = net.JoinHostPort(c.Host, c.Port)
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}

	return u.String()
}

// RedisConfig enables the menu cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	MenuTTL  time.Duration `yaml:"menu_ttl" env:"REDIS_MENU_TTL"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	Issuer        string        `yaml:"issuer" env:"AUTH_ISSUER"`
	TokenTTL      time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL"`
	AdminUsername string        `yaml:"admin_username" env:"AUTH_ADMIN_USERNAME"`
	AdminPassword string        `yaml:"admin_password" env:"AUTH_ADMIN_PASSWORD"`
}

// MailConfig selects Postmark when ServerToken is set, a logging sender otherwise.
type MailConfig struct {
	ServerToken string `yaml:"server_token" env:"POSTMARK_SERVER_TOKEN"`
	From        string `yaml:"from" env:"MAIL_FROM"`
}

type TracingConfig struct {
	Endpoint string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:            "restaurant-service",
			Env:             "local",
			Port:            "8080",
			LogLevel:        "info",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Postgres: PostgresConfig{
			Port:            "5432",
			SSLMode:         "disable",
			MaxConns:        10,
			MinConns:        2,
			MaxConnLifetime: time.Hour,
			MigrateOnStart:  true,
		},
		Redis: RedisConfig{
			MenuTTL: 10 * time.Minute,
		},
		Auth: AuthConfig{
			Issuer:   "restaurant-service",
			TokenTTL: 24 * time.Hour,
		},
		Mail: MailConfig{
			From: "no-reply@restaurant.local",
		},
	}
}

// NewConfig loads the file named by CONFIG_PATH (config/local.yaml by default).
func NewConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	return Load(path)
}

// Load layers the YAML file at path, a .env file in the working directory and the
// process environment, in that order. Missing files are skipped.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if err := readYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readYAML(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) Validate() error {
	var missing []string

	if c.App.Port == "" {
		missing = append(missing, "APP_PORT")
	}
	if c.Postgres.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.Postgres.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.Postgres.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required values: %s", strings.Join(missing, ", "))
	}

	if c.Postgres.MinConns > c.Postgres.MaxConns {
		return fmt.Errorf("config: DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Postgres.MinConns, c.Postgres.MaxConns)
	}

	return nil
}
