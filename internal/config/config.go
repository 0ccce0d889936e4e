package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all configuration for both binaries, loaded from the
// environment. The CMS and the shop read the same struct; SHOP_* keys
// only matter to the storefront.
type Config struct {
	CMSServer  ServerConfig `envconfig:"CMS"`
	ShopServer ServerConfig `envconfig:"SHOP"`
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	AdminAPI   AdminAPIConfig
	Session    SessionConfig
	Shop       ShopConfig
}

// ServerConfig holds HTTP server settings for one binary.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"traderhub"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// DatabaseConfig selects and configures the relational store.
// Driver is one of sqlite (default), postgres, mysql.
type DatabaseConfig struct {
	Driver string `envconfig:"DB_DRIVER" default:"sqlite"`
	// URL is used verbatim for postgres (DATABASE_URL) when set.
	URL  string `envconfig:"DATABASE_URL" default:""`
	Path string `envconfig:"DB_PATH" default:"./data/traderhub.db"`
	// Discrete settings used when DATABASE_URL is not provided.
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"traderhub"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASS" default:""`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// PostgresDSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) PostgresDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (d *DatabaseConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig holds session/cart store settings.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Address returns the Redis address in host:port format.
func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AdminAPIConfig points at the external admin backend.
type AdminAPIConfig struct {
	BaseURL string        `envconfig:"ADMIN_API_BASE_URL" default:"http://localhost:9000"`
	Timeout time.Duration `envconfig:"ADMIN_API_TIMEOUT" default:"30s"`
}

// SessionConfig holds session token settings.
type SessionConfig struct {
	Secret     string        `envconfig:"SESSION_SECRET_KEY" default:""`
	TokenTTL   time.Duration `envconfig:"SESSION_TOKEN_TTL" default:"30m"`
	RefreshTTL time.Duration `envconfig:"SESSION_REFRESH_TTL" default:"168h"`
	CartTTL    time.Duration `envconfig:"SESSION_CART_TTL" default:"168h"`
}

// ShopConfig holds storefront settings. TraderID pins the shop to the
// single trader whose curated catalog it sells.
type ShopConfig struct {
	Name     string `envconfig:"SHOP_NAME" default:"My Shop"`
	TraderID int64  `envconfig:"TRADER_ID" default:"1"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
