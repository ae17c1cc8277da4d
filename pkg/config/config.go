package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Data source modes selected once at startup.
const (
	DataSourceMock   = "mock"
	DataSourceRemote = "remote"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	DataSource    DataSourceConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Review        ReviewConfig
	Catalog       CatalogConfig
	Notifications NotificationConfig
	Export        ExportConfig
	RateLimit     RateLimitConfig
}

// DataSourceConfig switches the whole service between seeded in-memory data and the upstream backend.
type DataSourceConfig struct {
	Mode          string
	UpstreamURL   string
	UpstreamToken string
	Timeout       time.Duration
}

// Mock reports whether the service runs against in-memory seed data.
func (d DataSourceConfig) Mock() bool {
	return d.Mode != DataSourceRemote
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	PoolSize int
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReviewConfig tunes the review-mode lookup.
type ReviewConfig struct {
	DefaultMode      string
	CacheTTL         time.Duration
	BacklogThreshold int
}

// CatalogConfig governs catalog response caching.
type CatalogConfig struct {
	CacheTTL        time.Duration
	DefaultPageSize int
}

// NotificationConfig sizes the notification worker pool.
type NotificationConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
	InboxLimit int
}

// RateLimitConfig caps how often one designer may submit applications.
// A zero limit disables the check.
type RateLimitConfig struct {
	SubmitLimit  int
	SubmitWindow time.Duration
}

// ExportConfig gates the admin application export endpoint and its stored
// download links.
type ExportConfig struct {
	Enabled    bool
	Dir        string
	LinkSecret string
	LinkTTL    time.Duration
	MaxRows    int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.DataSource = DataSourceConfig{
		Mode:          normalizeMode(v.GetString("DATA_SOURCE")),
		UpstreamURL:   v.GetString("UPSTREAM_BASE_URL"),
		UpstreamToken: v.GetString("UPSTREAM_TOKEN"),
		Timeout:       parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 10*time.Second),
	}

	cfg.Database = DatabaseConfig{
		URL:             v.GetString("DATABASE_URL"),
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetInt("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSL_MODE"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), 30*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		URL:      v.GetString("REDIS_URL"),
		PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:   v.GetString("JWT_SECRET"),
		Issuer:   v.GetString("JWT_ISSUER"),
		Audience: splitAndTrim(v.GetString("JWT_AUDIENCE")),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Review = ReviewConfig{
		DefaultMode:      strings.ToUpper(strings.TrimSpace(v.GetString("REVIEW_MODE_DEFAULT"))),
		CacheTTL:         parseDuration(v.GetString("REVIEW_MODE_CACHE_TTL"), time.Minute),
		BacklogThreshold: v.GetInt("REVIEW_BACKLOG_THRESHOLD"),
	}

	pageSize := v.GetInt("CATALOG_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 12
	}
	cfg.Catalog = CatalogConfig{
		CacheTTL:        parseDuration(v.GetString("CATALOG_CACHE_TTL"), 5*time.Minute),
		DefaultPageSize: pageSize,
	}

	cfg.Notifications = NotificationConfig{
		Workers:    v.GetInt("NOTIFY_WORKERS"),
		Retries:    v.GetInt("NOTIFY_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFY_RETRY_DELAY"), time.Second),
		InboxLimit: v.GetInt("NOTIFY_INBOX_LIMIT"),
	}

	linkSecret := v.GetString("EXPORT_LINK_SECRET")
	if linkSecret == "" {
		linkSecret = cfg.JWT.Secret
	}
	cfg.Export = ExportConfig{
		Enabled:    v.GetBool("ENABLE_EXPORT"),
		Dir:        v.GetString("EXPORT_DIR"),
		LinkSecret: linkSecret,
		LinkTTL:    parseDuration(v.GetString("EXPORT_LINK_TTL"), time.Hour),
		MaxRows:    v.GetInt("EXPORT_MAX_ROWS"),
	}

	cfg.RateLimit = RateLimitConfig{
		SubmitLimit:  v.GetInt("SUBMIT_RATE_LIMIT"),
		SubmitWindow: parseDuration(v.GetString("SUBMIT_RATE_WINDOW"), time.Hour),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DATA_SOURCE", DataSourceMock)
	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:8081")
	v.SetDefault("UPSTREAM_TOKEN", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "talent_factory")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_AUDIENCE", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REVIEW_MODE_DEFAULT", "DUAL")
	v.SetDefault("REVIEW_MODE_CACHE_TTL", "1m")
	v.SetDefault("CATALOG_CACHE_TTL", "5m")
	v.SetDefault("CATALOG_PAGE_SIZE", 12)
	v.SetDefault("REVIEW_BACKLOG_THRESHOLD", 50)

	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("NOTIFY_RETRIES", 3)
	v.SetDefault("NOTIFY_RETRY_DELAY", "1s")
	v.SetDefault("NOTIFY_INBOX_LIMIT", 100)

	v.SetDefault("ENABLE_EXPORT", true)
	v.SetDefault("EXPORT_DIR", "storage/exports")
	v.SetDefault("EXPORT_LINK_SECRET", "")
	v.SetDefault("EXPORT_LINK_TTL", "1h")
	v.SetDefault("EXPORT_MAX_ROWS", 5000)

	v.SetDefault("SUBMIT_RATE_LIMIT", 20)
	v.SetDefault("SUBMIT_RATE_WINDOW", "1h")
}

func normalizeMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DataSourceRemote, "real", "http":
		return DataSourceRemote
	default:
		return DataSourceMock
	}
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
