package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devDownloadsSecret = "dev_downloads_secret"
)

// Config is the console configuration, read from the environment and an
// optional .env file.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream     UpstreamConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Log          LogConfig
	Workspace    WorkspaceConfig
	Metadata     MetadataConfig
	Audit        AuditConfig
	Downloads    DownloadsConfig
	Housekeeping HousekeepingConfig
}

// UpstreamConfig points at the timetable backend REST API.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WorkspaceConfig tunes per-session editor behaviour.
type WorkspaceConfig struct {
	SessionTTL            time.Duration
	BulkDeleteConcurrency int
	ToastDuration         time.Duration
}

// MetadataConfig governs the shared cache for upstream type options.
type MetadataConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// AuditConfig toggles persistence of workspace mutations.
type AuditConfig struct {
	Enabled   bool
	Workers   int
	Retries   int
	Retention time.Duration
}

// DownloadsConfig controls exported file storage and signed links.
type DownloadsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// HousekeepingConfig schedules session eviction and file cleanup.
type HousekeepingConfig struct {
	Schedule string
}

// Load reads and validates the configuration.
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL: strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 15*time.Second),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	concurrency := v.GetInt("WORKSPACE_BULK_DELETE_CONCURRENCY")
	if concurrency < 0 {
		concurrency = 0
	}
	cfg.Workspace = WorkspaceConfig{
		SessionTTL:            parseDuration(v.GetString("WORKSPACE_SESSION_TTL"), 2*time.Hour),
		BulkDeleteConcurrency: concurrency,
		ToastDuration:         parseDuration(v.GetString("WORKSPACE_TOAST_DURATION"), 6*time.Second),
	}

	cfg.Metadata = MetadataConfig{
		CacheEnabled: v.GetBool("ENABLE_METADATA_CACHE"),
		CacheTTL:     parseDuration(v.GetString("METADATA_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Audit = AuditConfig{
		Enabled:   v.GetBool("ENABLE_AUDIT"),
		Workers:   v.GetInt("AUDIT_WORKERS"),
		Retries:   v.GetInt("AUDIT_RETRIES"),
		Retention: parseDuration(v.GetString("AUDIT_RETENTION"), 30*24*time.Hour),
	}

	cfg.Downloads = DownloadsConfig{
		StorageDir:      v.GetString("DOWNLOADS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("DOWNLOADS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("DOWNLOADS_SIGNED_URL_TTL"), 30*time.Minute),
	}

	cfg.Housekeeping = HousekeepingConfig{Schedule: v.GetString("HOUSEKEEPING_SCHEDULE")}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the console cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: UPSTREAM_BASE_URL %q must be an absolute http(s) URL", c.Upstream.BaseURL)
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("config: API_PREFIX %q must start with /", c.APIPrefix)
	}
	if c.Env == EnvProduction && (c.Downloads.SignedURLSecret == "" || c.Downloads.SignedURLSecret == devDownloadsSecret) {
		return errors.New("config: DOWNLOADS_SIGNED_URL_SECRET must be set in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8090)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable_workspace")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("WORKSPACE_SESSION_TTL", "2h")
	v.SetDefault("WORKSPACE_BULK_DELETE_CONCURRENCY", 0)
	v.SetDefault("WORKSPACE_TOAST_DURATION", "6s")

	v.SetDefault("ENABLE_METADATA_CACHE", false)
	v.SetDefault("METADATA_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_AUDIT", false)
	v.SetDefault("AUDIT_WORKERS", 1)
	v.SetDefault("AUDIT_RETRIES", 3)
	v.SetDefault("AUDIT_RETENTION", "720h")

	v.SetDefault("DOWNLOADS_STORAGE_DIR", "./downloads")
	v.SetDefault("DOWNLOADS_SIGNED_URL_SECRET", devDownloadsSecret)
	v.SetDefault("DOWNLOADS_SIGNED_URL_TTL", "30m")

	v.SetDefault("HOUSEKEEPING_SCHEDULE", "0 */5 * * * *")
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
