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

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Uploads      UploadsConfig
	VideoStorage VideoStorageConfig
	Telegram     TelegramConfig
	Catalog      CatalogConfig
	Notify       NotifyConfig
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

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig controls local upload storage and per-purpose size ceilings.
type UploadsConfig struct {
	BaseDir          string
	PublicBaseURL    string
	MaxMediaBytes    int64
	MaxResourceBytes int64
}

// VideoStorageConfig points at the remote storage zone used for lesson videos.
type VideoStorageConfig struct {
	ZoneName     string
	AccessKey    string
	PullZoneHost string
	Timeout      time.Duration
}

// TelegramConfig holds bot credentials for outbound business notifications.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	Timeout  time.Duration
}

// CatalogConfig tunes caching for the public course catalog.
type CatalogConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NotifyConfig tunes the background notification queue.
type NotifyConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

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

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxMedia := v.GetInt64("UPLOADS_MAX_MEDIA_BYTES")
	if maxMedia <= 0 {
		maxMedia = 50 * 1024 * 1024
	}
	maxResource := v.GetInt64("UPLOADS_MAX_RESOURCE_BYTES")
	if maxResource <= 0 {
		maxResource = 1024 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		BaseDir:          v.GetString("UPLOADS_BASE_DIR"),
		PublicBaseURL:    v.GetString("UPLOADS_PUBLIC_BASE_URL"),
		MaxMediaBytes:    maxMedia,
		MaxResourceBytes: maxResource,
	}

	cfg.VideoStorage = VideoStorageConfig{
		ZoneName:     v.GetString("VIDEO_STORAGE_ZONE_NAME"),
		AccessKey:    v.GetString("VIDEO_STORAGE_ACCESS_KEY"),
		PullZoneHost: v.GetString("VIDEO_PULL_ZONE_HOSTNAME"),
		Timeout:      parseDuration(v.GetString("VIDEO_STORAGE_TIMEOUT"), 5*time.Minute),
	}

	cfg.Telegram = TelegramConfig{
		BotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
		ChatID:   v.GetString("TELEGRAM_CHAT_ID"),
		Timeout:  parseDuration(v.GetString("TELEGRAM_TIMEOUT"), 10*time.Second),
	}

	cfg.Catalog = CatalogConfig{
		CacheEnabled: v.GetBool("CATALOG_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("CATALOG_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Notify = NotifyConfig{
		Workers:    v.GetInt("NOTIFY_WORKERS"),
		MaxRetries: v.GetInt("NOTIFY_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFY_RETRY_DELAY"), 5*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_platform")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOADS_BASE_DIR", "./public/uploads")
	v.SetDefault("UPLOADS_PUBLIC_BASE_URL", "/uploads")
	v.SetDefault("UPLOADS_MAX_MEDIA_BYTES", 50*1024*1024)
	v.SetDefault("UPLOADS_MAX_RESOURCE_BYTES", 1024*1024*1024)

	v.SetDefault("VIDEO_STORAGE_ZONE_NAME", "")
	v.SetDefault("VIDEO_STORAGE_ACCESS_KEY", "")
	v.SetDefault("VIDEO_PULL_ZONE_HOSTNAME", "")
	v.SetDefault("VIDEO_STORAGE_TIMEOUT", "5m")

	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_CHAT_ID", "")
	v.SetDefault("TELEGRAM_TIMEOUT", "10s")

	v.SetDefault("CATALOG_CACHE_ENABLED", true)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")

	v.SetDefault("NOTIFY_WORKERS", 1)
	v.SetDefault("NOTIFY_MAX_RETRIES", 3)
	v.SetDefault("NOTIFY_RETRY_DELAY", "5s")
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
