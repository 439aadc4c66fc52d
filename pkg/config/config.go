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

// Share store backends.
const (
	ShareBackendMemory   = "memory"
	ShareBackendPostgres = "postgres"
	ShareBackendRedis    = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Share    ShareConfig
	Chat     ChatConfig
	Auth     AuthConfig
	Export   ExportConfig
	Metrics  MetricsConfig
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
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ShareConfig tunes the share registry behaviour.
type ShareConfig struct {
	// Backend selects the snapshot store: memory, postgres or redis.
	Backend string
	// CodeLength is the number of characters in a share code.
	CodeLength int
	// TTL is how long a published entry stays resolvable. Zero means lifetime.
	TTL time.Duration
	// SupersedePrevious deletes the prior registry entry when a class is
	// re-shared. Off by default: stale codes keep resolving to the frozen
	// snapshot they were issued for.
	SupersedePrevious bool
	// SweepInterval controls how often expired entries are purged.
	SweepInterval time.Duration
	// MaxAttachmentBytes bounds inline file/image payloads on chat messages.
	MaxAttachmentBytes int64
}

// ChatConfig tunes client-side chat behaviour.
type ChatConfig struct {
	PollInterval time.Duration
}

// AuthConfig gates the account endpoints. Requires the postgres backend.
type AuthConfig struct {
	Enabled bool
}

// ExportConfig gates the register export endpoints.
type ExportConfig struct {
	Enabled bool
}

// MetricsConfig gates the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
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
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 30*24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Share = ShareConfig{
		Backend:            strings.ToLower(v.GetString("SHARE_BACKEND")),
		CodeLength:         v.GetInt("SHARE_CODE_LENGTH"),
		TTL:                parseDuration(v.GetString("SHARE_TTL"), 0),
		SupersedePrevious:  v.GetBool("SHARE_SUPERSEDE_PREVIOUS"),
		SweepInterval:      parseDuration(v.GetString("SHARE_SWEEP_INTERVAL"), 10*time.Minute),
		MaxAttachmentBytes: v.GetInt64("SHARE_MAX_ATTACHMENT_BYTES"),
	}

	cfg.Chat = ChatConfig{
		PollInterval: parseDuration(v.GetString("CHAT_POLL_INTERVAL"), 3*time.Second),
	}

	cfg.Auth = AuthConfig{Enabled: v.GetBool("ENABLE_AUTH")}
	cfg.Export = ExportConfig{Enabled: v.GetBool("ENABLE_EXPORT")}
	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

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
	v.SetDefault("DB_NAME", "register_share")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "720h")
	v.SetDefault("JWT_ISSUER", "register-share-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SHARE_BACKEND", ShareBackendMemory)
	v.SetDefault("SHARE_CODE_LENGTH", 6)
	v.SetDefault("SHARE_TTL", "0")
	v.SetDefault("SHARE_SUPERSEDE_PREVIOUS", false)
	v.SetDefault("SHARE_SWEEP_INTERVAL", "10m")
	v.SetDefault("SHARE_MAX_ATTACHMENT_BYTES", 500*1024)

	v.SetDefault("CHAT_POLL_INTERVAL", "3s")

	v.SetDefault("ENABLE_AUTH", false)
	v.SetDefault("ENABLE_EXPORT", true)
	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" || raw == "0" {
		if raw == "0" {
			return 0
		}
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
