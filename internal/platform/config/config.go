package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	MediaDriverS3    = "s3"
	MediaDriverLocal = "local"

	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	Port           string
	IsProduction   bool
	DatabaseURL    string
	EnableDBCheck  bool
	MigrationsPath string

	// Tokens
	AccessTokenSecret          string
	AccessTokenExpiryDuration  time.Duration
	RefreshTokenSecret         string
	RefreshTokenExpiryDuration time.Duration
	JWTIssuer                  string

	// Cookies
	CookieSecure bool
	CookieDomain string

	CORSOrigins    []string
	BcryptCost     int
	MaxUploadBytes int64

	// Media
	MediaDriver        string
	MediaPublicBaseURL string
	MediaLocalDir      string
	S3Bucket           string
	S3Region           string
	S3BaseEndpoint     string
	S3AccessKey        string
	S3SecretKey        string

	// Rate limiting
	AuthRateLimit  string
	RateLimitStore string
	RedisURL       string

	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("ACCESS_TOKEN_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_EXPIRY", "24h")
	v.SetDefault("REFRESH_TOKEN_SECRET", "")
	v.SetDefault("REFRESH_TOKEN_EXPIRY", "240h")
	v.SetDefault("JWT_ISSUER", "vidtube-backend")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("MAX_UPLOAD_SIZE_MB", 5)
	v.SetDefault("MEDIA_DRIVER", MediaDriverLocal)
	v.SetDefault("MEDIA_PUBLIC_BASE_URL", "http://localhost:8000/static")
	v.SetDefault("MEDIA_LOCAL_DIR", "./public/uploads")
	v.SetDefault("S3_BUCKET", "vidtube-media")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BASE_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("AUTH_RATE_LIMIT", "10-M")
	v.SetDefault("RATE_LIMIT_STORE", RateLimitStoreMemory)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		DatabaseURL:        v.GetString("PGSQL_URL"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		AccessTokenSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: v.GetString("REFRESH_TOKEN_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		CookieDomain:       v.GetString("COOKIE_DOMAIN"),
		BcryptCost:         v.GetInt("BCRYPT_COST"),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_SIZE_MB") << 20,
		MediaDriver:        strings.ToLower(v.GetString("MEDIA_DRIVER")),
		MediaPublicBaseURL: strings.TrimRight(v.GetString("MEDIA_PUBLIC_BASE_URL"), "/"),
		MediaLocalDir:      v.GetString("MEDIA_LOCAL_DIR"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Region:           v.GetString("S3_REGION"),
		S3BaseEndpoint:     v.GetString("S3_BASE_ENDPOINT"),
		S3AccessKey:        v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:        v.GetString("S3_SECRET_KEY"),
		AuthRateLimit:      v.GetString("AUTH_RATE_LIMIT"),
		RateLimitStore:     strings.ToLower(v.GetString("RATE_LIMIT_STORE")),
		RedisURL:           v.GetString("REDIS_URL"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8000"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.AccessTokenSecret == "" {
		// !! CHANGE IN PRODUCTION !!
		cfg.AccessTokenSecret = "default_insecure_access_secret_please_change_this_!@#$"
		log.Println("Warning: ACCESS_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}
	if cfg.RefreshTokenSecret == "" {
		cfg.RefreshTokenSecret = "default_insecure_refresh_secret_please_change_this_!@#$"
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		log.Println("Warning: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are identical; refresh tokens would be accepted as access tokens.")
	}

	cfg.AccessTokenExpiryDuration = parseDuration(v, "ACCESS_TOKEN_EXPIRY", 24*time.Hour)
	cfg.RefreshTokenExpiryDuration = parseDuration(v, "REFRESH_TOKEN_EXPIRY", 10*24*time.Hour)
	cfg.ShutdownTimeout = parseDuration(v, "SHUTDOWN_TIMEOUT", 10*time.Second)

	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "vidtube-backend"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	for _, origin := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
		log.Printf("Warning: Invalid MAX_UPLOAD_SIZE_MB. Defaulting to %d bytes.\n", cfg.MaxUploadBytes)
	}

	switch cfg.MediaDriver {
	case MediaDriverS3, MediaDriverLocal:
	default:
		log.Printf("Warning: Unknown MEDIA_DRIVER ('%s'). Defaulting to %s.\n", cfg.MediaDriver, MediaDriverLocal)
		cfg.MediaDriver = MediaDriverLocal
	}

	switch cfg.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		log.Printf("Warning: Unknown RATE_LIMIT_STORE ('%s'). Defaulting to %s.\n", cfg.RateLimitStore, RateLimitStoreMemory)
		cfg.RateLimitStore = RateLimitStoreMemory
	}

	if !cfg.CookieSecure && cfg.IsProduction {
		log.Println("Warning: COOKIE_SECURE is disabled in production.")
	}

	return cfg
}

// parseDuration reads a Go duration (e.g. "15m", "24h"), falling back on invalid input.
func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}
