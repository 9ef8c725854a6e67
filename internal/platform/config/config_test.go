package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newTestViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(newTestViper(nil))

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenExpiryDuration)
	assert.Equal(t, 240*time.Hour, cfg.RefreshTokenExpiryDuration)
	assert.NotEmpty(t, cfg.AccessTokenSecret)
	assert.NotEmpty(t, cfg.RefreshTokenSecret)
	assert.NotEqual(t, cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, MediaDriverLocal, cfg.MediaDriver)
	assert.Equal(t, RateLimitStoreMemory, cfg.RateLimitStore)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "http://localhost:8000/static", cfg.MediaPublicBaseURL)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg := fromViper(newTestViper(map[string]any{
		"ACCESS_TOKEN_SECRET":   "a",
		"ACCESS_TOKEN_EXPIRY":   "15m",
		"REFRESH_TOKEN_EXPIRY":  "not-a-duration",
		"MEDIA_DRIVER":          "S3",
		"RATE_LIMIT_STORE":      "bogus",
		"CORS_ORIGINS":          "http://a.test, http://b.test ,",
		"MEDIA_PUBLIC_BASE_URL": "https://cdn.example.com/media/",
		"MAX_UPLOAD_SIZE_MB":    2,
	}))

	assert.Equal(t, "a", cfg.AccessTokenSecret)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiryDuration)
	assert.Equal(t, 240*time.Hour, cfg.RefreshTokenExpiryDuration)
	assert.Equal(t, MediaDriverS3, cfg.MediaDriver)
	assert.Equal(t, RateLimitStoreMemory, cfg.RateLimitStore)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "https://cdn.example.com/media", cfg.MediaPublicBaseURL)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes)
}
