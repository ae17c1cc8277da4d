package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, DataSourceMock, cfg.DataSource.Mode)
	assert.True(t, cfg.DataSource.Mock())
	assert.Equal(t, 10*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "DUAL", cfg.Review.DefaultMode)
	assert.Equal(t, 12, cfg.Catalog.DefaultPageSize)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperRemoteMode(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DATA_SOURCE", " Remote ")
	v.Set("UPSTREAM_TIMEOUT", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := fromViper(v)
	assert.Equal(t, DataSourceRemote, cfg.DataSource.Mode)
	assert.False(t, cfg.DataSource.Mock())
	assert.Equal(t, 10*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestFromViperExportLinkSecretFallsBackToJWT(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("JWT_SECRET", "shared")

	cfg := fromViper(v)
	assert.Equal(t, "shared", cfg.Export.LinkSecret)
	assert.Equal(t, time.Hour, cfg.Export.LinkTTL)
	assert.Equal(t, 5000, cfg.Export.MaxRows)
	assert.Equal(t, 50, cfg.Review.BacklogThreshold)
	assert.Equal(t, 100, cfg.Notifications.InboxLimit)

	v.Set("EXPORT_LINK_SECRET", "dedicated")
	assert.Equal(t, "dedicated", fromViper(v).Export.LinkSecret)
}

func TestFromViperConnectionAndRateLimitSettings(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DATABASE_URL", "postgres://app@db/tf")
	v.Set("SUBMIT_RATE_WINDOW", "15m")

	cfg := fromViper(v)
	assert.Equal(t, "postgres://app@db/tf", cfg.Database.URL)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 20, cfg.RateLimit.SubmitLimit)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.SubmitWindow)
}
