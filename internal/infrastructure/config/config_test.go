package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "printflow-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "printflow", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiry)
	assert.Equal(t, time.Hour, cfg.Billing.OverdueSweepInterval)
	assert.Equal(t, 500, cfg.Billing.OverdueSweepLimit)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate_PoolSettings(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.MaxIdleConns = 50
	cfg.Database.MaxOpenConns = 10

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_idle_conns")
}

func TestValidate_Production(t *testing.T) {
	newProdConfig := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	require.NoError(t, newProdConfig().validate())

	shortSecret := newProdConfig()
	shortSecret.JWT.Secret = "short"
	assert.Error(t, shortSecret.validate())

	noPassword := newProdConfig()
	noPassword.Database.Password = ""
	assert.Error(t, noPassword.validate())

	sslDisabled := newProdConfig()
	sslDisabled.Database.SSLMode = "disable"
	assert.Error(t, sslDisabled.validate())

	wildcardCORS := newProdConfig()
	wildcardCORS.HTTP.CORSAllowOrigins = []string{"*"}
	assert.Error(t, wildcardCORS.validate())
}

func TestDSN_EscapesCredentials(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "printflow",
		Password: "p@ss/word",
		DBName:   "printflow",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "sslmode=require")
}
