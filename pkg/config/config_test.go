package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.App.Store)
	assert.False(t, cfg.App.UsesMemoryStore())
	assert.Equal(t, "clamp", cfg.Ledger.OutboundPolicy)
	assert.Equal(t, "clamp", cfg.Pricing.DiscountPolicy)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_STORE", "memory")
	v.Set("HTTP_PORT", "9090")
	v.Set("LEDGER_OUTBOUND_POLICY", "REJECT")
	v.Set("DB_MIGRATE", false)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.App.UsesMemoryStore())
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "reject", cfg.Ledger.OutboundPolicy)
	assert.False(t, cfg.DB.Migrate)
}

func TestFromViper_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"store desconocido", "APP_STORE", "redis"},
		{"política de ledger", "LEDGER_OUTBOUND_POLICY", "ignore"},
		{"política de precios", "PRICING_DISCOUNT_POLICY", "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "dist", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/dist?sslmode=disable", db.ConnectionString())

	db.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", db.ConnectionString())
}
