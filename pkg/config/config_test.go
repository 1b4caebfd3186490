package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.DB.Driver)
	assert.Equal(t, 5, cfg.Ledger.MaxRetries)
	assert.Equal(t, OverReceiptAllow, cfg.Procurement.OverReceipt)
	assert.Equal(t, 5*time.Second, cfg.Events.Timeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestFromViper_Sobrescrituras(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("LEDGER_MAX_RETRIES", "3")
	v.Set("PROCUREMENT_OVER_RECEIPT", "reject")
	v.Set("HTTP_PORT", 9090)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.DB.Driver)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.Equal(t, OverReceiptReject, cfg.Procurement.OverReceipt)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_Invalidos(t *testing.T) {
	for key, val := range map[string]interface{}{
		"STORAGE_DRIVER":           "mongo",
		"PROCUREMENT_OVER_RECEIPT": "cap",
		"LEDGER_MAX_RETRIES":       0,
		"LEDGER_NODE_ID":           4096,
	} {
		v := viper.New()
		v.Set(key, val)
		_, err := fromViper(v)
		assert.Error(t, err, key)
	}
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/ledger?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
