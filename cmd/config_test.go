package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageDriverMemory)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, PaymentProviderSandbox, cfg.PaymentProvider)
	assert.Equal(t, int64(10<<20), cfg.DocumentMaxBytes)
	assert.Equal(t, "INR", cfg.DefaultCurrency)
	assert.Equal(t, 10*time.Second, cfg.PaymentProviderTimeout)
	assert.Equal(t, 15*time.Minute, cfg.PaymentReconcileGrace)
	assert.Equal(t, 24*time.Hour, cfg.PaymentExpiry)
	assert.True(t, cfg.IsLocal())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		StorageDriver:         StorageDriverPostgres,
		PaymentProvider:       PaymentProviderSandbox,
		DocumentMaxBytes:      1 << 20,
		PaymentReconcileGrace: 15 * time.Minute,
		PaymentExpiry:         24 * time.Hour,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown storage driver", func(c *Config) { c.StorageDriver = "sqlite" }},
		{"unknown provider", func(c *Config) { c.PaymentProvider = "stripe" }},
		{"razorpay without keys", func(c *Config) {
			c.PaymentProvider = PaymentProviderRazorpay
			c.PaymentWebhookSecret = "whsec"
		}},
		{"razorpay without webhook secret", func(c *Config) {
			c.PaymentProvider = PaymentProviderRazorpay
			c.PaymentKeyID = "rzp_live_key"
			c.PaymentKeySecret = "secret"
		}},
		{"non-positive document limit", func(c *Config) { c.DocumentMaxBytes = 0 }},
		{"expiry shorter than grace", func(c *Config) { c.PaymentExpiry = time.Minute }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "app", DBPassword: "pw", DBName: "compliance", DBSslMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=compliance sslmode=disable", cfg.DSN())
}
