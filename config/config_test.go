package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
api:
  base_url: http://api.example.test
  timeout_seconds: 5
session:
  store: memory
booking:
  handoff_delay_ms: 1500
kafka:
  brokers: ["localhost:9092"]
  events_topic: portal.events
sandbox:
  users:
    - email: alice@example.com
      password: secret
      role: customer
  hotels:
    - id: H1
      name: Harbor Inn
      rooms:
        - id: R1
          base_price: 100
          available: 2
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://api.example.test", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.TimeoutSeconds)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "token", cfg.Session.TokenKey)
	assert.Equal(t, 0.10, cfg.Booking.Tax())
	assert.Equal(t, 25.0, cfg.Booking.Fee())
	assert.Equal(t, 1500, cfg.Booking.HandoffDelayMs)
	assert.True(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	require.Len(t, cfg.Sandbox.Hotels, 1)
	assert.Equal(t, 100.0, cfg.Sandbox.Hotels[0].Rooms[0].BasePrice)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("PORTAL_API_BASE_URL", "http://override.test")
	t.Setenv("PORTAL_REDIS_ADDR", "localhost:6379")
	t.Setenv("PORTAL_BOOKING_SERVICE_FEE", "30")

	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://override.test", cfg.API.BaseURL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30.0, cfg.Booking.Fee())
}

func TestParse_ZeroTaxAndFeeAreKept(t *testing.T) {
	cfg, err := Parse([]byte("booking:\n  tax_rate: 0\n  service_fee: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Booking.Tax())
	assert.Equal(t, 0.0, cfg.Booking.Fee())

	t.Setenv("PORTAL_BOOKING_TAX_RATE", "0")
	cfg, err = Parse([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Booking.Tax())
	assert.Equal(t, 25.0, cfg.Booking.Fee())
}

func TestBookingConfig_UnsetFallsBack(t *testing.T) {
	var b BookingConfig
	assert.Equal(t, 0.10, b.Tax())
	assert.Equal(t, 25.0, b.Fee())
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("api: [unclosed"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Booking.HandoffDelay())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "file", cfg.Session.Store)
	assert.NotEmpty(t, cfg.Session.TokenFile)
	assert.Equal(t, ":8080", cfg.Sandbox.Address)
	assert.Equal(t, 15, cfg.API.TimeoutSeconds)
}
