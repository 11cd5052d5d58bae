package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1300.0, cfg.WorldWidth)
	assert.Equal(t, 800.0, cfg.WorldHeight)
	assert.Equal(t, 20.0, cfg.CellSize)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 25.0, cfg.LowBatteryThreshold)
	assert.True(t, cfg.ParkAtStation)
	assert.False(t, cfg.DatabaseEnabled())
	assert.False(t, cfg.TelemetryEnabled())
	require.NoError(t, cfg.Validate())
}

func TestDefault_IgnoresEnvironment(t *testing.T) {
	t.Setenv("PARK_AT_STATION", "false")
	t.Setenv("MOVE_SPEED", "9")

	cfg := Default()

	assert.True(t, cfg.ParkAtStation)
	assert.Equal(t, 4.0, cfg.MoveSpeed)
	assert.Equal(t, cfg, Default())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CELL_SIZE", "10")
	t.Setenv("TICK_RATE", "30")
	t.Setenv("PARK_AT_STATION", "false")
	t.Setenv("LOG_FLUSH_INTERVAL", "2s")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_USER", "vac")
	t.Setenv("MYSQL_PASSWORD", "secret")
	t.Setenv("MYSQL_DATABASE", "vacuum")

	cfg := Load()

	assert.Equal(t, 10.0, cfg.CellSize)
	assert.Equal(t, 30, cfg.TickRate)
	assert.False(t, cfg.ParkAtStation)
	assert.Equal(t, 2*time.Second, cfg.LogFlushInterval)
	assert.True(t, cfg.TelemetryEnabled())
	assert.True(t, cfg.DatabaseEnabled())
	assert.Equal(t, "vac:secret@tcp(db:3306)/vacuum?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQLDSN())
}

func TestLoad_UnparsableFallsBackToDefault(t *testing.T) {
	t.Setenv("TICK_RATE", "fast")
	t.Setenv("MOVE_SPEED", "quick")
	t.Setenv("PARK_AT_STATION", "maybe")

	cfg := Load()

	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 4.0, cfg.MoveSpeed)
	assert.True(t, cfg.ParkAtStation)
}

func TestValidate_CollectsProblems(t *testing.T) {
	cfg := Default()
	cfg.CellSize = 0
	cfg.TickRate = 0
	cfg.EmptyThreshold = 1.5
	cfg.DirtIntervalMin = 20
	cfg.LogFlushInterval = 0
	cfg.ChargeRate = 0
	cfg.LowBatteryThreshold = 95

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cell size must be positive")
	assert.Contains(t, err.Error(), "tick rate must be positive")
	assert.Contains(t, err.Error(), "empty threshold")
	assert.Contains(t, err.Error(), "dirt interval")
	assert.Contains(t, err.Error(), "log flush interval must be positive")
	assert.Contains(t, err.Error(), "charge rate must be positive")
	assert.Contains(t, err.Error(), "low battery threshold must not exceed charge threshold")
}

func TestValidate_RejectsEachBrokenSetting(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero flush interval", func(c *Config) { c.LogFlushInterval = 0 }, "log flush interval"},
		{"negative flush interval", func(c *Config) { c.LogFlushInterval = -time.Second }, "log flush interval"},
		{"zero charge rate", func(c *Config) { c.ChargeRate = 0 }, "charge rate"},
		{"negative charge rate", func(c *Config) { c.ChargeRate = -5 }, "charge rate"},
		{"low battery above charge threshold", func(c *Config) { c.LowBatteryThreshold = 95 }, "must not exceed charge threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := Default()
	cfg.LowBatteryThreshold = cfg.ChargeThreshold
	assert.NoError(t, cfg.Validate(), "equal thresholds are allowed")
}

func TestTickInterval(t *testing.T) {
	cfg := Default()
	cfg.TickRate = 50
	assert.Equal(t, 20*time.Millisecond, cfg.TickInterval())
}
