package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetOccupancyConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := GetOccupancyConfig()

		assert.Equal(t, time.Minute, cfg.ReconcileInterval)
		assert.Equal(t, 0.8, cfg.WarnRatio)
		assert.Equal(t, 0.9, cfg.CriticalRatio)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("OCCUPANCY_RECONCILE_INTERVAL", "30s")
		t.Setenv("OCCUPANCY_WARN_RATIO", "0.7")
		t.Setenv("OCCUPANCY_CRITICAL_RATIO", "0.95")

		cfg := GetOccupancyConfig()

		assert.Equal(t, 30*time.Second, cfg.ReconcileInterval)
		assert.Equal(t, 0.7, cfg.WarnRatio)
		assert.Equal(t, 0.95, cfg.CriticalRatio)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "parking")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "parking", cfg.Database.DBName)
	assert.Same(t, cfg, AppConfig)
}

func TestLoadTestConfig(t *testing.T) {
	cfg := LoadTestConfig()

	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, "test_db", cfg.Database.DBName)
	assert.Equal(t, 1, cfg.Redis.DB)
}
