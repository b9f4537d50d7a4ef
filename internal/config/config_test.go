package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:50051", cfg.GRPCAddr())
	assert.Equal(t, ":9090", cfg.AdminAddr)
	assert.Equal(t, 10*time.Second, cfg.GRPCRequestTimeout)
	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.DBSlowQuery)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SALONDESK_GRPC_ADDR", "127.0.0.1:6000")
	t.Setenv("SALONDESK_ADMIN_ADDR", "127.0.0.1:9100")
	t.Setenv("SALONDESK_CALENDAR_SLOT_MINUTES", "15")
	t.Setenv("SALONDESK_CALENDAR_LOCATION", "Europe/Berlin")
	t.Setenv("SALONDESK_CALENDAR_SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SALONDESK_DATABASE_CONNECT_TIMEOUT", "2s")
	t.Setenv("SALONDESK_DATABASE_SLOW_QUERY_THRESHOLD", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6000", cfg.GRPCAddr())
	assert.Equal(t, "127.0.0.1:9100", cfg.AdminAddr)
	assert.Equal(t, 15, cfg.SlotMinutes)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.DBConnectTimeout)
	assert.Zero(t, cfg.DBSlowQuery)
}

func TestLoad_RejectsBadCalendarSettings(t *testing.T) {
	t.Run("slot minutes", func(t *testing.T) {
		t.Setenv("SALONDESK_CALENDAR_SLOT_MINUTES", "7")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("location", func(t *testing.T) {
		t.Setenv("SALONDESK_CALENDAR_LOCATION", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("duration", func(t *testing.T) {
		t.Setenv("SALONDESK_CALENDAR_SESSION_IDLE_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}
