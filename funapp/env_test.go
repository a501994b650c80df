package funapp_test

import (
	"os"
	"testing"
	"time"

	"github.com/advdv/bfun/conf"
	"github.com/advdv/bfun/funapp"
	"github.com/advdv/bfun/funapp/funapptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseEnvDefaults(t *testing.T) {
	funapptest.SetBaseEnv(t, 18180)
	for _, key := range []string{"FUN_LISTEN", "FUN_SERVICE_NAME", "FUN_OTEL_EXPORTER", "FUN_LOG_LEVEL", "FUN_H2C"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	env, err := funapp.ParseEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", env.Listen)
	assert.Equal(t, "bfun", env.ServiceName)
	assert.Equal(t, "none", env.OtelExporter)
	assert.Equal(t, zapcore.InfoLevel, env.LogLevel)
	assert.Equal(t, funapp.DefaultBufferLimit, env.BufferLimit)
	assert.False(t, env.H2C)
	assert.Equal(t, 5*time.Second, env.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Second, env.WriteTimeout)
	assert.Equal(t, time.Minute, env.IdleTimeout)
	assert.Nil(t, env.Radius)
	assert.Equal(t, conf.CreateScope(), env.Scope())
}

func TestParseEnvOverrides(t *testing.T) {
	funapptest.SetBaseEnv(t, 18180).Radius(250).H2C(true).BufferLimit(1024)
	t.Setenv("FUN_LOG_LEVEL", "debug")

	env, err := funapp.ParseEnv()
	require.NoError(t, err)

	assert.Equal(t, "localhost:18180", env.Listen)
	assert.Equal(t, zapcore.DebugLevel, env.LogLevel)
	assert.True(t, env.H2C)
	assert.Equal(t, 1024, env.BufferLimit)
	require.NotNil(t, env.Radius)
	assert.Equal(t, 250, *env.Radius)
	assert.Equal(t, conf.RadiusScope(250), env.Scope())
}

func TestParseEnvErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"radius not a number", "FUN_RADIUS", "wide"},
		{"invalid log level", "FUN_LOG_LEVEL", "loud"},
		{"invalid timeout", "FUN_WRITE_TIMEOUT", "soon"},
		{"zero buffer limit", "FUN_BUFFER_LIMIT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			funapptest.SetBaseEnv(t, 18180)
			t.Setenv(tt.key, tt.value)

			_, err := funapp.ParseEnv()
			require.Error(t, err)
		})
	}
}
