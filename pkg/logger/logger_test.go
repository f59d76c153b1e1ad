package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestNew_ServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Service: "ledgerctl", Output: &buf})

	l.Info().Msg("descartado por nivel")
	assert.Zero(t, buf.Len())

	sub := l.WithComponent("tenants")
	sub.Warn().Str("tenant_id", "t-1").Msg("ledger audit failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ledgerctl", entry["service"])
	assert.Equal(t, "tenants", entry["component"])
	assert.Equal(t, "t-1", entry["tenant_id"])
	assert.Equal(t, "warn", entry["level"])
}
