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
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""), "nivel vacío cae en info")
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "prodsys-ledger", Out: &buf})

	l.Component("ledger").Info().Str("item_id", "A").Msg("salida registrada")
	l.Debug().Msg("no se escribe")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "prodsys-ledger", line["service"])
	assert.Equal(t, "ledger", line["component"])
	assert.Equal(t, "A", line["item_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNop_NoEscribe(t *testing.T) {
	l := Nop().Component("ledger")
	assert.Equal(t, zerolog.Disabled, l.Zerolog().GetLevel())
	l.Info().Str("k", "v").Msg("descartado")
}
