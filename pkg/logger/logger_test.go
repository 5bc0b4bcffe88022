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
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}

func TestNewWithWriter_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Config{Level: "info", App: "distribucion-api"}).Named("workflow")
	l.Debug().Msg("no debe salir")
	l.Info().Str("document", "SO-000001").Msg("estado cambiado")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev))
	assert.Equal(t, "distribucion-api", ev["app"])
	assert.Equal(t, "workflow", ev["component"])
	assert.Equal(t, "SO-000001", ev["document"])
	assert.Equal(t, "estado cambiado", ev["message"])
}
