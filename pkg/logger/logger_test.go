package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_JSONConCampoService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Service: "mantenimiento-api", Out: &buf})
	log.Info().Str("empresa_id", "empresa-1").Msg("iniciando aplicación")

	salida := buf.String()
	assert.Contains(t, salida, `"service":"mantenimiento-api"`)
	assert.Contains(t, salida, `"empresa_id":"empresa-1"`)
	assert.Contains(t, salida, `"level":"info"`)
}

func TestNew_NivelFiltraEventosMenores(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Out: &buf})

	log.Info().Msg("no debe salir")
	assert.Empty(t, buf.String())

	log.Warn().Msg("sí debe salir")
	assert.Contains(t, buf.String(), "sí debe salir")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("info"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""), "nivel desconocido cae a info")
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}
