package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/serial-track/pkg/logger"
)

func TestNew_NivelConfigurado(t *testing.T) {
	l := logger.New(logger.Config{Env: "test", Level: "warn"})
	assert.Equal(t, zerolog.WarnLevel, l.Zerolog().GetLevel())
}

// Un nivel vacío o desconocido cae en info, nunca en sin-nivel.
func TestNew_NivelInvalidoCaeEnInfo(t *testing.T) {
	for _, level := range []string{"", "verboso", "INFO "} {
		l := logger.New(logger.Config{Env: "test", Level: level})
		assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel(), "level %q", level)
	}
}

func TestNew_SubloggerConservaCampos(t *testing.T) {
	l := logger.New(logger.Config{Env: "test", Level: "error"})
	sub := l.With().Str("component", "ledger").Logger()
	assert.Equal(t, zerolog.ErrorLevel, sub.GetLevel())
}
