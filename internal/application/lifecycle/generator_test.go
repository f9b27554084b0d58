package lifecycle_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Generate — propuesta de seriales
// ──────────────────────────────────────────────────────────────────────────────

// El prefijo son los 3 primeros alfanuméricos del código de ítem en mayúsculas.
func TestGenerate_PrefijoDelCodigoDeItem(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})

	serial, err := eng.Generate(context.Background(), "TEST001")
	require.NoError(t, err)
	assert.Equal(t, "TES", serial[:3])
	assert.Len(t, serial, 13, "prefijo(3) + fecha(6) + secuencia(4)")
}

// Códigos cortos o con separadores se normalizan rellenando con 'X'.
func TestGenerate_CodigoCortoSeRellena(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})

	serial, err := eng.Generate(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, "A1X", serial[:3])
}

// 100 propuestas seguidas para el mismo ítem deben ser todas distintas aunque
// ninguna se registre (secuencia monótona, no solo fecha).
func TestGenerate_CienPropuestasDistintas(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()

	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		serial, err := eng.Generate(ctx, "TEST001")
		require.NoError(t, err)
		_, dup := seen[serial]
		require.False(t, dup, "serial repetido: %s", serial)
		seen[serial] = struct{}{}
	}
}

// Los candidatos que ya existen en el store se saltan.
func TestGenerate_EvitaSerialesRegistrados(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()

	first, err := eng.Generate(ctx, "TEST001")
	require.NoError(t, err)
	seedItem(t, eng, "TEST001", first, "DEF")

	second, err := eng.Generate(ctx, "TEST001")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

// Si todas las propuestas de la ventana de reintentos ya están registradas,
// Generate se rinde con ErrGenerationExhausted y el serial se digita a mano.
func TestGenerate_ReintentosAgotados(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{GenerateRetries: 3})
	ctx := context.Background()

	// ocupar los tres candidatos que la secuencia va a proponer
	stamp := time.Now().UTC().Format("060102")
	for n := 1; n <= 3; n++ {
		seedItem(t, eng, "TEST001", fmt.Sprintf("TES%s%04d", stamp, n), "DEF")
	}

	_, err := eng.Generate(ctx, "TEST001")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationExhausted)
}

func TestGenerate_StockIDVacio(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	_, err := eng.Generate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
