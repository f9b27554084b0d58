package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jhoicas/serial-track/internal/domain"
)

// Generate propone un serial libre para stockID: prefijo de 3 caracteres
// derivado del código de ítem + fecha + secuencia monótona. El candidato se
// verifica contra el store y se reintenta ante colisión; tras agotar los
// reintentos devuelve domain.ErrGenerationExhausted (el caller debe digitar
// el serial a mano).
func (e *Engine) Generate(ctx context.Context, stockID string) (string, error) {
	if stockID == "" {
		return "", domain.ErrInvalidInput
	}
	prefix := serialPrefix(stockID)
	stamp := time.Now().UTC().Format("060102")

	for i := 0; i < e.opts.GenerateRetries; i++ {
		n := e.seq.Add(1)
		candidate := fmt.Sprintf("%s%s%04d", prefix, stamp, n%10000)
		existing, err := e.items.GetBySerial(ctx, stockID, candidate)
		if err != nil {
			return "", fmt.Errorf("verificar serial candidato: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("generar serial para %s: %w", stockID, domain.ErrGenerationExhausted)
}

// serialPrefix toma los primeros 3 alfanuméricos del código de ítem en
// mayúsculas, rellenando con 'X' si el código es más corto.
func serialPrefix(stockID string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(stockID) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			if b.Len() >= 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}
