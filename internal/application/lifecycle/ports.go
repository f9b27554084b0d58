package lifecycle

import (
	"context"

	"github.com/jhoicas/serial-track/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que los asientos de movimiento y las
// actualizaciones de estado de una misma transacción de negocio se apliquen
// como una sola unidad atómica: todo visible o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.SerialItemRepository,
		movements repository.MovementRepository,
		attributes repository.AttributeRepository,
	) error) error
}
