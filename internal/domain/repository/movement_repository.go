package repository

import (
	"context"

	"github.com/jhoicas/serial-track/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de
// movimientos. Los listados devuelven siempre orden created_at ascendente
// (con id como desempate) para que el repliegue sea determinista.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	ListByTransaction(ctx context.Context, transType, transNo int) ([]*entity.Movement, error)
	ListBySerialItem(ctx context.Context, serialItemID int64) ([]*entity.Movement, error)
	// MarkReversed marca asientos como anulados sin tocar el resto de campos.
	MarkReversed(ctx context.Context, ids []int64) error
	// DeleteByTransaction elimina los asientos de una transacción (modo de
	// reversión "delete"; el modo por defecto conserva la historia).
	DeleteByTransaction(ctx context.Context, transType, transNo int) error
}
