package repository

import (
	"context"

	"github.com/jhoicas/serial-track/internal/domain/entity"
)

// SerialItemFilter filtros opcionales de búsqueda; campo vacío = sin filtrar.
type SerialItemFilter struct {
	StockID  string
	SerialNo string
	Status   entity.Status
	Location string
}

// SerialItemRepository define el puerto de persistencia para ítems
// serializados. Convenciones: los Get devuelven (nil, nil) cuando el ítem no
// existe; Create devuelve domain.ErrDuplicateSerial si el par
// (stock_id, serial_no) ya está registrado.
type SerialItemRepository interface {
	Create(ctx context.Context, item *entity.SerialItem) error
	GetByID(ctx context.Context, id int64) (*entity.SerialItem, error)
	GetBySerial(ctx context.Context, stockID, serialNo string) (*entity.SerialItem, error)
	// GetBySerialForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de una
	// transacción; fuera de una transacción equivale a GetBySerial.
	GetBySerialForUpdate(ctx context.Context, stockID, serialNo string) (*entity.SerialItem, error)
	// UpdateState persiste status/location con comparación optimista sobre
	// Version: si otro proceso actualizó el ítem desde la lectura, devuelve
	// domain.ErrConcurrencyConflict. Incrementa item.Version al aplicar.
	UpdateState(ctx context.Context, item *entity.SerialItem) error
	ListByStock(ctx context.Context, stockID string, limit, offset int) ([]*entity.SerialItem, error)
	Search(ctx context.Context, filter SerialItemFilter, limit, offset int) ([]*entity.SerialItem, error)
	// CountByStatus estadística agregada: ítems por estado. stockID vacío = global.
	CountByStatus(ctx context.Context, stockID string) (map[entity.Status]int64, error)
}
