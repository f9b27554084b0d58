package repository

import (
	"context"

	"github.com/jhoicas/serial-track/internal/domain/entity"
)

// AttributeRepository define el puerto para atributos clave/valor de un ítem.
// attribute_name es único por ítem: Upsert pisa el valor anterior
// (last-write-wins). Get devuelve (nil, nil) si el atributo no existe.
type AttributeRepository interface {
	Upsert(ctx context.Context, attr *entity.Attribute) error
	Get(ctx context.Context, serialItemID int64, name string) (*entity.Attribute, error)
	ListBySerialItem(ctx context.Context, serialItemID int64) ([]*entity.Attribute, error)
	Delete(ctx context.Context, serialItemID int64, name string) error
}
