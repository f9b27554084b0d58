package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
)

var _ repository.AttributeRepository = (*AttributeRepo)(nil)

// AttributeRepo implementación de atributos clave/valor sobre PostgreSQL
// (usable con pool o tx).
type AttributeRepo struct {
	q Querier
}

// NewAttributeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAttributeRepository(q Querier) *AttributeRepo {
	return &AttributeRepo{q: q}
}

// Upsert inserta o reescribe el atributo (unique por serial_item_id + nombre,
// last-write-wins).
func (r *AttributeRepo) Upsert(ctx context.Context, attr *entity.Attribute) error {
	query := `
		INSERT INTO serial_attributes (serial_item_id, attribute_name, attribute_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (serial_item_id, attribute_name)
		DO UPDATE SET attribute_value = EXCLUDED.attribute_value, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		attr.SerialItemID, attr.Name, attr.Value, attr.CreatedAt, attr.UpdatedAt,
	).Scan(&attr.ID, &attr.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert serial attribute: %w", err)
	}
	return nil
}

// Get obtiene un atributo por nombre; (nil, nil) si no existe.
func (r *AttributeRepo) Get(ctx context.Context, serialItemID int64, name string) (*entity.Attribute, error) {
	query := `
		SELECT id, serial_item_id, attribute_name, attribute_value, created_at, updated_at
		FROM serial_attributes WHERE serial_item_id = $1 AND attribute_name = $2`
	var a entity.Attribute
	err := r.q.QueryRow(ctx, query, serialItemID, name).Scan(
		&a.ID, &a.SerialItemID, &a.Name, &a.Value, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get serial attribute: %w", err)
	}
	return &a, nil
}

// ListBySerialItem lista los atributos de un ítem ordenados por nombre.
func (r *AttributeRepo) ListBySerialItem(ctx context.Context, serialItemID int64) ([]*entity.Attribute, error) {
	query := `
		SELECT id, serial_item_id, attribute_name, attribute_value, created_at, updated_at
		FROM serial_attributes WHERE serial_item_id = $1
		ORDER BY attribute_name`
	rows, err := r.q.Query(ctx, query, serialItemID)
	if err != nil {
		return nil, fmt.Errorf("list serial attributes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Attribute
	for rows.Next() {
		var a entity.Attribute
		if err := rows.Scan(&a.ID, &a.SerialItemID, &a.Name, &a.Value, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan serial attribute: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Delete elimina un atributo; borrar uno inexistente no es error.
func (r *AttributeRepo) Delete(ctx context.Context, serialItemID int64, name string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM serial_attributes WHERE serial_item_id = $1 AND attribute_name = $2`, serialItemID, name)
	if err != nil {
		return fmt.Errorf("delete serial attribute: %w", err)
	}
	return nil
}
