package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Los asientos nunca se editan: solo se insertan, se
// marcan reversed o —en modo delete— se eliminan por transacción.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, serial_item_id, trans_type, trans_no, stock_id, serial_no,
	operation, location_from, location_to, qty, reference, reversed, created_at`

// Create persiste un asiento del libro.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO serial_movements (serial_item_id, trans_type, trans_no, stock_id, serial_no,
			operation, location_from, location_to, qty, reference, reversed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	locationFrom := (*string)(nil)
	if movement.LocationFrom != "" {
		locationFrom = &movement.LocationFrom
	}
	locationTo := (*string)(nil)
	if movement.LocationTo != "" {
		locationTo = &movement.LocationTo
	}
	err := r.q.QueryRow(ctx, query,
		movement.SerialItemID, movement.TransType, movement.TransNo, movement.StockID, movement.SerialNo,
		string(movement.Operation), locationFrom, locationTo, movement.Quantity,
		movement.Reference, movement.Reversed, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		return fmt.Errorf("create serial movement: %w", err)
	}
	return nil
}

// ListByTransaction lista los asientos de una transacción del anfitrión,
// created_at ascendente (id como desempate).
func (r *MovementRepo) ListByTransaction(ctx context.Context, transType, transNo int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM serial_movements WHERE trans_type = $1 AND trans_no = $2
		ORDER BY created_at, id`
	return r.list(ctx, query, transType, transNo)
}

// ListBySerialItem historial completo de un ítem, created_at ascendente.
func (r *MovementRepo) ListBySerialItem(ctx context.Context, serialItemID int64) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM serial_movements WHERE serial_item_id = $1
		ORDER BY created_at, id`
	return r.list(ctx, query, serialItemID)
}

// MarkReversed marca asientos como anulados.
func (r *MovementRepo) MarkReversed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tag, err := r.q.Exec(ctx, `UPDATE serial_movements SET reversed = TRUE WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark movements reversed: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByTransaction elimina los asientos de una transacción (modo delete).
func (r *MovementRepo) DeleteByTransaction(ctx context.Context, transType, transNo int) error {
	_, err := r.q.Exec(ctx, `DELETE FROM serial_movements WHERE trans_type = $1 AND trans_no = $2`, transType, transNo)
	if err != nil {
		return fmt.Errorf("delete movements by transaction: %w", err)
	}
	return nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list serial movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var operation string
		var locationFrom, locationTo, reference *string
		if err := rows.Scan(&m.ID, &m.SerialItemID, &m.TransType, &m.TransNo, &m.StockID, &m.SerialNo,
			&operation, &locationFrom, &locationTo, &m.Quantity, &reference, &m.Reversed, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan serial movement: %w", err)
		}
		m.Operation = entity.Operation(operation)
		if locationFrom != nil {
			m.LocationFrom = *locationFrom
		}
		if locationTo != nil {
			m.LocationTo = *locationTo
		}
		if reference != nil {
			m.Reference = *reference
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
