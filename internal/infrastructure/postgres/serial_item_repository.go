package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
)

var _ repository.SerialItemRepository = (*SerialItemRepo)(nil)

// SerialItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type SerialItemRepo struct {
	q Querier
}

// NewSerialItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSerialItemRepository(q Querier) *SerialItemRepo {
	return &SerialItemRepo{q: q}
}

const serialItemColumns = `id, stock_id, serial_no, status, location, version, created_at, updated_at`

// Create inserta el ítem; el par (stock_id, serial_no) duplicado se traduce a
// domain.ErrDuplicateSerial.
func (r *SerialItemRepo) Create(ctx context.Context, item *entity.SerialItem) error {
	query := `
		INSERT INTO serial_items (stock_id, serial_no, status, location, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.StockID, item.SerialNo, string(item.Status), item.Location, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSerial
		}
		return fmt.Errorf("create serial item: %w", err)
	}
	item.Version = 0
	return nil
}

// GetByID obtiene un ítem por id; (nil, nil) si no existe.
func (r *SerialItemRepo) GetByID(ctx context.Context, id int64) (*entity.SerialItem, error) {
	query := `SELECT ` + serialItemColumns + ` FROM serial_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get serial item")
}

// GetBySerial obtiene un ítem por su par único; (nil, nil) si no existe.
func (r *SerialItemRepo) GetBySerial(ctx context.Context, stockID, serialNo string) (*entity.SerialItem, error) {
	query := `SELECT ` + serialItemColumns + ` FROM serial_items WHERE stock_id = $1 AND serial_no = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, stockID, serialNo), "get serial item by serial")
}

// GetBySerialForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE);
// serializa los commits concurrentes sobre el mismo serial.
func (r *SerialItemRepo) GetBySerialForUpdate(ctx context.Context, stockID, serialNo string) (*entity.SerialItem, error) {
	query := `SELECT ` + serialItemColumns + ` FROM serial_items WHERE stock_id = $1 AND serial_no = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, stockID, serialNo), "get serial item for update")
}

// UpdateState persiste status/location con comparación optimista sobre
// version; una fila no afectada significa que otro proceso ganó la carrera.
func (r *SerialItemRepo) UpdateState(ctx context.Context, item *entity.SerialItem) error {
	query := `
		UPDATE serial_items
		SET status = $1, location = $2, updated_at = $3, version = version + 1
		WHERE id = $4 AND version = $5`
	tag, err := r.q.Exec(ctx, query, string(item.Status), item.Location, item.UpdatedAt, item.ID, item.Version)
	if err != nil {
		return fmt.Errorf("update serial item state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ConflictError{StockID: item.StockID, SerialNo: item.SerialNo}
	}
	item.Version++
	return nil
}

// ListByStock lista los ítems de un código de catálogo.
func (r *SerialItemRepo) ListByStock(ctx context.Context, stockID string, limit, offset int) ([]*entity.SerialItem, error) {
	return r.Search(ctx, repository.SerialItemFilter{StockID: stockID}, limit, offset)
}

// Search lista ítems según filtros opcionales, igual que las pantallas de
// consulta: cada campo vacío se omite del WHERE.
func (r *SerialItemRepo) Search(ctx context.Context, filter repository.SerialItemFilter, limit, offset int) ([]*entity.SerialItem, error) {
	query := `SELECT ` + serialItemColumns + ` FROM serial_items WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.StockID != "" {
		query += fmt.Sprintf(" AND stock_id = $%d", pos)
		args = append(args, filter.StockID)
		pos++
	}
	if filter.SerialNo != "" {
		query += fmt.Sprintf(" AND serial_no = $%d", pos)
		args = append(args, filter.SerialNo)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(filter.Status))
		pos++
	}
	if filter.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", pos)
		args = append(args, filter.Location)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search serial items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SerialItem
	for rows.Next() {
		var it entity.SerialItem
		var status string
		if err := rows.Scan(&it.ID, &it.StockID, &it.SerialNo, &status, &it.Location,
			&it.Version, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan serial item: %w", err)
		}
		it.Status = entity.Status(status)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// CountByStatus estadística agregada de ítems por estado.
func (r *SerialItemRepo) CountByStatus(ctx context.Context, stockID string) (map[entity.Status]int64, error) {
	query := `SELECT status, COUNT(*) FROM serial_items`
	args := []any{}
	if stockID != "" {
		query += ` WHERE stock_id = $1`
		args = append(args, stockID)
	}
	query += ` GROUP BY status`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count serial items by status: %w", err)
	}
	defer rows.Close()
	counts := make(map[entity.Status]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[entity.Status(status)] = n
	}
	return counts, rows.Err()
}

func (r *SerialItemRepo) scanOne(row pgx.Row, op string) (*entity.SerialItem, error) {
	var it entity.SerialItem
	var status string
	err := row.Scan(&it.ID, &it.StockID, &it.SerialNo, &status, &it.Location,
		&it.Version, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	it.Status = entity.Status(status)
	return &it, nil
}
