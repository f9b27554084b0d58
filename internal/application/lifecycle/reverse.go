package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
)

// Reverse deshace los movimientos registrados para (trans_type, trans_no) al
// anular la transacción del anfitrión. Cada ítem vuelve al estado implícito en
// su movimiento vivo inmediatamente anterior, o a su estado de creación si el
// asiento anulado era el primero.
//
// En el modo por defecto (compensate) los asientos originales se marcan
// reversed y se insertan asientos compensatorios, conservando la historia
// completa para auditoría; en modo delete las filas se eliminan.
//
// Una transacción sin movimientos es un no-op, no un error: cubre el void
// antes de commit.
func (e *Engine) Reverse(ctx context.Context, transType, transNo int) error {
	now := time.Now().UTC()

	var reversed int
	err := e.tx.Run(ctx, func(
		items repository.SerialItemRepository,
		movements repository.MovementRepository,
		attributes repository.AttributeRepository,
	) error {
		all, err := movements.ListByTransaction(ctx, transType, transNo)
		if err != nil {
			return fmt.Errorf("consultar asientos de %d/%d: %w", transType, transNo, err)
		}
		var live []*entity.Movement
		for _, m := range all {
			if !m.Reversed {
				live = append(live, m)
			}
		}
		if len(live) == 0 {
			return nil
		}
		reversed = len(live)

		// del más reciente al más antiguo, para que los estados previos se
		// recalculen sobre un libro ya limpio de asientos posteriores
		for i := len(live) - 1; i >= 0; i-- {
			if err := e.reverseMovement(ctx, items, movements, live[i], now); err != nil {
				return err
			}
		}
		if e.opts.ReversalMode == ReversalModeDelete {
			if err := movements.DeleteByTransaction(ctx, transType, transNo); err != nil {
				return fmt.Errorf("eliminar asientos de %d/%d: %w", transType, transNo, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if reversed > 0 {
		e.log.Info().
			Int("trans_type", transType).
			Int("trans_no", transNo).
			Int("movements", reversed).
			Str("mode", e.opts.ReversalMode).
			Msg("movimientos de seriales revertidos")
	}
	return nil
}

func (e *Engine) reverseMovement(
	ctx context.Context,
	items repository.SerialItemRepository,
	movements repository.MovementRepository,
	mov *entity.Movement,
	now time.Time,
) error {
	item, err := items.GetBySerialForUpdate(ctx, mov.StockID, mov.SerialNo)
	if err != nil {
		return fmt.Errorf("bloquear serial %s/%s: %w", mov.StockID, mov.SerialNo, err)
	}
	if item == nil {
		return fmt.Errorf("serial %s/%s del asiento %d: %w", mov.StockID, mov.SerialNo, mov.ID, domain.ErrNotFound)
	}

	// estado previo = repliegue de los movimientos vivos anteriores al asiento
	history, err := movements.ListBySerialItem(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("consultar historial del ítem %d: %w", item.ID, err)
	}
	var prefix []*entity.Movement
	for _, h := range history {
		if h.ID == mov.ID {
			break
		}
		if !h.Reversed {
			prefix = append(prefix, h)
		}
	}
	status, location := entity.ReplayState(prefix)
	if location == "" {
		// sin historial previo: la ubicación anterior es la de origen del
		// asiento anulado, o la de creación del ítem si la recepción misma
		// es lo que se anula
		if mov.LocationFrom != "" {
			location = mov.LocationFrom
		} else {
			location = item.Location
		}
	}

	item.Status = status
	item.Location = location
	item.UpdatedAt = now
	if err := items.UpdateState(ctx, item); err != nil {
		return err
	}

	if e.opts.ReversalMode == ReversalModeDelete {
		return nil
	}
	if err := movements.MarkReversed(ctx, []int64{mov.ID}); err != nil {
		return fmt.Errorf("marcar asiento %d como revertido: %w", mov.ID, err)
	}
	comp := &entity.Movement{
		SerialItemID: item.ID,
		TransType:    mov.TransType,
		TransNo:      mov.TransNo,
		StockID:      mov.StockID,
		SerialNo:     mov.SerialNo,
		Operation:    mov.Operation,
		LocationFrom: mov.LocationTo,
		LocationTo:   location,
		Quantity:     mov.Quantity.Neg(),
		Reference:    fmt.Sprintf("reversión del asiento %d", mov.ID),
		Reversed:     true, // compensatorio: no cuenta para repliegue ni idempotencia
		CreatedAt:    now,
	}
	if err := movements.Create(ctx, comp); err != nil {
		return fmt.Errorf("insertar asiento compensatorio: %w", err)
	}
	return nil
}
