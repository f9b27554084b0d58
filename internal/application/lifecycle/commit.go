package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
)

// Commit aplica los movimientos de una transacción validada: por cada línea
// inserta un asiento y actualiza estado/ubicación del ítem, todo dentro de una
// sola unidad atómica del store.
//
// Es idempotente respecto a (trans_type, trans_no): si ya hay asientos vivos
// para esa clave el commit es un no-op exitoso, sin duplicar movimientos.
//
// Cada ítem se relee bajo bloqueo y la transición se reaplica: si otra
// transacción ganó la carrera desde la validación, la línea perdedora devuelve
// domain.ErrConcurrencyConflict y nada queda aplicado.
func (e *Engine) Commit(ctx context.Context, cart *entity.TransactionContext) error {
	if cart == nil || len(cart.Lines) == 0 {
		return nil
	}
	now := time.Now().UTC()

	err := e.tx.Run(ctx, func(
		items repository.SerialItemRepository,
		movements repository.MovementRepository,
		attributes repository.AttributeRepository,
	) error {
		existing, err := movements.ListByTransaction(ctx, cart.TransType, cart.TransNo)
		if err != nil {
			return fmt.Errorf("consultar asientos previos: %w", err)
		}
		for _, m := range existing {
			if !m.Reversed {
				// commit repetido de la misma transacción: no-op
				return nil
			}
		}

		for _, line := range cart.Lines {
			if err := e.commitLine(ctx, items, movements, cart, line, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info().
		Int("trans_type", cart.TransType).
		Int("trans_no", cart.TransNo).
		Int("lines", len(cart.Lines)).
		Msg("movimientos de seriales aplicados")
	return nil
}

func (e *Engine) commitLine(
	ctx context.Context,
	items repository.SerialItemRepository,
	movements repository.MovementRepository,
	cart *entity.TransactionContext,
	line entity.SerialLine,
	now time.Time,
) error {
	serialNo := normalizeSerial(line.SerialNo)

	item, err := items.GetBySerialForUpdate(ctx, line.StockID, serialNo)
	if err != nil {
		return fmt.Errorf("bloquear serial %s/%s: %w", line.StockID, serialNo, err)
	}

	locationFrom := ""
	if line.Operation == entity.OperationReceive {
		if item != nil {
			// otra transacción lo creó entre validate y commit
			return &domain.ConflictError{StockID: line.StockID, SerialNo: serialNo}
		}
		item = &entity.SerialItem{
			StockID:   line.StockID,
			SerialNo:  serialNo,
			Status:    entity.StatusActive,
			Location:  line.LocationTo,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := items.Create(ctx, item); err != nil {
			return err
		}
	} else {
		if item == nil {
			return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo, Reason: "serial no registrado"}
		}
		next, ok := entity.Apply(item.Status, line.Operation)
		if !ok {
			// la validación había pasado: alguien más movió el ítem
			return &domain.ConflictError{StockID: line.StockID, SerialNo: serialNo}
		}
		locationFrom = item.Location
		item.Status = next
		item.Location = e.resultLocation(line, item.Location)
		item.UpdatedAt = now
		if err := items.UpdateState(ctx, item); err != nil {
			return err
		}
	}

	qty := line.Quantity
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	mov := &entity.Movement{
		SerialItemID: item.ID,
		TransType:    cart.TransType,
		TransNo:      cart.TransNo,
		StockID:      line.StockID,
		SerialNo:     serialNo,
		Operation:    line.Operation,
		LocationFrom: locationFrom,
		LocationTo:   item.Location,
		Quantity:     qty,
		Reference:    reference(cart),
		CreatedAt:    now,
	}
	if err := movements.Create(ctx, mov); err != nil {
		return fmt.Errorf("insertar asiento: %w", err)
	}
	return nil
}

// resultLocation ubicación final del ítem tras aplicar la línea.
func (e *Engine) resultLocation(line entity.SerialLine, current string) string {
	switch line.Operation {
	case entity.OperationSell:
		return e.opts.SoldLocation
	case entity.OperationDispose:
		return e.opts.DisposalLocation
	case entity.OperationLoan, entity.OperationLoanReturn, entity.OperationMaintenance:
		return current
	default:
		if line.LocationTo != "" {
			return line.LocationTo
		}
		return current
	}
}
