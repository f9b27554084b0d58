package lifecycle

import (
	"context"
	"fmt"

	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
)

const maxSerialLen = 50 // largo máximo de serial_no en el esquema

// ValidateForTransaction valida todas las líneas con serial de una transacción
// antes de que el anfitrión escriba la suya. Es estrictamente de solo lectura:
// nunca aplica mutaciones. Se corta en la primera línea inválida y devuelve un
// *domain.ValidationError con la línea y el motivo.
//
// La exclusión frente a transacciones en vuelo no se resuelve aquí sino en
// Commit, que relee cada ítem bajo bloqueo del store y reaplica la transición.
func (e *Engine) ValidateForTransaction(ctx context.Context, cart *entity.TransactionContext) error {
	if cart == nil || len(cart.Lines) == 0 {
		return nil
	}
	for _, line := range cart.Lines {
		if err := e.validateLine(ctx, e.items, e.attributes, line); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) validateLine(
	ctx context.Context,
	items repository.SerialItemRepository,
	attributes repository.AttributeRepository,
	line entity.SerialLine,
) error {
	serialNo := normalizeSerial(line.SerialNo)
	if line.StockID == "" {
		return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo, Reason: "falta el código de ítem"}
	}
	if serialNo == "" {
		return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, Reason: "falta el número de serie"}
	}
	if len(serialNo) > maxSerialLen {
		return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo, Reason: "número de serie demasiado largo"}
	}
	if line.Quantity.IsNegative() {
		return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo, Reason: "cantidad negativa"}
	}

	item, err := items.GetBySerial(ctx, line.StockID, serialNo)
	if err != nil {
		return fmt.Errorf("consultar serial %s/%s: %w", line.StockID, serialNo, err)
	}

	// La recepción crea el ítem: el par no puede existir todavía (un serial
	// dado de baja tampoco se reutiliza jamás).
	if line.Operation == entity.OperationReceive {
		if item != nil {
			return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo, Reason: "el serial ya existe para este ítem"}
		}
		if line.LocationTo == "" {
			return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo, Reason: "falta la ubicación de destino"}
		}
		return nil
	}

	if item == nil {
		return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo, Reason: "serial no registrado"}
	}

	if _, ok := entity.Apply(item.Status, line.Operation); !ok {
		return &domain.ValidationError{
			LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo,
			Reason: fmt.Sprintf("estado %q incompatible con la operación %q", item.Status, line.Operation),
		}
	}

	switch line.Operation {
	case entity.OperationSell, entity.OperationTransfer:
		if line.LocationFrom != "" && item.Location != line.LocationFrom {
			return &domain.ValidationError{
				LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo,
				Reason: fmt.Sprintf("el ítem está en %q, no en la ubicación de origen %q", item.Location, line.LocationFrom),
			}
		}
		onLoan, err := e.itemOnLoan(ctx, attributes, item.ID)
		if err != nil {
			return err
		}
		if onLoan {
			return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo, Reason: "el ítem está prestado a un empleado"}
		}
	case entity.OperationDispose:
		onLoan, err := e.itemOnLoan(ctx, attributes, item.ID)
		if err != nil {
			return err
		}
		if onLoan {
			return &domain.ValidationError{LineNo: line.LineNo, StockID: line.StockID, SerialNo: serialNo, Reason: "el ítem está prestado a un empleado"}
		}
	}
	return nil
}

// itemOnLoan indica si el ítem tiene un préstamo vivo (atributo loaned_to).
func (e *Engine) itemOnLoan(ctx context.Context, attributes repository.AttributeRepository, serialItemID int64) (bool, error) {
	attr, err := attributes.Get(ctx, serialItemID, entity.AttrLoanedTo)
	if err != nil {
		return false, fmt.Errorf("consultar préstamo vigente: %w", err)
	}
	return attr != nil && attr.Value != "", nil
}
