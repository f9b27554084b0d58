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

// Operaciones de la integración con el módulo de activos: préstamo a empleado,
// devolución, mantenimiento y baja. El préstamo no cambia el estado del ítem
// (sigue active) pero deja metadatos en atributos y un asiento en el libro;
// mientras el préstamo esté vivo la validación rechaza venderlo o trasladarlo.

// LoanInput datos de un préstamo a empleado.
type LoanInput struct {
	SerialNo       string
	EmployeeID     string
	LoanID         int
	LoanDate       time.Time
	ExpectedReturn time.Time
}

// ReturnInput datos de la devolución de un préstamo.
type ReturnInput struct {
	SerialNo   string
	EmployeeID string
	LoanID     int
	ReturnDate time.Time
}

// MaintenanceInput datos de un mantenimiento realizado.
type MaintenanceInput struct {
	SerialNo      string
	MaintenanceID int
	Date          time.Time
	NextDue       time.Time
}

// DisposalInput datos de una baja definitiva.
type DisposalInput struct {
	SerialNo   string
	DisposalID int
	Reference  string
}

// LoanToEmployee presta un ítem a un empleado: exige estado active y sin
// préstamo vigente, registra loaned_to/loan_id/fechas como atributos y un
// asiento bajo el tipo de transacción de préstamos.
func (e *Engine) LoanToEmployee(ctx context.Context, in LoanInput) (*entity.SerialItem, error) {
	if in.SerialNo == "" || in.EmployeeID == "" || in.LoanID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	target, err := e.findBySerial(ctx, in.SerialNo)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	loanDate := in.LoanDate
	if loanDate.IsZero() {
		loanDate = now
	}

	err = e.tx.Run(ctx, func(
		items repository.SerialItemRepository,
		movements repository.MovementRepository,
		attributes repository.AttributeRepository,
	) error {
		item, err := items.GetBySerialForUpdate(ctx, target.StockID, target.SerialNo)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("serial %s: %w", in.SerialNo, domain.ErrNotFound)
		}
		if _, ok := entity.Apply(item.Status, entity.OperationLoan); !ok {
			return &domain.TransitionError{StockID: item.StockID, SerialNo: item.SerialNo, Current: item.Status, Requested: entity.OperationLoan}
		}
		onLoan, err := e.itemOnLoan(ctx, attributes, item.ID)
		if err != nil {
			return err
		}
		if onLoan {
			return &domain.ValidationError{StockID: item.StockID, SerialNo: item.SerialNo, Reason: "el ítem ya está prestado"}
		}

		attrs := map[string]string{
			entity.AttrLoanedTo: in.EmployeeID,
			entity.AttrLoanID:   fmt.Sprintf("%d", in.LoanID),
			entity.AttrLoanDate: loanDate.Format(time.RFC3339),
		}
		if !in.ExpectedReturn.IsZero() {
			attrs[entity.AttrExpectedReturn] = in.ExpectedReturn.Format(time.RFC3339)
		}
		if err := upsertAttrs(ctx, attributes, item.ID, attrs, now); err != nil {
			return err
		}

		target = item
		return movements.Create(ctx, assetMovement(item, entity.TransTypeAssetLoan, in.LoanID,
			entity.OperationLoan, fmt.Sprintf("préstamo a empleado %s", in.EmployeeID), now))
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("serial_no", target.SerialNo).Str("employee_id", in.EmployeeID).Int("loan_id", in.LoanID).Msg("ítem prestado a empleado")
	return target, nil
}

// ReturnFromEmployee cierra un préstamo: borra los atributos del préstamo y
// registra el asiento de devolución.
func (e *Engine) ReturnFromEmployee(ctx context.Context, in ReturnInput) (*entity.SerialItem, error) {
	if in.SerialNo == "" || in.LoanID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	target, err := e.findBySerial(ctx, in.SerialNo)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	err = e.tx.Run(ctx, func(
		items repository.SerialItemRepository,
		movements repository.MovementRepository,
		attributes repository.AttributeRepository,
	) error {
		item, err := items.GetBySerialForUpdate(ctx, target.StockID, target.SerialNo)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("serial %s: %w", in.SerialNo, domain.ErrNotFound)
		}
		onLoan, err := e.itemOnLoan(ctx, attributes, item.ID)
		if err != nil {
			return err
		}
		if !onLoan {
			return &domain.ValidationError{StockID: item.StockID, SerialNo: item.SerialNo, Reason: "el ítem no tiene préstamo vigente"}
		}
		for _, name := range []string{entity.AttrLoanedTo, entity.AttrLoanID, entity.AttrLoanDate, entity.AttrExpectedReturn} {
			if err := attributes.Delete(ctx, item.ID, name); err != nil {
				return err
			}
		}
		target = item
		return movements.Create(ctx, assetMovement(item, entity.TransTypeAssetReturn, in.LoanID,
			entity.OperationLoanReturn, fmt.Sprintf("devolución de préstamo %d", in.LoanID), now))
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("serial_no", target.SerialNo).Int("loan_id", in.LoanID).Msg("préstamo devuelto")
	return target, nil
}

// RecordMaintenance registra un mantenimiento: actualiza los atributos de
// última/próxima fecha y deja el asiento correspondiente.
func (e *Engine) RecordMaintenance(ctx context.Context, in MaintenanceInput) (*entity.SerialItem, error) {
	if in.SerialNo == "" || in.MaintenanceID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	target, err := e.findBySerial(ctx, in.SerialNo)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	err = e.tx.Run(ctx, func(
		items repository.SerialItemRepository,
		movements repository.MovementRepository,
		attributes repository.AttributeRepository,
	) error {
		item, err := items.GetBySerialForUpdate(ctx, target.StockID, target.SerialNo)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("serial %s: %w", in.SerialNo, domain.ErrNotFound)
		}
		if _, ok := entity.Apply(item.Status, entity.OperationMaintenance); !ok {
			return &domain.TransitionError{StockID: item.StockID, SerialNo: item.SerialNo, Current: item.Status, Requested: entity.OperationMaintenance}
		}
		attrs := map[string]string{entity.AttrLastMaintenance: date.Format(time.RFC3339)}
		if !in.NextDue.IsZero() {
			attrs[entity.AttrNextMaintenance] = in.NextDue.Format(time.RFC3339)
		}
		if err := upsertAttrs(ctx, attributes, item.ID, attrs, now); err != nil {
			return err
		}
		target = item
		return movements.Create(ctx, assetMovement(item, entity.TransTypeAssetMaintenance, in.MaintenanceID,
			entity.OperationMaintenance, fmt.Sprintf("mantenimiento %d", in.MaintenanceID), now))
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Dispose da de baja definitiva un ítem: transición terminal a scrapped con
// asiento hacia la ubicación de bajas. Un ítem ya scrapped devuelve
// domain.ErrInvalidTransition; un ítem con préstamo vigente debe devolverse
// antes de darse de baja.
func (e *Engine) Dispose(ctx context.Context, in DisposalInput) (*entity.SerialItem, error) {
	if in.SerialNo == "" || in.DisposalID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	target, err := e.findBySerial(ctx, in.SerialNo)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	err = e.tx.Run(ctx, func(
		items repository.SerialItemRepository,
		movements repository.MovementRepository,
		attributes repository.AttributeRepository,
	) error {
		item, err := items.GetBySerialForUpdate(ctx, target.StockID, target.SerialNo)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("serial %s: %w", in.SerialNo, domain.ErrNotFound)
		}
		next, ok := entity.Apply(item.Status, entity.OperationDispose)
		if !ok {
			return &domain.TransitionError{StockID: item.StockID, SerialNo: item.SerialNo, Current: item.Status, Requested: entity.OperationDispose}
		}
		onLoan, err := e.itemOnLoan(ctx, attributes, item.ID)
		if err != nil {
			return err
		}
		if onLoan {
			return &domain.ValidationError{StockID: item.StockID, SerialNo: item.SerialNo, Reason: "el ítem está prestado a un empleado"}
		}
		locationFrom := item.Location
		item.Status = next
		item.Location = e.opts.DisposalLocation
		item.UpdatedAt = now
		if err := items.UpdateState(ctx, item); err != nil {
			return err
		}
		if err := upsertAttrs(ctx, attributes, item.ID, map[string]string{
			entity.AttrDisposalID: fmt.Sprintf("%d", in.DisposalID),
		}, now); err != nil {
			return err
		}
		reference := in.Reference
		if reference == "" {
			reference = fmt.Sprintf("baja %d", in.DisposalID)
		}
		target = item
		return movements.Create(ctx, &entity.Movement{
			SerialItemID: item.ID,
			TransType:    entity.TransTypeAssetDisposal,
			TransNo:      in.DisposalID,
			StockID:      item.StockID,
			SerialNo:     item.SerialNo,
			Operation:    entity.OperationDispose,
			LocationFrom: locationFrom,
			LocationTo:   item.Location,
			Quantity:     decimal.NewFromInt(1),
			Reference:    reference,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("serial_no", target.SerialNo).Int("disposal_id", in.DisposalID).Msg("ítem dado de baja")
	return target, nil
}

// findBySerial localiza un ítem solo por serial (los eventos de activos no
// traen stock_id). El serial debe identificar un único ítem.
func (e *Engine) findBySerial(ctx context.Context, serialNo string) (*entity.SerialItem, error) {
	matches, err := e.items.Search(ctx, repository.SerialItemFilter{SerialNo: normalizeSerial(serialNo)}, 2, 0)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("serial %s: %w", serialNo, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, &domain.ValidationError{SerialNo: serialNo, Reason: "el serial es ambiguo: existe para más de un ítem"}
	}
}

func upsertAttrs(ctx context.Context, attributes repository.AttributeRepository, itemID int64, attrs map[string]string, now time.Time) error {
	for name, value := range attrs {
		if err := attributes.Upsert(ctx, &entity.Attribute{
			SerialItemID: itemID,
			Name:         name,
			Value:        value,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}
	}
	return nil
}

// assetMovement asiento de una operación de activos: no cambia ubicación,
// cantidad 1.
func assetMovement(item *entity.SerialItem, transType, transNo int, op entity.Operation, ref string, now time.Time) *entity.Movement {
	return &entity.Movement{
		SerialItemID: item.ID,
		TransType:    transType,
		TransNo:      transNo,
		StockID:      item.StockID,
		SerialNo:     item.SerialNo,
		Operation:    op,
		LocationFrom: item.Location,
		LocationTo:   item.Location,
		Quantity:     decimal.NewFromInt(1),
		Reference:    ref,
		CreatedAt:    now,
	}
}
