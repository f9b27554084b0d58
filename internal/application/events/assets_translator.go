package events

import (
	"context"
	"fmt"

	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/pkg/logger"
)

// AssetsTranslator traduce los eventos entrantes del colaborador de activos a
// llamadas del motor de ciclo de vida y, una vez asentado el efecto, publica
// el evento espejo serial.* para que el colaborador reconcilie sus registros.
type AssetsTranslator struct {
	engine *lifecycle.Engine
	gw     *Gateway
	log    *logger.Logger
}

// NewAssetsTranslator construye el traductor.
func NewAssetsTranslator(engine *lifecycle.Engine, gw *Gateway, log *logger.Logger) *AssetsTranslator {
	return &AssetsTranslator{engine: engine, gw: gw, log: log}
}

// Register suscribe el traductor a los cuatro eventos entrantes de activos.
func (t *AssetsTranslator) Register() {
	t.gw.Subscribe(KindAssetsEmployeeLoan, t.onEmployeeLoan)
	t.gw.Subscribe(KindAssetsEmployeeReturn, t.onEmployeeReturn)
	t.gw.Subscribe(KindAssetsMaintenance, t.onMaintenance)
	t.gw.Subscribe(KindAssetsDisposal, t.onDisposal)
}

func (t *AssetsTranslator) onEmployeeLoan(ctx context.Context, ev Event) error {
	in, ok := ev.(*AssetsEmployeeLoanEvent)
	if !ok {
		return fmt.Errorf("payload inesperado para %s: %T", ev.Kind(), ev)
	}
	item, err := t.engine.LoanToEmployee(ctx, lifecycle.LoanInput{
		SerialNo:       in.SerialNo,
		EmployeeID:     in.EmployeeID,
		LoanID:         in.LoanID,
		LoanDate:       in.LoanDate,
		ExpectedReturn: in.ExpectedReturn,
	})
	if err != nil {
		return err
	}
	return t.gw.Publish(ctx, &SerialEmployeeLoanEvent{
		StockID:        item.StockID,
		SerialNo:       item.SerialNo,
		EmployeeID:     in.EmployeeID,
		LoanID:         in.LoanID,
		LoanDate:       in.LoanDate,
		ExpectedReturn: in.ExpectedReturn,
	})
}

func (t *AssetsTranslator) onEmployeeReturn(ctx context.Context, ev Event) error {
	in, ok := ev.(*AssetsEmployeeReturnEvent)
	if !ok {
		return fmt.Errorf("payload inesperado para %s: %T", ev.Kind(), ev)
	}
	item, err := t.engine.ReturnFromEmployee(ctx, lifecycle.ReturnInput{
		SerialNo:   in.SerialNo,
		EmployeeID: in.EmployeeID,
		LoanID:     in.LoanID,
		ReturnDate: in.ReturnDate,
	})
	if err != nil {
		return err
	}
	return t.gw.Publish(ctx, &SerialEmployeeReturnEvent{
		StockID:    item.StockID,
		SerialNo:   item.SerialNo,
		EmployeeID: in.EmployeeID,
		LoanID:     in.LoanID,
		ReturnDate: in.ReturnDate,
	})
}

func (t *AssetsTranslator) onMaintenance(ctx context.Context, ev Event) error {
	in, ok := ev.(*AssetsMaintenanceEvent)
	if !ok {
		return fmt.Errorf("payload inesperado para %s: %T", ev.Kind(), ev)
	}
	item, err := t.engine.RecordMaintenance(ctx, lifecycle.MaintenanceInput{
		SerialNo:      in.SerialNo,
		MaintenanceID: in.MaintenanceID,
		Date:          in.Date,
		NextDue:       in.NextDue,
	})
	if err != nil {
		return err
	}
	return t.gw.Publish(ctx, &SerialMaintenanceEvent{
		StockID:       item.StockID,
		SerialNo:      item.SerialNo,
		MaintenanceID: in.MaintenanceID,
		Date:          in.Date,
		NextDue:       in.NextDue,
	})
}

func (t *AssetsTranslator) onDisposal(ctx context.Context, ev Event) error {
	in, ok := ev.(*AssetsDisposalEvent)
	if !ok {
		return fmt.Errorf("payload inesperado para %s: %T", ev.Kind(), ev)
	}
	item, err := t.engine.Dispose(ctx, lifecycle.DisposalInput{
		SerialNo:   in.SerialNo,
		DisposalID: in.DisposalID,
		Reference:  in.Reference,
	})
	if err != nil {
		return err
	}
	return t.gw.Publish(ctx, &SerialDisposalEvent{
		StockID:    item.StockID,
		SerialNo:   item.SerialNo,
		DisposalID: in.DisposalID,
	})
}
