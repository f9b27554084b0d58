package coordinator

import (
	"context"
	"fmt"

	"github.com/jhoicas/serial-track/internal/application/events"
	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/pkg/logger"
)

// Coordinator ata el motor de ciclo de vida a los tres puntos de extensión de
// la transacción del anfitrión: pre-write (validar), post-write (commit) y
// pre-void (revertir). Los tipos de transacción sin seguimiento de seriales
// pasan de largo.
type Coordinator struct {
	engine *lifecycle.Engine
	gw     *events.Gateway
	log    *logger.Logger
}

// NewCoordinator construye el coordinador.
func NewCoordinator(engine *lifecycle.Engine, gw *events.Gateway, log *logger.Logger) *Coordinator {
	return &Coordinator{engine: engine, gw: gw, log: log}
}

// Register suscribe el coordinador a los eventos transaction.* del gateway,
// para anfitriones que se integran por eventos en lugar de llamadas directas.
func (c *Coordinator) Register() {
	c.gw.Subscribe(events.KindTransactionPreWrite, func(ctx context.Context, ev events.Event) error {
		e, ok := ev.(*events.TransactionPreWriteEvent)
		if !ok {
			return fmt.Errorf("payload inesperado para %s: %T", ev.Kind(), ev)
		}
		return c.PreWrite(ctx, e.Cart)
	})
	c.gw.Subscribe(events.KindTransactionPostWrite, func(ctx context.Context, ev events.Event) error {
		e, ok := ev.(*events.TransactionPostWriteEvent)
		if !ok {
			return fmt.Errorf("payload inesperado para %s: %T", ev.Kind(), ev)
		}
		return c.PostWrite(ctx, e.Cart)
	})
	c.gw.Subscribe(events.KindTransactionPreVoid, func(ctx context.Context, ev events.Event) error {
		e, ok := ev.(*events.TransactionPreVoidEvent)
		if !ok {
			return fmt.Errorf("payload inesperado para %s: %T", ev.Kind(), ev)
		}
		return c.PreVoid(ctx, e.TransType, e.TransNo)
	})
}

// PreWrite valida todas las líneas con serial antes de que el anfitrión
// escriba su transacción. Un resultado no exitoso bloquea la escritura y el
// mensaje llega al iniciador; no deja ningún efecto en el store.
func (c *Coordinator) PreWrite(ctx context.Context, cart *entity.TransactionContext) error {
	if cart == nil || !entity.SerialTracked(cart.TransType) {
		return nil
	}
	return c.engine.ValidateForTransaction(ctx, cart)
}

// PostWrite asienta los movimientos después de que el anfitrión escribió su
// transacción. Un fallo aquí es fatal: el anfitrión debe revertir también, o
// el libro y la transacción divergirían. Los eventos de resultado se publican
// después del commit durable; un suscriptor que falle no lo deshace.
func (c *Coordinator) PostWrite(ctx context.Context, cart *entity.TransactionContext) error {
	if cart == nil || !entity.SerialTracked(cart.TransType) {
		return nil
	}
	if err := c.engine.Commit(ctx, cart); err != nil {
		return err
	}
	for _, line := range cart.Lines {
		ev := &events.MovementRecordedEvent{
			TransType:    cart.TransType,
			TransNo:      cart.TransNo,
			StockID:      line.StockID,
			SerialNo:     line.SerialNo,
			Operation:    line.Operation,
			LocationFrom: line.LocationFrom,
			LocationTo:   line.LocationTo,
		}
		// la ubicación real puede ser un centinela (SOLD/DISP); se informa la persistida
		if item, err := c.engine.GetItem(ctx, line.StockID, line.SerialNo); err == nil {
			ev.LocationTo = item.Location
		}
		if err := c.gw.Publish(ctx, ev); err != nil {
			c.log.Warn().
				Err(err).
				Int("trans_type", cart.TransType).
				Int("trans_no", cart.TransNo).
				Msg("entrega de evento post-commit con fallos")
		}
	}
	return nil
}

// PreVoid revierte los movimientos de la transacción anulada. Que no haya
// nada que revertir no es un error: el void sigue adelante.
func (c *Coordinator) PreVoid(ctx context.Context, transType, transNo int) error {
	if !entity.SerialTracked(transType) {
		return nil
	}
	return c.engine.Reverse(ctx, transType, transNo)
}
