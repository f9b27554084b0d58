package lifecycle_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/infrastructure/memory"
	"github.com/jhoicas/serial-track/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newTestEngine arma un motor sobre el store en memoria con las opciones por
// defecto (SOLD/DISP, modo compensate).
func newTestEngine(t *testing.T, opts lifecycle.Options) (*lifecycle.Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	eng := lifecycle.NewEngine(store.TxRunner(), store.ItemRepo(), store.MovementRepo(), store.AttributeRepo(), opts, log)
	return eng, store
}

// seedItem registra un ítem activo en la ubicación dada.
func seedItem(t *testing.T, eng *lifecycle.Engine, stockID, serialNo, location string) *entity.SerialItem {
	t.Helper()
	item, err := eng.CreateItem(context.Background(), stockID, serialNo, location)
	require.NoError(t, err)
	return item
}

// saleCart carrito de venta de una unidad.
func saleCart(transNo int, stockID, serialNo, from string) *entity.TransactionContext {
	return &entity.TransactionContext{
		TransType: entity.TransTypeSalesInvoice,
		TransNo:   transNo,
		Lines: []entity.SerialLine{{
			LineNo:       1,
			StockID:      stockID,
			SerialNo:     serialNo,
			Operation:    entity.OperationSell,
			LocationFrom: from,
			Quantity:     decimal.NewFromInt(1),
		}},
	}
}

// liveMovements filtra los asientos no anulados.
func liveMovements(ms []*entity.Movement) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range ms {
		if !m.Reversed {
			out = append(out, m)
		}
	}
	return out
}
