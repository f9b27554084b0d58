package lifecycle_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ValidateForTransaction — solo lectura, primera línea inválida
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_CarritoVacioEsValido(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	assert.NoError(t, eng.ValidateForTransaction(context.Background(), nil))
	assert.NoError(t, eng.ValidateForTransaction(context.Background(), &entity.TransactionContext{TransType: 10, TransNo: 1}))
}

func TestValidate_LineasInvalidas(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "WIDGET", "SN-001", "DEF")

	cases := []struct {
		name   string
		line   entity.SerialLine
		reason string
	}{
		{"sin stock_id", entity.SerialLine{LineNo: 1, SerialNo: "SN-X", Operation: entity.OperationSell}, "código de ítem"},
		{"sin serial", entity.SerialLine{LineNo: 1, StockID: "WIDGET", Operation: entity.OperationSell}, "número de serie"},
		{"serial demasiado largo", entity.SerialLine{LineNo: 1, StockID: "WIDGET", SerialNo: strings.Repeat("S", 51), Operation: entity.OperationSell}, "demasiado largo"},
		{"cantidad negativa", entity.SerialLine{LineNo: 1, StockID: "WIDGET", SerialNo: "SN-001", Operation: entity.OperationSell, Quantity: decimal.NewFromInt(-1)}, "negativa"},
		{"serial no registrado", entity.SerialLine{LineNo: 1, StockID: "WIDGET", SerialNo: "SN-NADIE", Operation: entity.OperationSell}, "no registrado"},
		{"recepción de serial existente", entity.SerialLine{LineNo: 1, StockID: "WIDGET", SerialNo: "SN-001", Operation: entity.OperationReceive, LocationTo: "DEF"}, "ya existe"},
		{"recepción sin destino", entity.SerialLine{LineNo: 1, StockID: "WIDGET", SerialNo: "SN-OTRA", Operation: entity.OperationReceive}, "ubicación de destino"},
		{"origen equivocado", entity.SerialLine{LineNo: 1, StockID: "WIDGET", SerialNo: "SN-001", Operation: entity.OperationSell, LocationFrom: "BOD9"}, "ubicación de origen"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := eng.ValidateForTransaction(ctx, &entity.TransactionContext{
				TransType: entity.TransTypeSalesInvoice, TransNo: 1,
				Lines: []entity.SerialLine{tc.line},
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidationFailed)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Reason, tc.reason)
		})
	}
}

// La validación no deja ningún efecto en el store.
func TestValidate_EsSoloLectura(t *testing.T) {
	eng, store := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "WIDGET", "SN-001", "DEF")

	require.NoError(t, eng.ValidateForTransaction(ctx, saleCart(1, "WIDGET", "SN-001", "DEF")))

	item, err := eng.GetItem(ctx, "WIDGET", "SN-001")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, item.Status, "validar no debe mutar el ítem")

	ms, err := store.MovementRepo().ListByTransaction(ctx, entity.TransTypeSalesInvoice, 1)
	require.NoError(t, err)
	assert.Empty(t, ms, "validar no debe asentar movimientos")
}

// El serial se normaliza: espacios alrededor no invalidan la línea.
func TestValidate_NormalizaElSerial(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "WIDGET", "SN-001", "DEF")

	err := eng.ValidateForTransaction(ctx, saleCart(1, "WIDGET", "  SN-001  ", "DEF"))
	assert.NoError(t, err)
}

// Un ítem prestado a un empleado no puede venderse, trasladarse ni darse de baja.
func TestValidate_ItemPrestadoBloqueaVenta(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "LAPTOP", "SN-LT1", "DEF")

	_, err := eng.LoanToEmployee(ctx, lifecycle.LoanInput{
		SerialNo: "SN-LT1", EmployeeID: "EMP-7", LoanID: 1, LoanDate: time.Now(),
	})
	require.NoError(t, err)

	for _, op := range []entity.Operation{entity.OperationSell, entity.OperationTransfer, entity.OperationDispose} {
		err := eng.ValidateForTransaction(ctx, &entity.TransactionContext{
			TransType: entity.TransTypeSalesInvoice, TransNo: 1,
			Lines: []entity.SerialLine{{LineNo: 1, StockID: "LAPTOP", SerialNo: "SN-LT1", Operation: op}},
		})
		require.Error(t, err, "operación %q sobre ítem prestado", op)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	}

	// devuelto el préstamo, la venta vuelve a ser válida
	_, err = eng.ReturnFromEmployee(ctx, lifecycle.ReturnInput{SerialNo: "SN-LT1", LoanID: 1})
	require.NoError(t, err)
	assert.NoError(t, eng.ValidateForTransaction(ctx, saleCart(2, "LAPTOP", "SN-LT1", "DEF")))
}
