package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Integración con activos — préstamos, mantenimiento y bajas
// ──────────────────────────────────────────────────────────────────────────────

func TestLoanToEmployee_RegistraAtributosYAsiento(t *testing.T) {
	eng, store := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "LAPTOP", "SN-LT1", "DEF")

	item, err := eng.LoanToEmployee(ctx, lifecycle.LoanInput{
		SerialNo: "SN-LT1", EmployeeID: "EMP-7", LoanID: 42,
		LoanDate: time.Now(), ExpectedReturn: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, item.Status, "el préstamo no cambia el estado")
	assert.Equal(t, "DEF", item.Location, "el préstamo no cambia la ubicación")

	attrs, err := eng.Attributes(ctx, "LAPTOP", "SN-LT1")
	require.NoError(t, err)
	byName := make(map[string]string, len(attrs))
	for _, a := range attrs {
		byName[a.Name] = a.Value
	}
	assert.Equal(t, "EMP-7", byName[entity.AttrLoanedTo])
	assert.Equal(t, "42", byName[entity.AttrLoanID])
	assert.NotEmpty(t, byName[entity.AttrLoanDate])
	assert.NotEmpty(t, byName[entity.AttrExpectedReturn])

	ms, err := store.MovementRepo().ListByTransaction(ctx, entity.TransTypeAssetLoan, 42)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, entity.OperationLoan, ms[0].Operation)
}

func TestLoanToEmployee_RechazaSegundoPrestamo(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "LAPTOP", "SN-LT1", "DEF")

	_, err := eng.LoanToEmployee(ctx, lifecycle.LoanInput{SerialNo: "SN-LT1", EmployeeID: "EMP-7", LoanID: 1})
	require.NoError(t, err)

	_, err = eng.LoanToEmployee(ctx, lifecycle.LoanInput{SerialNo: "SN-LT1", EmployeeID: "EMP-9", LoanID: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidationFailed, "un ítem ya prestado no puede volver a prestarse")
}

func TestReturnFromEmployee_LimpiaAtributos(t *testing.T) {
	eng, store := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "LAPTOP", "SN-LT1", "DEF")

	_, err := eng.LoanToEmployee(ctx, lifecycle.LoanInput{SerialNo: "SN-LT1", EmployeeID: "EMP-7", LoanID: 42})
	require.NoError(t, err)
	_, err = eng.ReturnFromEmployee(ctx, lifecycle.ReturnInput{SerialNo: "SN-LT1", EmployeeID: "EMP-7", LoanID: 42})
	require.NoError(t, err)

	attrs, err := eng.Attributes(ctx, "LAPTOP", "SN-LT1")
	require.NoError(t, err)
	for _, a := range attrs {
		assert.NotEqual(t, entity.AttrLoanedTo, a.Name, "loaned_to debe eliminarse al devolver")
	}

	ms, err := store.MovementRepo().ListByTransaction(ctx, entity.TransTypeAssetReturn, 42)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, entity.OperationLoanReturn, ms[0].Operation)
}

func TestReturnFromEmployee_SinPrestamoVigente(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "LAPTOP", "SN-LT1", "DEF")

	_, err := eng.ReturnFromEmployee(ctx, lifecycle.ReturnInput{SerialNo: "SN-LT1", LoanID: 42})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestRecordMaintenance_ActualizaFechas(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "LAPTOP", "SN-LT1", "DEF")

	next := time.Now().AddDate(0, 6, 0)
	_, err := eng.RecordMaintenance(ctx, lifecycle.MaintenanceInput{
		SerialNo: "SN-LT1", MaintenanceID: 9, Date: time.Now(), NextDue: next,
	})
	require.NoError(t, err)

	attrs, err := eng.Attributes(ctx, "LAPTOP", "SN-LT1")
	require.NoError(t, err)
	byName := make(map[string]string, len(attrs))
	for _, a := range attrs {
		byName[a.Name] = a.Value
	}
	assert.NotEmpty(t, byName[entity.AttrLastMaintenance])
	assert.NotEmpty(t, byName[entity.AttrNextMaintenance])
}

func TestDispose_MarcaScrappedEnUbicacionDeBajas(t *testing.T) {
	eng, store := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "LAPTOP", "SN-LT1", "DEF")

	item, err := eng.Dispose(ctx, lifecycle.DisposalInput{SerialNo: "SN-LT1", DisposalID: 5})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusScrapped, item.Status)
	assert.Equal(t, "DISP", item.Location)

	ms, err := store.MovementRepo().ListByTransaction(ctx, entity.TransTypeAssetDisposal, 5)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "DEF", ms[0].LocationFrom)
	assert.Equal(t, "DISP", ms[0].LocationTo)
}

// Un ítem prestado no puede darse de baja directamente: el préstamo debe
// devolverse primero, para no dejar atributos de préstamo colgando sobre un
// ítem terminal.
func TestDispose_ItemPrestadoDebeDevolversePrimero(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "LAPTOP", "SN-LT1", "DEF")

	_, err := eng.LoanToEmployee(ctx, lifecycle.LoanInput{SerialNo: "SN-LT1", EmployeeID: "EMP-7", LoanID: 42})
	require.NoError(t, err)

	_, err = eng.Dispose(ctx, lifecycle.DisposalInput{SerialNo: "SN-LT1", DisposalID: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	item, err := eng.GetItem(ctx, "LAPTOP", "SN-LT1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, item.Status, "la baja rechazada no toca el ítem")

	// tras devolver el préstamo, la baja procede
	_, err = eng.ReturnFromEmployee(ctx, lifecycle.ReturnInput{SerialNo: "SN-LT1", EmployeeID: "EMP-7", LoanID: 42})
	require.NoError(t, err)
	_, err = eng.Dispose(ctx, lifecycle.DisposalInput{SerialNo: "SN-LT1", DisposalID: 5})
	assert.NoError(t, err)
}

// La baja es terminal: repetirla sobre un ítem ya scrapped es una transición
// inválida, no un no-op.
func TestDispose_RepetidaEsTransicionInvalida(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()
	seedItem(t, eng, "LAPTOP", "SN-LT1", "DEF")

	_, err := eng.Dispose(ctx, lifecycle.DisposalInput{SerialNo: "SN-LT1", DisposalID: 5})
	require.NoError(t, err)

	_, err = eng.Dispose(ctx, lifecycle.DisposalInput{SerialNo: "SN-LT1", DisposalID: 6})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAssets_SerialInexistenteOAmbiguo(t *testing.T) {
	eng, _ := newTestEngine(t, lifecycle.Options{})
	ctx := context.Background()

	_, err := eng.Dispose(ctx, lifecycle.DisposalInput{SerialNo: "SN-NADIE", DisposalID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// el mismo serial bajo dos códigos de ítem distintos es ambiguo
	seedItem(t, eng, "LAPTOP", "SN-DUP", "DEF")
	seedItem(t, eng, "TABLET", "SN-DUP", "DEF")
	_, err = eng.Dispose(ctx, lifecycle.DisposalInput{SerialNo: "SN-DUP", DisposalID: 1})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}
