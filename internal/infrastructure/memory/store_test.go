package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
	"github.com/jhoicas/serial-track/internal/infrastructure/memory"
)

func newItem(stockID, serialNo, location string) *entity.SerialItem {
	now := time.Now().UTC()
	return &entity.SerialItem{
		StockID: stockID, SerialNo: serialNo,
		Status: entity.StatusActive, Location: location,
		CreatedAt: now, UpdatedAt: now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio de ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestItemRepo_CreateRechazaDuplicados(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.ItemRepo().Create(ctx, newItem("WIDGET", "SN-1", "DEF")))
	err := store.ItemRepo().Create(ctx, newItem("WIDGET", "SN-1", "DEF"))
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)

	// el mismo serial bajo otro stock_id sí es válido
	assert.NoError(t, store.ItemRepo().Create(ctx, newItem("TABLET", "SN-1", "DEF")))
}

func TestItemRepo_GetInexistenteDevuelveNilNil(t *testing.T) {
	store := memory.NewStore()
	item, err := store.ItemRepo().GetBySerial(context.Background(), "WIDGET", "SN-X")
	require.NoError(t, err)
	assert.Nil(t, item)
}

// UpdateState con versión desfasada devuelve conflicto y no aplica nada.
func TestItemRepo_UpdateStateOptimista(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := store.ItemRepo()

	it := newItem("WIDGET", "SN-1", "DEF")
	require.NoError(t, repo.Create(ctx, it))

	stale, err := repo.GetBySerial(ctx, "WIDGET", "SN-1")
	require.NoError(t, err)

	it.Status = entity.StatusSold
	require.NoError(t, repo.UpdateState(ctx, it))
	assert.Equal(t, int64(1), it.Version)

	stale.Status = entity.StatusScrapped
	err = repo.UpdateState(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	current, err := repo.GetBySerial(ctx, "WIDGET", "SN-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSold, current.Status, "la escritura desfasada no debe aplicarse")
}

func TestItemRepo_SearchFiltraYPagina(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := store.ItemRepo()
	require.NoError(t, repo.Create(ctx, newItem("WIDGET", "SN-1", "DEF")))
	require.NoError(t, repo.Create(ctx, newItem("WIDGET", "SN-2", "BOD2")))
	require.NoError(t, repo.Create(ctx, newItem("TABLET", "SN-3", "DEF")))

	byStock, err := repo.Search(ctx, repository.SerialItemFilter{StockID: "WIDGET"}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, byStock, 2)

	byLocation, err := repo.Search(ctx, repository.SerialItemFilter{Location: "DEF"}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, byLocation, 2)

	page, err := repo.Search(ctx, repository.SerialItemFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1, "offset 2 con 3 ítems deja 1")
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner — unidad todo-o-nada
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_RestauraSnapshotEnError(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	boom := errors.New("fallo a mitad de la unidad")
	err := store.TxRunner().Run(ctx, func(
		items repository.SerialItemRepository,
		movements repository.MovementRepository,
		attributes repository.AttributeRepository,
	) error {
		if err := items.Create(ctx, newItem("WIDGET", "SN-1", "DEF")); err != nil {
			return err
		}
		if err := movements.Create(ctx, &entity.Movement{
			SerialItemID: 1, TransType: 10, TransNo: 1,
			StockID: "WIDGET", SerialNo: "SN-1",
			Operation: entity.OperationSell, Quantity: decimal.NewFromInt(1),
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	item, gerr := store.ItemRepo().GetBySerial(ctx, "WIDGET", "SN-1")
	require.NoError(t, gerr)
	assert.Nil(t, item, "el ítem creado dentro de la unidad fallida no debe existir")

	ms, lerr := store.MovementRepo().ListByTransaction(ctx, 10, 1)
	require.NoError(t, lerr)
	assert.Empty(t, ms, "el asiento de la unidad fallida no debe existir")
}

// ──────────────────────────────────────────────────────────────────────────────
// Atributos
// ──────────────────────────────────────────────────────────────────────────────

func TestAttrRepo_UpsertConservaCreatedAt(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	repo := store.AttributeRepo()

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, &entity.Attribute{
		SerialItemID: 1, Name: "loaned_to", Value: "EMP-7",
		CreatedAt: first, UpdatedAt: first,
	}))

	later := first.Add(time.Hour)
	updated := &entity.Attribute{SerialItemID: 1, Name: "loaned_to", Value: "EMP-9", CreatedAt: later, UpdatedAt: later}
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.Get(ctx, 1, "loaned_to")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "EMP-9", got.Value, "last-write-wins sobre el valor")
	assert.Equal(t, first, got.CreatedAt, "el upsert no reescribe created_at")

	require.NoError(t, repo.Delete(ctx, 1, "loaned_to"))
	got, err = repo.Get(ctx, 1, "loaned_to")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, repo.Delete(ctx, 1, "loaned_to"), "borrar inexistente no es error")
}
