package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/serial-track/internal/application/lifecycle"
	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
)

// Store Ledger Store en memoria: respaldo de los tests y del modo dev sin
// PostgreSQL. Un RWMutex global serializa el acceso; el TxRunner retiene el
// lock de escritura durante todo el callback y restaura un snapshot si el
// callback falla, de modo que la unidad de trabajo es todo-o-nada igual que
// en PostgreSQL.
type Store struct {
	mu sync.RWMutex

	items    map[int64]*entity.SerialItem
	bySerial map[string]int64 // stock_id + "\x00" + serial_no → item id

	movements map[int64]*entity.Movement
	attrs     map[int64]map[string]*entity.Attribute // item id → nombre → atributo

	nextItemID int64
	nextMovID  int64
	nextAttrID int64
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		items:     make(map[int64]*entity.SerialItem),
		bySerial:  make(map[string]int64),
		movements: make(map[int64]*entity.Movement),
		attrs:     make(map[int64]map[string]*entity.Attribute),
	}
}

// ItemRepo repositorio de ítems fuera de transacción.
func (s *Store) ItemRepo() repository.SerialItemRepository { return &itemRepo{s: s} }

// MovementRepo repositorio de movimientos fuera de transacción.
func (s *Store) MovementRepo() repository.MovementRepository { return &movementRepo{s: s} }

// AttributeRepo repositorio de atributos fuera de transacción.
func (s *Store) AttributeRepo() repository.AttributeRepository { return &attrRepo{s: s} }

// TxRunner unidad de trabajo atómica sobre el store.
func (s *Store) TxRunner() lifecycle.TxRunner { return &txRunner{s: s} }

func serialKey(stockID, serialNo string) string {
	return stockID + "\x00" + serialNo
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

var _ lifecycle.TxRunner = (*txRunner)(nil)

type txRunner struct {
	s *Store
}

// Run toma el lock de escritura, saca un snapshot y ejecuta fn con repos que
// operan sin volver a bloquear. Si fn devuelve error se restaura el snapshot:
// nada de lo hecho dentro queda visible.
func (r *txRunner) Run(ctx context.Context, fn func(
	items repository.SerialItemRepository,
	movements repository.MovementRepository,
	attributes repository.AttributeRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.snapshot()
	err := fn(&itemRepo{s: r.s, inTx: true}, &movementRepo{s: r.s, inTx: true}, &attrRepo{s: r.s, inTx: true})
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	items      map[int64]*entity.SerialItem
	bySerial   map[string]int64
	movements  map[int64]*entity.Movement
	attrs      map[int64]map[string]*entity.Attribute
	nextItemID int64
	nextMovID  int64
	nextAttrID int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		items:      make(map[int64]*entity.SerialItem, len(s.items)),
		bySerial:   make(map[string]int64, len(s.bySerial)),
		movements:  make(map[int64]*entity.Movement, len(s.movements)),
		attrs:      make(map[int64]map[string]*entity.Attribute, len(s.attrs)),
		nextItemID: s.nextItemID,
		nextMovID:  s.nextMovID,
		nextAttrID: s.nextAttrID,
	}
	for id, it := range s.items {
		cp := *it
		snap.items[id] = &cp
	}
	for k, v := range s.bySerial {
		snap.bySerial[k] = v
	}
	for id, m := range s.movements {
		cp := *m
		snap.movements[id] = &cp
	}
	for id, byName := range s.attrs {
		cp := make(map[string]*entity.Attribute, len(byName))
		for name, a := range byName {
			ac := *a
			cp[name] = &ac
		}
		snap.attrs[id] = cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.items = snap.items
	s.bySerial = snap.bySerial
	s.movements = snap.movements
	s.attrs = snap.attrs
	s.nextItemID = snap.nextItemID
	s.nextMovID = snap.nextMovID
	s.nextAttrID = snap.nextAttrID
}

// ──────────────────────────────────────────────────────────────────────────────
// SerialItemRepository
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.SerialItemRepository = (*itemRepo)(nil)

type itemRepo struct {
	s    *Store
	inTx bool // dentro de una tx el lock ya está tomado
}

func (r *itemRepo) rlock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *itemRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *itemRepo) Create(ctx context.Context, item *entity.SerialItem) error {
	defer r.lock()()
	key := serialKey(item.StockID, item.SerialNo)
	if _, exists := r.s.bySerial[key]; exists {
		return domain.ErrDuplicateSerial
	}
	r.s.nextItemID++
	item.ID = r.s.nextItemID
	cp := *item
	r.s.items[item.ID] = &cp
	r.s.bySerial[key] = item.ID
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, id int64) (*entity.SerialItem, error) {
	defer r.rlock()()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *itemRepo) GetBySerial(ctx context.Context, stockID, serialNo string) (*entity.SerialItem, error) {
	defer r.rlock()()
	id, ok := r.s.bySerial[serialKey(stockID, serialNo)]
	if !ok {
		return nil, nil
	}
	cp := *r.s.items[id]
	return &cp, nil
}

// GetBySerialForUpdate en memoria equivale a GetBySerial: dentro de una tx el
// lock global ya excluye a cualquier otro escritor.
func (r *itemRepo) GetBySerialForUpdate(ctx context.Context, stockID, serialNo string) (*entity.SerialItem, error) {
	return r.GetBySerial(ctx, stockID, serialNo)
}

func (r *itemRepo) UpdateState(ctx context.Context, item *entity.SerialItem) error {
	defer r.lock()()
	stored, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != item.Version {
		return &domain.ConflictError{StockID: item.StockID, SerialNo: item.SerialNo}
	}
	stored.Status = item.Status
	stored.Location = item.Location
	stored.UpdatedAt = item.UpdatedAt
	stored.Version++
	item.Version = stored.Version
	return nil
}

func (r *itemRepo) ListByStock(ctx context.Context, stockID string, limit, offset int) ([]*entity.SerialItem, error) {
	return r.Search(ctx, repository.SerialItemFilter{StockID: stockID}, limit, offset)
}

func (r *itemRepo) Search(ctx context.Context, filter repository.SerialItemFilter, limit, offset int) ([]*entity.SerialItem, error) {
	defer r.rlock()()
	var out []*entity.SerialItem
	for _, it := range r.s.items {
		if filter.StockID != "" && it.StockID != filter.StockID {
			continue
		}
		if filter.SerialNo != "" && it.SerialNo != filter.SerialNo {
			continue
		}
		if filter.Status != "" && it.Status != filter.Status {
			continue
		}
		if filter.Location != "" && it.Location != filter.Location {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *itemRepo) CountByStatus(ctx context.Context, stockID string) (map[entity.Status]int64, error) {
	defer r.rlock()()
	counts := make(map[entity.Status]int64)
	for _, it := range r.s.items {
		if stockID != "" && it.StockID != stockID {
			continue
		}
		counts[it.Status]++
	}
	return counts, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementRepository
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.MovementRepository = (*movementRepo)(nil)

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) rlock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *movementRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *movementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	defer r.lock()()
	r.s.nextMovID++
	movement.ID = r.s.nextMovID
	cp := *movement
	r.s.movements[movement.ID] = &cp
	return nil
}

func (r *movementRepo) ListByTransaction(ctx context.Context, transType, transNo int) ([]*entity.Movement, error) {
	defer r.rlock()()
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.TransType == transType && m.TransNo == transNo {
			cp := *m
			out = append(out, &cp)
		}
	}
	sortMovements(out)
	return out, nil
}

func (r *movementRepo) ListBySerialItem(ctx context.Context, serialItemID int64) ([]*entity.Movement, error) {
	defer r.rlock()()
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.SerialItemID == serialItemID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sortMovements(out)
	return out, nil
}

func (r *movementRepo) MarkReversed(ctx context.Context, ids []int64) error {
	defer r.lock()()
	for _, id := range ids {
		m, ok := r.s.movements[id]
		if !ok {
			return domain.ErrNotFound
		}
		m.Reversed = true
	}
	return nil
}

func (r *movementRepo) DeleteByTransaction(ctx context.Context, transType, transNo int) error {
	defer r.lock()()
	for id, m := range r.s.movements {
		if m.TransType == transType && m.TransNo == transNo {
			delete(r.s.movements, id)
		}
	}
	return nil
}

// orden created_at ascendente con id como desempate, igual que el ORDER BY
// del repo PostgreSQL.
func sortMovements(ms []*entity.Movement) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].CreatedAt.Equal(ms[j].CreatedAt) {
			return ms[i].ID < ms[j].ID
		}
		return ms[i].CreatedAt.Before(ms[j].CreatedAt)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// AttributeRepository
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.AttributeRepository = (*attrRepo)(nil)

type attrRepo struct {
	s    *Store
	inTx bool
}

func (r *attrRepo) rlock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *attrRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *attrRepo) Upsert(ctx context.Context, attr *entity.Attribute) error {
	defer r.lock()()
	byName := r.s.attrs[attr.SerialItemID]
	if byName == nil {
		byName = make(map[string]*entity.Attribute)
		r.s.attrs[attr.SerialItemID] = byName
	}
	if existing, ok := byName[attr.Name]; ok {
		existing.Value = attr.Value
		existing.UpdatedAt = attr.UpdatedAt
		attr.ID = existing.ID
		attr.CreatedAt = existing.CreatedAt
		return nil
	}
	r.s.nextAttrID++
	attr.ID = r.s.nextAttrID
	cp := *attr
	byName[attr.Name] = &cp
	return nil
}

func (r *attrRepo) Get(ctx context.Context, serialItemID int64, name string) (*entity.Attribute, error) {
	defer r.rlock()()
	a, ok := r.s.attrs[serialItemID][name]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *attrRepo) ListBySerialItem(ctx context.Context, serialItemID int64) ([]*entity.Attribute, error) {
	defer r.rlock()()
	byName := r.s.attrs[serialItemID]
	out := make([]*entity.Attribute, 0, len(byName))
	for _, a := range byName {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Name, out[j].Name) < 0 })
	return out, nil
}

func (r *attrRepo) Delete(ctx context.Context, serialItemID int64, name string) error {
	defer r.lock()()
	delete(r.s.attrs[serialItemID], name)
	return nil
}
