package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jhoicas/serial-track/internal/domain"
	"github.com/jhoicas/serial-track/internal/domain/entity"
	"github.com/jhoicas/serial-track/internal/domain/repository"
	"github.com/jhoicas/serial-track/pkg/logger"
)

// Modos de reversión de movimientos al anular una transacción.
const (
	ReversalModeCompensate = "compensate" // marca reversed + asiento compensatorio (auditable)
	ReversalModeDelete     = "delete"     // borra los asientos de la transacción
)

// Options parámetros del motor de ciclo de vida.
type Options struct {
	SoldLocation     string // ubicación centinela para ítems vendidos
	DisposalLocation string // ubicación centinela para ítems dados de baja
	ReversalMode     string // compensate | delete
	GenerateRetries  int    // reintentos de Generate ante colisión
}

func (o Options) withDefaults() Options {
	if o.SoldLocation == "" {
		o.SoldLocation = "SOLD"
	}
	if o.DisposalLocation == "" {
		o.DisposalLocation = "DISP"
	}
	if o.ReversalMode == "" {
		o.ReversalMode = ReversalModeCompensate
	}
	if o.GenerateRetries <= 0 {
		o.GenerateRetries = 20
	}
	return o
}

// Engine motor de ciclo de vida de ítems serializados: alta, generación de
// seriales, validación transaccional, commit de movimientos y reversión.
// No mantiene estado mutable entre llamadas; todo vive en el Ledger Store.
type Engine struct {
	tx         TxRunner
	items      repository.SerialItemRepository
	movements  repository.MovementRepository
	attributes repository.AttributeRepository
	opts       Options
	log        *logger.Logger
	seq        atomic.Uint64 // sufijo monótono para Generate
}

// NewEngine construye el motor. Los repositorios recibidos se usan para
// lecturas fuera de transacción; las mutaciones pasan siempre por tx.
func NewEngine(
	tx TxRunner,
	items repository.SerialItemRepository,
	movements repository.MovementRepository,
	attributes repository.AttributeRepository,
	opts Options,
	log *logger.Logger,
) *Engine {
	return &Engine{
		tx:         tx,
		items:      items,
		movements:  movements,
		attributes: attributes,
		opts:       opts.withDefaults(),
		log:        log,
	}
}

// CreateItem registra una unidad física existente (alta manual, equivalente a
// la pantalla de entrada de seriales). El ítem nace active en la ubicación
// dada; el par (stock_id, serial_no) duplicado se rechaza con
// domain.ErrDuplicateSerial.
func (e *Engine) CreateItem(ctx context.Context, stockID, serialNo, location string) (*entity.SerialItem, error) {
	if stockID == "" || serialNo == "" || location == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	item := &entity.SerialItem{
		StockID:   stockID,
		SerialNo:  serialNo,
		Status:    entity.StatusActive,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.items.Create(ctx, item); err != nil {
		return nil, err
	}
	e.log.Info().Str("stock_id", stockID).Str("serial_no", serialNo).Str("location", location).Msg("serial registrado")
	return item, nil
}

// GetItem busca un ítem por su par único.
func (e *Engine) GetItem(ctx context.Context, stockID, serialNo string) (*entity.SerialItem, error) {
	item, err := e.items.GetBySerial(ctx, stockID, serialNo)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%s/%s: %w", stockID, serialNo, domain.ErrNotFound)
	}
	return item, nil
}

// Search lista ítems según filtros opcionales.
func (e *Engine) Search(ctx context.Context, filter repository.SerialItemFilter, limit, offset int) ([]*entity.SerialItem, error) {
	if limit <= 0 {
		limit = 50
	}
	return e.items.Search(ctx, filter, limit, offset)
}

// Movements devuelve el libro de movimientos de un ítem, created_at ascendente.
func (e *Engine) Movements(ctx context.Context, stockID, serialNo string) ([]*entity.Movement, error) {
	item, err := e.GetItem(ctx, stockID, serialNo)
	if err != nil {
		return nil, err
	}
	return e.movements.ListBySerialItem(ctx, item.ID)
}

// Attributes devuelve los atributos clave/valor de un ítem.
func (e *Engine) Attributes(ctx context.Context, stockID, serialNo string) ([]*entity.Attribute, error) {
	item, err := e.GetItem(ctx, stockID, serialNo)
	if err != nil {
		return nil, err
	}
	return e.attributes.ListBySerialItem(ctx, item.ID)
}

// SetAttribute crea o reescribe un atributo del ítem (last-write-wins).
func (e *Engine) SetAttribute(ctx context.Context, stockID, serialNo, name, value string) error {
	if name == "" {
		return domain.ErrInvalidInput
	}
	item, err := e.GetItem(ctx, stockID, serialNo)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return e.attributes.Upsert(ctx, &entity.Attribute{
		SerialItemID: item.ID,
		Name:         name,
		Value:        value,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Statistics conteo de ítems por estado; stockID vacío agrega todo el catálogo.
func (e *Engine) Statistics(ctx context.Context, stockID string) (map[entity.Status]int64, error) {
	return e.items.CountByStatus(ctx, stockID)
}

// reference arma la referencia por defecto de un asiento cuando el carrito no
// trae una propia.
func reference(cart *entity.TransactionContext) string {
	if cart.Reference != "" {
		return cart.Reference
	}
	return fmt.Sprintf("trans %d/%d", cart.TransType, cart.TransNo)
}

// normalizeSerial limpia el serial recibido de formularios/integraciones.
func normalizeSerial(serialNo string) string {
	return strings.TrimSpace(serialNo)
}
