package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement asiento del libro de movimientos de un ítem serializado.
// Es append-only: una reversión marca el asiento como reversed e inserta un
// asiento compensatorio, nunca edita el original. stock_id y serial_no se
// desnormalizan para que la auditoría sobreviva a mutaciones del ítem.
type Movement struct {
	ID           int64
	SerialItemID int64
	TransType    int
	TransNo      int
	StockID      string
	SerialNo     string
	Operation    Operation
	LocationFrom string // vacío cuando no aplica (ej. recepción)
	LocationTo   string
	Quantity     decimal.Decimal // normalmente 1; decimal(10,4) en el esquema
	Reference    string
	Reversed     bool // true: anulado por void, o asiento compensatorio
	CreatedAt    time.Time
}

// ReplayState repliega los movimientos vivos (no reversed) de un ítem, en
// orden created_at ascendente, y devuelve el estado y la ubicación resultantes.
// Un ítem dado de alta manualmente (sin movimiento de recepción) parte de
// active; si el primer movimiento vivo es una recepción, parte de inexistente.
// Con el libro vacío devuelve el estado de creación (active, ubicación vacía =
// conservar la del ítem). Debe coincidir siempre con lo persistido en el ítem.
func ReplayState(movements []*Movement) (Status, string) {
	status := StatusActive
	location := ""
	first := true
	for _, m := range movements {
		if m.Reversed {
			continue
		}
		if first && m.Operation == OperationReceive {
			status = StatusNone
		}
		first = false
		next, ok := Apply(status, m.Operation)
		if !ok {
			// un libro consistente no llega aquí; se conserva el último estado válido
			continue
		}
		status = next
		if m.LocationTo != "" {
			location = m.LocationTo
		}
	}
	return status, location
}
