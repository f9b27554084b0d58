package entity

import "time"

// Status estado de ciclo de vida de un ítem serializado.
type Status string

// Estados posibles de un SerialItem. scrapped es terminal: ninguna operación
// puede partir de él.
const (
	StatusNone     Status = ""         // el ítem aún no existe
	StatusActive   Status = "active"   // disponible en una ubicación
	StatusSold     Status = "sold"     // vendido / entregado
	StatusReturned Status = "returned" // devuelto por el cliente, pendiente de reingreso
	StatusScrapped Status = "scrapped" // dado de baja (terminal)
)

// SerialItem representa una unidad física identificada por (stock_id, serial_no).
// El par es único para siempre: la baja es un estado terminal, nunca se borra
// la fila ni se reutiliza el serial.
type SerialItem struct {
	ID        int64
	StockID   string
	SerialNo  string
	Status    Status
	Location  string
	Version   int64 // contador optimista; el store lo incrementa en cada update
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Operation operación de ciclo de vida sobre un ítem serializado.
type Operation string

const (
	OperationReceive     Operation = "receive"     // alta por recepción
	OperationSell        Operation = "sell"        // venta / entrega
	OperationTransfer    Operation = "transfer"    // traslado entre ubicaciones
	OperationAdjust      Operation = "adjust"      // ajuste de ubicación
	OperationReturn      Operation = "return"      // devolución de cliente
	OperationReissue     Operation = "reissue"     // reingreso de un ítem devuelto
	OperationDispose     Operation = "dispose"     // baja definitiva
	OperationLoan        Operation = "loan"        // préstamo a empleado (no cambia estado)
	OperationLoanReturn  Operation = "loan_return" // devolución de préstamo
	OperationMaintenance Operation = "maintenance" // registro de mantenimiento
)

// Apply devuelve el estado resultante de aplicar op sobre current.
// ok=false cuando la máquina de estados no permite la transición.
func Apply(current Status, op Operation) (next Status, ok bool) {
	if current == StatusScrapped {
		return current, false
	}
	switch op {
	case OperationReceive:
		if current == StatusNone {
			return StatusActive, true
		}
	case OperationSell:
		if current == StatusActive {
			return StatusSold, true
		}
	case OperationTransfer, OperationAdjust:
		if current == StatusActive {
			return StatusActive, true
		}
	case OperationReturn:
		if current == StatusSold {
			return StatusReturned, true
		}
	case OperationReissue:
		if current == StatusReturned {
			return StatusActive, true
		}
	case OperationDispose:
		if current == StatusActive || current == StatusSold || current == StatusReturned {
			return StatusScrapped, true
		}
	case OperationLoan, OperationLoanReturn:
		if current == StatusActive {
			return StatusActive, true
		}
	case OperationMaintenance:
		if current == StatusActive || current == StatusReturned {
			return current, true
		}
	}
	return current, false
}
