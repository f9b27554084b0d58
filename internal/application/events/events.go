package events

import (
	"time"

	"github.com/jhoicas/serial-track/internal/domain/entity"
)

// Kind nombre de evento del gateway. Las variantes entrantes vienen del ERP
// anfitrión (transaction.*) o del colaborador de activos (assets.*); las
// salientes (serial.*) se publican después de que el libro registró el efecto
// de forma durable, para que el colaborador reconcilie sus registros.
type Kind string

const (
	// entrantes: ciclo de transacción del anfitrión
	KindTransactionPreWrite  Kind = "transaction.prewrite"
	KindTransactionPostWrite Kind = "transaction.postwrite"
	KindTransactionPreVoid   Kind = "transaction.prevoid"

	// entrantes: colaborador de gestión de activos
	KindAssetsEmployeeLoan   Kind = "assets.employee.loan"
	KindAssetsEmployeeReturn Kind = "assets.employee.return"
	KindAssetsMaintenance    Kind = "assets.maintenance"
	KindAssetsDisposal       Kind = "assets.disposal"

	// salientes: resultados del motor de ciclo de vida
	KindMovementRecorded     Kind = "serial.movement"
	KindSerialEmployeeLoan   Kind = "serial.employee.loan"
	KindSerialEmployeeReturn Kind = "serial.employee.return"
	KindSerialMaintenance    Kind = "serial.maintenance"
	KindSerialDisposal       Kind = "serial.disposal"
)

// Event payload tipado; los handlers hacen type-switch sobre la variante
// concreta en lugar de sondear claves de un mapa.
type Event interface {
	Kind() Kind
}

// TransactionPreWriteEvent el anfitrión está por escribir su transacción.
type TransactionPreWriteEvent struct {
	Cart *entity.TransactionContext
}

func (*TransactionPreWriteEvent) Kind() Kind { return KindTransactionPreWrite }

// TransactionPostWriteEvent el anfitrión escribió su transacción.
type TransactionPostWriteEvent struct {
	Cart *entity.TransactionContext
}

func (*TransactionPostWriteEvent) Kind() Kind { return KindTransactionPostWrite }

// TransactionPreVoidEvent el anfitrión está por anular una transacción.
type TransactionPreVoidEvent struct {
	TransType int
	TransNo   int
}

func (*TransactionPreVoidEvent) Kind() Kind { return KindTransactionPreVoid }

// AssetsEmployeeLoanEvent préstamo solicitado por el módulo de activos.
type AssetsEmployeeLoanEvent struct {
	SerialNo       string
	EmployeeID     string
	LoanID         int
	LoanDate       time.Time
	ExpectedReturn time.Time
}

func (*AssetsEmployeeLoanEvent) Kind() Kind { return KindAssetsEmployeeLoan }

// AssetsEmployeeReturnEvent devolución de préstamo desde activos.
type AssetsEmployeeReturnEvent struct {
	SerialNo   string
	EmployeeID string
	LoanID     int
	ReturnDate time.Time
}

func (*AssetsEmployeeReturnEvent) Kind() Kind { return KindAssetsEmployeeReturn }

// AssetsMaintenanceEvent mantenimiento reportado por activos.
type AssetsMaintenanceEvent struct {
	SerialNo      string
	MaintenanceID int
	Date          time.Time
	NextDue       time.Time
}

func (*AssetsMaintenanceEvent) Kind() Kind { return KindAssetsMaintenance }

// AssetsDisposalEvent baja solicitada por activos.
type AssetsDisposalEvent struct {
	SerialNo   string
	DisposalID int
	Reference  string
}

func (*AssetsDisposalEvent) Kind() Kind { return KindAssetsDisposal }

// MovementRecordedEvent un asiento quedó registrado en el libro.
type MovementRecordedEvent struct {
	TransType    int
	TransNo      int
	StockID      string
	SerialNo     string
	Operation    entity.Operation
	LocationFrom string
	LocationTo   string
}

func (*MovementRecordedEvent) Kind() Kind { return KindMovementRecorded }

// SerialEmployeeLoanEvent espejo de un préstamo ya asentado en el libro.
type SerialEmployeeLoanEvent struct {
	StockID        string
	SerialNo       string
	EmployeeID     string
	LoanID         int
	LoanDate       time.Time
	ExpectedReturn time.Time
}

func (*SerialEmployeeLoanEvent) Kind() Kind { return KindSerialEmployeeLoan }

// SerialEmployeeReturnEvent espejo de una devolución de préstamo asentada.
type SerialEmployeeReturnEvent struct {
	StockID    string
	SerialNo   string
	EmployeeID string
	LoanID     int
	ReturnDate time.Time
}

func (*SerialEmployeeReturnEvent) Kind() Kind { return KindSerialEmployeeReturn }

// SerialMaintenanceEvent espejo de un mantenimiento asentado.
type SerialMaintenanceEvent struct {
	StockID       string
	SerialNo      string
	MaintenanceID int
	Date          time.Time
	NextDue       time.Time
}

func (*SerialMaintenanceEvent) Kind() Kind { return KindSerialMaintenance }

// SerialDisposalEvent espejo de una baja asentada.
type SerialDisposalEvent struct {
	StockID    string
	SerialNo   string
	DisposalID int
}

func (*SerialDisposalEvent) Kind() Kind { return KindSerialDisposal }
