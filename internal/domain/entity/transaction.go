package entity

import "github.com/shopspring/decimal"

// Tipos de transacción del ERP anfitrión. Los códigos 10-25 son los del
// sistema contable; 90-93 son internos para la integración con activos.
const (
	TransTypeSalesInvoice     = 10
	TransTypeCustomerCredit   = 11
	TransTypeCustomerDelivery = 13
	TransTypeLocationTransfer = 16
	TransTypeInventoryAdjust  = 17
	TransTypeSupplierReceive  = 25

	TransTypeAssetLoan        = 90
	TransTypeAssetReturn      = 91
	TransTypeAssetMaintenance = 92
	TransTypeAssetDisposal    = 93
)

// SerialTracked indica si un tipo de transacción del anfitrión lleva
// seguimiento de seriales (el resto pasa de largo por el coordinador).
func SerialTracked(transType int) bool {
	switch transType {
	case TransTypeSalesInvoice, TransTypeCustomerCredit, TransTypeCustomerDelivery,
		TransTypeLocationTransfer, TransTypeInventoryAdjust, TransTypeSupplierReceive:
		return true
	}
	return false
}

// SerialLine línea con serial dentro de una transacción de negocio.
type SerialLine struct {
	LineNo       int
	StockID      string
	SerialNo     string
	Operation    Operation
	LocationFrom string
	LocationTo   string
	Quantity     decimal.Decimal // normalmente 1
}

// TransactionContext carrito efímero: las líneas con serial de una transacción
// del anfitrión. Vive solo durante validate→commit; para un void se
// reconstruye desde los movimientos persistidos de (trans_type, trans_no).
type TransactionContext struct {
	TransType int
	TransNo   int
	Reference string
	Lines     []SerialLine
}
