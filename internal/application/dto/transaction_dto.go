package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/serial-track/internal/domain/entity"
)

// TransactionLineRequest línea serializada de una transacción del anfitrión.
type TransactionLineRequest struct {
	LineNo       int             `json:"line_no"`
	StockID      string          `json:"stock_id"`
	SerialNo     string          `json:"serial_no"`
	Operation    string          `json:"operation"`
	LocationFrom string          `json:"location_from,omitempty"`
	LocationTo   string          `json:"location_to,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// TransactionRequest body para POST /api/transactions/validate y /commit.
type TransactionRequest struct {
	TransType int                      `json:"trans_type"`
	TransNo   int                      `json:"trans_no"`
	Reference string                   `json:"reference,omitempty"`
	Lines     []TransactionLineRequest `json:"lines"`
}

// ToContext convierte el body al contexto de transacción del dominio.
func (r TransactionRequest) ToContext() *entity.TransactionContext {
	cart := &entity.TransactionContext{
		TransType: r.TransType,
		TransNo:   r.TransNo,
		Reference: r.Reference,
		Lines:     make([]entity.SerialLine, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		cart.Lines = append(cart.Lines, entity.SerialLine{
			LineNo:       l.LineNo,
			StockID:      l.StockID,
			SerialNo:     l.SerialNo,
			Operation:    entity.Operation(l.Operation),
			LocationFrom: l.LocationFrom,
			LocationTo:   l.LocationTo,
			Quantity:     l.Quantity,
		})
	}
	return cart
}
