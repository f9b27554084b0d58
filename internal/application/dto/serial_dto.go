package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/serial-track/internal/domain/entity"
)

// CreateSerialRequest body para POST /api/serials.
type CreateSerialRequest struct {
	StockID  string `json:"stock_id"`
	SerialNo string `json:"serial_no"`
	Location string `json:"location"`
}

// GenerateSerialRequest body para POST /api/serials/generate.
type GenerateSerialRequest struct {
	StockID string `json:"stock_id"`
}

// GenerateSerialResponse serial propuesto por el generador (aún no registrado).
type GenerateSerialResponse struct {
	StockID  string `json:"stock_id"`
	SerialNo string `json:"serial_no"`
}

// AttributeRequest body para PUT /api/serials/:stock_id/:serial_no/attributes.
type AttributeRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SerialItemResponse representación HTTP de un ítem serializado.
type SerialItemResponse struct {
	ID        int64     `json:"id"`
	StockID   string    `json:"stock_id"`
	SerialNo  string    `json:"serial_no"`
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSerialItemResponse mapea la entidad al DTO.
func NewSerialItemResponse(item *entity.SerialItem) SerialItemResponse {
	return SerialItemResponse{
		ID:        item.ID,
		StockID:   item.StockID,
		SerialNo:  item.SerialNo,
		Status:    string(item.Status),
		Location:  item.Location,
		Version:   item.Version,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// NewSerialItemResponses mapea un listado de entidades.
func NewSerialItemResponses(items []*entity.SerialItem) []SerialItemResponse {
	out := make([]SerialItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewSerialItemResponse(it))
	}
	return out
}

// MovementResponse representación HTTP de un asiento del libro.
type MovementResponse struct {
	ID           int64           `json:"id"`
	TransType    int             `json:"trans_type"`
	TransNo      int             `json:"trans_no"`
	StockID      string          `json:"stock_id"`
	SerialNo     string          `json:"serial_no"`
	Operation    string          `json:"operation"`
	LocationFrom string          `json:"location_from,omitempty"`
	LocationTo   string          `json:"location_to,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reference    string          `json:"reference,omitempty"`
	Reversed     bool            `json:"reversed"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewMovementResponses mapea el historial de un ítem.
func NewMovementResponses(movements []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, MovementResponse{
			ID:           m.ID,
			TransType:    m.TransType,
			TransNo:      m.TransNo,
			StockID:      m.StockID,
			SerialNo:     m.SerialNo,
			Operation:    string(m.Operation),
			LocationFrom: m.LocationFrom,
			LocationTo:   m.LocationTo,
			Quantity:     m.Quantity,
			Reference:    m.Reference,
			Reversed:     m.Reversed,
			CreatedAt:    m.CreatedAt,
		})
	}
	return out
}

// AttributeResponse atributo clave/valor de un ítem.
type AttributeResponse struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAttributeResponses mapea los atributos de un ítem.
func NewAttributeResponses(attrs []*entity.Attribute) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, AttributeResponse{Name: a.Name, Value: a.Value, UpdatedAt: a.UpdatedAt})
	}
	return out
}

// SerialStatsResponse conteo de ítems por estado para un stock_id.
type SerialStatsResponse struct {
	StockID string           `json:"stock_id,omitempty"`
	Counts  map[string]int64 `json:"counts"`
}

// NewSerialStatsResponse mapea el agregado del motor.
func NewSerialStatsResponse(stockID string, counts map[entity.Status]int64) SerialStatsResponse {
	out := SerialStatsResponse{StockID: stockID, Counts: make(map[string]int64, len(counts))}
	for status, n := range counts {
		out.Counts[string(status)] = n
	}
	return out
}
