package entity

import "time"

// Nombres de atributo usados por la integración con activos (préstamos,
// mantenimiento). Cualquier otro nombre es válido: los atributos son una
// extensión abierta clave/valor del ítem.
const (
	AttrLoanedTo        = "loaned_to"
	AttrLoanID          = "loan_id"
	AttrLoanDate        = "loan_date"
	AttrExpectedReturn  = "expected_return"
	AttrLastMaintenance = "last_maintenance"
	AttrNextMaintenance = "next_maintenance"
	AttrDisposalID      = "disposal_id"
	AttrWarrantyExpiry  = "warranty_expiry"
)

// Attribute par clave/valor asociado a un SerialItem.
// attribute_name es único por ítem; una reescritura pisa el valor anterior
// (last-write-wins, sin versionado).
type Attribute struct {
	ID           int64
	SerialItemID int64
	Name         string
	Value        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
