package dto

import (
	"time"

	"github.com/jhoicas/serial-track/internal/application/events"
	"github.com/jhoicas/serial-track/internal/domain"
)

// AssetsEventRequest body del webhook POST /api/events/assets. El campo kind
// selecciona la variante; el resto de campos son los de esa variante.
type AssetsEventRequest struct {
	Kind           string    `json:"kind"`
	SerialNo       string    `json:"serial_no"`
	EmployeeID     string    `json:"employee_id,omitempty"`
	LoanID         int       `json:"loan_id,omitempty"`
	LoanDate       time.Time `json:"loan_date,omitempty"`
	ExpectedReturn time.Time `json:"expected_return,omitempty"`
	ReturnDate     time.Time `json:"return_date,omitempty"`
	MaintenanceID  int       `json:"maintenance_id,omitempty"`
	Date           time.Time `json:"date,omitempty"`
	NextDue        time.Time `json:"next_due,omitempty"`
	DisposalID     int       `json:"disposal_id,omitempty"`
	Reference      string    `json:"reference,omitempty"`
}

// ToEvent convierte el body al evento tipado del gateway.
func (r AssetsEventRequest) ToEvent() (events.Event, error) {
	switch events.Kind(r.Kind) {
	case events.KindAssetsEmployeeLoan:
		return &events.AssetsEmployeeLoanEvent{
			SerialNo:       r.SerialNo,
			EmployeeID:     r.EmployeeID,
			LoanID:         r.LoanID,
			LoanDate:       r.LoanDate,
			ExpectedReturn: r.ExpectedReturn,
		}, nil
	case events.KindAssetsEmployeeReturn:
		return &events.AssetsEmployeeReturnEvent{
			SerialNo:   r.SerialNo,
			EmployeeID: r.EmployeeID,
			LoanID:     r.LoanID,
			ReturnDate: r.ReturnDate,
		}, nil
	case events.KindAssetsMaintenance:
		return &events.AssetsMaintenanceEvent{
			SerialNo:      r.SerialNo,
			MaintenanceID: r.MaintenanceID,
			Date:          r.Date,
			NextDue:       r.NextDue,
		}, nil
	case events.KindAssetsDisposal:
		return &events.AssetsDisposalEvent{
			SerialNo:   r.SerialNo,
			DisposalID: r.DisposalID,
			Reference:  r.Reference,
		}, nil
	default:
		return nil, domain.ErrInvalidInput
	}
}
