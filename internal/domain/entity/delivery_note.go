package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/domain"
)

// DeliveryNoteStatus ciclo de vida de la remisión.
type DeliveryNoteStatus string

const (
	DeliveryNotePending   DeliveryNoteStatus = "PENDING"
	DeliveryNoteInTransit DeliveryNoteStatus = "IN_TRANSIT"
	DeliveryNoteDelivered DeliveryNoteStatus = "DELIVERED"
	DeliveryNoteCancelled DeliveryNoteStatus = "CANCELLED"
)

// ParseDeliveryNoteStatus convierte el texto del caller.
func ParseDeliveryNoteStatus(s string) (DeliveryNoteStatus, error) {
	switch normalize(s) {
	case "PENDING":
		return DeliveryNotePending, nil
	case "IN_TRANSIT":
		return DeliveryNoteInTransit, nil
	case "DELIVERED":
		return DeliveryNoteDelivered, nil
	case "CANCELLED", "CANCELED":
		return DeliveryNoteCancelled, nil
	}
	return "", fmt.Errorf("%w: estado de remisión desconocido %q", domain.ErrInvalidInput, s)
}

func (s DeliveryNoteStatus) String() string { return string(s) }

// IsTerminal DELIVERED y CANCELLED no admiten más transiciones.
func (s DeliveryNoteStatus) IsTerminal() bool {
	return s == DeliveryNoteDelivered || s == DeliveryNoteCancelled
}

// CanTransitionTo tabla de transiciones de la remisión.
func (s DeliveryNoteStatus) CanTransitionTo(target DeliveryNoteStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case DeliveryNotePending:
		return target == DeliveryNoteInTransit || target == DeliveryNoteCancelled
	case DeliveryNoteInTransit:
		return target == DeliveryNoteDelivered || target == DeliveryNoteCancelled
	default:
		return false
	}
}

// DeliveryNote remisión de despacho de una factura.
type DeliveryNote struct {
	ID              string
	Code            string
	InvoiceID       string
	Status          DeliveryNoteStatus
	DriverName      string
	VehiclePlate    string
	DeliveryAddress string
	Notes           string
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	Version         int64
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []DeliveryNoteItem
}

// DeliveryNoteItem cantidad despachada por producto. DeliveredQty es acumulado y nunca supera OrderedQty.
type DeliveryNoteItem struct {
	ID             string
	DeliveryNoteID string
	InvoiceItemID  string
	ProductID      string
	OrderedQty     decimal.Decimal
	DeliveredQty   decimal.Decimal
}

// Pending cantidad que falta por entregar.
func (it DeliveryNoteItem) Pending() decimal.Decimal {
	return it.OrderedQty.Sub(it.DeliveredQty)
}

func (it DeliveryNoteItem) FullyDelivered() bool {
	return it.DeliveredQty.GreaterThanOrEqual(it.OrderedQty)
}

// Item busca una línea por id.
func (dn *DeliveryNote) Item(itemID string) (*DeliveryNoteItem, bool) {
	for i := range dn.Items {
		if dn.Items[i].ID == itemID {
			return &dn.Items[i], true
		}
	}
	return nil, false
}

// FullyDelivered todas las líneas entregadas por completo.
func (dn *DeliveryNote) FullyDelivered() bool {
	if len(dn.Items) == 0 {
		return false
	}
	for _, it := range dn.Items {
		if !it.FullyDelivered() {
			return false
		}
	}
	return true
}

// HasDeliveries alguna línea tiene cantidad entregada.
func (dn *DeliveryNote) HasDeliveries() bool {
	for _, it := range dn.Items {
		if it.DeliveredQty.IsPositive() {
			return true
		}
	}
	return false
}

// TransitionTo valida y aplica el cambio de estado, registrando las fechas de despacho y entrega.
func (dn *DeliveryNote) TransitionTo(target DeliveryNoteStatus, now time.Time) error {
	if !dn.Status.CanTransitionTo(target) {
		return transitionError("remisión "+dn.Code, dn.Status, target)
	}
	switch target {
	case DeliveryNoteInTransit:
		dn.ShippedAt = &now
	case DeliveryNoteDelivered:
		dn.DeliveredAt = &now
	}
	dn.Status = target
	dn.UpdatedAt = now
	return nil
}
