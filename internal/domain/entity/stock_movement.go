package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipos de movimiento del libro de stock.
type MovementType string

const (
	MovementProductionIn MovementType = "PRODUCTION_IN" // recepción de producción
	MovementSalesOut     MovementType = "SALES_OUT"     // entrega a cliente
	MovementReturnIn     MovementType = "RETURN_IN"     // devolución de cliente
	MovementAdjustment   MovementType = "ADJUSTMENT"    // ajuste manual, con dirección
)

// IsValid verifica que el tipo sea conocido.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementProductionIn, MovementSalesOut, MovementReturnIn, MovementAdjustment:
		return true
	default:
		return false
	}
}

// Direction sentido de un movimiento. Solo ADJUSTMENT lo recibe del caller;
// para el resto lo fija el tipo.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid verifica que la dirección sea conocida.
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// StockMovement es un asiento inmutable del libro de stock.
// Invariante: NewStock = PreviousStock + SignedQuantity().
type StockMovement struct {
	ID                string
	Code              string
	ProductID         string
	Type              MovementType
	Direction         Direction
	Quantity          decimal.Decimal // magnitud aplicada (sin signo)
	RequestedQuantity decimal.Decimal // magnitud solicitada; difiere de Quantity si hubo recorte a cero
	PreviousStock     decimal.Decimal
	NewStock          decimal.Decimal
	UnitCost          decimal.Decimal
	Reference         string // documento origen: DN-000001/<item>, nota de ajuste, etc.
	Notes             string
	ActorID           string
	CreatedAt         time.Time
}

// SignedQuantity devuelve la cantidad con signo según la dirección.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// Clamped indica si la salida se recortó para no dejar stock negativo.
func (m *StockMovement) Clamped() bool {
	return m.RequestedQuantity.GreaterThan(m.Quantity)
}
