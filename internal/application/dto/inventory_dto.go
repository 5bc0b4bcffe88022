package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// SALES_OUT no se acepta aquí: solo nace de la entrega de una remisión.
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Type      string           `json:"type" validate:"required,oneof=PRODUCTION_IN RETURN_IN ADJUSTMENT"`
	Direction string           `json:"direction" validate:"omitempty,oneof=IN OUT"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference string           `json:"reference" validate:"max=100"`
	Notes     string           `json:"notes" validate:"max=500"`
}

// MovementResponse asiento del libro de stock.
type MovementResponse struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	ProductID         string          `json:"product_id"`
	Type              string          `json:"type"`
	Direction         string          `json:"direction"`
	Quantity          decimal.Decimal `json:"quantity"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	PreviousStock     decimal.Decimal `json:"previous_stock"`
	NewStock          decimal.Decimal `json:"new_stock"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Reference         string          `json:"reference"`
	Notes             string          `json:"notes,omitempty"`
	ActorID           string          `json:"actor_id"`
	Clamped           bool            `json:"clamped"`
	CreatedAt         time.Time       `json:"created_at"`
}

// MovementListResponse historial paginado de un producto.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LedgerVerificationResponse resultado de recalcular el stock desde el libro.
type LedgerVerificationResponse struct {
	ProductID     string          `json:"product_id"`
	MovementCount int             `json:"movement_count"`
	ExpectedStock decimal.Decimal `json:"expected_stock"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	Consistent    bool            `json:"consistent"`
	BrokenAt      string          `json:"broken_at,omitempty"` // código del primer asiento que no encadena
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	Code               string          `json:"code"`
	ProductName        string          `json:"product_name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinimumStock       decimal.Decimal `json:"minimum_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinimumStock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
