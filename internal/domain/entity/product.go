package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la distribuidora.
// CurrentStock y Cost solo cambian a través del libro de stock (movimientos); nunca directamente.
type Product struct {
	ID           string
	Code         string // código único (SKU)
	Name         string
	Description  string
	Unit         string          // unidad de medida (UND, CAJA, KG...)
	Price        decimal.Decimal // precio de venta unitario
	Cost         decimal.Decimal // costo promedio ponderado
	CurrentStock decimal.Decimal // siempre >= 0
	MinimumStock decimal.Decimal // umbral para la lista de reposición
	Active       bool
	Version      int64 // control optimista sobre CurrentStock
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowMinimum indica si el stock actual está por debajo del umbral mínimo.
func (p *Product) BelowMinimum() bool {
	return p.MinimumStock.IsPositive() && p.CurrentStock.LessThan(p.MinimumStock)
}
