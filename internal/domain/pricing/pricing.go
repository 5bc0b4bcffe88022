// Package pricing es el motor de precios: totales de línea, descuentos, impuestos,
// envío y total general. Funciones puras, sin efectos secundarios; todos los
// documentos con líneas (pedido, orden de compra, factura) calculan aquí sus totales.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPricing se envuelve en todos los errores de validación del motor.
var ErrInvalidPricing = errors.New("pricing: datos inválidos")

var hundred = decimal.NewFromInt(100)

// MoneyScale decimales de todo monto que sale del motor (columnas NUMERIC(18,4) con
// valores de dos decimales). Se redondea mitad lejos de cero por línea, descuento
// general, impuesto y total: la factura siempre es saldable con un pago exacto.
const MoneyScale int32 = 2

// Money redondea un monto a MoneyScale.
func Money(v decimal.Decimal) decimal.Decimal {
	return v.Round(MoneyScale)
}

// DiscountUnit indica si un descuento es un monto fijo o un porcentaje de su base.
type DiscountUnit string

const (
	UnitAmount     DiscountUnit = "AMOUNT"
	UnitPercentage DiscountUnit = "PERCENTAGE"
)

// IsValid verifica que la unidad sea conocida.
func (u DiscountUnit) IsValid() bool {
	switch u {
	case UnitAmount, UnitPercentage:
		return true
	default:
		return false
	}
}

// ParseDiscountUnit normaliza la unidad recibida del caller. Vacío equivale a AMOUNT.
func ParseDiscountUnit(s string) (DiscountUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(UnitAmount):
		return UnitAmount, nil
	case string(UnitPercentage), "PERCENT", "%":
		return UnitPercentage, nil
	default:
		return "", fmt.Errorf("%w: unidad de descuento desconocida %q", ErrInvalidPricing, s)
	}
}

// Policy decide qué hacer cuando un descuento supera su base (precio o subtotal).
type Policy string

const (
	// PolicyClamp limita el descuento a la base: el neto nunca es negativo.
	PolicyClamp Policy = "clamp"
	// PolicyReject rechaza el cálculo con ErrInvalidPricing.
	PolicyReject Policy = "reject"
)

// ParsePolicy devuelve PolicyClamp para valores vacíos o desconocidos.
func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), string(PolicyReject)) {
		return PolicyReject
	}
	return PolicyClamp
}

// Line es la entrada de una línea de documento.
type Line struct {
	Price        decimal.Decimal
	Quantity     decimal.Decimal
	Discount     decimal.Decimal
	DiscountUnit DiscountUnit
}

// LineResult es el resultado calculado de una línea.
type LineResult struct {
	UnitDiscount   decimal.Decimal // descuento efectivo por unidad
	DiscountAmount decimal.Decimal // UnitDiscount * Quantity, redondeado
	Total          decimal.Decimal // (Price - UnitDiscount) * Quantity, redondeado
}

// Header agrupa los parámetros a nivel de documento.
type Header struct {
	Discount      decimal.Decimal
	DiscountUnit  DiscountUnit
	TaxPercentage decimal.Decimal
	ShippingCost  decimal.Decimal
}

// Totals es el resultado de DocumentTotals.
type Totals struct {
	Lines                []LineResult
	Subtotal             decimal.Decimal
	LineDiscountAmount   decimal.Decimal
	HeaderDiscountAmount decimal.Decimal
	TotalDiscount        decimal.Decimal
	TaxableAmount        decimal.Decimal
	Tax                  decimal.Decimal
	ShippingCost         decimal.Decimal
	GrandTotal           decimal.Decimal
}

// Engine aplica las reglas de precios con una política de descuento fija.
type Engine struct {
	policy Policy
}

// NewEngine construye el motor. Una política vacía se trata como PolicyClamp.
func NewEngine(policy Policy) Engine {
	if policy != PolicyReject {
		policy = PolicyClamp
	}
	return Engine{policy: policy}
}

// Policy devuelve la política configurada.
func (e Engine) Policy() Policy {
	if e.policy == "" {
		return PolicyClamp
	}
	return e.policy
}

// Line valida y calcula una línea.
func (e Engine) Line(l Line) (LineResult, error) {
	if !l.Price.IsPositive() {
		return LineResult{}, fmt.Errorf("%w: el precio debe ser mayor que cero", ErrInvalidPricing)
	}
	if !l.Quantity.IsPositive() {
		return LineResult{}, fmt.Errorf("%w: la cantidad debe ser mayor que cero", ErrInvalidPricing)
	}
	unitDiscount, err := e.discountAmount(l.Price, l.Discount, l.DiscountUnit)
	if err != nil {
		return LineResult{}, err
	}
	return LineResult{
		UnitDiscount:   unitDiscount,
		DiscountAmount: Money(unitDiscount.Mul(l.Quantity)),
		Total:          Money(l.Price.Sub(unitDiscount).Mul(l.Quantity)),
	}, nil
}

// DocumentTotals calcula subtotal, descuentos, impuesto, envío y total general.
// El resultado no depende del orden de las líneas.
func (e Engine) DocumentTotals(lines []Line, h Header) (Totals, error) {
	if h.TaxPercentage.IsNegative() {
		return Totals{}, fmt.Errorf("%w: el impuesto no puede ser negativo", ErrInvalidPricing)
	}
	if h.ShippingCost.IsNegative() {
		return Totals{}, fmt.Errorf("%w: el costo de envío no puede ser negativo", ErrInvalidPricing)
	}

	t := Totals{Lines: make([]LineResult, 0, len(lines))}
	for i, l := range lines {
		res, err := e.Line(l)
		if err != nil {
			return Totals{}, fmt.Errorf("línea %d: %w", i+1, err)
		}
		t.Lines = append(t.Lines, res)
		t.Subtotal = t.Subtotal.Add(res.Total)
		t.LineDiscountAmount = t.LineDiscountAmount.Add(res.DiscountAmount)
	}

	headerDiscount, err := e.discountAmount(t.Subtotal, h.Discount, h.DiscountUnit)
	if err != nil {
		return Totals{}, fmt.Errorf("descuento general: %w", err)
	}
	headerDiscount = Money(headerDiscount)
	t.HeaderDiscountAmount = headerDiscount
	t.TotalDiscount = t.LineDiscountAmount.Add(headerDiscount)
	t.TaxableAmount = t.Subtotal.Sub(headerDiscount)
	t.Tax = Money(t.TaxableAmount.Mul(h.TaxPercentage).Div(hundred))
	t.ShippingCost = h.ShippingCost
	t.GrandTotal = Money(t.TaxableAmount.Add(t.Tax).Add(h.ShippingCost))
	return t, nil
}

// discountAmount convierte un descuento en monto sobre base, aplicando la política.
func (e Engine) discountAmount(base, discount decimal.Decimal, unit DiscountUnit) (decimal.Decimal, error) {
	if unit == "" {
		unit = UnitAmount
	}
	if !unit.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: unidad de descuento desconocida %q", ErrInvalidPricing, unit)
	}
	if discount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: el descuento no puede ser negativo", ErrInvalidPricing)
	}
	amount := discount
	if unit == UnitPercentage {
		amount = base.Mul(discount).Div(hundred)
	}
	if amount.GreaterThan(base) {
		if e.Policy() == PolicyReject {
			return decimal.Zero, fmt.Errorf("%w: el descuento %s supera la base %s", ErrInvalidPricing, amount, base)
		}
		amount = base
	}
	return amount, nil
}
