// Package inventory contiene la aritmética pura del libro de stock.
package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// OutboundPolicy qué hacer cuando una salida supera el stock disponible.
type OutboundPolicy string

const (
	OutboundClamp  OutboundPolicy = "clamp"  // recorta la salida al stock disponible
	OutboundReject OutboundPolicy = "reject" // rechaza con ErrInsufficientStock
)

// ParseOutboundPolicy vacío equivale a clamp.
func ParseOutboundPolicy(s string) (OutboundPolicy, error) {
	switch OutboundPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutboundClamp:
		return OutboundClamp, nil
	case OutboundReject:
		return OutboundReject, nil
	}
	return "", fmt.Errorf("política de salida desconocida %q", s)
}

// Entry resultado de aplicar un movimiento sobre un stock previo.
type Entry struct {
	Direction entity.Direction
	Requested decimal.Decimal
	Applied   decimal.Decimal
	Previous  decimal.Decimal
	New       decimal.Decimal
}

// Clamped la salida se recortó.
func (e Entry) Clamped() bool { return e.Requested.GreaterThan(e.Applied) }

// ResolveDirection fija la dirección según el tipo. Solo ADJUSTMENT usa la del caller.
func ResolveDirection(t entity.MovementType, requested entity.Direction) (entity.Direction, error) {
	switch t {
	case entity.MovementProductionIn, entity.MovementReturnIn:
		return entity.DirectionIn, nil
	case entity.MovementSalesOut:
		return entity.DirectionOut, nil
	case entity.MovementAdjustment:
		if !requested.IsValid() {
			return "", fmt.Errorf("%w: el ajuste requiere dirección IN u OUT", domain.ErrInvalidInput)
		}
		return requested, nil
	}
	return "", fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, t)
}

// Apply calcula el nuevo stock. Nunca devuelve stock negativo: con OutboundClamp la
// cantidad aplicada se reduce al stock previo, con OutboundReject se devuelve error.
func Apply(previous decimal.Decimal, t entity.MovementType, qty decimal.Decimal, dir entity.Direction, policy OutboundPolicy) (Entry, error) {
	if !qty.IsPositive() {
		return Entry{}, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if previous.IsNegative() {
		return Entry{}, errors.New("stock previo negativo")
	}
	d, err := ResolveDirection(t, dir)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Direction: d, Requested: qty, Applied: qty, Previous: previous}
	if d == entity.DirectionIn {
		e.New = previous.Add(qty)
		return e, nil
	}
	if qty.GreaterThan(previous) {
		if policy == OutboundReject {
			return Entry{}, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, previous, qty)
		}
		e.Applied = previous
	}
	e.New = previous.Sub(e.Applied)
	return e, nil
}

// Replay recalcula el stock esperado desde un inicial y la secuencia de movimientos,
// en orden cronológico. Devuelve también el índice del primer asiento cuyo
// PreviousStock no encadena con el anterior (-1 si todo cuadra).
func Replay(initial decimal.Decimal, movements []entity.StockMovement) (decimal.Decimal, int) {
	running := initial
	broken := -1
	for i := range movements {
		m := &movements[i]
		if broken < 0 && (!m.PreviousStock.Equal(running) || !m.NewStock.Equal(running.Add(m.SignedQuantity()))) {
			broken = i
		}
		running = running.Add(m.SignedQuantity())
	}
	return running, broken
}
