package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApply_SalesOutWithinStock(t *testing.T) {
	e, err := inventory.Apply(d("100"), entity.MovementSalesOut, d("30"), "", inventory.OutboundClamp)
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionOut, e.Direction)
	assert.True(t, e.New.Equal(d("70")))
	assert.True(t, e.Applied.Equal(d("30")))
	assert.False(t, e.Clamped())
}

func TestApply_SalesOutClampsToZero(t *testing.T) {
	e, err := inventory.Apply(d("70"), entity.MovementSalesOut, d("150"), "", inventory.OutboundClamp)
	require.NoError(t, err)
	assert.True(t, e.New.IsZero())
	assert.True(t, e.Applied.Equal(d("70")))
	assert.True(t, e.Requested.Equal(d("150")))
	assert.True(t, e.Clamped())
}

func TestApply_RejectPolicy(t *testing.T) {
	_, err := inventory.Apply(d("10"), entity.MovementSalesOut, d("11"), "", inventory.OutboundReject)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	e, err := inventory.Apply(d("10"), entity.MovementSalesOut, d("10"), "", inventory.OutboundReject)
	require.NoError(t, err)
	assert.True(t, e.New.IsZero())
}

func TestApply_Directions(t *testing.T) {
	tests := []struct {
		name    string
		typ     entity.MovementType
		dir     entity.Direction
		want    string
		wantErr error
	}{
		{"produccion", entity.MovementProductionIn, "", "15", nil},
		{"devolucion ignora direccion", entity.MovementReturnIn, entity.DirectionOut, "15", nil},
		{"ajuste entrada", entity.MovementAdjustment, entity.DirectionIn, "15", nil},
		{"ajuste salida", entity.MovementAdjustment, entity.DirectionOut, "5", nil},
		{"ajuste sin direccion", entity.MovementAdjustment, "", "", domain.ErrInvalidInput},
		{"tipo desconocido", entity.MovementType("TRANSFER"), "", "", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := inventory.Apply(d("10"), tt.typ, d("5"), tt.dir, inventory.OutboundClamp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, e.New.Equal(d(tt.want)), "got %s", e.New)
		})
	}
}

func TestApply_InvalidQuantity(t *testing.T) {
	for _, q := range []string{"0", "-1"} {
		_, err := inventory.Apply(d("10"), entity.MovementProductionIn, d(q), "", inventory.OutboundClamp)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

// La suma de cantidades con signo debe explicar el stock final, incluso con recortes.
func TestApply_ConservationOverSequence(t *testing.T) {
	type step struct {
		typ entity.MovementType
		dir entity.Direction
		qty string
	}
	steps := []step{
		{entity.MovementProductionIn, "", "100"},
		{entity.MovementSalesOut, "", "30"},
		{entity.MovementSalesOut, "", "150"},
		{entity.MovementReturnIn, "", "12.5"},
		{entity.MovementAdjustment, entity.DirectionOut, "2.5"},
		{entity.MovementAdjustment, entity.DirectionIn, "7"},
		{entity.MovementSalesOut, "", "40"},
	}
	initial := d("0")
	stock := initial
	var moves []entity.StockMovement
	for _, s := range steps {
		e, err := inventory.Apply(stock, s.typ, d(s.qty), s.dir, inventory.OutboundClamp)
		require.NoError(t, err)
		assert.False(t, e.New.IsNegative())
		moves = append(moves, entity.StockMovement{
			Type: s.typ, Direction: e.Direction, Quantity: e.Applied, RequestedQuantity: e.Requested,
			PreviousStock: e.Previous, NewStock: e.New,
		})
		stock = e.New
	}
	assert.True(t, stock.IsZero(), "got %s", stock)

	replayed, broken := inventory.Replay(initial, moves)
	assert.True(t, replayed.Equal(stock))
	assert.Equal(t, -1, broken)
}

func TestReplay_DetectsBrokenChain(t *testing.T) {
	moves := []entity.StockMovement{
		{Direction: entity.DirectionIn, Quantity: d("10"), PreviousStock: d("0"), NewStock: d("10")},
		{Direction: entity.DirectionOut, Quantity: d("3"), PreviousStock: d("9"), NewStock: d("6")},
	}
	_, broken := inventory.Replay(d("0"), moves)
	assert.Equal(t, 1, broken)
}

func TestWeightedAverageCost(t *testing.T) {
	assert.True(t, inventory.WeightedAverageCost(d("10"), d("100"), d("10"), d("200")).Equal(d("150")))
	assert.True(t, inventory.WeightedAverageCost(d("0"), d("0"), d("5"), d("80")).Equal(d("80")))
	// sin costo de entrada se conserva el vigente
	assert.True(t, inventory.WeightedAverageCost(d("10"), d("100"), d("10"), d("0")).Equal(d("100")))
}

func TestParseOutboundPolicy(t *testing.T) {
	p, err := inventory.ParseOutboundPolicy("")
	require.NoError(t, err)
	assert.Equal(t, inventory.OutboundClamp, p)
	p, err = inventory.ParseOutboundPolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, inventory.OutboundReject, p)
	_, err = inventory.ParseOutboundPolicy("negative")
	assert.Error(t, err)
}
