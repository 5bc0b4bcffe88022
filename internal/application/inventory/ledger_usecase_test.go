package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/application/inventory"
	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	ledger "github.com/jhoicas/Distribucion-api/internal/domain/inventory"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, store *memory.Store, p *entity.Product) {
	t.Helper()
	require.NoError(t, store.Repos().Products.Create(context.Background(), p))
}

func TestRegister_ProductionInRecomputesAverageCost(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Product{ID: "p1", Code: "A", Active: true})
	uc := inventory.NewLedgerUseCase(store, ledger.OutboundClamp, logger.Nop())

	c100, c200 := d("100"), d("200")
	_, err := uc.Register(ctx, "u1", dto.RegisterMovementRequest{ProductID: "p1", Type: "PRODUCTION_IN", Quantity: d("10"), UnitCost: &c100})
	require.NoError(t, err)
	mov, err := uc.Register(ctx, "u1", dto.RegisterMovementRequest{ProductID: "p1", Type: "PRODUCTION_IN", Quantity: d("10"), UnitCost: &c200, Reference: "OP-77"})
	require.NoError(t, err)
	assert.Equal(t, "MOV-000002", mov.Code)
	assert.True(t, mov.PreviousStock.Equal(d("10")))
	assert.True(t, mov.NewStock.Equal(d("20")))
	assert.Equal(t, "u1", mov.ActorID)

	p, err := store.Repos().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Cost.Equal(d("150")), "got %s", p.Cost)
	assert.True(t, p.CurrentStock.Equal(d("20")))
}

// 100 → SALES_OUT 30 → 70; luego una salida de 150 se recorta a cero.
func TestApplyInTx_SalesOutThenClampToZero(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Product{ID: "p1", Code: "A", Active: true})
	uc := inventory.NewLedgerUseCase(store, ledger.OutboundClamp, logger.Nop())

	apply := func(typ entity.MovementType, qty string) *entity.StockMovement {
		var mov *entity.StockMovement
		require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
			var err error
			mov, _, err = uc.ApplyInTx(ctx, r, inventory.MovementInput{ProductID: "p1", Type: typ, Quantity: d(qty), ActorID: "u1"})
			return err
		}))
		return mov
	}
	apply(entity.MovementProductionIn, "100")
	m := apply(entity.MovementSalesOut, "30")
	assert.True(t, m.NewStock.Equal(d("70")))
	m = apply(entity.MovementSalesOut, "150")
	assert.True(t, m.NewStock.IsZero())
	assert.True(t, m.Quantity.Equal(d("70")))
	assert.True(t, m.Clamped())

	check, err := uc.Verify(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, 3, check.MovementCount)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Product{ID: "p1", Code: "A", Active: true})
	uc := inventory.NewLedgerUseCase(store, ledger.OutboundReject, logger.Nop())
	neg := d("-1")

	tests := []struct {
		name string
		req  dto.RegisterMovementRequest
		want error
	}{
		{"salida de venta manual", dto.RegisterMovementRequest{ProductID: "p1", Type: "SALES_OUT", Quantity: d("1")}, domain.ErrInvalidInput},
		{"cantidad cero", dto.RegisterMovementRequest{ProductID: "p1", Type: "RETURN_IN", Quantity: d("0")}, domain.ErrInvalidInput},
		{"costo negativo", dto.RegisterMovementRequest{ProductID: "p1", Type: "PRODUCTION_IN", Quantity: d("1"), UnitCost: &neg}, domain.ErrInvalidInput},
		{"ajuste sin dirección", dto.RegisterMovementRequest{ProductID: "p1", Type: "ADJUSTMENT", Quantity: d("1")}, domain.ErrInvalidInput},
		{"producto inexistente", dto.RegisterMovementRequest{ProductID: "nope", Type: "RETURN_IN", Quantity: d("1")}, domain.ErrNotFound},
		{"ajuste bajo cero con rechazo", dto.RegisterMovementRequest{ProductID: "p1", Type: "ADJUSTMENT", Direction: "OUT", Quantity: d("1")}, domain.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, "u1", tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	list, err := uc.ListMovements(ctx, "p1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

// Salidas concurrentes sobre el mismo producto: el stock nunca queda negativo y el
// libro explica exactamente el stock final.
func TestRegister_ConcurrentAdjustmentsStayConsistent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Product{ID: "p1", Code: "A", Active: true})
	uc := inventory.NewLedgerUseCase(store, ledger.OutboundClamp, logger.Nop())
	_, err := uc.Register(ctx, "u1", dto.RegisterMovementRequest{ProductID: "p1", Type: "PRODUCTION_IN", Quantity: d("10")})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Register(ctx, "u1", dto.RegisterMovementRequest{ProductID: "p1", Type: "ADJUSTMENT", Direction: "OUT", Quantity: d("1")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := store.Repos().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.IsZero())

	check, err := uc.Verify(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, 26, check.MovementCount)
}

func TestReplenishmentList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, &entity.Product{ID: "p1", Code: "A", Active: true, CurrentStock: d("2"), MinimumStock: d("10"), Cost: d("5")})
	seed(t, store, &entity.Product{ID: "p2", Code: "B", Active: true, CurrentStock: d("1"), MinimumStock: d("4")})
	seed(t, store, &entity.Product{ID: "p3", Code: "C", Active: true, CurrentStock: d("20"), MinimumStock: d("4")})
	seed(t, store, &entity.Product{ID: "p4", Code: "D", Active: false, CurrentStock: d("0"), MinimumStock: d("50")})

	list, err := inventory.NewReplenishmentUseCase(store.Repos().Products).GenerateReplenishmentList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Code)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].IdealStock.Equal(d("15")))
	assert.True(t, list[0].SuggestedOrderQty.Equal(d("13")))
	assert.True(t, list[0].EstimatedOrderCost.Equal(d("65")))
	assert.Equal(t, "B", list[1].Code)
}
