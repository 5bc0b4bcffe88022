package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/application/inventory"
	"github.com/jhoicas/Distribucion-api/internal/application/usecase"
	"github.com/jhoicas/Distribucion-api/internal/domain"
	ledger "github.com/jhoicas/Distribucion-api/internal/domain/inventory"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProductUseCase() (*usecase.ProductUseCase, *inventory.LedgerUseCase) {
	store := memory.NewStore()
	lg := inventory.NewLedgerUseCase(store, ledger.OutboundClamp, logger.Nop())
	return usecase.NewProductUseCase(store, lg), lg
}

func TestProductCreate_InitialStockGoesThroughLedger(t *testing.T) {
	ctx := context.Background()
	uc, lg := newProductUseCase()

	p, err := uc.Create(ctx, "u1", dto.CreateProductRequest{
		Code: "ARZ-500", Name: "Arroz 500g", Price: d("3200"), Cost: d("2100"), InitialStock: d("40"),
	})
	require.NoError(t, err)
	assert.Equal(t, "UND", p.Unit)
	assert.True(t, p.CurrentStock.Equal(d("40")))
	assert.True(t, p.Cost.Equal(d("2100")))

	history, err := lg.ListMovements(ctx, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, "PRODUCTION_IN", history.Items[0].Type)

	_, err = uc.Create(ctx, "u1", dto.CreateProductRequest{Code: "ARZ-500", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUpdate_NeverTouchesStockOrCost(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUseCase()
	p, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Code: "A", Name: "A", Price: d("10"), Cost: d("4"), InitialStock: d("3")})
	require.NoError(t, err)

	name, price := "Nuevo", d("12")
	inactive := false
	got, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, Price: &price, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", got.Name)
	assert.True(t, got.Price.Equal(price))
	assert.False(t, got.Active)
	assert.True(t, got.CurrentStock.Equal(d("3")))
	assert.True(t, got.Cost.Equal(d("4")))

	neg := d("-1")
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{Price: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, "", true, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}
