package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

func newProduct(id, code string) *entity.Product {
	return &entity.Product{ID: id, Code: code, Name: code, Price: decimal.NewFromInt(100), Active: true}
}

func TestRun_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	boom := errors.New("boom")

	err := st.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Products.Create(ctx, newProduct("p1", "A")))
		_, err := r.Codes.Next(ctx, entity.CodePrefixMovement)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = st.Repos().Products.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	code, err := st.Repos().Codes.Next(ctx, entity.CodePrefixMovement)
	require.NoError(t, err)
	assert.Equal(t, "MOV-000001", code)
}

func TestRun_CommitPublishes(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	require.NoError(t, st.Run(ctx, func(r repository.Repos) error {
		return r.Products.Create(ctx, newProduct("p1", "A"))
	}))
	p, err := st.Repos().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Version)
}

func TestUpdate_StaleVersionIsConcurrentModification(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	repos := st.Repos()
	require.NoError(t, repos.Products.Create(ctx, newProduct("p1", "A")))

	a, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	b, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)

	a.Name = "primero"
	require.NoError(t, repos.Products.Update(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	b.Name = "segundo"
	err = repos.Products.Update(ctx, b)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.True(t, domain.IsRetryable(err))
}

func TestCreate_DuplicateCodeAndActiveDependents(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	require.NoError(t, repos.Products.Create(ctx, newProduct("p1", "A")))
	assert.ErrorIs(t, repos.Products.Create(ctx, newProduct("p2", "a")), domain.ErrDuplicate)

	po := &entity.PurchaseOrder{ID: "po1", OrderID: "o1", Status: entity.PurchaseOrderStatusPending}
	require.NoError(t, repos.PurchaseOrders.Create(ctx, po))
	err := repos.PurchaseOrders.Create(ctx, &entity.PurchaseOrder{ID: "po2", OrderID: "o1", Status: entity.PurchaseOrderStatusPending})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.True(t, domain.IsRetryable(err))

	po.Status = entity.PurchaseOrderStatusCancelled
	require.NoError(t, repos.PurchaseOrders.Update(ctx, po))
	require.NoError(t, repos.PurchaseOrders.Create(ctx, &entity.PurchaseOrder{ID: "po2", OrderID: "o1", Status: entity.PurchaseOrderStatusPending}))

	active, err := repos.PurchaseOrders.GetActiveByOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "po2", active.ID)
}

func TestReads_ReturnCopies(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	o := &entity.Order{ID: "o1", Items: []entity.OrderItem{{ID: "i1", Quantity: decimal.NewFromInt(1)}}}
	require.NoError(t, repos.Orders.Create(ctx, o))

	got, err := repos.Orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	got.Items[0].Quantity = decimal.NewFromInt(99)

	again, err := repos.Orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, again.Items[0].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestMovements_OrderAndPagination(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	for _, code := range []string{"MOV-000001", "MOV-000002", "MOV-000003"} {
		require.NoError(t, repos.Movements.Create(ctx, &entity.StockMovement{ID: code, Code: code, ProductID: "p1"}))
	}
	require.NoError(t, repos.Movements.Create(ctx, &entity.StockMovement{ID: "x", Code: "MOV-000004", ProductID: "p2"}))

	page, err := repos.Movements.ListByProduct(ctx, "p1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "MOV-000003", page[0].Code)

	history, err := repos.Movements.History(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "MOV-000001", history[0].Code)
}
