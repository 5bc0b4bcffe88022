package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// PurchaseOrderRepository persiste órdenes de compra con sus líneas.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetActiveByOrder la orden no cancelada derivada del pedido; ErrNotFound si no hay.
	GetActiveByOrder(ctx context.Context, orderID string) (*entity.PurchaseOrder, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
}
