package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// InvoiceRepository persiste facturas con sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetActiveByPurchaseOrder la factura no cancelada de la orden; ErrNotFound si no hay.
	GetActiveByPurchaseOrder(ctx context.Context, purchaseOrderID string) (*entity.Invoice, error)
	ListByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]*entity.Invoice, error)
	// Update guarda los tres ejes de estado y los montos con control optimista.
	Update(ctx context.Context, invoice *entity.Invoice) error
}
