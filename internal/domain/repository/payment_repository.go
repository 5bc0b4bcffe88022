package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// PaymentRepository persiste pagos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]entity.Payment, error)
	// GetByIdempotencyKey ErrNotFound si la factura no tiene un pago con esa llave.
	GetByIdempotencyKey(ctx context.Context, invoiceID, key string) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
}
