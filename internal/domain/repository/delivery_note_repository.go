package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// DeliveryNoteRepository persiste remisiones con sus líneas.
type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *entity.DeliveryNote) error
	GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error)
	// GetActiveByInvoice la remisión no cancelada de la factura; ErrNotFound si no hay.
	GetActiveByInvoice(ctx context.Context, invoiceID string) (*entity.DeliveryNote, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.DeliveryNote, error)
	// Update guarda la cabecera y las cantidades entregadas por línea con control optimista.
	Update(ctx context.Context, note *entity.DeliveryNote) error
}
