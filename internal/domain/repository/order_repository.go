package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// OrderRepository persiste pedidos con sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// Update guarda cabecera y totales de línea con control optimista de versión.
	Update(ctx context.Context, order *entity.Order) error
}
