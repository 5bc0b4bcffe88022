package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos de venta y sus líneas. Las líneas no cambian después de crear el pedido.
type OrderRepo struct {
	q Querier
}

func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, code, customer_id, customer_name, sales_actor_id, status, order_date, due_date,
			payment_deadline, discount, discount_unit, shipping_cost, subtotal, discount_total, total_amount,
			notes, version, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 1, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Code, o.CustomerID, o.CustomerName, o.SalesActorID, string(o.Status), o.OrderDate, o.DueDate,
		o.PaymentDeadline, o.Discount, string(o.DiscountUnit), o.ShippingCost, o.Subtotal, o.DiscountTotal, o.TotalAmount,
		o.Notes, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "pedido", o.Code)
	}
	itemQuery := `
		INSERT INTO order_items (id, order_id, position, product_id, quantity, unit_price, discount, discount_unit, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, it := range o.Items {
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, o.ID, i, it.ProductID, it.Quantity, it.UnitPrice, it.Discount, string(it.DiscountUnit), it.TotalPrice,
		)
		if err != nil {
			return translate(err, "insert", "línea de pedido", it.ID)
		}
	}
	o.Version = 1
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, code, customer_id, customer_name, sales_actor_id, status, order_date, due_date, payment_deadline,
			discount, discount_unit, shipping_cost, subtotal, discount_total, total_amount, notes, version,
			created_by, created_at, updated_at
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Code, &o.CustomerID, &o.CustomerName, &o.SalesActorID, &o.Status, &o.OrderDate, &o.DueDate,
		&o.PaymentDeadline, &o.Discount, &o.DiscountUnit, &o.ShippingCost, &o.Subtotal, &o.DiscountTotal,
		&o.TotalAmount, &o.Notes, &o.Version, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err, "get", "pedido", id)
	}
	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, discount, discount_unit, total_price
		FROM order_items WHERE order_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.OrderItem, error) {
		var it entity.OrderItem
		err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Discount, &it.DiscountUnit, &it.TotalPrice)
		return it, err
	})
}

// Update solo la cabecera: estado, fechas y notas.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $1, due_date = $2, payment_deadline = $3, notes = $4, updated_at = $5, version = version + 1
		WHERE id = $6 AND version = $7`
	tag, err := r.q.Exec(ctx, query, string(o.Status), o.DueDate, o.PaymentDeadline, o.Notes, o.UpdatedAt, o.ID, o.Version)
	if err != nil {
		return translate(err, "update", "pedido", o.ID)
	}
	if err := checkVersion(tag, "pedido", o.ID); err != nil {
		return err
	}
	o.Version++
	return nil
}
