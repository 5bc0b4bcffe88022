package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra. El índice ux_purchase_orders_active_order impide dos activas por pedido.
type PurchaseOrderRepo struct {
	q Querier
}

func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, code, order_id, customer_id, customer_name, status, discount, discount_unit, tax_percentage,
	shipping_cost, subtotal, discount_total, tax_amount, total_amount, notes, version, created_by, created_at, updated_at`

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.Code, nullable(po.OrderID), po.CustomerID, po.CustomerName, string(po.Status), po.Discount,
		string(po.DiscountUnit), po.TaxPercentage, po.ShippingCost, po.Subtotal, po.DiscountTotal, po.TaxAmount,
		po.TotalAmount, po.Notes, po.CreatedBy, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "orden de compra activa para pedido", po.OrderID)
	}
	itemQuery := `
		INSERT INTO purchase_order_items (id, purchase_order_id, position, product_id, quantity, price, discount, discount_unit, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, it := range po.Items {
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, po.ID, i, it.ProductID, it.Quantity, it.Price, it.Discount, string(it.DiscountUnit), it.Total,
		)
		if err != nil {
			return translate(err, "insert", "línea de orden de compra", it.ID)
		}
	}
	po.Version = 1
	return nil
}

func (r *PurchaseOrderRepo) scan(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		po      entity.PurchaseOrder
		orderID *string
	)
	err := row.Scan(
		&po.ID, &po.Code, &orderID, &po.CustomerID, &po.CustomerName, &po.Status, &po.Discount, &po.DiscountUnit,
		&po.TaxPercentage, &po.ShippingCost, &po.Subtotal, &po.DiscountTotal, &po.TaxAmount, &po.TotalAmount,
		&po.Notes, &po.Version, &po.CreatedBy, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	po.OrderID = deref(orderID)
	return &po, nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := r.scan(r.q.QueryRow(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "get", "orden de compra", id)
	}
	return po, r.loadItems(ctx, po)
}

func (r *PurchaseOrderRepo) GetActiveByOrder(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE order_id = $1 AND status <> $2`
	po, err := r.scan(r.q.QueryRow(ctx, query, orderID, string(entity.PurchaseOrderStatusCancelled)))
	if err != nil {
		return nil, translate(err, "get", "orden de compra activa para pedido", orderID)
	}
	return po, r.loadItems(ctx, po)
}

func (r *PurchaseOrderRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE order_id = $1 ORDER BY code`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.PurchaseOrder, error) {
		return r.scan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan purchase order: %w", err)
	}
	for _, po := range list {
		if err := r.loadItems(ctx, po); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		SELECT id, purchase_order_id, product_id, quantity, price, discount, discount_unit, total
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, po.ID)
	if err != nil {
		return fmt.Errorf("list purchase order items: %w", err)
	}
	po.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.PurchaseOrderItem, error) {
		var it entity.PurchaseOrderItem
		err := row.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.Price, &it.Discount, &it.DiscountUnit, &it.Total)
		return it, err
	})
	return err
}

// Update cabecera; los montos se recalculan en el dominio y se guardan tal cual.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET status = $1, subtotal = $2, discount_total = $3, tax_amount = $4, total_amount = $5, notes = $6,
			updated_at = $7, version = version + 1
		WHERE id = $8 AND version = $9`
	tag, err := r.q.Exec(ctx, query,
		string(po.Status), po.Subtotal, po.DiscountTotal, po.TaxAmount, po.TotalAmount, po.Notes, po.UpdatedAt, po.ID, po.Version,
	)
	if err != nil {
		return translate(err, "update", "orden de compra", po.ID)
	}
	if err := checkVersion(tag, "orden de compra", po.ID); err != nil {
		return err
	}
	po.Version++
	return nil
}
