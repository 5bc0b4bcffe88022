package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas y sus líneas.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, code, customer_id, customer_name, purchase_order_id, status, payment_status, preparation_status,
	issue_date, payment_deadline, discount, discount_unit, tax_percentage, shipping_cost, subtotal, discount_total,
	tax_amount, total_amount, paid_amount, remaining_amount, notes, version, created_by, created_at, updated_at`

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, 1, $22, $23, $24)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Code, inv.CustomerID, inv.CustomerName, nullable(inv.PurchaseOrderID), string(inv.Status),
		string(inv.PaymentStatus), string(inv.PreparationStatus), inv.IssueDate, inv.PaymentDeadline, inv.Discount,
		string(inv.DiscountUnit), inv.TaxPercentage, inv.ShippingCost, inv.Subtotal, inv.DiscountTotal, inv.TaxAmount,
		inv.TotalAmount, inv.PaidAmount, inv.RemainingAmount, inv.Notes, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "factura activa para orden de compra", inv.PurchaseOrderID)
	}
	itemQuery := `
		INSERT INTO invoice_items (id, invoice_id, position, product_id, quantity, unit_price, discount, discount_unit, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, it := range inv.Items {
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, inv.ID, i, it.ProductID, it.Quantity, it.UnitPrice, it.Discount, string(it.DiscountUnit), it.Total,
		)
		if err != nil {
			return translate(err, "insert", "línea de factura", it.ID)
		}
	}
	inv.Version = 1
	return nil
}

func (r *InvoiceRepo) scan(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv  entity.Invoice
		poID *string
	)
	err := row.Scan(
		&inv.ID, &inv.Code, &inv.CustomerID, &inv.CustomerName, &poID, &inv.Status, &inv.PaymentStatus,
		&inv.PreparationStatus, &inv.IssueDate, &inv.PaymentDeadline, &inv.Discount, &inv.DiscountUnit,
		&inv.TaxPercentage, &inv.ShippingCost, &inv.Subtotal, &inv.DiscountTotal, &inv.TaxAmount, &inv.TotalAmount,
		&inv.PaidAmount, &inv.RemainingAmount, &inv.Notes, &inv.Version, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.PurchaseOrderID = deref(poID)
	return &inv, nil
}

// GetByID obtiene una factura con sus líneas.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := r.scan(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "get", "factura", id)
	}
	return inv, r.loadItems(ctx, inv)
}

func (r *InvoiceRepo) GetActiveByPurchaseOrder(ctx context.Context, purchaseOrderID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE purchase_order_id = $1 AND status <> $2`
	inv, err := r.scan(r.q.QueryRow(ctx, query, purchaseOrderID, string(entity.InvoiceStatusCancelled)))
	if err != nil {
		return nil, translate(err, "get", "factura activa para orden de compra", purchaseOrderID)
	}
	return inv, r.loadItems(ctx, inv)
}

func (r *InvoiceRepo) ListByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE purchase_order_id = $1 ORDER BY code`, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Invoice, error) {
		return r.scan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	for _, inv := range list {
		if err := r.loadItems(ctx, inv); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *InvoiceRepo) loadItems(ctx context.Context, inv *entity.Invoice) error {
	query := `
		SELECT id, invoice_id, product_id, quantity, unit_price, discount, discount_unit, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, inv.ID)
	if err != nil {
		return fmt.Errorf("list invoice items: %w", err)
	}
	inv.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.InvoiceItem, error) {
		var it entity.InvoiceItem
		err := row.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Discount, &it.DiscountUnit, &it.Total)
		return it, err
	})
	return err
}

// Update cabecera: los tres ejes de estado y los montos derivados de pagos.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $1, payment_status = $2, preparation_status = $3, payment_deadline = $4, subtotal = $5,
			discount_total = $6, tax_amount = $7, total_amount = $8, paid_amount = $9, remaining_amount = $10,
			notes = $11, updated_at = $12, version = version + 1
		WHERE id = $13 AND version = $14`
	tag, err := r.q.Exec(ctx, query,
		string(inv.Status), string(inv.PaymentStatus), string(inv.PreparationStatus), inv.PaymentDeadline, inv.Subtotal,
		inv.DiscountTotal, inv.TaxAmount, inv.TotalAmount, inv.PaidAmount, inv.RemainingAmount,
		inv.Notes, inv.UpdatedAt, inv.ID, inv.Version,
	)
	if err != nil {
		return translate(err, "update", "factura", inv.ID)
	}
	if err := checkVersion(tag, "factura", inv.ID); err != nil {
		return err
	}
	inv.Version++
	return nil
}
