package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.DeliveryNoteRepository = (*DeliveryNoteRepo)(nil)

// DeliveryNoteRepo remisiones. Update reescribe delivered_qty de cada línea junto con la cabecera.
type DeliveryNoteRepo struct {
	q Querier
}

func NewDeliveryNoteRepository(q Querier) *DeliveryNoteRepo {
	return &DeliveryNoteRepo{q: q}
}

const deliveryNoteColumns = `id, code, invoice_id, status, driver_name, vehicle_plate, delivery_address, notes,
	shipped_at, delivered_at, version, created_by, created_at, updated_at`

func (r *DeliveryNoteRepo) Create(ctx context.Context, dn *entity.DeliveryNote) error {
	query := `INSERT INTO delivery_notes (` + deliveryNoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		dn.ID, dn.Code, dn.InvoiceID, string(dn.Status), dn.DriverName, dn.VehiclePlate, dn.DeliveryAddress, dn.Notes,
		dn.ShippedAt, dn.DeliveredAt, dn.CreatedBy, dn.CreatedAt, dn.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "remisión activa para factura", dn.InvoiceID)
	}
	itemQuery := `
		INSERT INTO delivery_note_items (id, delivery_note_id, position, invoice_item_id, product_id, ordered_qty, delivered_qty)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, it := range dn.Items {
		if _, err := r.q.Exec(ctx, itemQuery, it.ID, dn.ID, i, it.InvoiceItemID, it.ProductID, it.OrderedQty, it.DeliveredQty); err != nil {
			return translate(err, "insert", "línea de remisión", it.ID)
		}
	}
	dn.Version = 1
	return nil
}

func (r *DeliveryNoteRepo) scan(row pgx.Row) (*entity.DeliveryNote, error) {
	var dn entity.DeliveryNote
	err := row.Scan(
		&dn.ID, &dn.Code, &dn.InvoiceID, &dn.Status, &dn.DriverName, &dn.VehiclePlate, &dn.DeliveryAddress, &dn.Notes,
		&dn.ShippedAt, &dn.DeliveredAt, &dn.Version, &dn.CreatedBy, &dn.CreatedAt, &dn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &dn, nil
}

func (r *DeliveryNoteRepo) GetByID(ctx context.Context, id string) (*entity.DeliveryNote, error) {
	dn, err := r.scan(r.q.QueryRow(ctx, `SELECT `+deliveryNoteColumns+` FROM delivery_notes WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "get", "remisión", id)
	}
	return dn, r.loadItems(ctx, dn)
}

func (r *DeliveryNoteRepo) GetActiveByInvoice(ctx context.Context, invoiceID string) (*entity.DeliveryNote, error) {
	query := `SELECT ` + deliveryNoteColumns + ` FROM delivery_notes WHERE invoice_id = $1 AND status <> $2`
	dn, err := r.scan(r.q.QueryRow(ctx, query, invoiceID, string(entity.DeliveryNoteCancelled)))
	if err != nil {
		return nil, translate(err, "get", "remisión activa para factura", invoiceID)
	}
	return dn, r.loadItems(ctx, dn)
}

func (r *DeliveryNoteRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.DeliveryNote, error) {
	rows, err := r.q.Query(ctx, `SELECT `+deliveryNoteColumns+` FROM delivery_notes WHERE invoice_id = $1 ORDER BY code`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list delivery notes: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.DeliveryNote, error) {
		return r.scan(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan delivery note: %w", err)
	}
	for _, dn := range list {
		if err := r.loadItems(ctx, dn); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *DeliveryNoteRepo) loadItems(ctx context.Context, dn *entity.DeliveryNote) error {
	query := `
		SELECT id, delivery_note_id, invoice_item_id, product_id, ordered_qty, delivered_qty
		FROM delivery_note_items WHERE delivery_note_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, dn.ID)
	if err != nil {
		return fmt.Errorf("list delivery note items: %w", err)
	}
	dn.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DeliveryNoteItem, error) {
		var it entity.DeliveryNoteItem
		err := row.Scan(&it.ID, &it.DeliveryNoteID, &it.InvoiceItemID, &it.ProductID, &it.OrderedQty, &it.DeliveredQty)
		return it, err
	})
	return err
}

func (r *DeliveryNoteRepo) Update(ctx context.Context, dn *entity.DeliveryNote) error {
	query := `
		UPDATE delivery_notes
		SET status = $1, driver_name = $2, vehicle_plate = $3, delivery_address = $4, notes = $5,
			shipped_at = $6, delivered_at = $7, updated_at = $8, version = version + 1
		WHERE id = $9 AND version = $10`
	tag, err := r.q.Exec(ctx, query,
		string(dn.Status), dn.DriverName, dn.VehiclePlate, dn.DeliveryAddress, dn.Notes,
		dn.ShippedAt, dn.DeliveredAt, dn.UpdatedAt, dn.ID, dn.Version,
	)
	if err != nil {
		return translate(err, "update", "remisión", dn.ID)
	}
	if err := checkVersion(tag, "remisión", dn.ID); err != nil {
		return err
	}
	for _, it := range dn.Items {
		_, err := r.q.Exec(ctx, `UPDATE delivery_note_items SET delivered_qty = $1 WHERE id = $2 AND delivery_note_id = $3`,
			it.DeliveredQty, it.ID, dn.ID)
		if err != nil {
			return translate(err, "update", "línea de remisión", it.ID)
		}
	}
	dn.Version++
	return nil
}
