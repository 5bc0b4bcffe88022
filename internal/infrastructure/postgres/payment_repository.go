package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos de factura. ux_payments_idempotency respalda los reintentos con la misma llave.
type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, code, invoice_id, amount, method, status, payment_date, reference, idempotency_key,
	version, created_by, created_at, updated_at`

func scanPayment(row pgx.Row) (entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID, &p.Code, &p.InvoiceID, &p.Amount, &p.Method, &p.Status, &p.PaymentDate, &p.Reference,
		&p.IdempotencyKey, &p.Version, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.InvoiceID, p.Amount, string(p.Method), string(p.Status), p.PaymentDate, p.Reference,
		p.IdempotencyKey, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert", "pago con llave", p.IdempotencyKey)
	}
	p.Version = 1
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "get", "pago", id)
	}
	return &p, nil
}

func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]entity.Payment, error) {
	rows, err := r.q.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE invoice_id = $1 ORDER BY code`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return list, nil
}

func (r *PaymentRepo) GetByIdempotencyKey(ctx context.Context, invoiceID, key string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 AND idempotency_key = $2`
	p, err := scanPayment(r.q.QueryRow(ctx, query, invoiceID, key))
	if err != nil {
		return nil, translate(err, "get", "pago con llave", key)
	}
	return &p, nil
}

func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	query := `
		UPDATE payments SET status = $1, reference = $2, updated_at = $3, version = version + 1
		WHERE id = $4 AND version = $5`
	tag, err := r.q.Exec(ctx, query, string(p.Status), p.Reference, p.UpdatedAt, p.ID, p.Version)
	if err != nil {
		return translate(err, "update", "pago", p.ID)
	}
	if err := checkVersion(tag, "pago", p.ID); err != nil {
		return err
	}
	p.Version++
	return nil
}
