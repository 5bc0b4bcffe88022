package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Distribucion-api/internal/domain"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"sin filas", pgx.ErrNoRows, domain.ErrNotFound},
		{"único", &pgconn.PgError{Code: "23505"}, domain.ErrDuplicate},
		{"único en código", &pgconn.PgError{Code: "23505", ConstraintName: "ux_products_code"}, domain.ErrDuplicate},
		{"orden de compra activa", &pgconn.PgError{Code: "23505", ConstraintName: "ux_purchase_orders_active_order"}, domain.ErrConcurrentModification},
		{"factura activa", &pgconn.PgError{Code: "23505", ConstraintName: "ux_invoices_active_purchase_order"}, domain.ErrConcurrentModification},
		{"remisión activa", &pgconn.PgError{Code: "23505", ConstraintName: "ux_delivery_notes_active_invoice"}, domain.ErrConcurrentModification},
		{"llave de pago", &pgconn.PgError{Code: "23505", ConstraintName: "ux_payments_idempotency"}, domain.ErrConcurrentModification},
		{"serialización", &pgconn.PgError{Code: "40001"}, domain.ErrConcurrentModification},
		{"deadlock", fmt.Errorf("envuelto: %w", &pgconn.PgError{Code: "40P01"}), domain.ErrConcurrentModification},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.err, "get", "producto", "p1")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.NoError(t, translate(nil, "get", "producto", "p1"))

	other := errors.New("conexión cerrada")
	err := translate(other, "get", "producto", "p1")
	assert.ErrorIs(t, err, other)
	assert.False(t, domain.IsRetryable(err))
}

func TestCheckVersion(t *testing.T) {
	assert.ErrorIs(t, checkVersion(pgconn.NewCommandTag("UPDATE 0"), "factura", "f1"), domain.ErrConcurrentModification)
	assert.NoError(t, checkVersion(pgconn.NewCommandTag("UPDATE 1"), "factura", "f1"))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "po-1", deref(nullable("po-1")))
	assert.Equal(t, "", deref(nil))
}

func TestResolveIPv4_Literal(t *testing.T) {
	ip, err := resolveIPv4("127.0.0.1")
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)

	_, err = resolveIPv4("::1")
	assert.ErrorIs(t, err, errNoIPv4)
}
