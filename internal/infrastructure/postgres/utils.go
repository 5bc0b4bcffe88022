package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Distribucion-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// activeIndexes índices parciales que admiten un único dependiente activo (o una llave de
// idempotencia). Chocar con uno significa que otra transacción derivó primero: reintentar
// la operación devuelve el documento existente.
var activeIndexes = map[string]bool{
	"ux_purchase_orders_active_order":   true,
	"ux_invoices_active_purchase_order": true,
	"ux_delivery_notes_active_invoice":  true,
	"ux_payments_idempotency":           true,
}

// isActiveDependentViolation 23505 sobre uno de activeIndexes.
func isActiveDependentViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && activeIndexes[pgErr.ConstraintName]
}

// isSerializationFailure 40001 (serialization_failure) o 40P01 (deadlock_detected).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// translate convierte errores del driver en los sentinelas del dominio.
func translate(err error, op, kind, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, key)
	case isActiveDependentViolation(err):
		return fmt.Errorf("%w: %s %s", domain.ErrConcurrentModification, kind, key)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s %s", domain.ErrDuplicate, kind, key)
	case isSerializationFailure(err):
		return fmt.Errorf("%w: %s %s", domain.ErrConcurrentModification, kind, key)
	default:
		return fmt.Errorf("%s %s: %w", op, kind, err)
	}
}

// checkVersion interpreta el resultado de un UPDATE ... WHERE version = $n.
func checkVersion(tag pgconn.CommandTag, kind, id string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrConcurrentModification, kind, id)
	}
	return nil
}

// nullable guarda "" como NULL en columnas de referencia opcional.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
