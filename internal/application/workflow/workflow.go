// Package workflow orquesta el ciclo documental pedido → orden de compra → factura →
// remisión → pagos. Cada operación corre en una sola transacción: lectura, recálculo de
// precios, movimientos de stock y persistencia se confirman juntos o no se confirma nada.
// Los conflictos de concurrencia se devuelven al caller (domain.ErrConcurrentModification),
// nunca se reintentan aquí.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Distribucion-api/internal/application/inventory"
	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/pricing"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// StockLedger libro de stock que usa el orquestador para las entregas.
type StockLedger interface {
	ApplyInTx(ctx context.Context, r repository.Repos, in inventory.MovementInput) (*entity.StockMovement, *entity.Product, error)
	Report(mov *entity.StockMovement, product *entity.Product)
}

// Orchestrator casos de uso del flujo documental.
type Orchestrator struct {
	store  repository.Store
	engine pricing.Engine
	ledger StockLedger
	log    *logger.Logger
}

// NewOrchestrator construye el orquestador con sus dependencias inyectadas.
func NewOrchestrator(store repository.Store, engine pricing.Engine, ledger StockLedger, log *logger.Logger) *Orchestrator {
	return &Orchestrator{store: store, engine: engine, ledger: ledger, log: log}
}

func now() time.Time { return time.Now().UTC() }

func requireActor(actorID string) error {
	if actorID == "" {
		return fmt.Errorf("%w: actor requerido", domain.ErrUnauthorized)
	}
	return nil
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrConflict, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func parseUnit(s string) (pricing.DiscountUnit, error) {
	u, err := pricing.ParseDiscountUnit(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return u, nil
}

// isNotFound distingue "no existe dependiente" de un error real de lectura.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func (o *Orchestrator) logTransition(doc, code string, from, to fmt.Stringer, actorID string) {
	o.log.Info().
		Str("document", doc).
		Str("code", code).
		Str("from", from.String()).
		Str("to", to.String()).
		Str("actor", actorID).
		Msg("transición de estado")
}

func (o *Orchestrator) logCreated(doc, code, source, actorID string) {
	ev := o.log.Info().Str("document", doc).Str("code", code).Str("actor", actorID)
	if source != "" {
		ev = ev.Str("source", source)
	}
	ev.Msg("documento creado")
}

// loadInvoice lee la factura con sus pagos y recalcula totales y saldo.
func (o *Orchestrator) loadInvoice(ctx context.Context, r repository.Repos, id string) (*entity.Invoice, []entity.Payment, error) {
	inv, err := r.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	payments, err := r.Payments.ListByInvoice(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := inv.Recalculate(o.engine); err != nil {
		return nil, nil, err
	}
	inv.ApplyPayments(payments)
	return inv, payments, nil
}

func notFoundItem(noteCode, itemID string) error {
	return fmt.Errorf("%w: línea %s de la remisión %s", domain.ErrNotFound, itemID, noteCode)
}
