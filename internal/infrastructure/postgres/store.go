package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

//go:embed schema.sql
var schema string

// Store agrupa los repositorios sobre el pool y abre transacciones para los casos de uso.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore construye el store con el pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Repos repositorios atados al pool, para lecturas fuera de transacción.
func (s *Store) Repos() repository.Repos {
	return reposFor(s.pool)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Read committed más SELECT ... FOR UPDATE sobre el producto serializa los movimientos de un mismo SKU.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translate(err, "commit", "transacción", "")
	}
	return nil
}

// Migrate aplica el esquema embebido. Todas las sentencias son IF NOT EXISTS.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}

func reposFor(q Querier) repository.Repos {
	return repository.Repos{
		Products:       NewProductRepository(q),
		Movements:      NewStockMovementRepository(q),
		Orders:         NewOrderRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Invoices:       NewInvoiceRepository(q),
		DeliveryNotes:  NewDeliveryNoteRepository(q),
		Payments:       NewPaymentRepository(q),
		Codes:          NewCodeAllocator(q),
	}
}
