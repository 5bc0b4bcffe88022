package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos, solo inserción. seq fija el orden de aplicación.
type StockMovementRepo struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, code, product_id, type, direction, quantity, requested_quantity, previous_stock, new_stock,
	unit_cost, reference, notes, actor_id, created_at`

func scanMovement(row pgx.Row) (entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.Code, &m.ProductID, &m.Type, &m.Direction, &m.Quantity, &m.RequestedQuantity,
		&m.PreviousStock, &m.NewStock, &m.UnitCost, &m.Reference, &m.Notes, &m.ActorID, &m.CreatedAt,
	)
	return m, err
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Code, m.ProductID, string(m.Type), string(m.Direction), m.Quantity, m.RequestedQuantity,
		m.PreviousStock, m.NewStock, m.UnitCost, m.Reference, m.Notes, m.ActorID, m.CreatedAt,
	)
	if err != nil {
		return translate(err, "insert", "movimiento", m.Code)
	}
	return nil
}

// ListByProduct más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1 ORDER BY seq DESC`
	args := []any{productID}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return r.queryPtrs(ctx, query, args...)
}

// History todos los movimientos del producto en orden de aplicación.
func (r *StockMovementRepo) History(ctx context.Context, productID string) ([]entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE product_id = $1 ORDER BY seq`, productID)
	if err != nil {
		return nil, fmt.Errorf("history movements: %w", err)
	}
	defer rows.Close()
	var list []entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *StockMovementRepo) ListByReference(ctx context.Context, reference string) ([]*entity.StockMovement, error) {
	return r.queryPtrs(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE reference = $1 ORDER BY seq`, reference)
}

func (r *StockMovementRepo) queryPtrs(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
