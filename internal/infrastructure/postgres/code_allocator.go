package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.CodeAllocator = (*CodeAllocator)(nil)

// CodeAllocator numera documentos por prefijo. Dentro de una tx el contador queda bloqueado hasta el commit,
// así que un rollback no deja huecos.
type CodeAllocator struct {
	q Querier
}

func NewCodeAllocator(q Querier) *CodeAllocator {
	return &CodeAllocator{q: q}
}

func (c *CodeAllocator) Next(ctx context.Context, prefix string) (string, error) {
	query := `
		INSERT INTO document_sequences (prefix, last_value) VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := c.q.QueryRow(ctx, query, prefix).Scan(&n); err != nil {
		return "", translate(err, "next", "secuencia", prefix)
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}
