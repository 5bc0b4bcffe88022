package repository

import "context"

// CodeAllocator entrega códigos únicos y crecientes por prefijo (SO-000001, PO-000001...).
// Debe invocarse dentro de la misma transacción que persiste la entidad.
type CodeAllocator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// Repos agrupa los repositorios atados a una misma transacción (o al pool).
type Repos struct {
	Products       ProductRepository
	Movements      StockMovementRepository
	Orders         OrderRepository
	PurchaseOrders PurchaseOrderRepository
	Invoices       InvoiceRepository
	DeliveryNotes  DeliveryNoteRepository
	Payments       PaymentRepository
	Codes          CodeAllocator
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Store da acceso de solo lectura fuera de transacción y el runner transaccional.
type Store interface {
	TxRunner
	Repos() Repos
}
