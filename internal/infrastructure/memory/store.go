// Package memory implementa los puertos de repositorio en memoria con semántica
// transaccional: cada Run trabaja sobre una copia del estado que solo se publica
// si el callback termina sin error.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

type state struct {
	products       map[string]entity.Product
	movements      []entity.StockMovement
	orders         map[string]entity.Order
	purchaseOrders map[string]entity.PurchaseOrder
	invoices       map[string]entity.Invoice
	deliveryNotes  map[string]entity.DeliveryNote
	payments       map[string]entity.Payment
	sequences      map[string]int64
}

func newState() *state {
	return &state{
		products:       map[string]entity.Product{},
		orders:         map[string]entity.Order{},
		purchaseOrders: map[string]entity.PurchaseOrder{},
		invoices:       map[string]entity.Invoice{},
		deliveryNotes:  map[string]entity.DeliveryNote{},
		payments:       map[string]entity.Payment{},
		sequences:      map[string]int64{},
	}
}

// clone copia profunda; las líneas de cada documento se copian para que la
// transacción no comparta slices con el estado publicado.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.orders {
		v.Items = append([]entity.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range s.purchaseOrders {
		v.Items = append([]entity.PurchaseOrderItem(nil), v.Items...)
		c.purchaseOrders[k] = v
	}
	for k, v := range s.invoices {
		v.Items = append([]entity.InvoiceItem(nil), v.Items...)
		c.invoices[k] = v
	}
	for k, v := range s.deliveryNotes {
		v.Items = append([]entity.DeliveryNoteItem(nil), v.Items...)
		c.deliveryNotes[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// accessor abstrae cómo un repositorio llega al estado: directo dentro de una
// transacción o tomando el lock del Store fuera de ella.
type accessor interface {
	read(fn func(s *state) error) error
	write(fn func(s *state) error) error
}

// txAccessor opera sobre la copia privada de la transacción; el lock ya lo tiene Run.
type txAccessor struct{ s *state }

func (a txAccessor) read(fn func(s *state) error) error  { return fn(a.s) }
func (a txAccessor) write(fn func(s *state) error) error { return fn(a.s) }

// Store almacén en memoria. Las transacciones se serializan con un lock global,
// equivalente a aislamiento SERIALIZABLE.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

func (st *Store) read(fn func(s *state) error) error {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return fn(st.state)
}

func (st *Store) write(fn func(s *state) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	c := st.state.clone()
	if err := fn(c); err != nil {
		return err
	}
	st.state = c
	return nil
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
func (st *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	tx := st.state.clone()
	if err := fn(reposFor(txAccessor{s: tx})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	st.state = tx
	return nil
}

// Repos repositorios fuera de transacción; cada llamada es atómica por sí sola.
func (st *Store) Repos() repository.Repos {
	return reposFor(st)
}

func reposFor(a accessor) repository.Repos {
	return repository.Repos{
		Products:       &productRepo{a: a},
		Movements:      &movementRepo{a: a},
		Orders:         &orderRepo{a: a},
		PurchaseOrders: &purchaseOrderRepo{a: a},
		Invoices:       &invoiceRepo{a: a},
		DeliveryNotes:  &deliveryNoteRepo{a: a},
		Payments:       &paymentRepo{a: a},
		Codes:          &codeAllocator{a: a},
	}
}
