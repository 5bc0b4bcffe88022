package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
}

// stale también cubre el choque con un dependiente activo: otra transacción derivó primero.
func stale(kind, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrConcurrentModification, kind, id)
}

func duplicate(kind, key string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrDuplicate, kind, key)
}

// --- productos ---

type productRepo struct{ a accessor }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.write(func(s *state) error {
		if _, ok := s.products[p.ID]; ok {
			return duplicate("producto", p.ID)
		}
		for _, other := range s.products {
			if strings.EqualFold(other.Code, p.Code) {
				return duplicate("producto con código", p.Code)
			}
		}
		p.Version = 1
		s.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(s *state) error {
		p, ok := s.products[id]
		if !ok {
			return notFound("producto", id)
		}
		out = &p
		return nil
	})
	return out, err
}

// GetForUpdate el lock global de la transacción ya serializa el acceso.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(s *state) error {
		for _, p := range s.products {
			if strings.EqualFold(p.Code, code) {
				p := p
				out = &p
				return nil
			}
		}
		return notFound("producto con código", code)
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.a.write(func(s *state) error {
		cur, ok := s.products[p.ID]
		if !ok {
			return notFound("producto", p.ID)
		}
		if cur.Version != p.Version {
			return stale("producto", p.ID)
		}
		p.Version++
		s.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.read(func(s *state) error {
		search := strings.ToLower(strings.TrimSpace(f.Search))
		for _, p := range s.products {
			if f.ActiveOnly && !p.Active {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Code), search) && !strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, f.Limit, f.Offset), err
}

func (r *productRepo) ListBelowMinimum(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.read(func(s *state) error {
		for _, p := range s.products {
			if p.Active && p.BelowMinimum() {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// --- movimientos ---

type movementRepo struct{ a accessor }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.a.write(func(s *state) error {
		s.movements = append(s.movements, *m)
		return nil
	})
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.a.read(func(s *state) error {
		for i := len(s.movements) - 1; i >= 0; i-- {
			if s.movements[i].ProductID == productID {
				m := s.movements[i]
				out = append(out, &m)
			}
		}
		return nil
	})
	return paginate(out, limit, offset), err
}

func (r *movementRepo) History(_ context.Context, productID string) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	err := r.a.read(func(s *state) error {
		for _, m := range s.movements {
			if m.ProductID == productID {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) ListByReference(_ context.Context, reference string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.a.read(func(s *state) error {
		for _, m := range s.movements {
			if m.Reference == reference {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

// --- pedidos ---

type orderRepo struct{ a accessor }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.a.write(func(s *state) error {
		if _, ok := s.orders[o.ID]; ok {
			return duplicate("pedido", o.ID)
		}
		o.Version = 1
		c := *o
		c.Items = append([]entity.OrderItem(nil), o.Items...)
		s.orders[o.ID] = c
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.a.read(func(s *state) error {
		o, ok := s.orders[id]
		if !ok {
			return notFound("pedido", id)
		}
		o.Items = append([]entity.OrderItem(nil), o.Items...)
		out = &o
		return nil
	})
	return out, err
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order) error {
	return r.a.write(func(s *state) error {
		cur, ok := s.orders[o.ID]
		if !ok {
			return notFound("pedido", o.ID)
		}
		if cur.Version != o.Version {
			return stale("pedido", o.ID)
		}
		o.Version++
		c := *o
		c.Items = append([]entity.OrderItem(nil), o.Items...)
		s.orders[o.ID] = c
		return nil
	})
}

// --- órdenes de compra ---

type purchaseOrderRepo struct{ a accessor }

func (r *purchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.a.write(func(s *state) error {
		if _, ok := s.purchaseOrders[po.ID]; ok {
			return duplicate("orden de compra", po.ID)
		}
		// equivalente al índice único parcial de postgres
		if po.OrderID != "" && po.Status != entity.PurchaseOrderStatusCancelled {
			for _, other := range s.purchaseOrders {
				if other.OrderID == po.OrderID && other.Status != entity.PurchaseOrderStatusCancelled {
					return stale("orden de compra activa para pedido", po.OrderID)
				}
			}
		}
		po.Version = 1
		c := *po
		c.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
		s.purchaseOrders[po.ID] = c
		return nil
	})
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.a.read(func(s *state) error {
		po, ok := s.purchaseOrders[id]
		if !ok {
			return notFound("orden de compra", id)
		}
		po.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
		out = &po
		return nil
	})
	return out, err
}

func (r *purchaseOrderRepo) GetActiveByOrder(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	list, err := r.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for _, po := range list {
		if po.Status != entity.PurchaseOrderStatusCancelled {
			return po, nil
		}
	}
	return nil, notFound("orden de compra activa para pedido", orderID)
}

func (r *purchaseOrderRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.a.read(func(s *state) error {
		for _, po := range s.purchaseOrders {
			if po.OrderID == orderID {
				po.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
				po := po
				out = append(out, &po)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *purchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	return r.a.write(func(s *state) error {
		cur, ok := s.purchaseOrders[po.ID]
		if !ok {
			return notFound("orden de compra", po.ID)
		}
		if cur.Version != po.Version {
			return stale("orden de compra", po.ID)
		}
		po.Version++
		c := *po
		c.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
		s.purchaseOrders[po.ID] = c
		return nil
	})
}

// --- facturas ---

type invoiceRepo struct{ a accessor }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.a.write(func(s *state) error {
		if _, ok := s.invoices[inv.ID]; ok {
			return duplicate("factura", inv.ID)
		}
		if inv.PurchaseOrderID != "" && inv.Status != entity.InvoiceStatusCancelled {
			for _, other := range s.invoices {
				if other.PurchaseOrderID == inv.PurchaseOrderID && other.Status != entity.InvoiceStatusCancelled {
					return stale("factura activa para orden de compra", inv.PurchaseOrderID)
				}
			}
		}
		inv.Version = 1
		c := *inv
		c.Items = append([]entity.InvoiceItem(nil), inv.Items...)
		s.invoices[inv.ID] = c
		return nil
	})
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.a.read(func(s *state) error {
		inv, ok := s.invoices[id]
		if !ok {
			return notFound("factura", id)
		}
		inv.Items = append([]entity.InvoiceItem(nil), inv.Items...)
		out = &inv
		return nil
	})
	return out, err
}

func (r *invoiceRepo) GetActiveByPurchaseOrder(ctx context.Context, purchaseOrderID string) (*entity.Invoice, error) {
	list, err := r.ListByPurchaseOrder(ctx, purchaseOrderID)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		if inv.Status != entity.InvoiceStatusCancelled {
			return inv, nil
		}
	}
	return nil, notFound("factura activa para orden de compra", purchaseOrderID)
}

func (r *invoiceRepo) ListByPurchaseOrder(_ context.Context, purchaseOrderID string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.a.read(func(s *state) error {
		for _, inv := range s.invoices {
			if inv.PurchaseOrderID == purchaseOrderID {
				inv.Items = append([]entity.InvoiceItem(nil), inv.Items...)
				inv := inv
				out = append(out, &inv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.a.write(func(s *state) error {
		cur, ok := s.invoices[inv.ID]
		if !ok {
			return notFound("factura", inv.ID)
		}
		if cur.Version != inv.Version {
			return stale("factura", inv.ID)
		}
		inv.Version++
		c := *inv
		c.Items = append([]entity.InvoiceItem(nil), inv.Items...)
		s.invoices[inv.ID] = c
		return nil
	})
}

// --- remisiones ---

type deliveryNoteRepo struct{ a accessor }

func (r *deliveryNoteRepo) Create(_ context.Context, dn *entity.DeliveryNote) error {
	return r.a.write(func(s *state) error {
		if _, ok := s.deliveryNotes[dn.ID]; ok {
			return duplicate("remisión", dn.ID)
		}
		if dn.Status != entity.DeliveryNoteCancelled {
			for _, other := range s.deliveryNotes {
				if other.InvoiceID == dn.InvoiceID && other.Status != entity.DeliveryNoteCancelled {
					return stale("remisión activa para factura", dn.InvoiceID)
				}
			}
		}
		dn.Version = 1
		c := *dn
		c.Items = append([]entity.DeliveryNoteItem(nil), dn.Items...)
		s.deliveryNotes[dn.ID] = c
		return nil
	})
}

func (r *deliveryNoteRepo) GetByID(_ context.Context, id string) (*entity.DeliveryNote, error) {
	var out *entity.DeliveryNote
	err := r.a.read(func(s *state) error {
		dn, ok := s.deliveryNotes[id]
		if !ok {
			return notFound("remisión", id)
		}
		dn.Items = append([]entity.DeliveryNoteItem(nil), dn.Items...)
		out = &dn
		return nil
	})
	return out, err
}

func (r *deliveryNoteRepo) GetActiveByInvoice(ctx context.Context, invoiceID string) (*entity.DeliveryNote, error) {
	list, err := r.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	for _, dn := range list {
		if dn.Status != entity.DeliveryNoteCancelled {
			return dn, nil
		}
	}
	return nil, notFound("remisión activa para factura", invoiceID)
}

func (r *deliveryNoteRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.DeliveryNote, error) {
	var out []*entity.DeliveryNote
	err := r.a.read(func(s *state) error {
		for _, dn := range s.deliveryNotes {
			if dn.InvoiceID == invoiceID {
				dn.Items = append([]entity.DeliveryNoteItem(nil), dn.Items...)
				dn := dn
				out = append(out, &dn)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *deliveryNoteRepo) Update(_ context.Context, dn *entity.DeliveryNote) error {
	return r.a.write(func(s *state) error {
		cur, ok := s.deliveryNotes[dn.ID]
		if !ok {
			return notFound("remisión", dn.ID)
		}
		if cur.Version != dn.Version {
			return stale("remisión", dn.ID)
		}
		dn.Version++
		c := *dn
		c.Items = append([]entity.DeliveryNoteItem(nil), dn.Items...)
		s.deliveryNotes[dn.ID] = c
		return nil
	})
}

// --- pagos ---

type paymentRepo struct{ a accessor }

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.a.write(func(s *state) error {
		if _, ok := s.payments[p.ID]; ok {
			return duplicate("pago", p.ID)
		}
		if p.IdempotencyKey != "" {
			for _, other := range s.payments {
				if other.InvoiceID == p.InvoiceID && other.IdempotencyKey == p.IdempotencyKey {
					return stale("pago con llave", p.IdempotencyKey)
				}
			}
		}
		p.Version = 1
		s.payments[p.ID] = *p
		return nil
	})
}

func (r *paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.a.read(func(s *state) error {
		p, ok := s.payments[id]
		if !ok {
			return notFound("pago", id)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *paymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]entity.Payment, error) {
	var out []entity.Payment
	err := r.a.read(func(s *state) error {
		for _, p := range s.payments {
			if p.InvoiceID == invoiceID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *paymentRepo) GetByIdempotencyKey(_ context.Context, invoiceID, key string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.a.read(func(s *state) error {
		for _, p := range s.payments {
			if p.InvoiceID == invoiceID && p.IdempotencyKey == key {
				p := p
				out = &p
				return nil
			}
		}
		return notFound("pago con llave", key)
	})
	return out, err
}

func (r *paymentRepo) Update(_ context.Context, p *entity.Payment) error {
	return r.a.write(func(s *state) error {
		cur, ok := s.payments[p.ID]
		if !ok {
			return notFound("pago", p.ID)
		}
		if cur.Version != p.Version {
			return stale("pago", p.ID)
		}
		p.Version++
		s.payments[p.ID] = *p
		return nil
	})
}

// --- códigos ---

type codeAllocator struct{ a accessor }

func (c *codeAllocator) Next(_ context.Context, prefix string) (string, error) {
	var code string
	err := c.a.write(func(s *state) error {
		s.sequences[prefix]++
		code = fmt.Sprintf("%s-%06d", prefix, s.sequences[prefix])
		return nil
	})
	return code, err
}
