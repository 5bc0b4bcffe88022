package workflow

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

// GetOrderChain arma la cadena documental del pedido. Las ramas de cada orden de
// compra y de cada factura se leen en paralelo; el primer error cancela el resto.
func (o *Orchestrator) GetOrderChain(ctx context.Context, orderID string) (*dto.OrderChainResponse, error) {
	repos := o.store.Repos()
	order, err := repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Recalculate(o.engine); err != nil {
		return nil, err
	}
	pos, err := repos.PurchaseOrders.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	out := &dto.OrderChainResponse{
		Order:          *toOrderResponse(order),
		PurchaseOrders: make([]dto.PurchaseOrderChainResponse, len(pos)),
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, po := range pos {
		i, po := i, po
		g.Go(func() error {
			branch, err := o.purchaseOrderBranch(gctx, repos, po)
			if err != nil {
				return err
			}
			out.PurchaseOrders[i] = *branch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *Orchestrator) purchaseOrderBranch(ctx context.Context, repos repository.Repos, po *entity.PurchaseOrder) (*dto.PurchaseOrderChainResponse, error) {
	if err := po.Recalculate(o.engine); err != nil {
		return nil, err
	}
	invoices, err := repos.Invoices.ListByPurchaseOrder(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	branch := &dto.PurchaseOrderChainResponse{
		PurchaseOrder: *toPurchaseOrderResponse(po),
		Invoices:      make([]dto.InvoiceChainResponse, len(invoices)),
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, inv := range invoices {
		i, id := i, inv.ID
		g.Go(func() error {
			loaded, payments, err := o.loadInvoice(gctx, repos, id)
			if err != nil {
				return err
			}
			notes, err := repos.DeliveryNotes.ListByInvoice(gctx, id)
			if err != nil {
				return err
			}
			ic := dto.InvoiceChainResponse{
				Invoice:       *toInvoiceResponse(loaded),
				Payments:      make([]dto.PaymentResponse, 0, len(payments)),
				DeliveryNotes: make([]dto.DeliveryNoteResponse, 0, len(notes)),
			}
			for j := range payments {
				ic.Payments = append(ic.Payments, *toPaymentResponse(&payments[j]))
			}
			for _, dn := range notes {
				ic.DeliveryNotes = append(ic.DeliveryNotes, *toDeliveryNoteResponse(dn))
			}
			branch.Invoices[i] = ic
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return branch, nil
}
