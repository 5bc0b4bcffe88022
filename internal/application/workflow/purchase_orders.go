package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

// GetPurchaseOrder devuelve la orden de compra con totales recalculados.
func (o *Orchestrator) GetPurchaseOrder(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := o.store.Repos().PurchaseOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := po.Recalculate(o.engine); err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

// ChangePurchaseOrderStatus aplica una transición de la orden de compra.
func (o *Orchestrator) ChangePurchaseOrderStatus(ctx context.Context, actorID, id, status string) (*dto.PurchaseOrderResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	target, err := entity.ParsePurchaseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	var (
		po   *entity.PurchaseOrder
		from entity.PurchaseOrderStatus
	)
	err = o.store.Run(ctx, func(r repository.Repos) error {
		var err error
		if po, err = r.PurchaseOrders.GetByID(ctx, id); err != nil {
			return err
		}
		from = po.Status
		if err := po.TransitionTo(target, now()); err != nil {
			return err
		}
		if err := po.Recalculate(o.engine); err != nil {
			return err
		}
		return r.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	o.logTransition("purchase_order", po.Code, from, target, actorID)
	return toPurchaseOrderResponse(po), nil
}

// DeriveInvoice crea la factura de una orden de compra no cancelada. Idempotente:
// si la orden ya tiene una factura activa la devuelve (created=false).
func (o *Orchestrator) DeriveInvoice(ctx context.Context, actorID, purchaseOrderID string, req dto.DeriveInvoiceRequest) (*dto.InvoiceResponse, bool, error) {
	if err := requireActor(actorID); err != nil {
		return nil, false, err
	}
	var (
		inv     *entity.Invoice
		created bool
	)
	err := o.store.Run(ctx, func(r repository.Repos) error {
		po, err := r.PurchaseOrders.GetByID(ctx, purchaseOrderID)
		if err != nil {
			return err
		}
		existing, err := r.Invoices.GetActiveByPurchaseOrder(ctx, purchaseOrderID)
		switch {
		case err == nil:
			inv, _, err = o.loadInvoice(ctx, r, existing.ID)
			return err
		case !isNotFound(err):
			return err
		}
		if po.Status == entity.PurchaseOrderStatusCancelled {
			return conflict("la orden de compra %s está cancelada", po.Code)
		}

		deadline := req.PaymentDeadline
		if deadline == nil && po.OrderID != "" {
			order, err := r.Orders.GetByID(ctx, po.OrderID)
			if err != nil && !isNotFound(err) {
				return err
			}
			if order != nil {
				deadline = order.PaymentDeadline
			}
		}

		ts := now()
		inv = &entity.Invoice{
			ID:                uuid.New().String(),
			CustomerID:        po.CustomerID,
			CustomerName:      po.CustomerName,
			PurchaseOrderID:   po.ID,
			Status:            entity.InvoiceStatusDraft,
			PreparationStatus: entity.PreparationWaiting,
			IssueDate:         ts,
			PaymentDeadline:   deadline,
			Discount:          po.Discount,
			DiscountUnit:      po.DiscountUnit,
			TaxPercentage:     po.TaxPercentage,
			ShippingCost:      po.ShippingCost,
			Notes:             req.Notes,
			CreatedBy:         actorID,
			CreatedAt:         ts,
			UpdatedAt:         ts,
		}
		for _, it := range po.Items {
			inv.Items = append(inv.Items, entity.InvoiceItem{
				ID:           uuid.New().String(),
				InvoiceID:    inv.ID,
				ProductID:    it.ProductID,
				Quantity:     it.Quantity,
				UnitPrice:    it.Price,
				Discount:     it.Discount,
				DiscountUnit: it.DiscountUnit,
			})
		}
		if err := inv.Recalculate(o.engine); err != nil {
			return err
		}
		inv.ApplyPayments(nil)
		if inv.Code, err = r.Codes.Next(ctx, entity.CodePrefixInvoice); err != nil {
			return err
		}
		created = true
		return r.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		o.logCreated("invoice", inv.Code, purchaseOrderID, actorID)
	}
	return toInvoiceResponse(inv), created, nil
}
