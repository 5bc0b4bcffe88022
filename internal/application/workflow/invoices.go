package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

// CreateInvoice factura directa, sin orden de compra.
func (o *Orchestrator) CreateInvoice(ctx context.Context, actorID string, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if req.CustomerID == "" || len(req.Items) == 0 {
		return nil, invalid("la factura requiere cliente y al menos una línea")
	}
	headerUnit, err := parseUnit(req.DiscountUnit)
	if err != nil {
		return nil, err
	}
	ts := now()
	inv := &entity.Invoice{
		ID:                uuid.New().String(),
		CustomerID:        req.CustomerID,
		CustomerName:      req.CustomerName,
		Status:            entity.InvoiceStatusDraft,
		PreparationStatus: entity.PreparationWaiting,
		IssueDate:         ts,
		PaymentDeadline:   req.PaymentDeadline,
		Discount:          req.Discount,
		DiscountUnit:      headerUnit,
		TaxPercentage:     req.TaxPercentage,
		ShippingCost:      req.ShippingCost,
		Notes:             req.Notes,
		CreatedBy:         actorID,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}
	err = o.store.Run(ctx, func(r repository.Repos) error {
		for _, line := range req.Items {
			unit, price, err := o.resolveLine(ctx, r, line)
			if err != nil {
				return err
			}
			inv.Items = append(inv.Items, entity.InvoiceItem{
				ID:           uuid.New().String(),
				InvoiceID:    inv.ID,
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				UnitPrice:    price,
				Discount:     line.Discount,
				DiscountUnit: unit,
			})
		}
		if err := inv.Recalculate(o.engine); err != nil {
			return err
		}
		inv.ApplyPayments(nil)
		code, err := r.Codes.Next(ctx, entity.CodePrefixInvoice)
		if err != nil {
			return err
		}
		inv.Code = code
		return r.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	o.logCreated("invoice", inv.Code, "", actorID)
	return toInvoiceResponse(inv), nil
}

// GetInvoice devuelve la factura con totales y saldo recalculados desde sus pagos.
func (o *Orchestrator) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, _, err := o.loadInvoice(ctx, o.store.Repos(), id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// ChangeInvoiceStatus transición del eje comercial.
//   - PAID exige que el eje de pago esté en PAID.
//   - OVERDUE exige una fecha límite de pago vencida.
//   - CANCELLED no se permite con pagos confirmados.
func (o *Orchestrator) ChangeInvoiceStatus(ctx context.Context, actorID, id, status string) (*dto.InvoiceResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	target, err := entity.ParseInvoiceStatus(status)
	if err != nil {
		return nil, err
	}
	var (
		inv  *entity.Invoice
		from entity.InvoiceStatus
	)
	err = o.store.Run(ctx, func(r repository.Repos) error {
		var err error
		if inv, _, err = o.loadInvoice(ctx, r, id); err != nil {
			return err
		}
		from = inv.Status
		if err := inv.TransitionTo(target, now()); err != nil {
			return err
		}
		switch target {
		case entity.InvoiceStatusPaid:
			if inv.PaymentStatus != entity.PaymentStatusPaid {
				return conflict("la factura %s tiene saldo pendiente de %s", inv.Code, inv.RemainingAmount)
			}
		case entity.InvoiceStatusOverdue:
			if inv.PaymentDeadline == nil || !inv.PaymentDeadline.Before(now()) {
				return conflict("la factura %s no tiene la fecha límite de pago vencida", inv.Code)
			}
		case entity.InvoiceStatusCancelled:
			if inv.PaidAmount.IsPositive() {
				return conflict("la factura %s tiene pagos confirmados", inv.Code)
			}
		}
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	o.logTransition("invoice", inv.Code, from, target, actorID)
	return toInvoiceResponse(inv), nil
}

// ChangePreparationStatus transición del eje de preparación en bodega.
func (o *Orchestrator) ChangePreparationStatus(ctx context.Context, actorID, id, status string) (*dto.InvoiceResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	target, err := entity.ParsePreparationStatus(status)
	if err != nil {
		return nil, err
	}
	var (
		inv  *entity.Invoice
		from entity.PreparationStatus
	)
	err = o.store.Run(ctx, func(r repository.Repos) error {
		var err error
		if inv, _, err = o.loadInvoice(ctx, r, id); err != nil {
			return err
		}
		from = inv.PreparationStatus
		if inv.Status == entity.InvoiceStatusCancelled && target != entity.PreparationCancelled {
			return conflict("la factura %s está cancelada", inv.Code)
		}
		if target == entity.PreparationCancelled {
			_, err := r.DeliveryNotes.GetActiveByInvoice(ctx, inv.ID)
			switch {
			case err == nil:
				return conflict("la factura %s tiene una remisión activa", inv.Code)
			case !isNotFound(err):
				return err
			}
		}
		if err := inv.TransitionPreparationTo(target, now()); err != nil {
			return err
		}
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	o.logTransition("invoice_preparation", inv.Code, from, target, actorID)
	return toInvoiceResponse(inv), nil
}
