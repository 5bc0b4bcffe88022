package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/application/inventory"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

// CreateDeliveryNote emite la remisión de una factura preparada y pagada.
// Idempotente: si la factura ya tiene una remisión activa la devuelve (created=false).
func (o *Orchestrator) CreateDeliveryNote(ctx context.Context, actorID, invoiceID string, req dto.CreateDeliveryNoteRequest) (*dto.DeliveryNoteResponse, bool, error) {
	if err := requireActor(actorID); err != nil {
		return nil, false, err
	}
	var (
		dn      *entity.DeliveryNote
		created bool
	)
	err := o.store.Run(ctx, func(r repository.Repos) error {
		inv, _, err := o.loadInvoice(ctx, r, invoiceID)
		if err != nil {
			return err
		}
		existing, err := r.DeliveryNotes.GetActiveByInvoice(ctx, invoiceID)
		switch {
		case err == nil:
			dn = existing
			return nil
		case !isNotFound(err):
			return err
		}
		if !inv.ReadyToDeliver() {
			return conflict("la factura %s debe estar preparada (%s) y pagada (%s)",
				inv.Code, inv.PreparationStatus, inv.PaymentStatus)
		}

		ts := now()
		dn = &entity.DeliveryNote{
			ID:              uuid.New().String(),
			InvoiceID:       inv.ID,
			Status:          entity.DeliveryNotePending,
			DriverName:      req.DriverName,
			VehiclePlate:    req.VehiclePlate,
			DeliveryAddress: req.DeliveryAddress,
			Notes:           req.Notes,
			CreatedBy:       actorID,
			CreatedAt:       ts,
			UpdatedAt:       ts,
		}
		for _, it := range inv.Items {
			dn.Items = append(dn.Items, entity.DeliveryNoteItem{
				ID:             uuid.New().String(),
				DeliveryNoteID: dn.ID,
				InvoiceItemID:  it.ID,
				ProductID:      it.ProductID,
				OrderedQty:     it.Quantity,
				DeliveredQty:   decimal.Zero,
			})
		}
		if dn.Code, err = r.Codes.Next(ctx, entity.CodePrefixDeliveryNote); err != nil {
			return err
		}
		created = true
		return r.DeliveryNotes.Create(ctx, dn)
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		o.logCreated("delivery_note", dn.Code, invoiceID, actorID)
	}
	return toDeliveryNoteResponse(dn), created, nil
}

// GetDeliveryNote devuelve la remisión.
func (o *Orchestrator) GetDeliveryNote(ctx context.Context, id string) (*dto.DeliveryNoteResponse, error) {
	dn, err := o.store.Repos().DeliveryNotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDeliveryNoteResponse(dn), nil
}

// DeliveryNotePrintout datos para imprimir una remisión.
type DeliveryNotePrintout struct {
	Note     *entity.DeliveryNote
	Invoice  *entity.Invoice
	Products map[string]*entity.Product // por ID, para descripción y unidad
}

// DeliveryNotePDFGenerator genera la remisión impresa.
type DeliveryNotePDFGenerator interface {
	GenerateDeliveryNotePDF(ctx context.Context, doc *DeliveryNotePrintout) ([]byte, error)
}

// DeliveryNoteDocument remisión con su factura y productos, para la impresión.
func (o *Orchestrator) DeliveryNoteDocument(ctx context.Context, id string) (*DeliveryNotePrintout, error) {
	repos := o.store.Repos()
	dn, err := repos.DeliveryNotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv, _, err := o.loadInvoice(ctx, repos, dn.InvoiceID)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product, len(dn.Items))
	for _, it := range dn.Items {
		if _, ok := products[it.ProductID]; ok {
			continue
		}
		p, err := repos.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		products[it.ProductID] = p
	}
	return &DeliveryNotePrintout{Note: dn, Invoice: inv, Products: products}, nil
}

// ChangeDeliveryNoteStatus transición de la remisión.
//   - DELIVERED exige la factura pagada y al menos una entrega; se acepta con entregas parciales.
//   - CANCELLED no se permite si ya hubo entregas: el libro no se reescribe,
//     las devoluciones van por RETURN_IN.
func (o *Orchestrator) ChangeDeliveryNoteStatus(ctx context.Context, actorID, id, status string) (*dto.DeliveryNoteResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	target, err := entity.ParseDeliveryNoteStatus(status)
	if err != nil {
		return nil, err
	}
	var (
		dn   *entity.DeliveryNote
		from entity.DeliveryNoteStatus
	)
	err = o.store.Run(ctx, func(r repository.Repos) error {
		var err error
		if dn, err = r.DeliveryNotes.GetByID(ctx, id); err != nil {
			return err
		}
		from = dn.Status
		if err := dn.TransitionTo(target, now()); err != nil {
			return err
		}
		switch target {
		case entity.DeliveryNoteInTransit, entity.DeliveryNoteDelivered:
			inv, _, err := o.loadInvoice(ctx, r, dn.InvoiceID)
			if err != nil {
				return err
			}
			if inv.Status == entity.InvoiceStatusCancelled {
				return conflict("la factura %s está cancelada", inv.Code)
			}
			if target == entity.DeliveryNoteDelivered && inv.PaymentStatus != entity.PaymentStatusPaid {
				return conflict("la factura %s no está pagada (%s)", inv.Code, inv.PaymentStatus)
			}
			// DELIVERED es terminal: sin ninguna entrega registrada la mercancía saldría sin SALES_OUT
			if target == entity.DeliveryNoteDelivered && !dn.HasDeliveries() {
				return conflict("la remisión %s no tiene entregas registradas", dn.Code)
			}
		case entity.DeliveryNoteCancelled:
			if dn.HasDeliveries() {
				return conflict("la remisión %s ya tiene entregas registradas", dn.Code)
			}
		}
		return r.DeliveryNotes.Update(ctx, dn)
	})
	if err != nil {
		return nil, err
	}
	o.logTransition("delivery_note", dn.Code, from, target, actorID)
	return toDeliveryNoteResponse(dn), nil
}

// DeliverItem registra la cantidad acumulada entregada de una línea. El incremento
// respecto a lo ya entregado genera exactamente un SALES_OUT; un incremento cero no
// hace nada, así el reintento es seguro. Cuando todas las líneas quedan completas la
// remisión pasa a DELIVERED en la misma transacción.
func (o *Orchestrator) DeliverItem(ctx context.Context, actorID, noteID, itemID string, req dto.DeliverItemRequest) (*dto.DeliveryResultResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if req.DeliveredQty.IsNegative() {
		return nil, invalid("la cantidad entregada no puede ser negativa")
	}
	var (
		dn        *entity.DeliveryNote
		mov       *entity.StockMovement
		product   *entity.Product
		from      entity.DeliveryNoteStatus
		completed bool
	)
	err := o.store.Run(ctx, func(r repository.Repos) error {
		var err error
		if dn, err = r.DeliveryNotes.GetByID(ctx, noteID); err != nil {
			return err
		}
		from = dn.Status
		if dn.Status != entity.DeliveryNoteInTransit {
			return conflict("la remisión %s no está en tránsito (%s)", dn.Code, dn.Status)
		}
		inv, _, err := o.loadInvoice(ctx, r, dn.InvoiceID)
		if err != nil {
			return err
		}
		if inv.PaymentStatus != entity.PaymentStatusPaid {
			return conflict("la factura %s no está pagada (%s)", inv.Code, inv.PaymentStatus)
		}
		item, ok := dn.Item(itemID)
		if !ok {
			return notFoundItem(dn.Code, itemID)
		}
		if req.DeliveredQty.GreaterThan(item.OrderedQty) {
			return invalid("entregado %s supera lo despachado %s", req.DeliveredQty, item.OrderedQty)
		}
		if req.DeliveredQty.LessThan(item.DeliveredQty) {
			return invalid("la cantidad entregada no puede disminuir (%s → %s)", item.DeliveredQty, req.DeliveredQty)
		}
		delta := req.DeliveredQty.Sub(item.DeliveredQty)
		if delta.IsZero() {
			return nil
		}

		ref := fmt.Sprintf("%s/%s", dn.Code, item.ID)
		if err := checkPostedDeliveries(ctx, r, ref, item.DeliveredQty); err != nil {
			return err
		}
		mov, product, err = o.ledger.ApplyInTx(ctx, r, inventory.MovementInput{
			ProductID: item.ProductID,
			Type:      entity.MovementSalesOut,
			Quantity:  delta,
			Reference: ref,
			ActorID:   actorID,
		})
		if err != nil {
			return err
		}
		item.DeliveredQty = req.DeliveredQty
		dn.UpdatedAt = now()
		if dn.FullyDelivered() {
			if err := dn.TransitionTo(entity.DeliveryNoteDelivered, now()); err != nil {
				return err
			}
			completed = true
		}
		return r.DeliveryNotes.Update(ctx, dn)
	})
	if err != nil {
		return nil, err
	}
	if mov != nil {
		o.ledger.Report(mov, product)
	}
	if completed {
		o.logTransition("delivery_note", dn.Code, from, entity.DeliveryNoteDelivered, actorID)
	}
	return &dto.DeliveryResultResponse{
		DeliveryNote: *toDeliveryNoteResponse(dn),
		Movement:     inventory.ToMovementResponse(mov),
	}, nil
}

// checkPostedDeliveries compara lo entregado en la línea con los SALES_OUT que ya
// referencian ref. Se suma la cantidad solicitada: con recorte la aplicada es menor.
func checkPostedDeliveries(ctx context.Context, r repository.Repos, ref string, delivered decimal.Decimal) error {
	posted, err := r.Movements.ListByReference(ctx, ref)
	if err != nil {
		return err
	}
	sum := decimal.Zero
	for _, m := range posted {
		if m.Type == entity.MovementSalesOut {
			sum = sum.Add(m.RequestedQuantity)
		}
	}
	if !sum.Equal(delivered) {
		return conflict("la línea %s marca %s entregado pero el kardex registra %s", ref, delivered, sum)
	}
	return nil
}
