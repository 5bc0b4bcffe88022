package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/pricing"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

// CreateOrder crea un pedido en estado NEW con la foto de precios de cada producto.
func (o *Orchestrator) CreateOrder(ctx context.Context, actorID string, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, invalid("el pedido requiere al menos una línea")
	}
	headerUnit, err := parseUnit(req.DiscountUnit)
	if err != nil {
		return nil, err
	}
	ts := now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		SalesActorID:    actorID,
		Status:          entity.OrderStatusNew,
		OrderDate:       ts,
		DueDate:         req.DueDate,
		PaymentDeadline: req.PaymentDeadline,
		Discount:        req.Discount,
		DiscountUnit:    headerUnit,
		ShippingCost:    req.ShippingCost,
		Notes:           req.Notes,
		CreatedBy:       actorID,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	if req.OrderDate != nil {
		order.OrderDate = req.OrderDate.UTC()
	}

	err = o.store.Run(ctx, func(r repository.Repos) error {
		for _, line := range req.Items {
			unit, price, err := o.resolveLine(ctx, r, line)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, entity.OrderItem{
				ID:           uuid.New().String(),
				OrderID:      order.ID,
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				UnitPrice:    price,
				Discount:     line.Discount,
				DiscountUnit: unit,
			})
		}
		if err := order.Recalculate(o.engine); err != nil {
			return err
		}
		code, err := r.Codes.Next(ctx, entity.CodePrefixOrder)
		if err != nil {
			return err
		}
		order.Code = code
		return r.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	o.logCreated("order", order.Code, "", actorID)
	return toOrderResponse(order), nil
}

// resolveLine valida el producto de una línea nueva y resuelve unidad de descuento y precio.
func (o *Orchestrator) resolveLine(ctx context.Context, r repository.Repos, line dto.DocumentLineRequest) (pricing.DiscountUnit, decimal.Decimal, error) {
	unit, err := parseUnit(line.DiscountUnit)
	if err != nil {
		return "", decimal.Zero, err
	}
	product, err := r.Products.GetByID(ctx, line.ProductID)
	if err != nil {
		return "", decimal.Zero, err
	}
	if !product.Active {
		return "", decimal.Zero, conflict("producto %s inactivo", product.Code)
	}
	price := product.Price
	if line.UnitPrice != nil {
		price = *line.UnitPrice
	}
	return unit, price, nil
}

// GetOrder devuelve el pedido con totales recalculados.
func (o *Orchestrator) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := o.store.Repos().Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Recalculate(o.engine); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ChangeOrderStatus aplica una transición del pedido.
func (o *Orchestrator) ChangeOrderStatus(ctx context.Context, actorID, id, status string) (*dto.OrderResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	target, err := entity.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	var (
		order *entity.Order
		from  entity.OrderStatus
	)
	err = o.store.Run(ctx, func(r repository.Repos) error {
		var err error
		order, err = r.Orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from = order.Status
		if err := order.TransitionTo(target, now()); err != nil {
			return err
		}
		if err := order.Recalculate(o.engine); err != nil {
			return err
		}
		return r.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	o.logTransition("order", order.Code, from, target, actorID)
	return toOrderResponse(order), nil
}

// DerivePurchaseOrder crea la orden de compra del pedido. Si ya existe una no cancelada
// la devuelve sin crear otra (created=false), de modo que el reintento es seguro.
func (o *Orchestrator) DerivePurchaseOrder(ctx context.Context, actorID, orderID string, req dto.DerivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, bool, error) {
	if err := requireActor(actorID); err != nil {
		return nil, false, err
	}
	var (
		po      *entity.PurchaseOrder
		created bool
	)
	err := o.store.Run(ctx, func(r repository.Repos) error {
		order, err := r.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		existing, err := r.PurchaseOrders.GetActiveByOrder(ctx, orderID)
		switch {
		case err == nil:
			po = existing
			return po.Recalculate(o.engine)
		case !isNotFound(err):
			return err
		}
		if !order.Status.CanDerivePurchaseOrder() {
			return conflict("el pedido %s en estado %s no admite orden de compra", order.Code, order.Status)
		}

		ts := now()
		po = &entity.PurchaseOrder{
			ID:            uuid.New().String(),
			OrderID:       order.ID,
			CustomerID:    order.CustomerID,
			CustomerName:  order.CustomerName,
			Status:        entity.PurchaseOrderStatusPending,
			Discount:      order.Discount,
			DiscountUnit:  order.DiscountUnit,
			TaxPercentage: req.TaxPercentage,
			ShippingCost:  order.ShippingCost,
			Notes:         req.Notes,
			CreatedBy:     actorID,
			CreatedAt:     ts,
			UpdatedAt:     ts,
		}
		if req.Discount != nil {
			po.Discount = *req.Discount
		}
		if req.DiscountUnit != nil {
			if po.DiscountUnit, err = parseUnit(*req.DiscountUnit); err != nil {
				return err
			}
		}
		if req.ShippingCost != nil {
			po.ShippingCost = *req.ShippingCost
		}
		for _, it := range order.Items {
			po.Items = append(po.Items, entity.PurchaseOrderItem{
				ID:              uuid.New().String(),
				PurchaseOrderID: po.ID,
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				Price:           it.UnitPrice,
				Discount:        it.Discount,
				DiscountUnit:    it.DiscountUnit,
			})
		}
		if err := po.Recalculate(o.engine); err != nil {
			return err
		}
		if po.Code, err = r.Codes.Next(ctx, entity.CodePrefixPurchaseOrder); err != nil {
			return err
		}
		created = true
		return r.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		o.logCreated("purchase_order", po.Code, orderID, actorID)
	}
	return toPurchaseOrderResponse(po), created, nil
}
