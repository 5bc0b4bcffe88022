package workflow

import (
	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.DocumentLineResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.DocumentLineResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Discount:     it.Discount,
			DiscountUnit: string(it.DiscountUnit),
			Total:        it.TotalPrice,
		})
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		Code:            o.Code,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		SalesActorID:    o.SalesActorID,
		Status:          o.Status.String(),
		OrderDate:       o.OrderDate,
		DueDate:         o.DueDate,
		PaymentDeadline: o.PaymentDeadline,
		Discount:        o.Discount,
		DiscountUnit:    string(o.DiscountUnit),
		ShippingCost:    o.ShippingCost,
		Subtotal:        o.Subtotal,
		DiscountTotal:   o.DiscountTotal,
		TotalAmount:     o.TotalAmount,
		Notes:           o.Notes,
		Version:         o.Version,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.DocumentLineResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.DocumentLineResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UnitPrice:    it.Price,
			Discount:     it.Discount,
			DiscountUnit: string(it.DiscountUnit),
			Total:        it.Total,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:            po.ID,
		Code:          po.Code,
		OrderID:       po.OrderID,
		CustomerID:    po.CustomerID,
		CustomerName:  po.CustomerName,
		Status:        po.Status.String(),
		Discount:      po.Discount,
		DiscountUnit:  string(po.DiscountUnit),
		TaxPercentage: po.TaxPercentage,
		ShippingCost:  po.ShippingCost,
		Subtotal:      po.Subtotal,
		DiscountTotal: po.DiscountTotal,
		TaxAmount:     po.TaxAmount,
		TotalAmount:   po.TotalAmount,
		Notes:         po.Notes,
		Version:       po.Version,
		Items:         items,
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	items := make([]dto.DocumentLineResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.DocumentLineResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Discount:     it.Discount,
			DiscountUnit: string(it.DiscountUnit),
			Total:        it.Total,
		})
	}
	return &dto.InvoiceResponse{
		ID:                inv.ID,
		Code:              inv.Code,
		CustomerID:        inv.CustomerID,
		CustomerName:      inv.CustomerName,
		PurchaseOrderID:   inv.PurchaseOrderID,
		Status:            inv.Status.String(),
		PaymentStatus:     inv.PaymentStatus.String(),
		PreparationStatus: inv.PreparationStatus.String(),
		IssueDate:         inv.IssueDate,
		PaymentDeadline:   inv.PaymentDeadline,
		Discount:          inv.Discount,
		DiscountUnit:      string(inv.DiscountUnit),
		TaxPercentage:     inv.TaxPercentage,
		ShippingCost:      inv.ShippingCost,
		Subtotal:          inv.Subtotal,
		DiscountTotal:     inv.DiscountTotal,
		TaxAmount:         inv.TaxAmount,
		TotalAmount:       inv.TotalAmount,
		PaidAmount:        inv.PaidAmount,
		RemainingAmount:   inv.RemainingAmount,
		Notes:             inv.Notes,
		Version:           inv.Version,
		Items:             items,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:             p.ID,
		Code:           p.Code,
		InvoiceID:      p.InvoiceID,
		Amount:         p.Amount,
		Method:         string(p.Method),
		Status:         p.Status.String(),
		PaymentDate:    p.PaymentDate,
		Reference:      p.Reference,
		IdempotencyKey: p.IdempotencyKey,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
	}
}

func toDeliveryNoteResponse(dn *entity.DeliveryNote) *dto.DeliveryNoteResponse {
	items := make([]dto.DeliveryNoteItemResponse, 0, len(dn.Items))
	for _, it := range dn.Items {
		items = append(items, dto.DeliveryNoteItemResponse{
			ID:            it.ID,
			InvoiceItemID: it.InvoiceItemID,
			ProductID:     it.ProductID,
			OrderedQty:    it.OrderedQty,
			DeliveredQty:  it.DeliveredQty,
			PendingQty:    it.Pending(),
		})
	}
	return &dto.DeliveryNoteResponse{
		ID:              dn.ID,
		Code:            dn.Code,
		InvoiceID:       dn.InvoiceID,
		Status:          dn.Status.String(),
		DriverName:      dn.DriverName,
		VehiclePlate:    dn.VehiclePlate,
		DeliveryAddress: dn.DeliveryAddress,
		Notes:           dn.Notes,
		ShippedAt:       dn.ShippedAt,
		DeliveredAt:     dn.DeliveredAt,
		Version:         dn.Version,
		Items:           items,
		CreatedAt:       dn.CreatedAt,
		UpdatedAt:       dn.UpdatedAt,
	}
}
