package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea de pedido o factura directa.
// UnitPrice vacío toma el precio vigente del producto.
type DocumentLineRequest struct {
	ProductID    string           `json:"product_id" validate:"required"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Discount     decimal.Decimal  `json:"discount"`
	DiscountUnit string           `json:"discount_unit" validate:"omitempty,oneof=AMOUNT PERCENTAGE PERCENT %"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID      string                `json:"customer_id" validate:"required"`
	CustomerName    string                `json:"customer_name" validate:"max=200"`
	OrderDate       *time.Time            `json:"order_date,omitempty"`
	DueDate         *time.Time            `json:"due_date,omitempty"`
	PaymentDeadline *time.Time            `json:"payment_deadline,omitempty"`
	Discount        decimal.Decimal       `json:"discount"`
	DiscountUnit    string                `json:"discount_unit" validate:"omitempty,oneof=AMOUNT PERCENTAGE PERCENT %"`
	ShippingCost    decimal.Decimal       `json:"shipping_cost"`
	Notes           string                `json:"notes" validate:"max=1000"`
	Items           []DocumentLineRequest `json:"items" validate:"required,min=1,dive"`
}

// DerivePurchaseOrderRequest body para POST /api/orders/:id/purchase-order.
// Los campos vacíos heredan los valores del pedido.
type DerivePurchaseOrderRequest struct {
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	DiscountUnit  *string          `json:"discount_unit,omitempty" validate:"omitempty,oneof=AMOUNT PERCENTAGE PERCENT %"`
	TaxPercentage decimal.Decimal  `json:"tax_percentage"`
	ShippingCost  *decimal.Decimal `json:"shipping_cost,omitempty"`
	Notes         string           `json:"notes" validate:"max=1000"`
}

// DeriveInvoiceRequest body para POST /api/purchase-orders/:id/invoice.
type DeriveInvoiceRequest struct {
	PaymentDeadline *time.Time `json:"payment_deadline,omitempty"`
	Notes           string     `json:"notes" validate:"max=1000"`
}

// CreateInvoiceRequest body para POST /api/invoices (factura directa, sin orden de compra).
type CreateInvoiceRequest struct {
	CustomerID      string                `json:"customer_id" validate:"required"`
	CustomerName    string                `json:"customer_name" validate:"max=200"`
	PaymentDeadline *time.Time            `json:"payment_deadline,omitempty"`
	Discount        decimal.Decimal       `json:"discount"`
	DiscountUnit    string                `json:"discount_unit" validate:"omitempty,oneof=AMOUNT PERCENTAGE PERCENT %"`
	TaxPercentage   decimal.Decimal       `json:"tax_percentage"`
	ShippingCost    decimal.Decimal       `json:"shipping_cost"`
	Notes           string                `json:"notes" validate:"max=1000"`
	Items           []DocumentLineRequest `json:"items" validate:"required,min=1,dive"`
}

// RecordPaymentRequest body para POST /api/invoices/:id/payments.
type RecordPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method" validate:"required"`
	Status         string          `json:"status" validate:"omitempty,oneof=PENDING CLEARED"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty"`
	Reference      string          `json:"reference" validate:"max=100"`
	IdempotencyKey string          `json:"idempotency_key" validate:"max=100"`
}

// CreateDeliveryNoteRequest body para POST /api/invoices/:id/delivery-note.
type CreateDeliveryNoteRequest struct {
	DriverName      string `json:"driver_name" validate:"max=120"`
	VehiclePlate    string `json:"vehicle_plate" validate:"max=20"`
	DeliveryAddress string `json:"delivery_address" validate:"required,max=300"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// DeliverItemRequest body para POST /api/delivery-notes/:id/items/:itemId/deliver.
// DeliveredQty es el acumulado entregado, no el incremento.
type DeliverItemRequest struct {
	DeliveredQty decimal.Decimal `json:"delivered_qty"`
}

// DocumentLineResponse línea con su total recalculado.
type DocumentLineResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountUnit string          `json:"discount_unit"`
	Total        decimal.Decimal `json:"total"`
}

// OrderResponse pedido de venta.
type OrderResponse struct {
	ID              string                 `json:"id"`
	Code            string                 `json:"code"`
	CustomerID      string                 `json:"customer_id"`
	CustomerName    string                 `json:"customer_name"`
	SalesActorID    string                 `json:"sales_actor_id"`
	Status          string                 `json:"status"`
	OrderDate       time.Time              `json:"order_date"`
	DueDate         *time.Time             `json:"due_date,omitempty"`
	PaymentDeadline *time.Time             `json:"payment_deadline,omitempty"`
	Discount        decimal.Decimal        `json:"discount"`
	DiscountUnit    string                 `json:"discount_unit"`
	ShippingCost    decimal.Decimal        `json:"shipping_cost"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	DiscountTotal   decimal.Decimal        `json:"discount_total"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	Notes           string                 `json:"notes,omitempty"`
	Version         int64                  `json:"version"`
	Items           []DocumentLineResponse `json:"items"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// PurchaseOrderResponse orden de compra.
type PurchaseOrderResponse struct {
	ID            string                 `json:"id"`
	Code          string                 `json:"code"`
	OrderID       string                 `json:"order_id,omitempty"`
	CustomerID    string                 `json:"customer_id"`
	CustomerName  string                 `json:"customer_name"`
	Status        string                 `json:"status"`
	Discount      decimal.Decimal        `json:"discount"`
	DiscountUnit  string                 `json:"discount_unit"`
	TaxPercentage decimal.Decimal        `json:"tax_percentage"`
	ShippingCost  decimal.Decimal        `json:"shipping_cost"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	DiscountTotal decimal.Decimal        `json:"discount_total"`
	TaxAmount     decimal.Decimal        `json:"tax_amount"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Notes         string                 `json:"notes,omitempty"`
	Version       int64                  `json:"version"`
	Items         []DocumentLineResponse `json:"items"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// InvoiceResponse factura con sus tres ejes de estado.
type InvoiceResponse struct {
	ID                string                 `json:"id"`
	Code              string                 `json:"code"`
	CustomerID        string                 `json:"customer_id"`
	CustomerName      string                 `json:"customer_name"`
	PurchaseOrderID   string                 `json:"purchase_order_id,omitempty"`
	Status            string                 `json:"status"`
	PaymentStatus     string                 `json:"payment_status"`
	PreparationStatus string                 `json:"preparation_status"`
	IssueDate         time.Time              `json:"issue_date"`
	PaymentDeadline   *time.Time             `json:"payment_deadline,omitempty"`
	Discount          decimal.Decimal        `json:"discount"`
	DiscountUnit      string                 `json:"discount_unit"`
	TaxPercentage     decimal.Decimal        `json:"tax_percentage"`
	ShippingCost      decimal.Decimal        `json:"shipping_cost"`
	Subtotal          decimal.Decimal        `json:"subtotal"`
	DiscountTotal     decimal.Decimal        `json:"discount_total"`
	TaxAmount         decimal.Decimal        `json:"tax_amount"`
	TotalAmount       decimal.Decimal        `json:"total_amount"`
	PaidAmount        decimal.Decimal        `json:"paid_amount"`
	RemainingAmount   decimal.Decimal        `json:"remaining_amount"`
	Notes             string                 `json:"notes,omitempty"`
	Version           int64                  `json:"version"`
	Items             []DocumentLineResponse `json:"items"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// PaymentResponse pago de una factura.
type PaymentResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	InvoiceID      string          `json:"invoice_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	PaymentDate    time.Time       `json:"payment_date"`
	Reference      string          `json:"reference,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DeliveryNoteItemResponse línea de remisión.
type DeliveryNoteItemResponse struct {
	ID            string          `json:"id"`
	InvoiceItemID string          `json:"invoice_item_id"`
	ProductID     string          `json:"product_id"`
	OrderedQty    decimal.Decimal `json:"ordered_qty"`
	DeliveredQty  decimal.Decimal `json:"delivered_qty"`
	PendingQty    decimal.Decimal `json:"pending_qty"`
}

// DeliveryNoteResponse remisión.
type DeliveryNoteResponse struct {
	ID              string                     `json:"id"`
	Code            string                     `json:"code"`
	InvoiceID       string                     `json:"invoice_id"`
	Status          string                     `json:"status"`
	DriverName      string                     `json:"driver_name,omitempty"`
	VehiclePlate    string                     `json:"vehicle_plate,omitempty"`
	DeliveryAddress string                     `json:"delivery_address"`
	Notes           string                     `json:"notes,omitempty"`
	ShippedAt       *time.Time                 `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time                 `json:"delivered_at,omitempty"`
	Version         int64                      `json:"version"`
	Items           []DeliveryNoteItemResponse `json:"items"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// DeliveryResultResponse resultado de registrar una entrega de línea.
type DeliveryResultResponse struct {
	DeliveryNote DeliveryNoteResponse `json:"delivery_note"`
	Movement     *MovementResponse    `json:"movement,omitempty"` // nil si el incremento fue cero
}

// InvoiceChainResponse factura con sus pagos y remisiones.
type InvoiceChainResponse struct {
	Invoice       InvoiceResponse        `json:"invoice"`
	Payments      []PaymentResponse      `json:"payments"`
	DeliveryNotes []DeliveryNoteResponse `json:"delivery_notes"`
}

// PurchaseOrderChainResponse orden de compra con sus facturas.
type PurchaseOrderChainResponse struct {
	PurchaseOrder PurchaseOrderResponse  `json:"purchase_order"`
	Invoices      []InvoiceChainResponse `json:"invoices"`
}

// OrderChainResponse cadena documental completa de un pedido.
type OrderChainResponse struct {
	Order          OrderResponse                `json:"order"`
	PurchaseOrders []PurchaseOrderChainResponse `json:"purchase_orders"`
}

// PaymentResultResponse pago con el estado resultante de su factura.
type PaymentResultResponse struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
	Created bool            `json:"created"` // false cuando la llave de idempotencia ya existía
}
