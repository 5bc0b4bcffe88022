package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

func printout() *workflow.DeliveryNotePrintout {
	shipped := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return &workflow.DeliveryNotePrintout{
		Note: &entity.DeliveryNote{
			ID: "dn-1", Code: "DN-000001", InvoiceID: "inv-1", Status: entity.DeliveryNoteInTransit,
			DriverName: "Carlos", VehiclePlate: "ABC123", DeliveryAddress: "Calle 10 # 5-20",
			ShippedAt: &shipped, CreatedAt: shipped,
			Items: []entity.DeliveryNoteItem{
				{ID: "i1", ProductID: "p1", OrderedQty: decimal.NewFromInt(5), DeliveredQty: decimal.NewFromInt(2)},
				{ID: "i2", ProductID: "p-desconocido", OrderedQty: decimal.RequireFromString("1.5")},
			},
		},
		Invoice: &entity.Invoice{
			ID: "inv-1", Code: "INV-000001", CustomerName: "Tienda La 14",
			TotalAmount: decimal.NewFromInt(2025000), PaidAmount: decimal.NewFromInt(2025000),
			PaymentStatus: entity.PaymentStatusPaid,
		},
		Products: map[string]*entity.Product{
			"p1": {ID: "p1", Code: "ARZ-01", Name: "Arroz 500g", Unit: "UND"},
		},
	}
}

func TestGenerateDeliveryNotePDF(t *testing.T) {
	g := NewMarotoPDFGenerator("Distribuciones Andina")

	out, err := g.GenerateDeliveryNotePDF(context.Background(), printout())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateDeliveryNotePDF_Incomplete(t *testing.T) {
	g := NewMarotoPDFGenerator("Distribuciones Andina")

	_, err := g.GenerateDeliveryNotePDF(context.Background(), nil)
	assert.Error(t, err)

	doc := printout()
	doc.Invoice = nil
	_, err = g.GenerateDeliveryNotePDF(context.Background(), doc)
	assert.Error(t, err)
}

func TestMoneyAndQuantity(t *testing.T) {
	g := NewMarotoPDFGenerator("x")

	assert.Equal(t, "$2.025.000", g.money(decimal.NewFromInt(2025000)))
	assert.Equal(t, "$0", g.money(decimal.Zero))
	assert.Equal(t, "1.50", g.quantity(decimal.RequireFromString("1.5")))
	assert.Equal(t, "12", g.quantity(decimal.NewFromInt(12)))
}
