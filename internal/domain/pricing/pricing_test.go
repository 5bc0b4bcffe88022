package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribucion-api/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLine_AmountDiscount(t *testing.T) {
	// 13.000 x 5 con 500 por unidad → 62.500
	res, err := pricing.NewEngine(pricing.PolicyClamp).Line(pricing.Line{
		Price: d("13000"), Quantity: d("5"), Discount: d("500"), DiscountUnit: pricing.UnitAmount,
	})
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(d("62500")), "got %s", res.Total)
	assert.True(t, res.DiscountAmount.Equal(d("2500")), "got %s", res.DiscountAmount)
}

func TestLine_PercentageDiscount(t *testing.T) {
	// 10% de 2.000 = 200 por unidad → (2000-200)*3 = 5.400
	res, err := pricing.NewEngine(pricing.PolicyClamp).Line(pricing.Line{
		Price: d("2000"), Quantity: d("3"), Discount: d("10"), DiscountUnit: pricing.UnitPercentage,
	})
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(d("5400")), "got %s", res.Total)
}

func TestLine_GeneralRule(t *testing.T) {
	e := pricing.NewEngine(pricing.PolicyClamp)
	cases := []struct {
		name     string
		line     pricing.Line
		discount string
		total    string
	}{
		{"sin descuento", pricing.Line{Price: d("100"), Quantity: d("2")}, "0", "200"},
		{"monto", pricing.Line{Price: d("100"), Quantity: d("2"), Discount: d("15"), DiscountUnit: pricing.UnitAmount}, "30", "170"},
		{"porcentaje", pricing.Line{Price: d("80"), Quantity: d("4"), Discount: d("25"), DiscountUnit: pricing.UnitPercentage}, "80", "240"},
		{"cantidad decimal", pricing.Line{Price: d("10"), Quantity: d("2.5"), Discount: d("1"), DiscountUnit: pricing.UnitAmount}, "2.5", "22.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := e.Line(tc.line)
			require.NoError(t, err)
			assert.True(t, res.DiscountAmount.Equal(d(tc.discount)), "descuento %s", res.DiscountAmount)
			assert.True(t, res.Total.Equal(d(tc.total)), "total %s", res.Total)
		})
	}
}

// subtotal 100.000, descuento general 10%, impuesto 10%, envío 5.000 → 104.000
func TestDocumentTotals_HeaderDiscountTaxAndShipping(t *testing.T) {
	e := pricing.NewEngine(pricing.PolicyClamp)
	lines := []pricing.Line{
		{Price: d("25000"), Quantity: d("2")},
		{Price: d("50000"), Quantity: d("1")},
	}
	tot, err := e.DocumentTotals(lines, pricing.Header{
		Discount:      d("10"),
		DiscountUnit:  pricing.UnitPercentage,
		TaxPercentage: d("10"),
		ShippingCost:  d("5000"),
	})
	require.NoError(t, err)
	assert.True(t, tot.Subtotal.Equal(d("100000")))
	assert.True(t, tot.HeaderDiscountAmount.Equal(d("10000")))
	assert.True(t, tot.TaxableAmount.Equal(d("90000")))
	assert.True(t, tot.Tax.Equal(d("9000")))
	assert.True(t, tot.GrandTotal.Equal(d("104000")), "grand total %s", tot.GrandTotal)
	assert.True(t, tot.TotalDiscount.Equal(d("10000")))
}

func TestDocumentTotals_IndependentOfLineOrder(t *testing.T) {
	e := pricing.NewEngine(pricing.PolicyClamp)
	lines := []pricing.Line{
		{Price: d("13000"), Quantity: d("5"), Discount: d("500"), DiscountUnit: pricing.UnitAmount},
		{Price: d("999.99"), Quantity: d("3"), Discount: d("7.5"), DiscountUnit: pricing.UnitPercentage},
		{Price: d("42"), Quantity: d("11")},
	}
	h := pricing.Header{Discount: d("1500"), DiscountUnit: pricing.UnitAmount, TaxPercentage: d("19"), ShippingCost: d("3200")}

	first, err := e.DocumentTotals(lines, h)
	require.NoError(t, err)

	reversed := []pricing.Line{lines[2], lines[0], lines[1]}
	second, err := e.DocumentTotals(reversed, h)
	require.NoError(t, err)

	again, err := e.DocumentTotals(lines, h)
	require.NoError(t, err)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.TotalDiscount.Equal(second.TotalDiscount))
	assert.Equal(t, first, again, "recalcular con las mismas entradas debe ser idempotente")

	expected := first.Subtotal.Sub(first.HeaderDiscountAmount).Add(first.Tax).Add(first.ShippingCost)
	assert.True(t, first.GrandTotal.Equal(expected))
}

func TestExcessiveDiscount_Policies(t *testing.T) {
	line := pricing.Line{Price: d("100"), Quantity: d("2"), Discount: d("150"), DiscountUnit: pricing.UnitAmount}

	clamp := pricing.NewEngine(pricing.PolicyClamp)
	res, err := clamp.Line(line)
	require.NoError(t, err)
	assert.True(t, res.Total.IsZero(), "con clamp el neto no puede ser negativo")
	assert.True(t, res.UnitDiscount.Equal(d("100")))

	reject := pricing.NewEngine(pricing.PolicyReject)
	_, err = reject.Line(line)
	assert.ErrorIs(t, err, pricing.ErrInvalidPricing)

	// Descuento general mayor al subtotal
	tot, err := clamp.DocumentTotals([]pricing.Line{{Price: d("50"), Quantity: d("1")}},
		pricing.Header{Discount: d("120"), DiscountUnit: pricing.UnitPercentage})
	require.NoError(t, err)
	assert.True(t, tot.GrandTotal.IsZero())

	_, err = reject.DocumentTotals([]pricing.Line{{Price: d("50"), Quantity: d("1")}},
		pricing.Header{Discount: d("60"), DiscountUnit: pricing.UnitAmount})
	assert.ErrorIs(t, err, pricing.ErrInvalidPricing)
}

func TestInvalidInputs(t *testing.T) {
	e := pricing.NewEngine(pricing.PolicyClamp)
	bad := []pricing.Line{
		{Price: d("0"), Quantity: d("1")},
		{Price: d("10"), Quantity: d("0")},
		{Price: d("10"), Quantity: d("-1")},
		{Price: d("10"), Quantity: d("1"), Discount: d("-1")},
		{Price: d("10"), Quantity: d("1"), Discount: d("1"), DiscountUnit: pricing.DiscountUnit("BOGUS")},
	}
	for _, l := range bad {
		_, err := e.Line(l)
		assert.ErrorIs(t, err, pricing.ErrInvalidPricing)
	}
	_, err := e.DocumentTotals(nil, pricing.Header{TaxPercentage: d("-5")})
	assert.ErrorIs(t, err, pricing.ErrInvalidPricing)
	_, err = e.DocumentTotals(nil, pricing.Header{ShippingCost: d("-1")})
	assert.ErrorIs(t, err, pricing.ErrInvalidPricing)
}

func TestDocumentTotals_RoundsToMoneyScale(t *testing.T) {
	e := pricing.NewEngine(pricing.PolicyClamp)
	cases := []struct {
		name  string
		lines []pricing.Line
		h     pricing.Header
		tax   string
		total string
	}{
		// 1000.01 * 19.5% = 195.001950
		{"impuesto fraccionario", []pricing.Line{{Price: d("1000.01"), Quantity: d("1")}},
			pricing.Header{TaxPercentage: d("19.5")}, "195", "1195.01"},
		// 10.05 * 10% = 1.005, mitad lejos de cero
		{"media unidad sube", []pricing.Line{{Price: d("10.05"), Quantity: d("1")}},
			pricing.Header{TaxPercentage: d("10")}, "1.01", "11.06"},
		// 3.333 * 3 = 9.999
		{"línea con cantidad", []pricing.Line{{Price: d("3.333"), Quantity: d("3")}},
			pricing.Header{}, "0", "10"},
		// 10% de 100.01 = 10.001 de descuento general
		{"descuento general", []pricing.Line{{Price: d("100.01"), Quantity: d("1")}},
			pricing.Header{Discount: d("10"), DiscountUnit: pricing.UnitPercentage}, "0", "90.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tot, err := e.DocumentTotals(tc.lines, tc.h)
			require.NoError(t, err)
			assert.True(t, tot.Tax.Equal(d(tc.tax)), "tax %s", tot.Tax)
			assert.True(t, tot.GrandTotal.Equal(d(tc.total)), "grand total %s", tot.GrandTotal)
			assert.True(t, tot.GrandTotal.Equal(pricing.Money(tot.GrandTotal)), "sin decimales de más")
			assert.True(t, tot.GrandTotal.Equal(tot.TaxableAmount.Add(tot.Tax).Add(tot.ShippingCost)))
		})
	}
}

func TestLine_RoundedPercentageDiscountKeepsGross(t *testing.T) {
	// 10% de 333.33 = 33.333 por unidad
	res, err := pricing.NewEngine(pricing.PolicyClamp).Line(pricing.Line{
		Price: d("333.33"), Quantity: d("1"), Discount: d("10"), DiscountUnit: pricing.UnitPercentage,
	})
	require.NoError(t, err)
	assert.True(t, res.DiscountAmount.Equal(d("33.33")), "got %s", res.DiscountAmount)
	assert.True(t, res.Total.Equal(d("300")), "got %s", res.Total)
}

func TestParseDiscountUnit(t *testing.T) {
	u, err := pricing.ParseDiscountUnit("")
	require.NoError(t, err)
	assert.Equal(t, pricing.UnitAmount, u)

	u, err = pricing.ParseDiscountUnit("percentage")
	require.NoError(t, err)
	assert.Equal(t, pricing.UnitPercentage, u)

	_, err = pricing.ParseDiscountUnit("euros")
	assert.ErrorIs(t, err, pricing.ErrInvalidPricing)
}
