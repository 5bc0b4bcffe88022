package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el costo promedio ponderado tras una entrada.
// nuevoCosto = ((stock * costo) + (cantEntrada * costoEntrada)) / (stock + cantEntrada)
// Si la entrada no trae costo se conserva el costo vigente.
func WeightedAverageCost(stock, cost, inQty, inCost decimal.Decimal) decimal.Decimal {
	if !inCost.IsPositive() {
		return cost
	}
	sum := stock.Add(inQty)
	if !sum.IsPositive() {
		return inCost
	}
	num := stock.Mul(cost).Add(inQty.Mul(inCost))
	return num.Div(sum)
}
