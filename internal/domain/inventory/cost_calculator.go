package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el costo unitario de referencia de un SKU al
// ingresar un lote (servicio de dominio).
// NuevoCosto = ((TotalActual * CostoActual) + (CantLote * CostoLote)) / (TotalActual + CantLote)
func WeightedAverageCost(totalActual, costoActual, cantLote, costoLote decimal.Decimal) decimal.Decimal {
	sum := totalActual.Add(cantLote)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := totalActual.Mul(costoActual).Add(cantLote.Mul(costoLote))
	return num.Div(sum)
}
