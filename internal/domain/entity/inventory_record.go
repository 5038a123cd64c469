package entity

import "time"

// InventoryRecord representa la cantidad física total de un SKU.
// Se crea con el primer ingreso de stock y nunca se borra: los registros en
// cero persisten como historial. Lo disponible y el desglose por etiqueta son
// derivados (ver domain/inventory.Ledger), nunca se almacenan como autoridad.
type InventoryRecord struct {
	SKUID         string
	TotalQuantity int // entero no negativo
	UpdatedAt     time.Time
}
