package entity

import "time"

// Location representa un ítem de ubicación (posición de bodega) donde se almacena material.
// Pertenece a una bodega; la inactivación es lógica (Active=false).
type Location struct {
	ID          string
	Code        string
	Name        string
	WarehouseID string
	Area        string
	Capacity    int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
