package entity

import "time"

// Material referencia de catálogo (solo lectura para el ledger).
// MinStock/MaxStock son los umbrales de reposición.
type Material struct {
	ID        string
	Code      string
	Name      string
	Category  string
	Unit      string // unidad de medida
	MinStock  int64
	MaxStock  int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
