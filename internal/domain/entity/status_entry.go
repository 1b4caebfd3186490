package entity

import "time"

// StatusEntry registro append-only de un cambio de estado de una orden de compra.
type StatusEntry struct {
	ID         string
	OrderID    string
	FromStatus string
	ToStatus   string
	Operator   string
	Note       string
	CreatedAt  time.Time
}
