package procurement

// OrderNumberGenerator genera números de orden de compra (PO...).
type OrderNumberGenerator interface {
	NextOrder() string
}
