// Package procurement contiene la máquina de estados de la orden de compra.
package procurement

import (
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Notas del historial para transiciones derivadas de una recepción.
const (
	NoteAllReceived    = "todos los materiales recibidos"
	NotePartialReceipt = "recepción parcial"
	NoteCreated        = "orden creada"
)

var transitions = map[string][]string{
	entity.OrderStatusDraft:     {entity.OrderStatusSubmitted, entity.OrderStatusCancelled},
	entity.OrderStatusSubmitted: {entity.OrderStatusConfirmed, entity.OrderStatusCancelled},
	entity.OrderStatusConfirmed: {entity.OrderStatusShipping, entity.OrderStatusReceived, entity.OrderStatusCompleted, entity.OrderStatusCancelled},
	entity.OrderStatusShipping:  {entity.OrderStatusReceived, entity.OrderStatusCompleted, entity.OrderStatusCancelled},
	entity.OrderStatusReceived:  {entity.OrderStatusReceived, entity.OrderStatusCompleted, entity.OrderStatusCancelled},
	entity.OrderStatusCompleted: nil,
	entity.OrderStatusCancelled: nil,
}

// IsValidStatus indica si s es un estado conocido.
func IsValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal completed y cancelled no admiten más transiciones.
func IsTerminal(s string) bool {
	return s == entity.OrderStatusCompleted || s == entity.OrderStatusCancelled
}

// CanTransition indica si from -> to está en la tabla de transiciones.
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// CanReceive indica si la orden acepta recepciones de mercancía.
func CanReceive(s string) bool {
	return s == entity.OrderStatusConfirmed || s == entity.OrderStatusShipping || s == entity.OrderStatusReceived
}

// ValidateManualTransition valida un cambio de estado pedido por un operador.
// received y completed solo se derivan de recepciones.
func ValidateManualTransition(from, to string) error {
	if !IsValidStatus(to) {
		return domain.ErrInvalidInput
	}
	if to == entity.OrderStatusReceived || to == entity.OrderStatusCompleted {
		return domain.ErrInvalidTransition
	}
	if !CanTransition(from, to) {
		return domain.ErrInvalidTransition
	}
	return nil
}

// ReceiptOutcome devuelve el estado derivado tras una recepción y la nota del historial.
func ReceiptOutcome(order *entity.ProcurementOrder) (string, string) {
	if order.AllReceived() {
		return entity.OrderStatusCompleted, NoteAllReceived
	}
	return entity.OrderStatusReceived, NotePartialReceipt
}
