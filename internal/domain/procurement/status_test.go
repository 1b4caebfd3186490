package procurement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/procurement"
)

func TestCanTransition_FlujoPrincipal(t *testing.T) {
	path := []string{
		entity.OrderStatusDraft,
		entity.OrderStatusSubmitted,
		entity.OrderStatusConfirmed,
		entity.OrderStatusShipping,
		entity.OrderStatusReceived,
		entity.OrderStatusReceived,
		entity.OrderStatusCompleted,
	}
	for i := 1; i < len(path); i++ {
		assert.True(t, procurement.CanTransition(path[i-1], path[i]), "%s -> %s", path[i-1], path[i])
	}
	assert.False(t, procurement.CanTransition(entity.OrderStatusDraft, entity.OrderStatusConfirmed))
	assert.False(t, procurement.CanTransition(entity.OrderStatusReceived, entity.OrderStatusShipping))
}

func TestCanTransition_CancelDesdeNoTerminal(t *testing.T) {
	for _, s := range []string{
		entity.OrderStatusDraft, entity.OrderStatusSubmitted, entity.OrderStatusConfirmed,
		entity.OrderStatusShipping, entity.OrderStatusReceived,
	} {
		assert.True(t, procurement.CanTransition(s, entity.OrderStatusCancelled), s)
		assert.False(t, procurement.IsTerminal(s), s)
	}
	for _, s := range []string{entity.OrderStatusCompleted, entity.OrderStatusCancelled} {
		assert.True(t, procurement.IsTerminal(s))
		assert.False(t, procurement.CanTransition(s, entity.OrderStatusCancelled))
		assert.False(t, procurement.CanReceive(s))
	}
}

func TestValidateManualTransition(t *testing.T) {
	assert.NoError(t, procurement.ValidateManualTransition(entity.OrderStatusDraft, entity.OrderStatusSubmitted))
	assert.ErrorIs(t, procurement.ValidateManualTransition(entity.OrderStatusShipping, entity.OrderStatusReceived), domain.ErrInvalidTransition)
	assert.ErrorIs(t, procurement.ValidateManualTransition(entity.OrderStatusConfirmed, entity.OrderStatusCompleted), domain.ErrInvalidTransition)
	assert.ErrorIs(t, procurement.ValidateManualTransition(entity.OrderStatusDraft, "archived"), domain.ErrInvalidInput)
}

func TestReceiptOutcome(t *testing.T) {
	order := &entity.ProcurementOrder{Items: []entity.ProcurementItem{
		{ID: "I1", Quantity: 10, ReceivedQuantity: 10},
		{ID: "I2", Quantity: 5, ReceivedQuantity: 0},
	}}
	status, note := procurement.ReceiptOutcome(order)
	assert.Equal(t, entity.OrderStatusReceived, status)
	assert.Equal(t, procurement.NotePartialReceipt, note)

	order.Items[1].ReceivedQuantity = 7 // sobre-recepción cuenta como completo
	status, note = procurement.ReceiptOutcome(order)
	assert.Equal(t, entity.OrderStatusCompleted, status)
	assert.Equal(t, procurement.NoteAllReceived, note)
}
