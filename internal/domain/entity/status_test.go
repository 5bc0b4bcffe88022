package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_TerminalRejectsTransitions(t *testing.T) {
	all := []OrderStatus{OrderStatusNew, OrderStatusPendingConfirmation, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled}
	for _, s := range all {
		terminal := s == OrderStatusCompleted || s == OrderStatusCancelled
		assert.Equal(t, terminal, s.IsTerminal(), s)
		if !terminal {
			assert.True(t, s.CanTransitionTo(OrderStatusCancelled), "%s debe poder cancelarse", s)
			continue
		}
		for _, target := range all {
			assert.False(t, s.CanTransitionTo(target), "%s → %s", s, target)
		}
	}
}

func TestPurchaseOrderStatus_TerminalRejectsTransitions(t *testing.T) {
	all := []PurchaseOrderStatus{
		PurchaseOrderStatusPending, PurchaseOrderStatusProcessing, PurchaseOrderStatusReadyForDelivery,
		PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled,
	}
	for _, s := range all {
		terminal := s == PurchaseOrderStatusCompleted || s == PurchaseOrderStatusCancelled
		assert.Equal(t, terminal, s.IsTerminal(), s)
		if !terminal {
			continue
		}
		for _, target := range all {
			assert.False(t, s.CanTransitionTo(target), "%s → %s", s, target)
		}
	}
}

func TestDeliveryNoteStatus_TerminalRejectsTransitions(t *testing.T) {
	all := []DeliveryNoteStatus{DeliveryNotePending, DeliveryNoteInTransit, DeliveryNoteDelivered, DeliveryNoteCancelled}
	assert.True(t, DeliveryNotePending.CanTransitionTo(DeliveryNoteInTransit))
	assert.True(t, DeliveryNoteInTransit.CanTransitionTo(DeliveryNoteDelivered))
	for _, s := range []DeliveryNoteStatus{DeliveryNoteDelivered, DeliveryNoteCancelled} {
		assert.True(t, s.IsTerminal(), s)
		for _, target := range all {
			assert.False(t, s.CanTransitionTo(target), "%s → %s", s, target)
		}
	}
	assert.False(t, DeliveryNoteInTransit.IsTerminal())
}

func TestPaymentState_TerminalRejectsTransitions(t *testing.T) {
	assert.False(t, PaymentPending.IsTerminal())
	assert.True(t, PaymentPending.CanTransitionTo(PaymentCleared))
	assert.True(t, PaymentPending.CanTransitionTo(PaymentCanceled))

	for _, s := range []PaymentState{PaymentCleared, PaymentCanceled} {
		assert.True(t, s.IsTerminal(), s)
		for _, target := range []PaymentState{PaymentPending, PaymentCleared, PaymentCanceled} {
			assert.False(t, s.CanTransitionTo(target), "%s → %s", s, target)
		}
	}
}
