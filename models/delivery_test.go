package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryStatusTransitions(t *testing.T) {
	tests := []struct {
		from    DeliveryStatus
		to      DeliveryStatus
		allowed bool
	}{
		{DeliveryStatusAssigned, DeliveryStatusDelivering, true},
		{DeliveryStatusAssigned, DeliveryStatusFailed, true},
		{DeliveryStatusAssigned, DeliveryStatusDelivered, false},
		{DeliveryStatusDelivering, DeliveryStatusDelivered, true},
		{DeliveryStatusDelivering, DeliveryStatusFailed, true},
		{DeliveryStatusDelivering, DeliveryStatusAssigned, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalDeliveryStatusesAreClosed(t *testing.T) {
	all := []DeliveryStatus{
		DeliveryStatusAssigned, DeliveryStatusDelivering,
		DeliveryStatusDelivered, DeliveryStatusFailed,
	}
	for _, from := range []DeliveryStatus{DeliveryStatusDelivered, DeliveryStatusFailed} {
		assert.True(t, from.IsTerminal())
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to), "%s must not leave terminal state", from)
		}
	}
}
