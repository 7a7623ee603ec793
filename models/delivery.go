package models

import "time"

type DeliveryStatus string

const (
	DeliveryStatusAssigned   DeliveryStatus = "assigned"
	DeliveryStatusDelivering DeliveryStatus = "delivering"
	DeliveryStatusDelivered  DeliveryStatus = "delivered"
	DeliveryStatusFailed     DeliveryStatus = "failed"
)

// CanTransitionTo encodes the delivery state machine:
// assigned -> delivering | failed
// delivering -> delivered | failed
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	switch s {
	case DeliveryStatusAssigned:
		return next == DeliveryStatusDelivering || next == DeliveryStatusFailed
	case DeliveryStatusDelivering:
		return next == DeliveryStatusDelivered || next == DeliveryStatusFailed
	default:
		return false
	}
}

func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusFailed
}

// Delivery is a rider's claim on one order. The unique index on OrderID is
// what makes concurrent claims first-wins: the second insert fails.
type Delivery struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	RiderID          uint           `gorm:"index;not null" json:"rider_id"`
	Rider            *Rider         `json:"rider,omitempty"`
	OrderID          uint           `gorm:"uniqueIndex;not null" json:"order_id"`
	Order            *PurchaseOrder `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	DeliveryStatus   DeliveryStatus `gorm:"not null" json:"delivery_status"`
	DeliveryImageURL string         `json:"delivery_image_url,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
