package models

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusRejected OrderStatus = "rejected"
	OrderStatusCooking  OrderStatus = "cooking"
	OrderStatusCooked   OrderStatus = "cooked"
	OrderStatusCanceled OrderStatus = "canceled"
)

// CanTransitionTo encodes the order state machine:
// pending -> approved | rejected | canceled
// approved -> cooking | canceled
// cooking -> cooked
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusApproved || next == OrderStatusRejected || next == OrderStatusCanceled
	case OrderStatusApproved:
		return next == OrderStatusCooking || next == OrderStatusCanceled
	case OrderStatusCooking:
		return next == OrderStatusCooked
	default:
		return false
	}
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusRejected || s == OrderStatusCanceled || s == OrderStatusCooked
}

func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected,
		OrderStatusCooking, OrderStatusCooked, OrderStatusCanceled:
		return OrderStatus(raw), true
	}
	return "", false
}

// PurchaseOrder is the immutable record of a checkout. Only OrderStatus
// changes after creation; line items and prices stay frozen.
type PurchaseOrder struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"index;not null" json:"user_id"`
	User            *User       `json:"user,omitempty"`
	StoreID         uint        `gorm:"index;not null" json:"store_id"`
	Store           *Store      `json:"store,omitempty"`
	OrderNumber     string      `gorm:"uniqueIndex;not null" json:"order_number"`
	OrderStatus     OrderStatus `gorm:"not null" json:"order_status"`
	TotalPrice      int         `json:"total_price"`
	DeliveryAddress string      `gorm:"not null" json:"delivery_address"`
	Latitude        float64     `json:"latitude"`
	Longitude       float64     `json:"longitude"`
	Phone           string      `gorm:"not null" json:"phone"`
	DeliveryRequest string      `json:"delivery_request,omitempty"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a cart line frozen at order time. Price does not follow
// later menu price changes.
type OrderItem struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	OrderID  uint `gorm:"index;not null" json:"order_id"`
	MenuID   uint `gorm:"index;not null" json:"menu_id"`
	Quantity int  `gorm:"not null" json:"quantity"`
	Price    int  `gorm:"not null" json:"price"`
}

func NewOrderNumber(t time.Time) string {
	return fmt.Sprintf("OD%d", t.UnixMilli())
}

func (o *PurchaseOrder) Coordinate() Coordinate {
	return Coordinate{Latitude: o.Latitude, Longitude: o.Longitude}
}

// AddItem appends a cart line as a frozen order line.
func (o *PurchaseOrder) AddItem(item CartItem) {
	o.Items = append(o.Items, OrderItem{
		MenuID:   item.MenuID,
		Quantity: item.Quantity,
		Price:    item.Price,
	})
}

// CalculateTotalPrice sums quantity x price over order items. Called once at
// creation; the result is never recomputed afterwards.
func (o *PurchaseOrder) CalculateTotalPrice() {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity * item.Price
	}
	o.TotalPrice = total
}
