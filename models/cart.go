package models

import "time"

// Cart is the per-user staging area for menu selections. All items reference
// menus of a single store; StoreID is nil until the first item is added.
type Cart struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	StoreID   *uint `gorm:"index" json:"store_id,omitempty"`
	Store     *Store
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Cart) ItemFor(menuID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].MenuID == menuID {
			return &c.Items[i]
		}
	}
	return nil
}

// CartItem holds a menu selection with the unit price frozen at add-time.
type CartItem struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	CartID   uint `gorm:"index;not null" json:"cart_id"`
	MenuID   uint `gorm:"index;not null" json:"menu_id"`
	Quantity int  `gorm:"not null" json:"quantity"`
	Price    int  `gorm:"not null" json:"price"`
}

func (ci *CartItem) TotalPrice() int {
	return ci.Price * ci.Quantity
}
