package models

import "time"

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Phone     string `gorm:"not null" json:"phone"`
	CreatedAt time.Time
	Addresses []UserDeliveryAddress `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
}

// UserDeliveryAddress is an address-book entry the user can pick at checkout.
type UserDeliveryAddress struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	Address string `gorm:"not null" json:"address"`
}

type Partner struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	CreatedAt time.Time
}

type Rider struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Phone     string `json:"phone"`
	CreatedAt time.Time
}

type Store struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	PartnerID    uint    `gorm:"index;not null" json:"partner_id"`
	StoreName    string  `gorm:"not null" json:"store_name"`
	StoreAddress string  `json:"store_address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	// Operating hours in "15:04" wall-clock format.
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	CreatedAt time.Time
	Menus     []Menu `gorm:"foreignKey:StoreID" json:"menus,omitempty"`
}

func (s *Store) Coordinate() Coordinate {
	return Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// IsOpenAt reports whether t falls within [OpenTime, CloseTime).
func (s *Store) IsOpenAt(t time.Time) bool {
	open, err := minuteOfDay(s.OpenTime)
	if err != nil {
		return false
	}
	closeAt, err := minuteOfDay(s.CloseTime)
	if err != nil {
		return false
	}
	now := t.Hour()*60 + t.Minute()
	return now >= open && now < closeAt
}

func minuteOfDay(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

type Menu struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	StoreID     uint   `gorm:"index;not null" json:"store_id"`
	MenuName    string `gorm:"not null" json:"menu_name"`
	Price       int    `gorm:"not null" json:"price"`
	Description string `json:"description,omitempty"`
	CreatedAt   time.Time
}
