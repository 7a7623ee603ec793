package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"food-delivery/api/errs"
	"food-delivery/api/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// PlaceOrder persists the order with its items and consumes the cart in one
// transaction. after runs inside the transaction once the rows are written;
// if it fails, the order insert and the cart consumption both roll back, so a
// failed checkout leaves the cart untouched.
func (r *OrderRepository) PlaceOrder(ctx context.Context, order *models.PurchaseOrder, cart *models.Cart, after func(*models.PurchaseOrder) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(cart).Error; err != nil {
			return err
		}
		if after != nil {
			return after(order)
		}
		return nil
	})
}

func (r *OrderRepository) Find(ctx context.Context, orderID uint) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.OrderNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, order *models.PurchaseOrder, status models.OrderStatus) error {
	if err := r.db.WithContext(ctx).Model(order).Update("order_status", status).Error; err != nil {
		return err
	}
	order.OrderStatus = status
	return nil
}

// OrderFilter narrows an order listing. Query does a free-text match over
// order number, requester name, contact phone and store name.
type OrderFilter struct {
	UserID  *uint
	StoreID *uint
	Status  *models.OrderStatus
	Query   string
	Page    int
	Limit   int
}

// List returns one page of orders, newest first, plus a flag telling whether
// another page follows.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]models.PurchaseOrder, bool, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page < 0 {
		f.Page = 0
	}

	q := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).Preload("Items")
	if f.UserID != nil {
		q = q.Where("purchase_orders.user_id = ?", *f.UserID)
	}
	if f.StoreID != nil {
		q = q.Where("purchase_orders.store_id = ?", *f.StoreID)
	}
	if f.Status != nil {
		q = q.Where("purchase_orders.order_status = ?", *f.Status)
	}
	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		q = q.Joins("JOIN users ON users.id = purchase_orders.user_id").
			Joins("JOIN stores ON stores.id = purchase_orders.store_id").
			Where("purchase_orders.order_number LIKE ? OR users.name LIKE ? OR purchase_orders.phone LIKE ? OR stores.store_name LIKE ?",
				pattern, pattern, pattern, pattern)
	}

	var orders []models.PurchaseOrder
	err := q.Order("purchase_orders.created_at DESC, purchase_orders.id DESC").
		Offset(f.Page * f.Limit).
		Limit(f.Limit + 1). // fetch one extra to detect the next page
		Find(&orders).Error
	if err != nil {
		return nil, false, err
	}

	hasNext := false
	if len(orders) > f.Limit {
		hasNext = true
		orders = orders[:f.Limit]
	}
	return orders, hasNext, nil
}
