package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"food-delivery/api/models"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindByUser loads the user's cart with its items and store, or (nil, nil)
// if the user has no cart yet.
func (r *CartRepository) FindByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Store").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreate returns the user's cart, creating an empty one lazily.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := r.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{UserID: userID}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearItems deletes all items and detaches the store reference.
func (r *CartRepository) ClearItems(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(cart).Update("store_id", nil).Error; err != nil {
			return err
		}
		cart.Items = nil
		cart.StoreID = nil
		cart.Store = nil
		return nil
	})
}

func (r *CartRepository) SetStore(ctx context.Context, cart *models.Cart, storeID uint) error {
	if err := r.db.WithContext(ctx).Model(cart).Update("store_id", storeID).Error; err != nil {
		return err
	}
	cart.StoreID = &storeID
	return nil
}

func (r *CartRepository) AddItem(ctx context.Context, cart *models.Cart, item *models.CartItem) error {
	item.CartID = cart.ID
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return err
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, item *models.CartItem, quantity int) error {
	if err := r.db.WithContext(ctx).Model(item).Update("quantity", quantity).Error; err != nil {
		return err
	}
	item.Quantity = quantity
	return nil
}

// RemoveItem deletes a single cart line by menu id. Returns the number of
// rows removed so callers can distinguish a miss.
func (r *CartRepository) RemoveItem(ctx context.Context, cart *models.Cart, menuID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND menu_id = ?", cart.ID, menuID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
