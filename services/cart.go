package services

import (
	"context"

	"food-delivery/api/errs"
	"food-delivery/api/models"
	"food-delivery/api/storage"
)

type CartService struct {
	carts  *storage.CartRepository
	stores *storage.StoreRepository
}

func NewCartService(carts *storage.CartRepository, stores *storage.StoreRepository) *CartService {
	return &CartService{carts: carts, stores: stores}
}

type CartItemInput struct {
	MenuID   uint `json:"menu_id"`
	Quantity int  `json:"quantity"`
}

// AddItems adds menu selections to the user's cart. All items in one request
// must reference the same store; if the cart currently holds items from a
// different store, its contents are discarded first. Adding a menu already in
// the cart increments its quantity instead of inserting a second line.
func (s *CartService) AddItems(ctx context.Context, userID uint, items []CartItemInput) (*models.Cart, error) {
	if len(items) == 0 {
		return nil, errs.New(errs.InvalidCartItem)
	}

	menus := make([]*models.Menu, 0, len(items))
	var storeID uint
	for i, in := range items {
		if in.Quantity < 1 {
			return nil, errs.New(errs.InvalidQuantity)
		}
		menu, err := s.stores.FindMenu(ctx, in.MenuID)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			storeID = menu.StoreID
		} else if menu.StoreID != storeID {
			return nil, errs.New(errs.CartItemNotSameStore)
		}
		menus = append(menus, menu)
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Single-store invariant: switching stores empties the cart.
	if cart.StoreID != nil && *cart.StoreID != storeID {
		if err := s.carts.ClearItems(ctx, cart); err != nil {
			return nil, err
		}
	}
	if cart.StoreID == nil {
		if err := s.carts.SetStore(ctx, cart, storeID); err != nil {
			return nil, err
		}
	}

	for i, in := range items {
		if existing := cart.ItemFor(in.MenuID); existing != nil {
			if err := s.carts.UpdateItemQuantity(ctx, existing, existing.Quantity+in.Quantity); err != nil {
				return nil, err
			}
			continue
		}
		item := &models.CartItem{
			MenuID:   in.MenuID,
			Quantity: in.Quantity,
			Price:    menus[i].Price, // unit price frozen at add-time
		}
		if err := s.carts.AddItem(ctx, cart, item); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

func (s *CartService) Get(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errs.New(errs.CartNotFound)
	}
	return cart, nil
}

// Clear deletes all items and detaches the store reference.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return errs.New(errs.CartNotFound)
	}
	return s.carts.ClearItems(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, menuID uint) error {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return errs.New(errs.CartNotFound)
	}
	if cart.ItemFor(menuID) == nil {
		return errs.New(errs.CartItemNotFound)
	}
	if len(cart.Items) == 1 {
		// Last line: emptying the cart also detaches the store.
		return s.carts.ClearItems(ctx, cart)
	}
	_, err = s.carts.RemoveItem(ctx, cart, menuID)
	return err
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, menuID uint, quantity int) error {
	if quantity < 1 {
		return errs.New(errs.InvalidQuantity)
	}
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return errs.New(errs.CartNotFound)
	}
	item := cart.ItemFor(menuID)
	if item == nil {
		return errs.New(errs.CartItemNotFound)
	}
	return s.carts.UpdateItemQuantity(ctx, item, quantity)
}
