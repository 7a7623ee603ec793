package services

import (
	"context"
	"log"
	"time"

	"food-delivery/api/config"
	"food-delivery/api/errs"
	"food-delivery/api/location"
	"food-delivery/api/models"
	"food-delivery/api/storage"
)

// OrderService owns the order state machine and the cart-to-order conversion.
type OrderService struct {
	carts      *storage.CartRepository
	orders     *storage.OrderRepository
	stores     *storage.StoreRepository
	users      *storage.UserRepository
	deliveries *storage.DeliveryRepository
	geo        GeoIndex
	geocoder   Geocoder
	events     EventLogger
	queue      NewOrderPublisher

	maxDeliveryKm float64
	now           func() time.Time
}

func NewOrderService(
	carts *storage.CartRepository,
	orders *storage.OrderRepository,
	stores *storage.StoreRepository,
	users *storage.UserRepository,
	deliveries *storage.DeliveryRepository,
	geo GeoIndex,
	geocoder Geocoder,
	events EventLogger,
	queue NewOrderPublisher,
	cfg config.DeliveryConfig,
) *OrderService {
	return &OrderService{
		carts:         carts,
		orders:        orders,
		stores:        stores,
		users:         users,
		deliveries:    deliveries,
		geo:           geo,
		geocoder:      geocoder,
		events:        events,
		queue:         queue,
		maxDeliveryKm: cfg.MaxDistanceKm,
		now:           time.Now,
	}
}

type CreateOrderInput struct {
	DeliveryAddressID *uint  `json:"delivery_address_id,omitempty"`
	OptionalAddress   string `json:"optional_address,omitempty"`
	OptionalPhone     string `json:"optional_phone,omitempty"`
	DeliveryRequest   string `json:"delivery_request,omitempty"`
}

// CreateOrder converts the user's cart into an immutable pending order.
// Fails whole on any step; the cart is consumed only when everything else
// succeeded.
func (s *OrderService) CreateOrder(ctx context.Context, user *models.User, input CreateOrderInput) (*models.PurchaseOrder, error) {
	cart, err := s.carts.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.StoreID == nil || len(cart.Items) == 0 {
		return nil, errs.New(errs.CartNotFound)
	}

	store, err := s.stores.FindStore(ctx, *cart.StoreID)
	if err != nil {
		return nil, err
	}
	if !store.IsOpenAt(s.now()) {
		return nil, errs.New(errs.StoreClosed)
	}

	address, err := s.resolveDeliveryAddress(ctx, user, input)
	if err != nil {
		return nil, err
	}

	coordinate, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if err := location.ValidateDeliveryArea(store.Coordinate(), coordinate, s.maxDeliveryKm); err != nil {
		return nil, err
	}

	order := &models.PurchaseOrder{
		UserID:          user.ID,
		StoreID:         store.ID,
		OrderStatus:     models.OrderStatusPending,
		OrderNumber:     models.NewOrderNumber(s.now()),
		DeliveryAddress: address,
		Latitude:        coordinate.Latitude,
		Longitude:       coordinate.Longitude,
		Phone:           resolvePhone(user, input),
		DeliveryRequest: input.DeliveryRequest,
	}

	for _, item := range cart.Items {
		if item.Quantity <= 0 {
			return nil, errs.New(errs.InvalidQuantity)
		}
		if item.Price <= 0 {
			return nil, errs.New(errs.InvalidPrice)
		}
		order.AddItem(item)
	}
	order.CalculateTotalPrice()

	// Geo registration runs inside the transaction: if the order cannot be
	// made claimable, the insert and the cart consumption roll back together.
	err = s.orders.PlaceOrder(ctx, order, cart, func(o *models.PurchaseOrder) error {
		if err := s.geo.AddOrUpdateOrderLocation(ctx, o.ID, store.Coordinate()); err != nil {
			log.Printf("failed to register order %d in geo index: %v", o.ID, err)
			return errs.New(errs.InternalServerError)
		}
		return nil
	})
	if err != nil {
		// A rolled-back commit can leave the geo entry behind; removal is
		// idempotent either way.
		if order.ID != 0 {
			if delErr := s.geo.DeleteOrderLocation(ctx, order.ID); delErr != nil {
				log.Printf("failed to remove order %d from geo index: %v", order.ID, delErr)
			}
		}
		return nil, err
	}

	s.logEvent("order_created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"store_id":     store.ID,
		"total_price":  order.TotalPrice,
	})
	if s.queue != nil {
		if err := s.queue.PublishNewOrder(order.ID); err != nil {
			log.Printf("failed to publish new order %d: %v", order.ID, err)
		}
	}
	return order, nil
}

func (s *OrderService) resolveDeliveryAddress(ctx context.Context, user *models.User, input CreateOrderInput) (string, error) {
	if input.DeliveryAddressID != nil {
		address, err := s.users.FindDeliveryAddress(ctx, user.ID, *input.DeliveryAddressID)
		if err != nil {
			return "", err
		}
		return address.Address, nil
	}
	if input.OptionalAddress != "" {
		return input.OptionalAddress, nil
	}
	return "", errs.New(errs.AddressNotFound)
}

func resolvePhone(user *models.User, input CreateOrderInput) string {
	if input.OptionalPhone != "" {
		return input.OptionalPhone
	}
	return user.Phone
}

// ApproveOrder: partner accepts a pending order.
func (s *OrderService) ApproveOrder(ctx context.Context, partner *models.Partner, storeID, orderID uint) error {
	order, err := s.storeOrder(ctx, partner, storeID, orderID)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, order, models.OrderStatusApproved); err != nil {
		return err
	}
	s.logEvent("order_approved", map[string]interface{}{"order_id": order.ID})
	return nil
}

// RejectOrder: partner declines a pending order and releases its geo entry.
func (s *OrderService) RejectOrder(ctx context.Context, partner *models.Partner, storeID, orderID uint) error {
	order, err := s.storeOrder(ctx, partner, storeID, orderID)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, order, models.OrderStatusRejected); err != nil {
		return err
	}
	if err := s.geo.DeleteOrderLocation(ctx, order.ID); err != nil {
		log.Printf("failed to remove order %d from geo index: %v", order.ID, err)
	}
	s.logEvent("order_rejected", map[string]interface{}{"order_id": order.ID})
	return nil
}

// CancelOrderByPartner cancels a pending order; approved orders can only be
// canceled by the user.
func (s *OrderService) CancelOrderByPartner(ctx context.Context, partner *models.Partner, storeID, orderID uint) error {
	order, err := s.storeOrder(ctx, partner, storeID, orderID)
	if err != nil {
		return err
	}
	if order.OrderStatus != models.OrderStatusPending {
		return errs.New(errs.CanNotChangeOrderStatus)
	}
	return s.cancel(ctx, order)
}

// CancelOrderByUser cancels the caller's own pending or approved order.
func (s *OrderService) CancelOrderByUser(ctx context.Context, user *models.User, orderID uint) error {
	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != user.ID {
		return errs.New(errs.CanNotChangeOrderStatus)
	}
	return s.cancel(ctx, order)
}

func (s *OrderService) cancel(ctx context.Context, order *models.PurchaseOrder) error {
	if err := s.transition(ctx, order, models.OrderStatusCanceled); err != nil {
		return err
	}
	if err := s.geo.DeleteOrderLocation(ctx, order.ID); err != nil {
		log.Printf("failed to remove order %d from geo index: %v", order.ID, err)
	}
	s.logEvent("order_canceled", map[string]interface{}{"order_id": order.ID})
	return nil
}

// CookOrder: partner starts cooking an approved order.
func (s *OrderService) CookOrder(ctx context.Context, partner *models.Partner, storeID, orderID uint) error {
	order, err := s.storeOrder(ctx, partner, storeID, orderID)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, order, models.OrderStatusCooking); err != nil {
		return err
	}
	s.logEvent("order_cooking", map[string]interface{}{"order_id": order.ID})
	return nil
}

// CompleteOrder: partner finishes cooking.
func (s *OrderService) CompleteOrder(ctx context.Context, partner *models.Partner, storeID, orderID uint) error {
	order, err := s.storeOrder(ctx, partner, storeID, orderID)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, order, models.OrderStatusCooked); err != nil {
		return err
	}
	s.logEvent("order_cooked", map[string]interface{}{"order_id": order.ID})
	return nil
}

type ListOptions struct {
	Status *models.OrderStatus
	Query  string
	Page   int
	Limit  int
}

func (s *OrderService) GetStoreOrders(ctx context.Context, partner *models.Partner, storeID uint, opts ListOptions) ([]models.PurchaseOrder, bool, error) {
	store, err := s.stores.FindStore(ctx, storeID)
	if err != nil {
		return nil, false, err
	}
	if store.PartnerID != partner.ID {
		return nil, false, errs.New(errs.NotStoreOwner)
	}
	return s.orders.List(ctx, storage.OrderFilter{
		StoreID: &storeID,
		Status:  opts.Status,
		Query:   opts.Query,
		Page:    opts.Page,
		Limit:   opts.Limit,
	})
}

func (s *OrderService) GetUserOrders(ctx context.Context, user *models.User, opts ListOptions) ([]models.PurchaseOrder, bool, error) {
	return s.orders.List(ctx, storage.OrderFilter{
		UserID: &user.ID,
		Status: opts.Status,
		Query:  opts.Query,
		Page:   opts.Page,
		Limit:  opts.Limit,
	})
}

// GetUserOrderDetail returns the caller's order with its delivery, if any.
func (s *OrderService) GetUserOrderDetail(ctx context.Context, user *models.User, orderID uint) (*models.PurchaseOrder, *models.Delivery, error) {
	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.UserID != user.ID {
		return nil, nil, errs.New(errs.InvalidRequest)
	}
	delivery, err := s.deliveries.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, delivery, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, orderID uint) (*models.PurchaseOrder, error) {
	return s.orders.Find(ctx, orderID)
}

// storeOrder loads an order after checking the partner owns the store and
// the order belongs to it.
func (s *OrderService) storeOrder(ctx context.Context, partner *models.Partner, storeID, orderID uint) (*models.PurchaseOrder, error) {
	store, err := s.stores.FindStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.PartnerID != partner.ID {
		return nil, errs.New(errs.NotStoreOwner)
	}
	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.StoreID != store.ID {
		return nil, errs.New(errs.OrderNotFound)
	}
	return order, nil
}

func (s *OrderService) transition(ctx context.Context, order *models.PurchaseOrder, next models.OrderStatus) error {
	if !order.OrderStatus.CanTransitionTo(next) {
		return errs.New(errs.CanNotChangeOrderStatus)
	}
	return s.orders.UpdateStatus(ctx, order, next)
}

func (s *OrderService) logEvent(event string, fields map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Log(event, fields); err != nil {
		log.Printf("failed to log %s event: %v", event, err)
	}
}
