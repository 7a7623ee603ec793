package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"food-delivery/api/errs"
	"food-delivery/api/models"
	"food-delivery/api/storage"
)

type orderHarness struct {
	svc    *OrderService
	carts  *CartService
	geo    *fakeGeo
	coder  *fakeGeocoder
	events *fakeEvents
	queue  *fakePublisher
}

func newOrderHarness(db *gorm.DB) *orderHarness {
	geo := newFakeGeo()
	coder := &fakeGeocoder{coord: models.Coordinate{Latitude: 37.5000, Longitude: 127.0300}}
	events := &fakeEvents{}
	queue := &fakePublisher{}
	svc := NewOrderService(
		storage.NewCartRepository(db),
		storage.NewOrderRepository(db),
		storage.NewStoreRepository(db),
		storage.NewUserRepository(db),
		storage.NewDeliveryRepository(db),
		geo, coder, events, queue,
		deliveryConfig(),
	)
	return &orderHarness{
		svc:    svc,
		carts:  NewCartService(storage.NewCartRepository(db), storage.NewStoreRepository(db)),
		geo:    geo,
		coder:  coder,
		events: events,
		queue:  queue,
	}
}

func fillCart(t *testing.T, h *orderHarness, userID uint, items ...CartItemInput) {
	t.Helper()
	_, err := h.carts.AddItems(context.Background(), userID, items)
	require.NoError(t, err)
}

func TestCreateOrderHappyPath(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	chicken := seedMenu(t, db, store.ID, "fried chicken", 5000)
	beer := seedMenu(t, db, store.ID, "beer", 3000)
	fillCart(t, h, user.ID,
		CartItemInput{MenuID: chicken.ID, Quantity: 2},
		CartItemInput{MenuID: beer.ID, Quantity: 1},
	)
	ctx := context.Background()

	order, err := h.svc.CreateOrder(ctx, user, CreateOrderInput{
		OptionalAddress: "123 Teheran-ro, Gangnam-gu",
		DeliveryRequest: "leave at the door",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, 13000, order.TotalPrice)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "OD"))
	assert.Equal(t, "123 Teheran-ro, Gangnam-gu", order.DeliveryAddress)
	assert.Equal(t, user.Phone, order.Phone)
	assert.Len(t, order.Items, 2)

	// The cart is consumed atomically with the order insert.
	_, err = h.carts.Get(ctx, user.ID)
	assert.True(t, errs.Is(err, errs.CartNotFound))

	// Registered in the geo index under the store's coordinate.
	assert.Contains(t, h.geo.orders, order.ID)
	assert.Equal(t, store.Coordinate(), h.geo.orders[order.ID])

	assert.Contains(t, h.events.events, "order_created")
	assert.Equal(t, []uint{order.ID}, h.queue.published)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)

	_, err := h.svc.CreateOrder(context.Background(), user, CreateOrderInput{OptionalAddress: "somewhere"})
	assert.True(t, errs.Is(err, errs.CartNotFound))
}

func TestCreateOrderStoreClosed(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	require.NoError(t, db.Model(store).Updates(map[string]interface{}{
		"open_time":  "09:00",
		"close_time": "18:00",
	}).Error)
	menu := seedMenu(t, db, store.ID, "brunch set", 15000)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})

	h.svc.now = func() time.Time {
		return time.Date(2024, 3, 1, 20, 30, 0, 0, time.UTC)
	}

	_, err := h.svc.CreateOrder(context.Background(), user, CreateOrderInput{OptionalAddress: "somewhere"})
	assert.True(t, errs.Is(err, errs.StoreClosed))
}

func TestCreateOrderResolvesAddressBookEntry(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	menu := seedMenu(t, db, store.ID, "lunch box", 8500)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})

	address := &models.UserDeliveryAddress{UserID: user.ID, Address: "Apt 301, Mapo-gu"}
	require.NoError(t, db.Create(address).Error)

	order, err := h.svc.CreateOrder(context.Background(), user, CreateOrderInput{
		DeliveryAddressID: &address.ID,
		OptionalPhone:     "010-9999-0000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Apt 301, Mapo-gu", order.DeliveryAddress)
	assert.Equal(t, "010-9999-0000", order.Phone)
}

func TestCreateOrderMissingAddress(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	menu := seedMenu(t, db, store.ID, "noodles", 7000)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})

	_, err := h.svc.CreateOrder(context.Background(), user, CreateOrderInput{})
	assert.True(t, errs.Is(err, errs.AddressNotFound))

	unknown := uint(999)
	_, err = h.svc.CreateOrder(context.Background(), user, CreateOrderInput{DeliveryAddressID: &unknown})
	assert.True(t, errs.Is(err, errs.AddressNotFound))
}

func TestCreateOrderGeocodeFailure(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	menu := seedMenu(t, db, store.ID, "curry", 9500)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})

	h.coder.err = errs.New(errs.NoCoordinatesFoundForAddress)
	_, err := h.svc.CreateOrder(context.Background(), user, CreateOrderInput{OptionalAddress: "gibberish"})
	assert.True(t, errs.Is(err, errs.NoCoordinatesFoundForAddress))

	// The cart survives a failed checkout.
	cart, err := h.carts.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCreateOrderOutOfDeliveryArea(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	menu := seedMenu(t, db, store.ID, "steak", 42000)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})

	// Incheon is far more than 5 km from the Gangnam store.
	h.coder.coord = models.Coordinate{Latitude: 37.4563, Longitude: 126.7052}
	_, err := h.svc.CreateOrder(context.Background(), user, CreateOrderInput{OptionalAddress: "Incheon somewhere"})
	assert.True(t, errs.Is(err, errs.OutOfDeliveryArea))
}

func TestCreateOrderGeoIndexFailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	menu := seedMenu(t, db, store.ID, "donburi", 10000)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})

	h.geo.addErr = errors.New("redis down")
	_, err := h.svc.CreateOrder(context.Background(), user, CreateOrderInput{OptionalAddress: "somewhere"})
	assert.True(t, errs.Is(err, errs.InternalServerError))

	// The order insert rolled back with the geo failure.
	var count int64
	require.NoError(t, db.Model(&models.PurchaseOrder{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, h.queue.published)

	// And the cart came through the aborted checkout intact.
	cart, err := h.carts.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, menu.ID, cart.Items[0].MenuID)
}

func TestCreateOrderRejectsCorruptCartLines(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	menu := seedMenu(t, db, store.ID, "free lunch", 5000)
	ctx := context.Background()

	// Rows written past the cart service, the way a bug or a migration could.
	cart := &models.Cart{
		UserID:  user.ID,
		StoreID: &store.ID,
		Items:   []models.CartItem{{MenuID: menu.ID, Quantity: 1, Price: 0}},
	}
	require.NoError(t, db.Create(cart).Error)

	_, err := h.svc.CreateOrder(ctx, user, CreateOrderInput{OptionalAddress: "somewhere"})
	assert.True(t, errs.Is(err, errs.InvalidPrice))

	require.NoError(t, db.Model(&models.CartItem{}).
		Where("cart_id = ?", cart.ID).
		Updates(map[string]interface{}{"quantity": 0, "price": 5000}).Error)

	_, err = h.svc.CreateOrder(ctx, user, CreateOrderInput{OptionalAddress: "somewhere"})
	assert.True(t, errs.Is(err, errs.InvalidQuantity))

	// Neither attempt left an order behind or touched the cart.
	var count int64
	require.NoError(t, db.Model(&models.PurchaseOrder{}).Count(&count).Error)
	assert.Zero(t, count)
	got, err := h.carts.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func placeOrder(t *testing.T, h *orderHarness, user *models.User) *models.PurchaseOrder {
	t.Helper()
	order, err := h.svc.CreateOrder(context.Background(), user, CreateOrderInput{OptionalAddress: "123 Teheran-ro"})
	require.NoError(t, err)
	return order
}

func TestOrderLifecycleApproveCookComplete(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	partner := seedPartner(t, db)
	store := seedStore(t, db, partner.ID)
	menu := seedMenu(t, db, store.ID, "pho", 11000)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})
	order := placeOrder(t, h, user)
	ctx := context.Background()

	require.NoError(t, h.svc.ApproveOrder(ctx, partner, store.ID, order.ID))
	require.NoError(t, h.svc.CookOrder(ctx, partner, store.ID, order.ID))
	require.NoError(t, h.svc.CompleteOrder(ctx, partner, store.ID, order.ID))

	got, err := h.svc.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCooked, got.OrderStatus)

	// cooked is terminal: nothing moves it anymore.
	err = h.svc.CancelOrderByUser(ctx, user, order.ID)
	assert.True(t, errs.Is(err, errs.CanNotChangeOrderStatus))
}

func TestRejectOrderReleasesGeoEntry(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	partner := seedPartner(t, db)
	store := seedStore(t, db, partner.ID)
	menu := seedMenu(t, db, store.ID, "salad", 8000)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})
	order := placeOrder(t, h, user)
	ctx := context.Background()

	require.NoError(t, h.svc.RejectOrder(ctx, partner, store.ID, order.ID))

	got, err := h.svc.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, got.OrderStatus)
	assert.NotContains(t, h.geo.orders, order.ID)
}

func TestPartnerCancelOnlyPending(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	partner := seedPartner(t, db)
	store := seedStore(t, db, partner.ID)
	menu := seedMenu(t, db, store.ID, "burger", 9000)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})
	order := placeOrder(t, h, user)
	ctx := context.Background()

	require.NoError(t, h.svc.ApproveOrder(ctx, partner, store.ID, order.ID))
	err := h.svc.CancelOrderByPartner(ctx, partner, store.ID, order.ID)
	assert.True(t, errs.Is(err, errs.CanNotChangeOrderStatus))
}

func TestUserCancelApprovedOrder(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	partner := seedPartner(t, db)
	store := seedStore(t, db, partner.ID)
	menu := seedMenu(t, db, store.ID, "kebab", 10000)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})
	order := placeOrder(t, h, user)
	ctx := context.Background()

	require.NoError(t, h.svc.ApproveOrder(ctx, partner, store.ID, order.ID))
	require.NoError(t, h.svc.CancelOrderByUser(ctx, user, order.ID))

	got, err := h.svc.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, got.OrderStatus)
	assert.NotContains(t, h.geo.orders, order.ID)
}

func TestUserCancelForeignOrder(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	other := seedUser(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	menu := seedMenu(t, db, store.ID, "taco", 6500)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})
	order := placeOrder(t, h, user)

	err := h.svc.CancelOrderByUser(context.Background(), other, order.ID)
	assert.True(t, errs.Is(err, errs.CanNotChangeOrderStatus))
}

func TestPartnerActionsRequireStoreOwnership(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	owner := seedPartner(t, db)
	intruder := seedPartner(t, db)
	store := seedStore(t, db, owner.ID)
	menu := seedMenu(t, db, store.ID, "dumplings", 7500)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})
	order := placeOrder(t, h, user)

	err := h.svc.ApproveOrder(context.Background(), intruder, store.ID, order.ID)
	assert.True(t, errs.Is(err, errs.NotStoreOwner))
}

func TestApproveOrderFromAnotherStore(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	partner := seedPartner(t, db)
	storeA := seedStore(t, db, partner.ID)
	storeB := seedStore(t, db, partner.ID)
	menu := seedMenu(t, db, storeA.ID, "udon", 8800)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})
	order := placeOrder(t, h, user)

	err := h.svc.ApproveOrder(context.Background(), partner, storeB.ID, order.ID)
	assert.True(t, errs.Is(err, errs.OrderNotFound))
}

func TestGetStoreOrdersFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	partner := seedPartner(t, db)
	store := seedStore(t, db, partner.ID)
	menu := seedMenu(t, db, store.ID, "set menu", 12000)
	ctx := context.Background()

	// Advance the clock per order so order numbers stay unique.
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h.svc.now = func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}

	for i := 0; i < 5; i++ {
		u := &models.User{Name: fmt.Sprintf("customer-%d", i), Phone: fmt.Sprintf("010-0000-%04d", i)}
		require.NoError(t, db.Create(u).Error)
		fillCart(t, h, u.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})
		placeOrder(t, h, u)
	}

	orders, hasNext, err := h.svc.GetStoreOrders(ctx, partner, store.ID, ListOptions{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.True(t, hasNext)

	orders, hasNext, err = h.svc.GetStoreOrders(ctx, partner, store.ID, ListOptions{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.False(t, hasNext)

	pending := models.OrderStatusPending
	orders, _, err = h.svc.GetStoreOrders(ctx, partner, store.ID, ListOptions{Status: &pending, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, orders, 5)

	orders, _, err = h.svc.GetStoreOrders(ctx, partner, store.ID, ListOptions{Query: "customer-3", Limit: 10})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	_, _, err = h.svc.GetStoreOrders(ctx, seedPartner(t, db), store.ID, ListOptions{})
	assert.True(t, errs.Is(err, errs.NotStoreOwner))
}

func TestGetUserOrderDetail(t *testing.T) {
	db := newTestDB(t)
	h := newOrderHarness(db)
	user := seedUser(t, db)
	other := seedUser(t, db)
	rider := seedRider(t, db)
	store := seedStore(t, db, seedPartner(t, db).ID)
	menu := seedMenu(t, db, store.ID, "hot pot", 25000)
	fillCart(t, h, user.ID, CartItemInput{MenuID: menu.ID, Quantity: 1})
	order := placeOrder(t, h, user)
	ctx := context.Background()

	got, delivery, err := h.svc.GetUserOrderDetail(ctx, user, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Nil(t, delivery)

	claim := &models.Delivery{RiderID: rider.ID, OrderID: order.ID, DeliveryStatus: models.DeliveryStatusAssigned}
	require.NoError(t, db.Create(claim).Error)

	_, delivery, err = h.svc.GetUserOrderDetail(ctx, user, order.ID)
	require.NoError(t, err)
	require.NotNil(t, delivery)
	assert.Equal(t, rider.ID, delivery.RiderID)

	_, _, err = h.svc.GetUserOrderDetail(ctx, other, order.ID)
	assert.True(t, errs.Is(err, errs.InvalidRequest))
}
