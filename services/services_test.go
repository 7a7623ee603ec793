package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"food-delivery/api/config"
	"food-delivery/api/models"
	"food-delivery/api/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))
	return db
}

// fakeGeo is an in-memory stand-in for the redis geo index.
type fakeGeo struct {
	orders  map[uint]models.Coordinate
	riders  map[uint]models.Coordinate
	nearby  []models.NearbyOrder
	addErr  error
	removed []uint
}

func newFakeGeo() *fakeGeo {
	return &fakeGeo{
		orders: map[uint]models.Coordinate{},
		riders: map[uint]models.Coordinate{},
	}
}

func (g *fakeGeo) AddOrUpdateOrderLocation(_ context.Context, orderID uint, c models.Coordinate) error {
	if g.addErr != nil {
		return g.addErr
	}
	g.orders[orderID] = c
	return nil
}

func (g *fakeGeo) DeleteOrderLocation(_ context.Context, orderID uint) error {
	delete(g.orders, orderID)
	g.removed = append(g.removed, orderID)
	return nil
}

func (g *fakeGeo) AddOrUpdateRiderLocation(_ context.Context, riderID uint, c models.Coordinate) error {
	g.riders[riderID] = c
	return nil
}

func (g *fakeGeo) DeleteRiderLocation(_ context.Context, riderID uint) error {
	delete(g.riders, riderID)
	return nil
}

func (g *fakeGeo) RiderPosition(_ context.Context, riderID uint) (*models.Coordinate, error) {
	c, ok := g.riders[riderID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (g *fakeGeo) OrdersNearby(_ context.Context, _ models.Coordinate, _ float64, limit int) ([]models.NearbyOrder, error) {
	if len(g.nearby) > limit {
		return g.nearby[:limit], nil
	}
	return g.nearby, nil
}

type fakeGeocoder struct {
	coord models.Coordinate
	err   error
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (models.Coordinate, error) {
	if g.err != nil {
		return models.Coordinate{}, g.err
	}
	return g.coord, nil
}

type fakeEvents struct {
	events []string
}

func (e *fakeEvents) Log(event string, _ map[string]interface{}) error {
	e.events = append(e.events, event)
	return nil
}

type fakePublisher struct {
	published []uint
}

func (p *fakePublisher) PublishNewOrder(orderID uint) error {
	p.published = append(p.published, orderID)
	return nil
}

type fakeFiles struct {
	uploads []string
}

func (f *fakeFiles) Upload(folder, filename string, _ io.Reader) (string, error) {
	url := "/uploads/" + folder + "/" + filename
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeFiles) Delete(_ string) error { return nil }

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Name: "kim", Phone: "010-1234-5678"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedRider(t *testing.T, db *gorm.DB) *models.Rider {
	t.Helper()
	rider := &models.Rider{Name: "park"}
	require.NoError(t, db.Create(rider).Error)
	return rider
}

func seedPartner(t *testing.T, db *gorm.DB) *models.Partner {
	t.Helper()
	partner := &models.Partner{Name: "lee"}
	require.NoError(t, db.Create(partner).Error)
	return partner
}

func seedStore(t *testing.T, db *gorm.DB, partnerID uint) *models.Store {
	t.Helper()
	store := &models.Store{
		PartnerID: partnerID,
		StoreName: "Gangnam Chicken",
		Latitude:  37.4979,
		Longitude: 127.0276,
		OpenTime:  "00:00",
		CloseTime: "23:59",
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func seedMenu(t *testing.T, db *gorm.DB, storeID uint, name string, price int) *models.Menu {
	t.Helper()
	menu := &models.Menu{StoreID: storeID, MenuName: name, Price: price}
	require.NoError(t, db.Create(menu).Error)
	return menu
}

func deliveryConfig() config.DeliveryConfig {
	return config.DeliveryConfig{MaxDistanceKm: 5, SearchRadiusKm: 5, NearbyLimit: 20}
}
