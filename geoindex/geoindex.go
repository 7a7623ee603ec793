package geoindex

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"

	"food-delivery/api/models"
)

const (
	orderLocationKey = "orderLocation"
	riderLocationKey = "riderLocation"
)

// Index maps order and rider ids to coordinates in two Redis GEO sets and
// answers radius queries for the rider matching path. All removals are
// idempotent: deleting an absent member is a no-op.
type Index struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Index {
	return &Index{rdb: rdb}
}

func (i *Index) AddOrUpdateOrderLocation(ctx context.Context, orderID uint, c models.Coordinate) error {
	return i.geoAdd(ctx, orderLocationKey, formatID(orderID), c)
}

func (i *Index) DeleteOrderLocation(ctx context.Context, orderID uint) error {
	return i.rdb.ZRem(ctx, orderLocationKey, formatID(orderID)).Err()
}

func (i *Index) AddOrUpdateRiderLocation(ctx context.Context, riderID uint, c models.Coordinate) error {
	return i.geoAdd(ctx, riderLocationKey, formatID(riderID), c)
}

func (i *Index) DeleteRiderLocation(ctx context.Context, riderID uint) error {
	return i.rdb.ZRem(ctx, riderLocationKey, formatID(riderID)).Err()
}

// RiderPosition returns the rider's last reported coordinate, or nil if the
// rider has never reported one.
func (i *Index) RiderPosition(ctx context.Context, riderID uint) (*models.Coordinate, error) {
	positions, err := i.rdb.GeoPos(ctx, riderLocationKey, formatID(riderID)).Result()
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 || positions[0] == nil {
		return nil, nil
	}
	return &models.Coordinate{
		Latitude:  positions[0].Latitude,
		Longitude: positions[0].Longitude,
	}, nil
}

// OrdersNearby returns open orders within radiusKm of center, closest first,
// capped at limit.
func (i *Index) OrdersNearby(ctx context.Context, center models.Coordinate, radiusKm float64, limit int) ([]models.NearbyOrder, error) {
	hits, err := i.rdb.GeoRadius(ctx, orderLocationKey, center.Longitude, center.Latitude, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Count:     limit,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	orders := make([]models.NearbyOrder, 0, len(hits))
	for _, hit := range hits {
		orderID, err := strconv.ParseUint(hit.Name, 10, 64)
		if err != nil {
			// Foreign member in the set; skip it.
			continue
		}
		orders = append(orders, models.NearbyOrder{
			OrderID:    uint(orderID),
			DistanceKm: hit.Dist,
		})
	}
	return orders, nil
}

func (i *Index) geoAdd(ctx context.Context, key, member string, c models.Coordinate) error {
	return i.rdb.GeoAdd(ctx, key, &redis.GeoLocation{
		Name:      member,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	}).Err()
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
