package services

import (
	"context"
	"io"

	"food-delivery/api/models"
)

// GeoIndex is the geospatial backing store for order and rider locations.
// Mutations must be idempotent; removing an absent entry is a no-op.
type GeoIndex interface {
	AddOrUpdateOrderLocation(ctx context.Context, orderID uint, c models.Coordinate) error
	DeleteOrderLocation(ctx context.Context, orderID uint) error
	AddOrUpdateRiderLocation(ctx context.Context, riderID uint, c models.Coordinate) error
	DeleteRiderLocation(ctx context.Context, riderID uint) error
	RiderPosition(ctx context.Context, riderID uint) (*models.Coordinate, error)
	OrdersNearby(ctx context.Context, center models.Coordinate, radiusKm float64, limit int) ([]models.NearbyOrder, error)
}

// Geocoder resolves a free-text address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

// EventLogger records lifecycle events on the audit stream.
type EventLogger interface {
	Log(event string, fields map[string]interface{}) error
}

// NewOrderPublisher notifies store-side consumers of a freshly created order.
type NewOrderPublisher interface {
	PublishNewOrder(orderID uint) error
}

// ObjectStorage stores uploaded files and returns an opaque URL.
type ObjectStorage interface {
	Upload(folder, filename string, r io.Reader) (string, error)
	Delete(url string) error
}
