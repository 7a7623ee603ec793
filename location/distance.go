package location

import (
	"math"

	"food-delivery/api/errs"
	"food-delivery/api/models"
)

const kmPerDegreeLat = 111.32

// CalculateDistance returns the planar (Euclidean) distance between two
// points in kilometers. Latitude/longitude deltas are projected to km with a
// cos-latitude correction; good enough for short urban distances, not a
// great-circle computation.
func CalculateDistance(a, b models.Coordinate) float64 {
	dLat := (b.Latitude - a.Latitude) * kmPerDegreeLat
	dLon := (b.Longitude - a.Longitude) * kmPerDegreeLat * math.Cos(a.Latitude*math.Pi/180)
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// ValidateDeliveryArea checks that the delivery point is within maxKm of the
// store.
func ValidateDeliveryArea(store, delivery models.Coordinate, maxKm float64) error {
	if CalculateDistance(store, delivery) > maxKm {
		return errs.New(errs.OutOfDeliveryArea)
	}
	return nil
}
