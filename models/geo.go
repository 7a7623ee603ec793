package models

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearbyOrder is one hit of the rider proximity query. Distance is measured
// from the rider's last reported location to the order's store, in kilometers.
type NearbyOrder struct {
	OrderID    uint    `json:"order_id"`
	DistanceKm float64 `json:"distance_km"`
}
