package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/websocket/v2"

	"food-delivery/api/models"
)

type locationUpdate struct {
	RiderID   uint    `json:"rider_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// handleRiderWebSocket streams a rider's location into the geo index. The
// rider is dropped from the index when the connection goes away so stale
// positions never feed the matching query.
func (s *Server) handleRiderWebSocket(c *websocket.Conn) {
	riderID64, err := strconv.ParseUint(c.Query("rider_id"), 10, 64)
	if err != nil {
		c.Close()
		return
	}
	riderID := uint(riderID64)
	ctx := context.Background()

	activeRiders.Inc()
	defer func() {
		activeRiders.Dec()
		if err := s.deliveries.RemoveRiderLocation(ctx, riderID); err != nil {
			log.Printf("failed to remove rider %d location: %v", riderID, err)
		}
		c.Close()
	}()

	for {
		var update locationUpdate
		if err := c.ReadJSON(&update); err != nil {
			break
		}
		if update.RiderID != riderID {
			continue
		}

		err := s.deliveries.UpdateRiderLocation(ctx, riderID, models.Coordinate{
			Latitude:  update.Latitude,
			Longitude: update.Longitude,
		})
		if err != nil {
			log.Printf("failed to update rider %d location: %v", riderID, err)
		}
	}
}
