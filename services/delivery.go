package services

import (
	"context"
	"io"
	"log"

	"food-delivery/api/config"
	"food-delivery/api/errs"
	"food-delivery/api/models"
	"food-delivery/api/storage"
)

// DeliveryService owns rider claims and the delivery state machine, and is
// the write path for rider locations in the geo index.
type DeliveryService struct {
	deliveries *storage.DeliveryRepository
	orders     *storage.OrderRepository
	geo        GeoIndex
	files      ObjectStorage
	events     EventLogger

	searchRadiusKm float64
	nearbyLimit    int
}

func NewDeliveryService(
	deliveries *storage.DeliveryRepository,
	orders *storage.OrderRepository,
	geo GeoIndex,
	files ObjectStorage,
	events EventLogger,
	cfg config.DeliveryConfig,
) *DeliveryService {
	return &DeliveryService{
		deliveries:     deliveries,
		orders:         orders,
		geo:            geo,
		files:          files,
		events:         events,
		searchRadiusKm: cfg.SearchRadiusKm,
		nearbyLimit:    cfg.NearbyLimit,
	}
}

// CreateDelivery claims an order for the rider. The claim is exclusive:
// under concurrent claims the unique order constraint lets exactly one
// insert through, everyone else gets ALREADY_EXIST_DELIVERY. The winning
// claim removes the order from the geo index so it stops showing up in
// nearby queries.
func (s *DeliveryService) CreateDelivery(ctx context.Context, rider *models.Rider, orderID uint) (*models.Delivery, error) {
	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	exists, err := s.deliveries.ExistsByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.New(errs.AlreadyExistDelivery)
	}

	delivery := &models.Delivery{
		RiderID:        rider.ID,
		OrderID:        order.ID,
		DeliveryStatus: models.DeliveryStatusAssigned,
	}
	if err := s.deliveries.Create(ctx, delivery); err != nil {
		return nil, err
	}

	if err := s.geo.DeleteOrderLocation(ctx, order.ID); err != nil {
		log.Printf("failed to remove claimed order %d from geo index: %v", order.ID, err)
	}

	s.logEvent("delivery_assigned", map[string]interface{}{
		"delivery_id": delivery.ID,
		"order_id":    order.ID,
		"rider_id":    rider.ID,
	})
	return delivery, nil
}

// StartDelivery moves the rider's own delivery to delivering.
func (s *DeliveryService) StartDelivery(ctx context.Context, rider *models.Rider, deliveryID uint) error {
	delivery, err := s.ownedDelivery(ctx, rider, deliveryID)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, delivery, models.DeliveryStatusDelivering); err != nil {
		return err
	}
	s.logEvent("delivery_started", map[string]interface{}{"delivery_id": delivery.ID})
	return nil
}

// CompleteDelivery finishes a delivering delivery, optionally attaching a
// proof-of-delivery image first.
func (s *DeliveryService) CompleteDelivery(ctx context.Context, rider *models.Rider, deliveryID uint, image io.Reader, filename string) error {
	delivery, err := s.ownedDelivery(ctx, rider, deliveryID)
	if err != nil {
		return err
	}
	if !delivery.DeliveryStatus.CanTransitionTo(models.DeliveryStatusDelivered) {
		return errs.New(errs.CanNotChangeDeliveryStatus)
	}

	imageURL := ""
	if image != nil {
		imageURL, err = s.files.Upload("deliveries", filename, image)
		if err != nil {
			return err
		}
	}

	if err := s.deliveries.Complete(ctx, delivery, imageURL); err != nil {
		return err
	}
	s.logEvent("delivery_completed", map[string]interface{}{"delivery_id": delivery.ID})
	return nil
}

// CancelDelivery fails the rider's own delivery.
func (s *DeliveryService) CancelDelivery(ctx context.Context, rider *models.Rider, deliveryID uint) error {
	delivery, err := s.ownedDelivery(ctx, rider, deliveryID)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, delivery, models.DeliveryStatusFailed); err != nil {
		return err
	}
	s.logEvent("delivery_failed", map[string]interface{}{"delivery_id": delivery.ID})
	return nil
}

// UpdateRiderLocation overwrites the rider's entry in the geo index.
func (s *DeliveryService) UpdateRiderLocation(ctx context.Context, riderID uint, c models.Coordinate) error {
	return s.geo.AddOrUpdateRiderLocation(ctx, riderID, c)
}

// RemoveRiderLocation drops the rider from the geo index, e.g. when they go
// offline.
func (s *DeliveryService) RemoveRiderLocation(ctx context.Context, riderID uint) error {
	return s.geo.DeleteRiderLocation(ctx, riderID)
}

// GetOrdersNearby lists unclaimed orders around the rider's last reported
// location, closest first. The result is advisory only; a claim can still
// lose the race and fail with ALREADY_EXIST_DELIVERY.
func (s *DeliveryService) GetOrdersNearby(ctx context.Context, riderID uint) ([]models.NearbyOrder, error) {
	position, err := s.geo.RiderPosition(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return []models.NearbyOrder{}, nil
	}
	return s.geo.OrdersNearby(ctx, *position, s.searchRadiusKm, s.nearbyLimit)
}

func (s *DeliveryService) ownedDelivery(ctx context.Context, rider *models.Rider, deliveryID uint) (*models.Delivery, error) {
	delivery, err := s.deliveries.Find(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.RiderID != rider.ID {
		return nil, errs.New(errs.NotOwnerDelivery)
	}
	return delivery, nil
}

func (s *DeliveryService) transition(ctx context.Context, delivery *models.Delivery, next models.DeliveryStatus) error {
	if !delivery.DeliveryStatus.CanTransitionTo(next) {
		return errs.New(errs.CanNotChangeDeliveryStatus)
	}
	return s.deliveries.UpdateStatus(ctx, delivery, next)
}

func (s *DeliveryService) logEvent(event string, fields map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Log(event, fields); err != nil {
		log.Printf("failed to log %s event: %v", event, err)
	}
}
