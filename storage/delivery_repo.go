package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"food-delivery/api/errs"
	"food-delivery/api/models"
)

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

// Create inserts a new claim. The unique index on order_id turns the
// check-and-insert race into a duplicate-key failure for the losing rider,
// surfaced as ALREADY_EXIST_DELIVERY.
func (r *DeliveryRepository) Create(ctx context.Context, delivery *models.Delivery) error {
	err := r.db.WithContext(ctx).Create(delivery).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.New(errs.AlreadyExistDelivery)
	}
	return err
}

func (r *DeliveryRepository) ExistsByOrder(ctx context.Context, orderID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

// FindByOrder returns the claim on an order, or (nil, nil) when unclaimed.
func (r *DeliveryRepository) FindByOrder(ctx context.Context, orderID uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&delivery).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *DeliveryRepository) Find(ctx context.Context, deliveryID uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).Preload("Order").First(&delivery, deliveryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.NotFoundDelivery)
	}
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *DeliveryRepository) UpdateStatus(ctx context.Context, delivery *models.Delivery, status models.DeliveryStatus) error {
	if err := r.db.WithContext(ctx).Model(delivery).Update("delivery_status", status).Error; err != nil {
		return err
	}
	delivery.DeliveryStatus = status
	return nil
}

func (r *DeliveryRepository) Complete(ctx context.Context, delivery *models.Delivery, imageURL string) error {
	updates := map[string]interface{}{
		"delivery_status":    models.DeliveryStatusDelivered,
		"delivery_image_url": imageURL,
	}
	if err := r.db.WithContext(ctx).Model(delivery).Updates(updates).Error; err != nil {
		return err
	}
	delivery.DeliveryStatus = models.DeliveryStatusDelivered
	delivery.DeliveryImageURL = imageURL
	return nil
}
