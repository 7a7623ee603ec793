package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"food-delivery/api/errs"
	"food-delivery/api/models"
)

type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) FindStore(ctx context.Context, storeID uint) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.StoreNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *StoreRepository) FindMenu(ctx context.Context, menuID uint) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).First(&menu, menuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.MenuNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.UserNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindPartner(ctx context.Context, partnerID uint) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).First(&partner, partnerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.PartnerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *UserRepository) FindRider(ctx context.Context, riderID uint) (*models.Rider, error) {
	var rider models.Rider
	err := r.db.WithContext(ctx).First(&rider, riderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.RiderNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

// FindDeliveryAddress resolves an address-book entry owned by the user.
func (r *UserRepository) FindDeliveryAddress(ctx context.Context, userID, addressID uint) (*models.UserDeliveryAddress, error) {
	var address models.UserDeliveryAddress
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.New(errs.AddressNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}
