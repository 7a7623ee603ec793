package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"food-delivery/api/config"
	"food-delivery/api/models"
)

func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserDeliveryAddress{},
		&models.Partner{},
		&models.Rider{},
		&models.Store{},
		&models.Menu{},
		&models.Cart{},
		&models.CartItem{},
		&models.PurchaseOrder{},
		&models.OrderItem{},
		&models.Delivery{},
	)
}
