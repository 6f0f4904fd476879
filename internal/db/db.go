package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/config"
	"github.com/fieldserve/marketplace-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.ServiceProvider{},
		&models.Order{},
		&models.OrderService{},
		&models.OrderBid{},
		&models.RejectedOrder{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// One live (pending or counter-offered) bid per provider per order.
	// Enforced by the database so concurrent duplicate submissions lose
	// with a unique violation instead of racing a pre-check.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_order_bids_one_active
        ON order_bids (order_id, service_provider_id)
        WHERE status IN ('pending', 'counter_offered')
    `)

	return db
}
