package db

import (
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.CartEntry{},
		&model.Order{},
		&model.OrderItem{},
	}
}

// Migrate creates or updates the schema. When reset is true all tables are
// dropped first.
func Migrate(gormDB *gorm.DB, reset bool) error {
	if reset {
		models := Models()
		for i := len(models) - 1; i >= 0; i-- {
			if err := gormDB.Migrator().DropTable(models[i]); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
	}
	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
