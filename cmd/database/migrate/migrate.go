package migration

import (
	"AgroTech-Vision/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.LocalStorageItem{}); err != nil {
		log.Errorf("Error migrating local storage database: %v", err)
		return err
	}

	log.Info("Database migration complete")
	return nil
}
