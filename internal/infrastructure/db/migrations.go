package db

import (
	"github.com/swarmhive/orchestrator/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Activity{},
	)
}
