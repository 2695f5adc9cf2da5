package config

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"activity-tracker.com/activity-tracker/internal/store"
)

func NewDatabaseClient(dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	if err := db.AutoMigrate(&store.Document{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	return db
}
