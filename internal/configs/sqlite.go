package config

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/normalize"
)

func NewDatabaseClient(dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	if err := db.AutoMigrate(&normalize.TaskRow{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	return db
}
