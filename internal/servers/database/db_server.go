package database

import (
	"fmt"
	"log"
	"sync"

	"realtimeChat/configs"
	"realtimeChat/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db   *gorm.DB
	once sync.Once
)

func GetDB(config *configs.Config) *gorm.DB {
	once.Do(func() {
		initialize(config)
	})
	return db
}

func initialize(config *configs.Config) {
	v := config.Viper
	dsn := fmt.Sprintf(
		"host=%v user=%v password=%v dbname=%v port=%v sslmode=%v TimeZone=%v",
		v.GetString("database.host"),
		v.GetString("database.user"),
		v.GetString("database.password"),
		v.GetString("database.name"),
		v.GetInt("database.port"),
		v.GetString("database.ssl"),
		v.GetString("database.timezone"),
	)
	var err error
	// TranslateError turns driver unique-violations into
	// gorm.ErrDuplicatedKey, which the repositories map to the
	// conflict sentinel.
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	migrate()
}

func migrate() {
	err := db.AutoMigrate(
		&models.User{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrated successfully")
}
