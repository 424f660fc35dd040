package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/utils"
)

// Open connects to Postgres and migrates the schema. The handle is returned
// to the caller and injected into the stores; there is no package-level
// connection.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=inkwell port=5432 sslmode=disable"
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	log.Println("Database connection established")

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Newsletter{},
	); err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	return conn, nil
}

// SeedAdmin creates the reserved admin account on first boot. The role is
// set explicitly here and nowhere else; registration can never mint it.
func SeedAdmin(conn *gorm.DB, password string) error {
	var count int64
	if err := conn.Model(&models.User{}).
		Where("username = ?", store.ReservedAdminUsername).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     store.ReservedAdminUsername,
		PasswordHash: hash,
		Picture:      store.DefaultPicture,
		Language:     store.DefaultLanguage,
		Role:         models.RoleAdmin,
	}
	if err := conn.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded admin account")
	return nil
}
