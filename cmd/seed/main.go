package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"veltta-hub/pkg/config"
	"veltta-hub/pkg/database"
	"veltta-hub/pkg/logger"
	"veltta-hub/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	var withContents bool
	flag.BoolVar(&withContents, "contents", true, "Insert the initial catalog items")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedAdmin(db, cfg, log); err != nil {
		log.Error("Failed to seed administrator: %v", err)
		panic(err)
	}

	if withContents {
		if err := seedContents(db, log); err != nil {
			log.Error("Failed to seed contents: %v", err)
			panic(err)
		}
	}

	log.Info("Database seeded successfully!")
}

func seedAdmin(db *gorm.DB, cfg *config.Config, log *logger.Logger) error {
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD is not set, skipping administrator")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Info("Administrator %s already exists", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.User{
		Email:    email,
		Name:     cfg.AdminName,
		Password: string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info("Created administrator %s", email)
	return nil
}

func seedContents(db *gorm.DB, log *logger.Logger) error {
	contents := models.InitialContents()
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&contents)
	if result.Error != nil {
		return result.Error
	}

	log.Info("Inserted %d of %d initial contents", result.RowsAffected, len(contents))
	return nil
}
