package database

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/hostelcare/config"
	"github.com/yeremiapane/hostelcare/models"
	"github.com/yeremiapane/hostelcare/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account when the seed settings name one
// and no user with that email exists yet. It returns true when a user was
// created.
func SeedAdmin(db *gorm.DB, cfg config.SeedConfig) (bool, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up seed admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	admin := models.User{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Contact:  cfg.AdminContact,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to create seed admin: %w", err)
	}

	utils.InfoLogger.Printf("Seeded admin user: %s", admin.Email)
	return true, nil
}
