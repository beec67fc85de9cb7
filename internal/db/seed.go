package db

import (
	"log"

	"argot/internal/models"
	"argot/internal/utils"

	"gorm.io/gorm"
)

// SeedAdmin creates the moderator account from the environment on first
// boot. No-op when unset or when the account already exists.
func SeedAdmin(g *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := g.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
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
		Username: "admin",
		Email:    email,
		Password: hash,
		Role:     "admin",
	}
	if err := g.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded admin account %s", email)
	return nil
}
