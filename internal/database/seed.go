package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hypersenta/backend/internal/models"
	"github.com/hypersenta/backend/pkg/crypto"
)

// SeedSuperuser creates the bootstrap superuser account when no account with
// the configured email exists yet. It is a no-op when email or password is
// empty so deployments without a bootstrap account configured skip seeding.
func SeedSuperuser(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("seed: check superuser: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("seed: hash superuser password: %w", err)
	}

	user := models.User{
		FirstName:   "System",
		LastName:    "Administrator",
		Email:       email,
		Password:    hashed,
		IsActive:    true,
		IsSuperuser: true,
	}
	user.Normalize()

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("seed: create superuser: %w", err)
	}
	return nil
}
